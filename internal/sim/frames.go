package sim

import (
	"sync"
	"time"

	"github.com/san-kum/springlab/internal/dynamo"
)

// FrameSource delivers frame timestamps. Start acquires the source and Stop
// releases it; a Loop holds it only while the engine is active.
type FrameSource interface {
	Start() (<-chan time.Time, error)
	Stop()
}

// TickerSource paces frames with a time.Ticker.
type TickerSource struct {
	interval time.Duration
	ticker   *time.Ticker
}

func NewTickerSource(fps int) *TickerSource {
	if fps <= 0 {
		return &TickerSource{}
	}
	return &TickerSource{interval: time.Second / time.Duration(fps)}
}

func (s *TickerSource) Start() (<-chan time.Time, error) {
	if s.interval <= 0 {
		return nil, dynamo.ErrFrameSourceUnavailable
	}
	if s.ticker == nil {
		s.ticker = time.NewTicker(s.interval)
	}
	return s.ticker.C, nil
}

func (s *TickerSource) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

func (s *TickerSource) Interval() time.Duration { return s.interval }

// ManualSource is a frame source driven by hand, for tests and scripted runs.
type ManualSource struct {
	mu     sync.Mutex
	ch     chan time.Time
	starts int
	stops  int
	fail   bool
}

func NewManualSource() *ManualSource { return &ManualSource{} }

func (m *ManualSource) Start() (<-chan time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, dynamo.ErrFrameSourceUnavailable
	}
	if m.ch == nil {
		m.ch = make(chan time.Time)
	}
	m.starts++
	return m.ch, nil
}

func (m *ManualSource) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ch = nil
	m.stops++
}

// Fail makes subsequent Start calls return an error.
func (m *ManualSource) Fail(fail bool) {
	m.mu.Lock()
	m.fail = fail
	m.mu.Unlock()
}

// Frame delivers ts to the holder of the source. It reports false when the
// source is not acquired or nobody took the frame within a second.
func (m *ManualSource) Frame(ts time.Time) bool {
	m.mu.Lock()
	ch := m.ch
	m.mu.Unlock()
	if ch == nil {
		return false
	}
	select {
	case ch <- ts:
		return true
	case <-time.After(time.Second):
		return false
	}
}

func (m *ManualSource) Acquired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ch != nil
}

func (m *ManualSource) Counts() (starts, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts, m.stops
}

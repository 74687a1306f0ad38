package interact

import "time"

const (
	// DefaultThrottle is the minimum spacing between two velocity estimates.
	DefaultThrottle = 16 * time.Millisecond
	// DefaultSmoothing scales every estimate down to damp jitter-induced launches.
	DefaultSmoothing = 0.8
)

// Session is the transient record of an ongoing drag.
type Session struct {
	LastPosition float64
	LastTime     time.Time
}

// Handler tracks a pointer drag and estimates the velocity the mass should
// keep when it is released.
type Handler struct {
	Throttle  time.Duration
	Smoothing float64
	session   *Session
}

func NewHandler(throttle time.Duration, smoothing float64) *Handler {
	return &Handler{Throttle: throttle, Smoothing: smoothing}
}

// Begin starts a drag at pos, using ts as the motion baseline.
func (h *Handler) Begin(pos float64, ts time.Time) {
	h.session = &Session{LastPosition: pos, LastTime: ts}
}

// Move reports a new pointer position. When at least Throttle has passed
// since the last estimate it returns the smoothed velocity and true.
func (h *Handler) Move(pos float64, ts time.Time) (float64, bool) {
	if h.session == nil {
		return 0, false
	}
	elapsed := ts.Sub(h.session.LastTime)
	if elapsed <= 0 || elapsed < h.Throttle {
		return 0, false
	}

	v := h.Smoothing * (pos - h.session.LastPosition) / elapsed.Seconds()
	h.session.LastPosition = pos
	h.session.LastTime = ts
	return v, true
}

func (h *Handler) End() { h.session = nil }

func (h *Handler) Active() bool { return h.session != nil }

// Session returns a copy of the current drag record.
func (h *Handler) Session() (Session, bool) {
	if h.session == nil {
		return Session{}, false
	}
	return *h.session, true
}

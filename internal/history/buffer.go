package history

import "github.com/san-kum/springlab/internal/dynamo"

const DefaultCapacity = 500

// Buffer is a fixed-capacity ring of samples. When full, Push overwrites the
// oldest entry.
type Buffer struct {
	data []dynamo.Sample
	pos  int
	full bool
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{data: make([]dynamo.Sample, capacity)}
}

func (b *Buffer) Push(s dynamo.Sample) {
	b.data[b.pos] = s
	b.pos++
	if b.pos >= len(b.data) {
		b.pos = 0
		b.full = true
	}
}

func (b *Buffer) Len() int {
	if b.full {
		return len(b.data)
	}
	return b.pos
}

func (b *Buffer) Cap() int { return len(b.data) }

// Last returns the newest sample.
func (b *Buffer) Last() (dynamo.Sample, bool) {
	if b.Len() == 0 {
		return dynamo.Sample{}, false
	}
	i := b.pos - 1
	if i < 0 {
		i = len(b.data) - 1
	}
	return b.data[i], true
}

// Samples returns a copy of the buffer contents, oldest first.
func (b *Buffer) Samples() []dynamo.Sample {
	n := b.Len()
	out := make([]dynamo.Sample, n)
	if b.full {
		copy(out, b.data[b.pos:])
		copy(out[len(b.data)-b.pos:], b.data[:b.pos])
	} else {
		copy(out, b.data[:b.pos])
	}
	return out
}

// Positions returns the y values, oldest first.
func (b *Buffer) Positions() []float64 {
	samples := b.Samples()
	ys := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.Y
	}
	return ys
}

func (b *Buffer) Reset() {
	b.pos = 0
	b.full = false
}

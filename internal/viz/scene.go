package viz

import (
	"math"

	"github.com/san-kum/springlab/internal/dynamo"
)

// Layout maps oscillator positions to canvas sub-pixels. The wall sits on
// the left, the equilibrium at RestX, and +y points right.
type Layout struct {
	WallX     int
	RestX     int
	CenterY   int
	PerMetre  float64
	MassHalf  int
	CoilCount int
	CoilAmp   int
}

// NewLayout fits a layout to a canvas of w x h cells.
func NewLayout(w, h int) Layout {
	pw, ph := w*2, h*4
	return Layout{
		WallX:     4,
		RestX:     pw / 2,
		CenterY:   ph / 2,
		PerMetre:  float64(pw) / 6,
		MassHalf:  4,
		CoilCount: 10,
		CoilAmp:   6,
	}
}

// MassX is the sub-pixel column of the mass centre for position y.
func (l Layout) MassX(y float64) int {
	return l.RestX + int(math.Round(y*l.PerMetre))
}

// PositionAt inverts MassX.
func (l Layout) PositionAt(x int) float64 {
	return float64(x-l.RestX) / l.PerMetre
}

// Hit reports whether sub-pixel (x, y) grabs the mass at position pos. The
// vertical slack covers one terminal row.
func (l Layout) Hit(x, y int, pos float64) bool {
	mx := l.MassX(pos)
	return absInt(x-mx) <= l.MassHalf+2 && absInt(y-l.CenterY) <= l.MassHalf+4
}

// DrawSpring renders the wall, the coil and the mass at position pos.
func DrawSpring(c *Canvas, l Layout, pos float64) {
	cy := l.CenterY
	c.DrawLine(l.WallX, cy-10, l.WallX, cy+10)

	massX := l.MassX(pos)
	c.FillRect(massX, cy, l.MassHalf, l.MassHalf)

	dist := massX - l.MassHalf - l.WallX
	if dist < l.CoilCount {
		dist = l.CoilCount
	}
	step := float64(dist) / float64(l.CoilCount)
	prevX, prevY := l.WallX, cy
	for i := 1; i <= l.CoilCount; i++ {
		currX, currY := l.WallX+int(float64(i)*step), cy
		if i%2 == 0 {
			currY -= l.CoilAmp
		} else {
			currY += l.CoilAmp
		}
		c.DrawLine(prevX, prevY, currX, currY)
		prevX, prevY = currX, currY
	}
	c.DrawLine(prevX, prevY, massX-l.MassHalf, cy)

	// equilibrium tick
	for y := cy + l.MassHalf + 3; y <= cy+l.MassHalf+5; y++ {
		c.Set(l.RestX, y)
	}
}

// RenderScene draws a fresh canvas of w x h cells for the given state.
func RenderScene(x dynamo.State, w, h int) *Canvas {
	c := NewCanvas(w, h)
	DrawSpring(c, NewLayout(w, h), x.Position)
	return c
}

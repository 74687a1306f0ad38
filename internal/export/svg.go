package export

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/springlab/internal/analysis"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/viz"
)

const (
	background = "#0a0a0a"
	axisColour = "#333333"
)

// CanvasToSVG draws every set sub-pixel of the canvas as a dot, scale units
// apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.Pixels()
	width, height := float64(pw)*scale, float64(ph)*scale

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.On(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, scale*0.4)
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// HistoryToSVG plots position over time with the equilibrium line.
func HistoryToSVG(samples []dynamo.Sample, width, height int, stroke string) string {
	pts := make([]analysis.Point, len(samples))
	for i, s := range samples {
		pts[i] = analysis.Point{X: s.T, Y: s.Y}
	}
	return plot(pts, width, height, stroke)
}

// PhaseToSVG plots a phase portrait, velocity against position.
func PhaseToSVG(portrait *analysis.PhasePortrait, width, height int, stroke string) string {
	if portrait == nil {
		return ""
	}
	return plot(portrait.Points, width, height, stroke)
}

type frame struct {
	minX, minY     float64
	rangeX, rangeY float64
	w, h           float64
}

// newFrame fits the points with a 10% margin on each side.
func newFrame(pts []analysis.Point, width, height int) frame {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)

	rx, ry := maxX-minX, maxY-minY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	return frame{
		minX:   minX - rx*0.1,
		minY:   minY - ry*0.1,
		rangeX: rx * 1.2,
		rangeY: ry * 1.2,
		w:      float64(width),
		h:      float64(height),
	}
}

func (f frame) project(p analysis.Point) (float64, float64) {
	return (p.X - f.minX) / f.rangeX * f.w, f.h - (p.Y-f.minY)/f.rangeY*f.h
}

func plot(pts []analysis.Point, width, height int, stroke string) string {
	if len(pts) < 2 || width <= 0 || height <= 0 {
		return ""
	}
	f := newFrame(pts, width, height)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	if f.minY <= 0 && f.minY+f.rangeY >= 0 {
		_, y0 := f.project(analysis.Point{})
		fmt.Fprintf(&sb, "<line x1=\"0\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\" stroke=\"%s\"/>\n",
			y0, width, y0, axisColour)
	}

	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", stroke)
	for i, p := range pts {
		x, y := f.project(p)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}

func header(sb *strings.Builder, w, h float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background)
}

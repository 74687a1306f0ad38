package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/pkg/errors"
)

const (
	cellW = 8
	cellH = 16
)

// Recorder collects canvas frames into an animated GIF.
type Recorder struct {
	frames []*image.Paletted
	delay  int
}

// NewRecorder records frames shown for delay hundredths of a second each.
func NewRecorder(delay int) *Recorder {
	if delay <= 0 {
		delay = 3
	}
	return &Recorder{delay: delay}
}

// Capture rasterises the canvas, one block per braille dot.
func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), color.Palette{color.Black, color.White})
	dotW, dotH := cellW/2, cellH/4
	pw, ph := c.Pixels()
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !c.On(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recorder) Len() int { return len(r.frames) }

// Save writes the recording to path and clears it.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create gif")
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return errors.Wrap(err, "encode gif")
	}
	r.frames = nil
	return nil
}

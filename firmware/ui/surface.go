package ui

import (
	"errors"
	"image/color"

	"dhtpanel/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	errNoFramebuffer     = errors.New("no framebuffer")
	errUnsupportedFormat = errors.New("unsupported pixel format")
)

// textAscent moves a line-box top down to the face's baseline.
const textAscent = 9

var on = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// FramebufferSurface draws on a monochrome hal.Framebuffer. It is also a
// drivers.Displayer so tinyfont can render into it.
type FramebufferSurface struct {
	fb   hal.Framebuffer
	font tinyfont.Fonter
}

var _ drivers.Displayer = (*FramebufferSurface)(nil)
var _ Surface = (*FramebufferSurface)(nil)

func NewFramebufferSurface(fb hal.Framebuffer) *FramebufferSurface {
	return &FramebufferSurface{fb: fb, font: &proggy.TinySZ8pt7b}
}

func (s *FramebufferSurface) Size() (x, y int16) {
	if s.fb == nil {
		return 0, 0
	}
	return int16(s.fb.Width()), int16(s.fb.Height())
}

func (s *FramebufferSurface) SetPixel(x, y int16, c color.RGBA) {
	hal.SetPixelMono(s.fb, int(x), int(y), hal.LumaOn(c.R, c.G, c.B))
}

// Display presents the frame.
func (s *FramebufferSurface) Display() error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.fb.Present()
}

func (s *FramebufferSurface) FillRectangle(x, y, w, h int16, c color.RGBA) error {
	if err := s.ready(); err != nil {
		return err
	}
	lit := hal.LumaOn(c.R, c.G, c.B)
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			hal.SetPixelMono(s.fb, int(xx), int(yy), lit)
		}
	}
	return nil
}

func (s *FramebufferSurface) Clear() error {
	if err := s.ready(); err != nil {
		return err
	}
	s.fb.Clear(false)
	return nil
}

func (s *FramebufferSurface) StrokeRect(x, y, w, h, stroke int16) error {
	if stroke <= 0 || w <= 0 || h <= 0 {
		return s.ready()
	}
	stroke = min(stroke, w, h)
	bands := [4][4]int16{
		{x, y, w, stroke},
		{x, y + h - stroke, w, stroke},
		{x, y, stroke, h},
		{x + w - stroke, y, stroke, h},
	}
	for _, b := range bands {
		if err := s.FillRectangle(b[0], b[1], b[2], b[3], on); err != nil {
			return err
		}
	}
	return nil
}

func (s *FramebufferSurface) FillRect(x, y, w, h int16) error {
	return s.FillRectangle(x, y, w, h, on)
}

// DrawText writes str with its line box starting at (x, y). Bold is a
// second pass one pixel to the right.
func (s *FramebufferSurface) DrawText(x, y int16, style Style, str string) error {
	if err := s.ready(); err != nil {
		return err
	}
	tinyfont.WriteLine(s, s.font, x, y+textAscent, str, on)
	if style == Bold {
		tinyfont.WriteLine(s, s.font, x+1, y+textAscent, str, on)
	}
	return nil
}

func (s *FramebufferSurface) Flush() error {
	return s.Display()
}

func (s *FramebufferSurface) ready() error {
	if s.fb == nil || s.fb.Buffer() == nil {
		return errNoFramebuffer
	}
	if s.fb.Format() != hal.PixelFormatMono1 {
		return errUnsupportedFormat
	}
	return nil
}

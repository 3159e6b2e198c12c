package ui_test

import (
	"image/color"
	"testing"

	"dhtpanel/firmware/sensor"
	"dhtpanel/firmware/state"
	"dhtpanel/firmware/ui"
	"dhtpanel/hal"
)

type testFramebuffer struct {
	w, h     int
	buf      []byte
	presents int
	format   hal.PixelFormat
}

func newTestFramebuffer(w, h int) *testFramebuffer {
	return &testFramebuffer{w: w, h: h, buf: make([]byte, (w+7)/8*h), format: hal.PixelFormatMono1}
}

func (f *testFramebuffer) Width() int              { return f.w }
func (f *testFramebuffer) Height() int             { return f.h }
func (f *testFramebuffer) Format() hal.PixelFormat { return f.format }
func (f *testFramebuffer) StrideBytes() int        { return (f.w + 7) / 8 }
func (f *testFramebuffer) Buffer() []byte          { return f.buf }
func (f *testFramebuffer) Present() error          { f.presents++; return nil }
func (f *testFramebuffer) Clear(on bool) {
	var v byte
	if on {
		v = 0xFF
	}
	for i := range f.buf {
		f.buf[i] = v
	}
}

func (f *testFramebuffer) lit(x0, y0, x1, y1 int) int {
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if hal.PixelMono(f, x, y) {
				n++
			}
		}
	}
	return n
}

func TestSurfaceBorderAndRule(t *testing.T) {
	fb := newTestFramebuffer(128, 64)
	fb.Clear(true)
	s := ui.NewFramebufferSurface(fb)

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n := fb.lit(0, 0, 128, 64); n != 0 {
		t.Fatalf("expected blank panel after Clear, got %d lit pixels", n)
	}

	if err := s.StrokeRect(0, 0, 128, 64, 2); err != nil {
		t.Fatalf("StrokeRect: %v", err)
	}
	for _, p := range [][2]int{{0, 0}, {1, 1}, {127, 63}, {126, 62}, {64, 0}, {0, 32}, {127, 32}, {64, 63}} {
		if !hal.PixelMono(fb, p[0], p[1]) {
			t.Fatalf("border pixel %v not lit", p)
		}
	}
	if hal.PixelMono(fb, 2, 2) || hal.PixelMono(fb, 125, 61) {
		t.Fatalf("border is wider than its stroke")
	}
	if n := fb.lit(2, 2, 126, 62); n != 0 {
		t.Fatalf("border leaked %d pixels inside", n)
	}

	if err := s.FillRect(5, 16, 118, 1); err != nil {
		t.Fatalf("FillRect: %v", err)
	}
	if n := fb.lit(0, 16, 128, 17); n != 118+4 {
		t.Fatalf("rule row lit %d pixels, want %d", n, 118+4)
	}
	if fb.presents != 0 {
		t.Fatalf("drawing must not present")
	}
}

func TestSurfaceText(t *testing.T) {
	fb := newTestFramebuffer(128, 64)
	s := ui.NewFramebufferSurface(fb)

	if err := s.DrawText(8, 22, ui.Regular, "Ana"); err != nil {
		t.Fatalf("DrawText: %v", err)
	}
	regular := fb.lit(0, 0, 128, 64)
	if regular == 0 {
		t.Fatalf("text drew nothing")
	}
	if n := fb.lit(0, 0, 128, 14); n != 0 {
		t.Fatalf("text drew %d pixels well above its line box", n)
	}

	fb.Clear(false)
	if err := s.DrawText(8, 22, ui.Bold, "Ana"); err != nil {
		t.Fatalf("DrawText bold: %v", err)
	}
	if bold := fb.lit(0, 0, 128, 64); bold <= regular {
		t.Fatalf("bold lit %d pixels, regular %d", bold, regular)
	}
}

func TestSurfaceSetPixelThreshold(t *testing.T) {
	fb := newTestFramebuffer(16, 8)
	s := ui.NewFramebufferSurface(fb)

	s.SetPixel(3, 3, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	s.SetPixel(4, 3, color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF})
	s.SetPixel(-1, 3, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	s.SetPixel(3, 100, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})

	if !hal.PixelMono(fb, 3, 3) || hal.PixelMono(fb, 4, 3) {
		t.Fatalf("unexpected pixel state")
	}
	if w, h := s.Size(); w != 16 || h != 8 {
		t.Fatalf("Size() = %d,%d", w, h)
	}
}

func TestSurfaceRejectsUnusableFramebuffer(t *testing.T) {
	fb := newTestFramebuffer(8, 8)
	fb.format = hal.PixelFormat(9)
	if err := ui.NewFramebufferSurface(fb).Clear(); err == nil {
		t.Fatalf("expected error for unsupported format")
	}

	empty := &testFramebuffer{w: 8, h: 8, format: hal.PixelFormatMono1}
	if err := ui.NewFramebufferSurface(empty).FillRect(0, 0, 1, 1); err == nil {
		t.Fatalf("expected error for missing buffer")
	}
}

func TestRenderPresentsOnce(t *testing.T) {
	fb := newTestFramebuffer(128, 64)
	r := ui.NewRenderer(ui.NewFramebufferSurface(fb))

	if err := r.RenderSensor(sensor.Sample{TemperatureC: 23, HumidityPct: 40}); err != nil {
		t.Fatalf("RenderSensor: %v", err)
	}
	if fb.presents != 1 {
		t.Fatalf("presents = %d, want 1", fb.presents)
	}
	sensorFrame := append([]byte(nil), fb.buf...)

	if err := r.RenderRequests(state.Counters{Count: 1, LastParameter: "Ana"}); err != nil {
		t.Fatalf("RenderRequests: %v", err)
	}
	if fb.presents != 2 {
		t.Fatalf("presents = %d, want 2", fb.presents)
	}
	if string(sensorFrame) == string(fb.buf) {
		t.Fatalf("request frame identical to sensor frame")
	}
}

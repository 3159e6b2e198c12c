package ui

import (
	"fmt"

	"dhtpanel/firmware/sensor"
	"dhtpanel/firmware/state"
)

// Surface is the drawing capability a Renderer needs. Nothing drawn is
// visible until Flush.
type Surface interface {
	Clear() error
	StrokeRect(x, y, w, h, stroke int16) error
	FillRect(x, y, w, h int16) error
	DrawText(x, y int16, style Style, s string) error
	Flush() error
}

// RenderError reports the drawing step that failed.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("ui: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer draws whole frames on a Surface.
type Renderer struct {
	s Surface
}

func NewRenderer(s Surface) *Renderer {
	return &Renderer{s: s}
}

// Render draws l in order and flushes. It stops at the first failing step;
// the panel then keeps showing the previous frame.
func (r *Renderer) Render(l Layout) error {
	if r.s == nil {
		return &RenderError{Op: "surface", Err: errNoFramebuffer}
	}
	for _, p := range l {
		if err := p.draw(r.s); err != nil {
			return &RenderError{Op: p.op(), Err: err}
		}
	}
	if err := r.s.Flush(); err != nil {
		return &RenderError{Op: "flush", Err: err}
	}
	return nil
}

// RenderSensor draws SensorLayout(s).
func (r *Renderer) RenderSensor(s sensor.Sample) error {
	return r.Render(SensorLayout(s))
}

// RenderRequests draws RequestLayout(c).
func (r *Renderer) RenderRequests(c state.Counters) error {
	return r.Render(RequestLayout(c))
}

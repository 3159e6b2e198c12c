// Package scheduler runs the display loop: it shows sensor readings until a
// request arrives, then shows the request statistics for one dwell period
// and returns to the sensor.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"dhtpanel/firmware/clock"
	"dhtpanel/firmware/sensor"
	"dhtpanel/firmware/state"
	"dhtpanel/firmware/telemetry"
	"dhtpanel/hal"
)

// Config holds the loop timings.
type Config struct {
	// TickInterval is the pause between two loop iterations.
	TickInterval time.Duration
	// DwellDuration is how long request statistics stay on screen after the
	// last request.
	DwellDuration time.Duration
}

func DefaultConfig() Config {
	return Config{TickInterval: 100 * time.Millisecond, DwellDuration: 10 * time.Second}
}

// SampleReader produces one sensor sample per call, retrying internally.
type SampleReader interface {
	ReadWithRetry(ctx context.Context) (sensor.Sample, error)
}

// FrameRenderer draws the two full-frame layouts.
type FrameRenderer interface {
	RenderSensor(s sensor.Sample) error
	RenderRequests(c state.Counters) error
}

// Deps are the collaborators of a Loop. Clock, Log and Recorder are
// optional.
type Deps struct {
	Store    *state.Store
	Sensor   SampleReader
	Renderer FrameRenderer
	Clock    clock.Clock
	Log      hal.Logger
	Recorder telemetry.Recorder
}

// Loop is the display state machine. It is driven by a single goroutine.
type Loop struct {
	cfg    Config
	store  *state.Store
	sensor SampleReader
	render FrameRenderer
	clk    clock.Clock
	log    hal.Logger
	rec    telemetry.Recorder

	shown state.Mode
	known bool
}

func New(cfg Config, d Deps) *Loop {
	if d.Clock == nil {
		d.Clock = clock.Real
	}
	return &Loop{
		cfg:    cfg,
		store:  d.Store,
		sensor: d.Sensor,
		render: d.Renderer,
		clk:    d.Clock,
		log:    d.Log,
		rec:    telemetry.OrNop(d.Recorder),
	}
}

// Run ticks until ctx ends and returns ctx's error. Failures inside a tick
// are logged and never stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	l.logf("started (tick %v, dwell %v)", l.cfg.TickInterval, l.cfg.DwellDuration)
	for {
		if err := l.Tick(ctx); err != nil {
			return err
		}
		if err := clock.Sleep(ctx, l.clk, l.cfg.TickInterval); err != nil {
			return err
		}
	}
}

// Tick runs one iteration. In SensorView it samples and renders the sensor;
// in RequestView it renders the statistics and holds them until a full
// dwell passes without another request. The only error returned is ctx's.
func (l *Loop) Tick(ctx context.Context) error {
	mode := l.store.ReadMode()
	l.noteMode(mode)
	if mode == state.RequestView {
		return l.dwell(ctx)
	}

	s, err := l.sensor.ReadWithRetry(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.logf("no sample this tick: %v", err)
		return nil
	}
	// A request that arrived during the read takes the panel.
	if l.store.ReadMode() != state.SensorView {
		return nil
	}
	l.rendered(mode, l.render.RenderSensor(s))
	return nil
}

func (l *Loop) dwell(ctx context.Context) error {
	for {
		// Drop signals for requests the frame below will already include.
		select {
		case <-l.store.Changed():
		default:
		}
		c := l.store.ReadCounters()
		l.rendered(state.RequestView, l.render.RenderRequests(c))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.store.Changed():
			if l.store.ReadMode() != state.RequestView {
				return nil
			}
		case <-l.clk.After(l.cfg.DwellDuration):
			if l.store.ExpireRequestView(c.Count) {
				l.noteMode(state.SensorView)
				return nil
			}
		}
	}
}

func (l *Loop) rendered(mode state.Mode, err error) {
	l.rec.Rendered(mode.String(), err)
	if err != nil {
		l.logf("render %s: %v", mode, err)
	}
}

func (l *Loop) noteMode(m state.Mode) {
	if l.known && l.shown == m {
		return
	}
	l.shown, l.known = m, true
	l.rec.ModeChanged(m.String())
	l.logf("mode %s", m)
}

func (l *Loop) logf(format string, args ...any) {
	if l.log == nil {
		return
	}
	l.log.WriteLineString("scheduler: " + fmt.Sprintf(format, args...))
}

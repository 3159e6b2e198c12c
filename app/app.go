// Package app brings the controller up: it draws the first frame, joins the
// network, serves the request counter over HTTP and runs the display loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dhtpanel/firmware/clock"
	"dhtpanel/firmware/routes"
	"dhtpanel/firmware/scheduler"
	"dhtpanel/firmware/sensor"
	"dhtpanel/firmware/state"
	"dhtpanel/firmware/telemetry"
	"dhtpanel/firmware/ui"
	"dhtpanel/hal"
	"dhtpanel/internal/buildinfo"
)

// Config wires the controller.
type Config struct {
	Scheduler scheduler.Config
	Sensor    sensor.Policy
	// SensorPin names the GPIO carrying the DHT11 data line.
	SensorPin string

	// HTTPAddr is the listen address of the request counter.
	HTTPAddr string
	// Routes mounts extra handlers next to GET /.
	Routes func(mux *http.ServeMux)

	Recorder telemetry.Recorder
	Clock    clock.Clock
}

// DefaultConfig returns the board defaults.
func DefaultConfig() Config {
	return Config{
		Scheduler: scheduler.DefaultConfig(),
		Sensor:    sensor.DefaultPolicy(),
		SensorPin: "GPIO16",
		HTTPAddr:  defaultHTTPAddr,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Scheduler.TickInterval <= 0:
		return errors.New("app: tick interval must be positive")
	case c.Scheduler.DwellDuration <= 0:
		return errors.New("app: dwell duration must be positive")
	case c.Sensor.MaxAttempts == 0:
		return errors.New("app: sensor attempts must be at least 1")
	case c.Sensor.RetryDelay < 0:
		return errors.New("app: sensor retry delay must not be negative")
	case c.HTTPAddr == "":
		return errors.New("app: empty HTTP address")
	}
	return nil
}

// FatalInitError is a bring-up failure the controller cannot run without.
type FatalInitError struct {
	Stage string
	Err   error
}

func (e *FatalInitError) Error() string {
	return fmt.Sprintf("app: %s: %v", e.Stage, e.Err)
}

func (e *FatalInitError) Unwrap() error { return e.Err }

var errNoDisplay = errors.New("no display")

const shutdownTimeout = 2 * time.Second

// Run brings the controller up on h and blocks until ctx ends, returning nil.
// A bring-up failure is logged, shown on the panel and returned as a
// *FatalInitError; the status LED is left off.
func Run(ctx context.Context, h hal.HAL, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := h.Logger()
	rec := telemetry.OrNop(cfg.Recorder)
	logf(log, "app: dhtpanel %s", buildinfo.String())

	if led := h.LED(); led != nil {
		led.Low()
	}

	fb := framebuffer(h)
	if fb == nil {
		return fatal(h, "display", errNoDisplay)
	}
	bootScreen(h, "starting "+buildinfo.Short())

	store := state.New()
	renderer := ui.NewRenderer(ui.NewFramebufferSurface(fb))
	if err := renderer.RenderRequests(store.ReadCounters()); err != nil {
		return fatal(h, "display", err)
	}

	nw := h.Network()
	if nw == nil {
		return fatal(h, "network", hal.ErrNotImplemented)
	}
	if err := nw.Join(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fatal(h, "network", err)
	}
	if led := h.LED(); led != nil {
		led.High()
	}
	logf(log, "app: network joined")

	ln, err := nw.Listen(cfg.HTTPAddr)
	if err != nil {
		return fatal(h, "listen", err)
	}

	mux := http.NewServeMux()
	routes.New(store, log, rec).Register(mux)
	if cfg.Routes != nil {
		cfg.Routes(mux)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()
	logf(log, "app: http listening on %s", ln.Addr())

	checkSensorPin(h, cfg.SensorPin)
	reader := sensor.NewReader(h.Sensor(), cfg.Sensor, cfg.Clock, log).WithRecorder(rec)
	loop := scheduler.New(cfg.Scheduler, scheduler.Deps{
		Store:    store,
		Sensor:   reader,
		Renderer: renderer,
		Clock:    cfg.Clock,
		Log:      log,
		Recorder: rec,
	})

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(loopCtx) }()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("app: http server: %w", err)
			logf(log, "%v", runErr)
		}
	}

	stopLoop()
	<-loopDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logf(log, "app: http shutdown: %v", err)
	}
	logf(log, "app: stopped")
	return runErr
}

func fatal(h hal.HAL, stage string, err error) error {
	ferr := &FatalInitError{Stage: stage, Err: err}
	logf(h.Logger(), "%v", ferr)
	fatalScreen(h, ferr)
	if led := h.LED(); led != nil {
		led.Low()
	}
	return ferr
}

// checkSensorPin logs the level of the DHT data line. The line idles high;
// a low or missing pin usually means a wiring fault.
func checkSensorPin(h hal.HAL, name string) {
	if name == "" {
		return
	}
	pin := hal.FindPin(h.GPIO(), name)
	if pin == nil {
		logf(h.Logger(), "app: sensor pin %s not found", name)
		return
	}
	level, err := pin.Read()
	switch {
	case err != nil:
		logf(h.Logger(), "app: sensor pin %s: %v", name, err)
	case !level:
		logf(h.Logger(), "app: sensor pin %s is low, check the pull-up", name)
	default:
		logf(h.Logger(), "app: sensor on %s", name)
	}
}

func framebuffer(h hal.HAL) hal.Framebuffer {
	disp := h.Display()
	if disp == nil {
		return nil
	}
	fb := disp.Framebuffer()
	if fb == nil || fb.Buffer() == nil {
		return nil
	}
	return fb
}

func logf(l hal.Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf(format, args...))
}

//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"dhtpanel/app"
	"dhtpanel/firmware/telemetry"
	"dhtpanel/hal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := app.DefaultConfig()
	host := hal.DefaultHostConfig()
	var (
		headless bool
		duration time.Duration
		scale    int
		metrics  bool
	)
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.DurationVar(&duration, "duration", 0, "Stop after this long (0 = run until interrupted).")
	flag.IntVar(&scale, "scale", 4, "Window pixels per panel pixel.")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "Listen address of the request counter.")
	flag.BoolVar(&metrics, "metrics", true, "Serve Prometheus metrics on /metrics.")
	flag.DurationVar(&cfg.Scheduler.TickInterval, "tick", cfg.Scheduler.TickInterval, "Display loop tick interval.")
	flag.DurationVar(&cfg.Scheduler.DwellDuration, "dwell", cfg.Scheduler.DwellDuration, "How long request statistics stay on screen.")
	flag.UintVar(&cfg.Sensor.MaxAttempts, "sensor-attempts", cfg.Sensor.MaxAttempts, "Sensor reads per sample.")
	flag.DurationVar(&cfg.Sensor.RetryDelay, "sensor-retry", cfg.Sensor.RetryDelay, "Delay between sensor reads.")
	flag.BoolVar(&host.SensorFaults, "sensor-faults", false, "Periodically fail simulated sensor reads.")
	flag.Parse()
	cfg.SensorPin = host.SensorPin

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		cfg.Recorder = telemetry.NewPrometheus(reg)
		cfg.Routes = func(mux *http.ServeMux) {
			mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		}
	}

	run := func(ctx context.Context, h hal.HAL) error {
		if duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, duration)
			defer cancel()
		}
		return app.Run(ctx, h, cfg)
	}

	var err error
	if headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, run, hal.HeadlessConfig{Enabled: true, Host: host})
	} else {
		err = hal.RunWindow(run, hal.WindowConfig{Host: host, Scale: scale})
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

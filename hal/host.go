//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// HostConfig shapes the simulated board used by host builds.
type HostConfig struct {
	PanelWidth  int
	PanelHeight int

	// SensorPin names the virtual GPIO carrying the DHT11 data line.
	SensorPin string
	// SensorMinInterval is the shortest gap between two good samples.
	SensorMinInterval time.Duration

	// SensorFaults adds a FAULT signal pin; reads fail while it is high.
	SensorFaults bool
	FaultPeriod  time.Duration
	FaultHigh    time.Duration

	// Now overrides the clock used by the simulated devices.
	Now func() time.Time
}

// DefaultHostConfig mirrors the reference board: 128x64 panel, DHT11 on GPIO16.
func DefaultHostConfig() HostConfig {
	return HostConfig{
		PanelWidth:        128,
		PanelHeight:       64,
		SensorPin:         "GPIO16",
		SensorMinInterval: time.Second,
		FaultPeriod:       30 * time.Second,
		FaultHigh:         8 * time.Second,
	}
}

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   GPIO
	fb     *hostFramebuffer
	sensor *hostSensor
	net    *hostNetwork
}

// New returns a host HAL implementation with the default board.
func New() HAL {
	return NewHost(DefaultHostConfig())
}

// NewHost returns a host HAL implementation built from cfg.
func NewHost(cfg HostConfig) HAL {
	def := DefaultHostConfig()
	if cfg.PanelWidth <= 0 || cfg.PanelHeight <= 0 {
		cfg.PanelWidth, cfg.PanelHeight = def.PanelWidth, def.PanelHeight
	}
	if cfg.SensorPin == "" {
		cfg.SensorPin = def.SensorPin
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	logger := &hostLogger{w: os.Stdout}
	led := &hostLED{logger: logger}

	data := newVirtualPin(cfg.SensorPin, GPIOCapInput|GPIOCapOutput|GPIOCapPullUp|GPIOCapPullDown)
	if err := data.Configure(GPIOModeInput, GPIOPullUp); err != nil {
		logger.WriteLineString(err.Error())
	}
	pins := []GPIOPin{newLEDPin("LED", led), data}

	var fault GPIOPin
	if cfg.SensorFaults {
		fault = newSignalPin("FAULT", cfg.FaultPeriod, cfg.FaultHigh, cfg.Now)
		if err := fault.Configure(GPIOModeInput, GPIOPullNone); err != nil {
			logger.WriteLineString(err.Error())
		}
		pins = append(pins, fault)
	}

	return &hostHAL{
		logger: logger,
		led:    led,
		gpio:   newPinTable(pins...),
		fb:     newHostFramebuffer(cfg.PanelWidth, cfg.PanelHeight),
		sensor: newHostSensor(data, fault, cfg.SensorMinInterval, cfg.Now),
		net:    &hostNetwork{logger: logger},
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Sensor() Sensor   { return h.sensor }
func (h *hostHAL) Network() Network { return h.net }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString("led: LOW")
}

// hostNetwork is the machine's own network stack; there is nothing to join.
type hostNetwork struct {
	logger *hostLogger
}

func (n *hostNetwork) Join(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.WriteLineString("net: using host network")
	return nil
}

func (n *hostNetwork) Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

package hal

import (
	"context"
	"errors"
	"net"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrSensorNotReady is returned by a sensor read issued before the
	// device's minimum re-sample interval has passed.
	ErrSensorNotReady = errors.New("sensor not ready")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatMono1 is 1bpp, rows of StrideBytes, MSB = leftmost pixel.
	PixelFormatMono1 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	Clear(on bool)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Sensor is a single-shot humidity/temperature reader.
//
// Each call samples the device once; implementations never return a cached
// value from an earlier call.
type Sensor interface {
	Read() (temperature, humidity float32, err error)
}

// Network joins the wireless network and hands out listeners.
type Network interface {
	Join(ctx context.Context) error
	Listen(addr string) (net.Listener, error)
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	GPIO() GPIO
	Display() Display
	Sensor() Sensor
	Network() Network
}

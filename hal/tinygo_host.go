//go:build tinygo && !baremetal

package hal

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
)

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	led    *tinyGoHostLED
	fb     *tinyGoHostFramebuffer
	net    Network
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU
// pin mapping. There is no sensor; set DHTPANEL_LISTEN=1 to serve HTTP.
func New() HAL {
	l := &tinyGoHostLogger{}
	var nw Network = nullNetwork{}
	if os.Getenv("DHTPANEL_LISTEN") != "" {
		nw = tinyGoHostNetwork{logger: l}
	}
	return &tinyGoHostHAL{
		logger: l,
		led:    &tinyGoHostLED{logger: l},
		fb:     newTinyGoHostFramebuffer(128, 64),
		net:    nw,
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) LED() LED         { return h.led }
func (h *tinyGoHostHAL) GPIO() GPIO       { return newPinTable(newLEDPin("LED", h.led)) }
func (h *tinyGoHostHAL) Display() Display { return tinyGoHostDisplay{fb: h.fb} }
func (h *tinyGoHostHAL) Sensor() Sensor   { return nullSensor{} }
func (h *tinyGoHostHAL) Network() Network { return h.net }

type tinyGoHostDisplay struct {
	fb Framebuffer
}

func (d tinyGoHostDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLED struct {
	on     bool
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLED) High() {
	l.on = true
	l.logger.WriteLineString(fmt.Sprintf("led: HIGH (tinygo/%s)", runtime.GOOS))
}

func (l *tinyGoHostLED) Low() {
	l.on = false
	l.logger.WriteLineString(fmt.Sprintf("led: LOW (tinygo/%s)", runtime.GOOS))
}

type tinyGoHostNetwork struct {
	logger *tinyGoHostLogger
}

func (n tinyGoHostNetwork) Join(ctx context.Context) error {
	n.logger.WriteLineString("net: using host network (tinygo/" + runtime.GOOS + ")")
	return ctx.Err()
}

func (n tinyGoHostNetwork) Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

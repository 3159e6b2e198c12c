// Package telemetry receives events from the request handler and the display
// loop. Firmware builds use Nop; host builds export them to Prometheus.
package telemetry

// Recorder observes firmware events. Implementations must be safe for
// concurrent use and must not block.
type Recorder interface {
	// RequestServed is called once per handled request.
	RequestServed(count uint32, hasParameter bool)
	// TransportFailed is called when writing a response failed.
	TransportFailed()
	// SensorRead is called after each retry sequence; err is nil on success.
	SensorRead(attempts uint, err error)
	// Rendered is called after each frame; err is nil on success.
	Rendered(view string, err error)
	// ModeChanged is called when the display loop switches layout.
	ModeChanged(view string)
}

// Nop discards every event.
type Nop struct{}

func (Nop) RequestServed(uint32, bool) {}
func (Nop) TransportFailed()           {}
func (Nop) SensorRead(uint, error)     {}
func (Nop) Rendered(string, error)     {}
func (Nop) ModeChanged(string)         {}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

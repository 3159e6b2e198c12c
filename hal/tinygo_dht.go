//go:build tinygo && baremetal

package hal

import (
	"machine"

	"tinygo.org/x/drivers/dht"
)

// dhtSensor issues one DHT11 transaction per Read. The driver's dummy device
// has no update policy, so nothing is cached between calls.
type dhtSensor struct {
	dev dht.DummyDevice
}

func newDHTSensor(pin machine.Pin) *dhtSensor {
	return &dhtSensor{dev: dht.NewDummyDevice(pin, dht.DHT11)}
}

func (s *dhtSensor) Read() (temperature, humidity float32, err error) {
	if err := s.dev.ReadMeasurements(); err != nil {
		return 0, 0, err
	}
	t, h, err := s.dev.Measurements()
	if err != nil {
		return 0, 0, err
	}
	// The driver reports tenths of a degree and tenths of a percent.
	return float32(t) / 10, float32(h) / 10, nil
}

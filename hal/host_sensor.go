//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

var errSensorChecksum = errors.New("sensor: checksum mismatch")

// hostSensor simulates a DHT11 on a virtual data pin. Readings drift slowly
// around room conditions at the DHT11's 1 degree / 1 percent resolution.
type hostSensor struct {
	mu    sync.Mutex
	data  GPIOPin
	fault GPIOPin

	now         func() time.Time
	t0          time.Time
	last        time.Time
	minInterval time.Duration
}

func newHostSensor(data, fault GPIOPin, minInterval time.Duration, now func() time.Time) *hostSensor {
	if now == nil {
		now = time.Now
	}
	return &hostSensor{
		data:        data,
		fault:       fault,
		now:         now,
		t0:          now(),
		minInterval: minInterval,
	}
}

func (s *hostSensor) Read() (temperature, humidity float32, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return 0, 0, fmt.Errorf("sensor: no data pin: %w", ErrNotImplemented)
	}
	idle, err := s.data.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("sensor: %w", err)
	}
	if !idle {
		return 0, 0, fmt.Errorf("sensor: no response on %s", s.data.Name())
	}

	now := s.now()
	if !s.last.IsZero() && now.Sub(s.last) < s.minInterval {
		return 0, 0, ErrSensorNotReady
	}
	s.last = now

	if s.fault != nil {
		if bad, ferr := s.fault.Read(); ferr == nil && bad {
			return 0, 0, errSensorChecksum
		}
	}

	secs := now.Sub(s.t0).Seconds()
	t := 24 + 3*math.Sin(2*math.Pi*secs/600)
	h := 55 + 10*math.Sin(2*math.Pi*secs/900+1)
	return float32(math.Round(t)), float32(math.Round(h)), nil
}

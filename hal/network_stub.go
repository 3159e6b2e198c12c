package hal

import (
	"context"
	"net"
)

// nullNetwork stands in on boards without a radio.
type nullNetwork struct{}

func (nullNetwork) Join(context.Context) error          { return ErrNotImplemented }
func (nullNetwork) Listen(string) (net.Listener, error) { return nil, ErrNotImplemented }

// nullSensor stands in on boards without a DHT line.
type nullSensor struct{}

func (nullSensor) Read() (float32, float32, error) { return 0, 0, ErrNotImplemented }

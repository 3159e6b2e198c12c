//go:build !tinygo && !cgo

package hal

import (
	"context"
	"errors"
)

// WindowConfig controls the simulator window.
type WindowConfig struct {
	Host  HostConfig
	Scale int
}

func RunWindow(_ func(context.Context, HAL) error, _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1, or use -headless)")
}

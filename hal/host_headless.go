//go:build !tinygo

package hal

import (
	"context"
	"errors"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Host    HostConfig
}

// RunHeadless runs the firmware without opening a window until ctx ends.
func RunHeadless(ctx context.Context, run func(context.Context, HAL) error, cfg HeadlessConfig) error {
	if run == nil {
		return errors.New("headless: nil run func")
	}
	h := NewHost(cfg.Host)
	err := run(ctx, h)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

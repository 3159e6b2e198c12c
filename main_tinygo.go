//go:build tinygo

package main

import (
	"context"

	"dhtpanel/app"
	"dhtpanel/hal"
)

func main() {
	_ = app.Run(context.Background(), hal.New(), app.DefaultConfig())
	// Run only returns on a fatal bring-up error, already logged and drawn.
	select {}
}

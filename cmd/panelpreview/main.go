// Command panelpreview renders one of the panel layouts to a PNG file.
//
//	panelpreview -view requests -count 12 -param "hello world" -out requests.png
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"dhtpanel/firmware/sensor"
	"dhtpanel/firmware/state"
	"dhtpanel/firmware/ui"
	"dhtpanel/hal"
)

type options struct {
	view     string
	temp     float64
	humidity float64
	count    uint
	param    string
	scale    int
}

var (
	pixelOn  = color.Gray{Y: 0xFF}
	pixelOff = color.Gray{Y: 0x00}
)

func main() {
	var (
		opts    options
		outPath = flag.String("out", "", "Output PNG file.")
	)
	flag.StringVar(&opts.view, "view", "sensor", "sensor|requests.")
	flag.Float64Var(&opts.temp, "temp", 23.5, "Temperature in C (sensor view).")
	flag.Float64Var(&opts.humidity, "humidity", 41, "Relative humidity in % (sensor view).")
	flag.UintVar(&opts.count, "count", 0, "Request count (requests view).")
	flag.StringVar(&opts.param, "param", state.DefaultParameter, "Last parameter (requests view).")
	flag.IntVar(&opts.scale, "scale", 4, "Output pixels per panel pixel.")
	flag.Parse()

	if *outPath == "" {
		fatalf("usage: panelpreview -out panel.png [-view sensor|requests] [-temp 23.5 -humidity 41] [-count 3 -param Ana] [-scale 4]")
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fatalf("create: %v", err)
	}
	if err := writePreview(out, opts); err != nil {
		_ = out.Close()
		fatalf("render: %v", err)
	}
	if err := out.Close(); err != nil {
		fatalf("close: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func writePreview(w io.Writer, opts options) error {
	if opts.scale <= 0 {
		return fmt.Errorf("scale out of range: %d", opts.scale)
	}
	fb := hal.NewHostFramebuffer(ui.PanelWidth, ui.PanelHeight)
	r := ui.NewRenderer(ui.NewFramebufferSurface(fb))

	var err error
	switch strings.ToLower(opts.view) {
	case "sensor":
		err = r.RenderSensor(sensor.Sample{TemperatureC: float32(opts.temp), HumidityPct: float32(opts.humidity)})
	case "requests":
		err = r.RenderRequests(state.Counters{Count: uint32(opts.count), LastParameter: opts.param})
	default:
		return fmt.Errorf("unknown view: %s", opts.view)
	}
	if err != nil {
		return err
	}
	return png.Encode(w, panelImage(fb, opts.scale))
}

func panelImage(fb hal.Framebuffer, scale int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, fb.Width()*scale, fb.Height()*scale))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			c := pixelOff
			if hal.PixelMono(fb, x/scale, y/scale) {
				c = pixelOn
			}
			img.SetGray(x, y, c)
		}
	}
	return img
}

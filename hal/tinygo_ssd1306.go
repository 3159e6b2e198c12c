//go:build tinygo && baremetal

package hal

import (
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/drivers/ssd1306"
)

const (
	panelAddress = 0x3C
	panelWidth   = 128
	panelHeight  = 64
)

var (
	pixelOn  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	pixelOff = color.RGBA{A: 0xFF}
)

// ssd1306Framebuffer keeps the frame in PixelFormatMono1 and pushes it to the
// controller's page buffer on Present.
type ssd1306Framebuffer struct {
	dev    *ssd1306.Device
	stride int
	buf    []byte
}

func initSSD1306(bus *machine.I2C) (*ssd1306Framebuffer, error) {
	if err := bus.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
		return nil, err
	}
	// Cold boots need a moment before the controller answers.
	time.Sleep(100 * time.Millisecond)

	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Address:  panelAddress,
		Width:    panelWidth,
		Height:   panelHeight,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearDisplay()

	stride := monoStride(panelWidth)
	return &ssd1306Framebuffer{
		dev:    dev,
		stride: stride,
		buf:    make([]byte, stride*panelHeight),
	}, nil
}

func (f *ssd1306Framebuffer) Width() int          { return panelWidth }
func (f *ssd1306Framebuffer) Height() int         { return panelHeight }
func (f *ssd1306Framebuffer) Format() PixelFormat { return PixelFormatMono1 }
func (f *ssd1306Framebuffer) StrideBytes() int    { return f.stride }
func (f *ssd1306Framebuffer) Buffer() []byte      { return f.buf }

func (f *ssd1306Framebuffer) Clear(on bool) {
	var fill byte
	if on {
		fill = 0xFF
	}
	for i := range f.buf {
		f.buf[i] = fill
	}
}

func (f *ssd1306Framebuffer) Present() error {
	for y := 0; y < panelHeight; y++ {
		row := f.buf[y*f.stride : (y+1)*f.stride]
		for x := 0; x < panelWidth; x++ {
			c := pixelOff
			if row[x/8]&(0x80>>uint(x%8)) != 0 {
				c = pixelOn
			}
			f.dev.SetPixel(int16(x), int16(y), c)
		}
	}
	return f.dev.Display()
}

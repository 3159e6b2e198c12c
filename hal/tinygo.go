//go:build tinygo && baremetal

package hal

import (
	"machine"
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	gpio   GPIO
	fb     *ssd1306Framebuffer
	sensor Sensor
	net    Network
}

// New returns the board HAL.
//
// UART: machine.DefaultUART, 115200 8N1.
// Panel: SSD1306 128x64 on I2C0 at 0x3C.
// Sensor: DHT11 data line on GPIO16.
func New() HAL {
	uart := machine.DefaultUART
	uart.Configure(machine.UARTConfig{BaudRate: 115200})
	logger := &uartLogger{uart: uart}

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	fb, err := initSSD1306(machine.I2C0)
	if err != nil {
		logger.WriteLineString("hal: panel init: " + err.Error())
		fb = nil
	}

	dhtPin := machine.GPIO16
	return &tinyGoHAL{
		logger: logger,
		led:    led,
		gpio: newPinTable(
			newLEDPin("LED", led),
			&machinePin{name: "GPIO16", pin: dhtPin, caps: GPIOCapInput | GPIOCapOutput | GPIOCapPullUp},
		),
		fb:     fb,
		sensor: newDHTSensor(dhtPin),
		net:    newWiFiNetwork(logger),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHAL) Sensor() Sensor   { return h.sensor }
func (h *tinyGoHAL) Network() Network { return h.net }

func (h *tinyGoHAL) Display() Display {
	if h.fb == nil {
		return tinyGoDisplay{}
	}
	return tinyGoDisplay{fb: h.fb}
}

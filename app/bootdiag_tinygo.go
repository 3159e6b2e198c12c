//go:build tinygo && bootdebug

package app

import (
	"machine"
	"sync"
	"time"
)

var (
	bootDiagMu   sync.Mutex
	bootDiagStep string
	bootDiagOnce sync.Once
)

// bootDiagSetStep records the current bring-up step and, on first use,
// starts streaming it to USB CDC so a board that hangs before its UART
// adapter is attached still reports where it stopped.
func bootDiagSetStep(msg string) {
	bootDiagMu.Lock()
	bootDiagStep = msg
	bootDiagMu.Unlock()
	bootDiagOnce.Do(func() { go bootDiagStream() })
}

func bootDiagStream() {
	for {
		bootDiagMu.Lock()
		step := bootDiagStep
		bootDiagMu.Unlock()

		if usb := machine.USBCDC; usb != nil {
			_, _ = usb.Write([]byte("bootdiag: " + step + "\r\n"))
		}
		time.Sleep(250 * time.Millisecond)
	}
}

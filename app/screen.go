package app

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"dhtpanel/firmware/ui"
	"dhtpanel/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var screenFG = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// bootScreen shows a one-line status while the controller comes up.
func bootScreen(h hal.HAL, msg string) {
	bootDiagSetStep(msg)
	drawScreen(h, "dhtpanel", []string{msg})
}

// fatalScreen shows a bring-up failure. It is the last frame drawn.
func fatalScreen(h hal.HAL, err *FatalInitError) {
	bootDiagSetStep("fatal: " + err.Stage)
	drawScreen(h, "FATAL: "+err.Stage, []string{err.Err.Error()})
}

func drawScreen(h hal.HAL, title string, lines []string) {
	fb := framebuffer(h)
	if fb == nil || fb.Format() != hal.PixelFormatMono1 {
		return
	}
	fb.Clear(false)

	d := ui.NewFramebufferSurface(fb)
	font := &proggy.TinySZ8pt7b
	const lineHeight, baseline = int16(11), int16(9)
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		_ = fb.Present()
		return
	}
	cols := int16(fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	tinyfont.WriteLine(d, font, 0, baseline, title, screenFG)
	tinyfont.WriteLine(d, font, 1, baseline, title, screenFG)

	y := lineHeight + 2
	maxH := int16(fb.Height())
	for _, line := range lines {
		for len(line) > 0 {
			if y+lineHeight > maxH {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, 0, y+baseline, chunk, screenFG)
			y += lineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}

// Package ui turns sensor samples and request statistics into full-frame
// layouts for the 128x64 panel and draws them on a Surface.
package ui

import (
	"strconv"
	"unicode/utf8"

	"dhtpanel/firmware/sensor"
	"dhtpanel/firmware/state"
)

const (
	PanelWidth  = 128
	PanelHeight = 64

	// MaxLineRunes is how many characters of the parameter fit on one line.
	MaxLineRunes = 18
	// MaxParameterLines caps the wrapped parameter; the rest is dropped.
	MaxParameterLines = 2
)

// Layout positions. Text Y is the top of the line box.
const (
	marginX     = 8
	titleY      = 3
	line1Y      = 22
	line2Y      = 40
	wrapFirstY  = 35
	wrapSecondY = 46
	singleLineY = 43
)

// Style selects the face weight.
type Style uint8

const (
	Regular Style = iota
	Bold
)

// Primitive is one drawing step of a Layout.
type Primitive interface {
	op() string
	draw(s Surface) error
}

// Clear blanks the whole panel.
type Clear struct{}

// Border strokes the outline of a rectangle, Stroke pixels wide, inside its
// bounds.
type Border struct {
	X, Y, W, H int16
	Stroke     int16
}

// Rule fills a rectangle; used for the separator line under the title.
type Rule struct {
	X, Y, W, H int16
}

// Text draws S with its line box starting at (X, Y).
type Text struct {
	X, Y  int16
	Style Style
	S     string
}

func (Clear) op() string  { return "clear" }
func (Border) op() string { return "border" }
func (Rule) op() string   { return "rule" }
func (Text) op() string   { return "text" }

func (Clear) draw(s Surface) error    { return s.Clear() }
func (p Border) draw(s Surface) error { return s.StrokeRect(p.X, p.Y, p.W, p.H, p.Stroke) }
func (p Rule) draw(s Surface) error   { return s.FillRect(p.X, p.Y, p.W, p.H) }
func (p Text) draw(s Surface) error   { return s.DrawText(p.X, p.Y, p.Style, p.S) }

// Layout is an ordered list of primitives describing one whole frame.
type Layout []Primitive

func frame(title string) Layout {
	return Layout{
		Clear{},
		Border{X: 0, Y: 0, W: PanelWidth, H: PanelHeight, Stroke: 2},
		Text{X: marginX, Y: titleY, Style: Bold, S: title},
		Rule{X: 5, Y: 16, W: 118, H: 1},
	}
}

// SensorLayout shows one reading.
func SensorLayout(s sensor.Sample) Layout {
	return append(frame("DHT11 Sensor"),
		Text{X: marginX, Y: line1Y, S: "Temperature: " + FormatNumber(s.TemperatureC) + "C"},
		Text{X: marginX, Y: line2Y, S: "Humidity: " + FormatNumber(s.HumidityPct) + "%"},
	)
}

// RequestLayout shows the request count and the last parameter.
func RequestLayout(c state.Counters) Layout {
	l := append(frame("Requests: "+strconv.FormatUint(uint64(c.Count), 10)),
		Text{X: marginX, Y: line1Y, S: "Ultimo params:"},
	)
	lines := WrapParameter(c.LastParameter)
	if len(lines) == 1 {
		return append(l, Text{X: marginX, Y: singleLineY, S: lines[0]})
	}
	return append(l,
		Text{X: marginX, Y: wrapFirstY, S: lines[0]},
		Text{X: marginX, Y: wrapSecondY, S: lines[1]},
	)
}

// FormatNumber prints v with the fewest digits that round-trip: 23, 23.5.
func FormatNumber(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

// WrapParameter splits s into at most MaxParameterLines lines of at most
// MaxLineRunes characters. Anything beyond that is dropped.
func WrapParameter(s string) []string {
	if utf8.RuneCountInString(s) <= MaxLineRunes {
		return []string{s}
	}
	lines := make([]string, 0, MaxParameterLines)
	for len(lines) < MaxParameterLines && s != "" {
		var head string
		head, s = splitRunes(s, MaxLineRunes)
		lines = append(lines, head)
	}
	return lines
}

func splitRunes(s string, n int) (head, rest string) {
	i := 0
	for count := 0; i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], s[i:]
}

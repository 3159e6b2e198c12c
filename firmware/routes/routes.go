// Package routes serves the single HTTP endpoint: every GET / is counted,
// its first non-empty query value is remembered, and the panel is switched
// to the request statistics.
package routes

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"dhtpanel/firmware/state"
	"dhtpanel/firmware/telemetry"
	"dhtpanel/hal"
)

// Pattern is the mux pattern for the endpoint: GET on exactly "/".
const Pattern = "GET /{$}"

// TransportError reports a response that could not be written. It ends
// only the request it belongs to and is never retried.
type TransportError struct {
	Count uint32
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("routes: write response for request #%d: %v", e.Count, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Handler is the GET / handler.
type Handler struct {
	store *state.Store
	log   hal.Logger
	rec   telemetry.Recorder
}

// New returns a Handler updating store. log and rec may be nil.
func New(store *state.Store, log hal.Logger, rec telemetry.Recorder) *Handler {
	return &Handler{store: store, log: log, rec: telemetry.OrNop(rec)}
}

// Register mounts the handler on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle(Pattern, h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := h.Handle(w, r.URL.RawQuery); err != nil {
		h.logf("%v", err)
	}
}

// Handle records one request whose query string (the text after the first
// '?') is rawQuery and writes the acknowledgement to w.
func (h *Handler) Handle(w io.Writer, rawQuery string) (uint32, error) {
	param, ok := ExtractParameter(rawQuery)
	count := h.store.IncrementAndSet(param)

	shown := param
	if !ok {
		shown = state.DefaultParameter
	}
	h.logf("request #%d: %s", count, shown)
	h.rec.RequestServed(count, ok)

	if _, err := io.WriteString(w, FormatResponse(count, shown)); err != nil {
		h.rec.TransportFailed()
		return count, &TransportError{Count: count, Err: err}
	}
	return count, nil
}

// FormatResponse renders the acknowledgement body.
func FormatResponse(count uint32, param string) string {
	return fmt.Sprintf("Request #%d - Params: %s", count, param)
}

// ExtractParameter form-decodes rawQuery pair by pair, in the order the
// pairs were encoded, and returns the first non-empty value. Keys are
// ignored. ok is false when no pair has a non-empty value.
func ExtractParameter(rawQuery string) (value string, ok bool) {
	for rawQuery != "" {
		var pair string
		pair, rawQuery, _ = strings.Cut(rawQuery, "&")
		if pair == "" {
			continue
		}
		_, v, _ := strings.Cut(pair, "=")
		if v = decodeComponent(v); v != "" {
			return v, true
		}
	}
	return "", false
}

// decodeComponent undoes application/x-www-form-urlencoded escaping. A
// malformed percent escape is kept literally instead of failing the request.
func decodeComponent(s string) string {
	if d, err := url.QueryUnescape(s); err == nil {
		return d
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func (h *Handler) logf(format string, args ...any) {
	if h.log == nil {
		return
	}
	h.log.WriteLineString("routes: " + fmt.Sprintf(format, args...))
}

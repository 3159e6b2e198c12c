// Package state holds the values shared between the HTTP handler and the
// display loop: the request counter, the last query parameter and the
// active display mode.
//
// Every operation takes the same mutex for its whole read-modify-write and
// never does I/O while holding it.
package state

import "sync"

// DefaultParameter is shown until a request carries a usable parameter.
const DefaultParameter = "Nenhum"

// Mode selects which layout the display loop renders.
type Mode uint8

const (
	SensorView Mode = iota
	RequestView
)

func (m Mode) String() string {
	switch m {
	case SensorView:
		return "sensor"
	case RequestView:
		return "requests"
	default:
		return "unknown"
	}
}

// Counters is a consistent snapshot of the request statistics.
type Counters struct {
	Count         uint32
	LastParameter string
}

// Store guards the shared fields.
type Store struct {
	mu    sync.Mutex
	count uint32
	last  string
	mode  Mode

	changed chan struct{}
}

// New returns a store in its power-on state: no requests, DefaultParameter,
// SensorView.
func New() *Store {
	return &Store{
		last:    DefaultParameter,
		mode:    SensorView,
		changed: make(chan struct{}, 1),
	}
}

// IncrementAndSet records one request. It bumps the counter, replaces the
// last parameter when parameter is non-empty and switches the display to
// RequestView, all in one critical section. It returns the new count.
func (s *Store) IncrementAndSet(parameter string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	if parameter != "" {
		s.last = parameter
	}
	s.mode = RequestView
	s.notify()
	return s.count
}

// ForceMode sets the display mode.
func (s *Store) ForceMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.notify()
}

// ReadCounters returns the count and last parameter as one pair.
func (s *Store) ReadCounters() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counters{Count: s.count, LastParameter: s.last}
}

// ReadMode returns the current display mode.
func (s *Store) ReadMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// ClearModeToSensor unconditionally returns the display to SensorView.
func (s *Store) ClearModeToSensor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = SensorView
}

// ExpireRequestView ends a dwell: it returns the display to SensorView only
// if the counter still equals seen, i.e. no request arrived since the
// RequestView frame showing seen was drawn. It reports whether it cleared.
func (s *Store) ExpireRequestView(seen uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count != seen {
		return false
	}
	s.mode = SensorView
	return true
}

// Changed is signalled after every request and every forced mode change.
// Signals coalesce; a receiver must re-read the store.
func (s *Store) Changed() <-chan struct{} {
	return s.changed
}

func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

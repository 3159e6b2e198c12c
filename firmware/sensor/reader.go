// Package sensor wraps a single-shot humidity/temperature read in a bounded
// retry policy.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"dhtpanel/firmware/clock"
	"dhtpanel/firmware/telemetry"
	"dhtpanel/hal"
)

// DHT11 physical limits; anything outside is a corrupted transaction.
const (
	MinTemperatureC = -20
	MaxTemperatureC = 60
	MinHumidityPct  = 0
	MaxHumidityPct  = 100
)

var (
	// ErrExhausted is matched by every error returned once the attempt cap
	// is reached.
	ErrExhausted = errors.New("sensor: attempts exhausted")

	// ErrOutOfRange marks a sample outside the sensor's physical range.
	ErrOutOfRange = errors.New("sensor: sample out of range")
)

// Sample is one reading. It is consumed by the tick that produced it.
type Sample struct {
	TemperatureC float32
	HumidityPct  float32
}

func (s Sample) validate() error {
	if s.TemperatureC < MinTemperatureC || s.TemperatureC > MaxTemperatureC ||
		s.HumidityPct < MinHumidityPct || s.HumidityPct > MaxHumidityPct {
		return fmt.Errorf("%w: %sC %s%%", ErrOutOfRange,
			strconv.FormatFloat(float64(s.TemperatureC), 'f', -1, 32),
			strconv.FormatFloat(float64(s.HumidityPct), 'f', -1, 32))
	}
	return nil
}

// Policy bounds a retry sequence.
type Policy struct {
	// MaxAttempts is the number of reads per sequence; 0 is treated as 1.
	MaxAttempts uint
	// RetryDelay separates two attempts. It should exceed the sensor's
	// minimum re-sample interval.
	RetryDelay time.Duration
}

// DefaultPolicy is three attempts 2.2s apart; the DHT11 needs 2s between
// samples.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, RetryDelay: 2200 * time.Millisecond}
}

// Error reports a retry sequence that produced no sample.
type Error struct {
	Attempts uint
	Last     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sensor: no sample after %d attempt(s): %v", e.Attempts, e.Last)
}

func (e *Error) Unwrap() []error { return []error{ErrExhausted, e.Last} }

// ReadFunc is one single-shot read.
type ReadFunc func() (Sample, error)

// AttemptFunc observes a failed attempt (1-based).
type AttemptFunc func(attempt uint, err error)

// ReadWithRetry calls read until it succeeds or policy.MaxAttempts reads have
// failed, sleeping policy.RetryDelay on clk between attempts. It never returns
// a sample from an earlier sequence. Only ctx cancellation cuts a sleep
// short; an attempt in progress always runs to completion.
func ReadWithRetry(ctx context.Context, clk clock.Clock, policy Policy, read ReadFunc, onFail AttemptFunc) (Sample, error) {
	attempts := max(policy.MaxAttempts, 1)

	var last error
	for attempt := uint(1); attempt <= attempts; attempt++ {
		s, err := read()
		if err == nil {
			err = s.validate()
		}
		if err == nil {
			return s, nil
		}
		last = err
		if onFail != nil {
			onFail(attempt, err)
		}
		if attempt == attempts {
			break
		}
		if err := clock.Sleep(ctx, clk, policy.RetryDelay); err != nil {
			return Sample{}, &Error{Attempts: attempt, Last: err}
		}
	}
	return Sample{}, &Error{Attempts: attempts, Last: last}
}

// Reader reads a hal.Sensor with a fixed policy.
type Reader struct {
	dev    hal.Sensor
	policy Policy
	clk    clock.Clock
	log    hal.Logger
	rec    telemetry.Recorder
}

// NewReader returns a Reader. A nil clk uses the wall clock; a nil log is
// silent.
func NewReader(dev hal.Sensor, policy Policy, clk clock.Clock, log hal.Logger) *Reader {
	if clk == nil {
		clk = clock.Real
	}
	return &Reader{dev: dev, policy: policy, clk: clk, log: log, rec: telemetry.Nop{}}
}

// WithRecorder reports every retry sequence to rec.
func (r *Reader) WithRecorder(rec telemetry.Recorder) *Reader {
	r.rec = telemetry.OrNop(rec)
	return r
}

// Policy returns the reader's retry policy.
func (r *Reader) Policy() Policy { return r.policy }

// ReadWithRetry samples the device under the reader's policy.
func (r *Reader) ReadWithRetry(ctx context.Context) (Sample, error) {
	if r.dev == nil {
		return Sample{}, &Error{Attempts: 0, Last: hal.ErrNotImplemented}
	}
	read := func() (Sample, error) {
		t, h, err := r.dev.Read()
		return Sample{TemperatureC: t, HumidityPct: h}, err
	}
	var failed uint
	s, err := ReadWithRetry(ctx, r.clk, r.policy, read, func(attempt uint, err error) {
		failed = attempt
		r.logAttempt(attempt, err)
	})
	if err == nil {
		r.rec.SensorRead(failed+1, nil)
	} else {
		r.rec.SensorRead(failed, err)
	}
	return s, err
}

func (r *Reader) logAttempt(attempt uint, err error) {
	if r.log == nil {
		return
	}
	r.log.WriteLineString(fmt.Sprintf("sensor: attempt %d/%d: %v", attempt, max(r.policy.MaxAttempts, 1), err))
}

package sensor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dhtpanel/firmware/clock"
	"dhtpanel/firmware/sensor"
	"dhtpanel/firmware/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSensor struct {
	mock.Mock
}

func (m *mockSensor) Read() (float32, float32, error) {
	args := m.Called()
	return args.Get(0).(float32), args.Get(1).(float32), args.Error(2)
}

type lines []string

func (l *lines) WriteLineString(s string) { *l = append(*l, s) }
func (l *lines) WriteLineBytes(b []byte)  { *l = append(*l, string(b)) }

var errTimeout = errors.New("dht: timeout")

// instantClock fires every timer immediately and records the requested
// durations.
type instantClock struct {
	waits []time.Duration
}

func (c *instantClock) Now() time.Time { return time.Unix(0, 0) }

func (c *instantClock) After(d time.Duration) <-chan time.Time {
	c.waits = append(c.waits, d)
	ch := make(chan time.Time, 1)
	ch <- time.Unix(0, 0)
	return ch
}

func TestFirstAttemptSucceeds(t *testing.T) {
	m := new(mockSensor)
	m.On("Read").Return(float32(23.5), float32(41), nil)
	clk := &instantClock{}

	r := sensor.NewReader(m, sensor.DefaultPolicy(), clk, nil)
	s, err := r.ReadWithRetry(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sensor.Sample{TemperatureC: 23.5, HumidityPct: 41}, s)
	m.AssertNumberOfCalls(t, "Read", 1)
	assert.Empty(t, clk.waits)
}

func TestRetryUntilSuccess(t *testing.T) {
	m := new(mockSensor)
	m.On("Read").Twice().Return(float32(0), float32(0), errTimeout)
	m.On("Read").Once().Return(float32(21), float32(60), nil)
	clk := &instantClock{}
	var log lines

	r := sensor.NewReader(m, sensor.DefaultPolicy(), clk, &log)
	s, err := r.ReadWithRetry(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sensor.Sample{TemperatureC: 21, HumidityPct: 60}, s)
	m.AssertNumberOfCalls(t, "Read", 3)
	assert.Equal(t, []time.Duration{2200 * time.Millisecond, 2200 * time.Millisecond}, clk.waits)
	assert.Equal(t, lines{
		"sensor: attempt 1/3: dht: timeout",
		"sensor: attempt 2/3: dht: timeout",
	}, log)
}

func TestMaxAttempts(t *testing.T) {
	m := new(mockSensor)
	m.On("Read").Return(float32(0), float32(0), errTimeout)
	clk := &instantClock{}

	r := sensor.NewReader(m, sensor.DefaultPolicy(), clk, nil)
	s, err := r.ReadWithRetry(context.Background())

	require.Error(t, err)
	assert.Zero(t, s)
	m.AssertNumberOfCalls(t, "Read", 3)
	// No sleep after the final attempt.
	assert.Len(t, clk.waits, 2)

	var serr *sensor.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, uint(3), serr.Attempts)
	assert.ErrorIs(t, err, sensor.ErrExhausted)
	assert.ErrorIs(t, err, errTimeout)
}

func TestOutOfRangeSampleIsAFailedAttempt(t *testing.T) {
	m := new(mockSensor)
	m.On("Read").Once().Return(float32(255), float32(0), nil)
	m.On("Read").Once().Return(float32(20), float32(50), nil)

	s, err := sensor.NewReader(m, sensor.DefaultPolicy(), &instantClock{}, nil).ReadWithRetry(context.Background())

	require.NoError(t, err)
	assert.Equal(t, sensor.Sample{TemperatureC: 20, HumidityPct: 50}, s)
	m.AssertNumberOfCalls(t, "Read", 2)
}

func TestZeroAttemptsMeansOne(t *testing.T) {
	calls := 0
	_, err := sensor.ReadWithRetry(context.Background(), &instantClock{}, sensor.Policy{}, func() (sensor.Sample, error) {
		calls++
		return sensor.Sample{}, errTimeout
	}, nil)

	assert.ErrorIs(t, err, sensor.ErrExhausted)
	assert.Equal(t, 1, calls)
}

func TestCancelDuringRetryDelay(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := sensor.ReadWithRetry(ctx, fake, sensor.DefaultPolicy(), func() (sensor.Sample, error) {
			calls++
			return sensor.Sample{}, errTimeout
		}, nil)
		done <- err
	}()

	require.Equal(t, 2200*time.Millisecond, <-fake.Waits())
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, sensor.ErrExhausted)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cancelled retry")
	}
}

func TestRetryDelayUsesClock(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	policy := sensor.Policy{MaxAttempts: 2, RetryDelay: 5 * time.Second}

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := sensor.ReadWithRetry(context.Background(), fake, policy, func() (sensor.Sample, error) {
			calls++
			if calls == 1 {
				return sensor.Sample{}, errTimeout
			}
			return sensor.Sample{TemperatureC: 19, HumidityPct: 30}, nil
		}, nil)
		done <- err
	}()

	require.Equal(t, 5*time.Second, <-fake.Waits())
	fake.Advance(4 * time.Second)
	select {
	case <-done:
		t.Fatal("second attempt ran before the retry delay elapsed")
	case <-time.After(20 * time.Millisecond):
	}

	fake.Advance(time.Second)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for second attempt")
	}
}

func TestNilSensor(t *testing.T) {
	_, err := sensor.NewReader(nil, sensor.DefaultPolicy(), nil, nil).ReadWithRetry(context.Background())
	assert.ErrorIs(t, err, sensor.ErrExhausted)
}

type sensorEvents struct {
	telemetry.Nop
	attempts []uint
	errs     []error
}

func (e *sensorEvents) SensorRead(attempts uint, err error) {
	e.attempts = append(e.attempts, attempts)
	e.errs = append(e.errs, err)
}

func TestReaderRecordsAttempts(t *testing.T) {
	m := new(mockSensor)
	m.On("Read").Once().Return(float32(0), float32(0), errTimeout)
	m.On("Read").Once().Return(float32(22), float32(45), nil)
	m.On("Read").Return(float32(0), float32(0), errTimeout)
	ev := &sensorEvents{}

	r := sensor.NewReader(m, sensor.DefaultPolicy(), &instantClock{}, nil).WithRecorder(ev)
	_, err := r.ReadWithRetry(context.Background())
	require.NoError(t, err)
	_, err = r.ReadWithRetry(context.Background())
	require.Error(t, err)

	assert.Equal(t, []uint{2, 3}, ev.attempts)
	assert.NoError(t, ev.errs[0])
	assert.ErrorIs(t, ev.errs[1], sensor.ErrExhausted)
}

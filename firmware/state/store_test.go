package state_test

import (
	"fmt"
	"sync"
	"testing"

	"dhtpanel/firmware/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerOnState(t *testing.T) {
	s := state.New()

	assert.Equal(t, state.Counters{Count: 0, LastParameter: "Nenhum"}, s.ReadCounters())
	assert.Equal(t, state.SensorView, s.ReadMode())
}

func TestIncrementAndSet(t *testing.T) {
	s := state.New()

	require.Equal(t, uint32(1), s.IncrementAndSet("Ana"))
	assert.Equal(t, state.Counters{Count: 1, LastParameter: "Ana"}, s.ReadCounters())
	assert.Equal(t, state.RequestView, s.ReadMode())

	// An empty parameter counts the request but keeps the last value.
	s.ClearModeToSensor()
	require.Equal(t, uint32(2), s.IncrementAndSet(""))
	assert.Equal(t, state.Counters{Count: 2, LastParameter: "Ana"}, s.ReadCounters())
	assert.Equal(t, state.RequestView, s.ReadMode())
}

func TestLastParameterIsLastNonEmpty(t *testing.T) {
	s := state.New()
	for _, p := range []string{"", "a", "", "b", "", ""} {
		s.IncrementAndSet(p)
	}
	assert.Equal(t, state.Counters{Count: 6, LastParameter: "b"}, s.ReadCounters())

	fresh := state.New()
	for range 3 {
		fresh.IncrementAndSet("")
	}
	assert.Equal(t, "Nenhum", fresh.ReadCounters().LastParameter)
}

func TestExpireRequestView(t *testing.T) {
	s := state.New()
	seen := s.IncrementAndSet("x")

	s.IncrementAndSet("y")
	assert.False(t, s.ExpireRequestView(seen), "a newer request must keep RequestView")
	assert.Equal(t, state.RequestView, s.ReadMode())

	assert.True(t, s.ExpireRequestView(seen+1))
	assert.Equal(t, state.SensorView, s.ReadMode())
}

func TestForceModeAndChanged(t *testing.T) {
	s := state.New()

	select {
	case <-s.Changed():
		t.Fatal("unexpected change signal on a fresh store")
	default:
	}

	s.ForceMode(state.RequestView)
	s.IncrementAndSet("")
	assert.Equal(t, state.RequestView, s.ReadMode())

	// Signals coalesce into one pending notification.
	<-s.Changed()
	select {
	case <-s.Changed():
		t.Fatal("expected coalesced signal")
	default:
	}

	s.ClearModeToSensor()
	assert.Equal(t, state.SensorView, s.ReadMode())
}

func TestConcurrentRequestsAreCountedOnce(t *testing.T) {
	s := state.New()
	const writers, perWriter = 8, 250

	var wg sync.WaitGroup
	stop := make(chan struct{})
	torn := make(chan string, 1)

	// A reader that checks every pair it sees is self-consistent: the
	// parameter written with count N is "p<N>".
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			c := s.ReadCounters()
			if c.Count == 0 {
				continue
			}
			if want := fmt.Sprintf("p%d", c.Count); c.LastParameter != want {
				select {
				case torn <- fmt.Sprintf("count %d with parameter %q", c.Count, c.LastParameter):
				default:
				}
			}
			_ = s.ReadMode()
		}
	}()

	var mu sync.Mutex
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				// Serialize the choice of parameter with the increment so the
				// parameter always names the count it was stored with.
				mu.Lock()
				next := s.ReadCounters().Count + 1
				got := s.IncrementAndSet(fmt.Sprintf("p%d", next))
				mu.Unlock()
				if got != next {
					t.Errorf("expected count %d, got %d", next, got)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(stop)

	select {
	case msg := <-torn:
		t.Fatalf("torn read: %s", msg)
	default:
	}
	assert.Equal(t, uint32(writers*perWriter), s.ReadCounters().Count)
	assert.Equal(t, state.RequestView, s.ReadMode())
}

func TestConcurrentIncrementsWithoutCoordination(t *testing.T) {
	s := state.New()
	before := s.ReadCounters().Count

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := ""
			if i%3 == 0 {
				p = "v"
			}
			s.IncrementAndSet(p)
		}()
	}
	wg.Wait()

	assert.Equal(t, before+100, s.ReadCounters().Count)
	assert.Equal(t, "v", s.ReadCounters().LastParameter)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "sensor", state.SensorView.String())
	assert.Equal(t, "requests", state.RequestView.String())
	assert.Equal(t, "unknown", state.Mode(7).String())
}

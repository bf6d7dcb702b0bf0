package capture

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestFixedDurationStopsAtBound(t *testing.T) {
	clock := newFakeClock()
	c := newController(FixedDuration(5*time.Second), clock.Now)

	if c.Observe() {
		t.Fatal("stopped immediately")
	}
	clock.Advance(4999 * time.Millisecond)
	if c.Observe() {
		t.Fatal("stopped before the duration elapsed")
	}
	clock.Advance(time.Millisecond)
	if !c.Observe() {
		t.Fatal("did not stop at the duration bound")
	}
	if c.State() != StateStopped {
		t.Fatalf("expected StateStopped, got %v", c.State())
	}
}

func TestExternalSignalGracePeriod(t *testing.T) {
	clock := newFakeClock()
	stop := false
	c := newController(ExternalSignal(300*time.Second, func() bool { return stop }, time.Second), clock.Now)

	clock.Advance(10 * time.Second)
	if c.Observe() {
		t.Fatal("stopped without a signal")
	}
	if c.State() != StateRecording {
		t.Fatalf("expected StateRecording, got %v", c.State())
	}

	stop = true
	if c.Observe() {
		t.Fatal("stopped before the grace period")
	}
	if c.State() != StateStopRequested {
		t.Fatalf("expected StateStopRequested, got %v", c.State())
	}

	clock.Advance(999 * time.Millisecond)
	if c.Observe() {
		t.Fatal("stopped inside the grace period")
	}
	clock.Advance(time.Millisecond)
	if !c.Observe() {
		t.Fatal("did not stop after the grace period")
	}
}

func TestExternalSignalOneShot(t *testing.T) {
	clock := newFakeClock()
	c := newController(ExternalSignal(300*time.Second, func() bool { return true }, time.Second), clock.Now)

	// First observation records the request timestamp.
	clock.Advance(10 * time.Second)
	c.Observe()
	requested := c.requestedAt

	// Repeated true evaluations must not push the timestamp forward.
	clock.Advance(500 * time.Millisecond)
	c.Observe()
	if !c.requestedAt.Equal(requested) {
		t.Fatal("stop request timestamp was reset")
	}

	clock.Advance(500 * time.Millisecond)
	if !c.Observe() {
		t.Fatal("did not stop one grace period after the first request")
	}
}

func TestSafetyBoundWithoutSignal(t *testing.T) {
	clock := newFakeClock()
	c := newController(ExternalSignal(10*time.Second, func() bool { return false }, time.Second), clock.Now)

	clock.Advance(9 * time.Second)
	if c.Observe() {
		t.Fatal("stopped before the safety bound")
	}
	clock.Advance(time.Second)
	if !c.Observe() {
		t.Fatal("safety bound did not fire")
	}
}

func TestSafetyBoundWinsOverGrace(t *testing.T) {
	clock := newFakeClock()
	stop := false
	c := newController(ExternalSignal(10*time.Second, func() bool { return stop }, 5*time.Second), clock.Now)

	// Stop requested late enough that the grace window crosses the bound.
	clock.Advance(8 * time.Second)
	stop = true
	c.Observe()

	clock.Advance(2 * time.Second)
	if !c.Observe() {
		t.Fatal("safety bound did not win over the pending grace window")
	}
}

func TestObserveAfterStoppedStaysStopped(t *testing.T) {
	clock := newFakeClock()
	c := newController(FixedDuration(time.Second), clock.Now)

	clock.Advance(2 * time.Second)
	if !c.Observe() {
		t.Fatal("did not stop")
	}
	if !c.Observe() {
		t.Fatal("stopped controller reported running")
	}
}

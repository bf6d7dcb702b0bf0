package capture

import "time"

// State tracks where a session is in its shutdown sequence.
type State int

const (
	// StateRecording is the initial state; frames are being accumulated.
	StateRecording State = iota
	// StateStopRequested means an external stop was seen; the session keeps
	// recording through the grace window to catch trailing speech.
	StateStopRequested
	// StateStopped is terminal; the run loop must exit.
	StateStopped
)

// Policy decides when a capture session must end. Every policy carries a
// hard upper bound on elapsed time so a session can never run unbounded,
// even if its stop signal malfunctions.
type Policy struct {
	// MaxDuration is the safety bound. It always wins over the signal path.
	MaxDuration time.Duration

	// ShouldStop, when non-nil, makes this an externally-signaled policy.
	// It is polled on every frame arrival and every tick; it must be cheap
	// and side-effect free.
	ShouldStop func() bool

	// Grace is the trailing window kept after a stop request. Ignored when
	// ShouldStop is nil: a fixed-duration caller did not ask for trailing
	// audio.
	Grace time.Duration
}

// FixedDuration ends the session once max has elapsed, with no grace window.
func FixedDuration(max time.Duration) Policy {
	return Policy{MaxDuration: max}
}

// ExternalSignal ends the session a grace period after shouldStop first
// reports true, or at max regardless.
func ExternalSignal(max time.Duration, shouldStop func() bool, grace time.Duration) Policy {
	return Policy{MaxDuration: max, ShouldStop: shouldStop, Grace: grace}
}

// controller is the termination state machine. It is owned by the session
// run loop and consulted once per frame arrival and once per tick; it never
// touches the sample buffer itself.
type controller struct {
	policy      Policy
	now         func() time.Time
	start       time.Time
	state       State
	requestedAt time.Time
}

func newController(policy Policy, now func() time.Time) *controller {
	if now == nil {
		now = time.Now
	}
	return &controller{policy: policy, now: now, start: now()}
}

// Observe evaluates the policy once and returns true when the run loop must
// exit. The Recording -> StopRequested transition is one-shot: repeated true
// evaluations of the stop predicate do not reset the grace timestamp.
func (c *controller) Observe() bool {
	if c.state == StateStopped {
		return true
	}
	now := c.now()

	if now.Sub(c.start) >= c.policy.MaxDuration {
		c.state = StateStopped
		return true
	}

	if c.policy.ShouldStop != nil {
		if c.state == StateRecording && c.policy.ShouldStop() {
			c.state = StateStopRequested
			c.requestedAt = now
		}
		if c.state == StateStopRequested && now.Sub(c.requestedAt) >= c.policy.Grace {
			c.state = StateStopped
			return true
		}
	}

	return false
}

// State returns the machine's current state.
func (c *controller) State() State {
	return c.state
}

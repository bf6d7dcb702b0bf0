// Package capture records microphone audio into a normalized mono PCM
// buffer and finalizes it at a fixed target rate. Sessions end either after
// a fixed duration or when an external stop signal arrives, with a trailing
// grace window so the tail of an utterance is not cut off.
package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/micdrop/micdrop/internal/audio"
	"github.com/rs/zerolog"
)

const (
	// DefaultTargetRate is the output rate downstream speech models expect.
	DefaultTargetRate = 16000
	// DefaultGracePeriod is the trailing window kept after a stop request.
	DefaultGracePeriod = time.Second
	// DefaultTickInterval bounds termination-detection latency when frame
	// callbacks stall or arrive in bursts.
	DefaultTickInterval = 100 * time.Millisecond

	// frameQueueDepth buffers frames between the backend callback and the
	// run loop. The callback blocks rather than drop when the loop lags.
	frameQueueDepth = 64
)

// Config wires an Engine. Zero values fall back to the defaults above.
type Config struct {
	Source   audio.Source
	Logger   zerolog.Logger
	DeviceID string

	TargetRate   int
	GracePeriod  time.Duration
	TickInterval time.Duration
}

// Engine runs capture sessions. One Engine can run any number of sessions,
// one at a time; each session owns its own stream and buffers.
type Engine struct {
	source   audio.Source
	log      zerolog.Logger
	deviceID string

	targetRate int
	grace      time.Duration
	tick       time.Duration
}

// New creates an Engine from cfg.
func New(cfg Config) *Engine {
	e := &Engine{
		source:     cfg.Source,
		log:        cfg.Logger,
		deviceID:   cfg.DeviceID,
		targetRate: cfg.TargetRate,
		grace:      cfg.GracePeriod,
		tick:       cfg.TickInterval,
	}
	if e.targetRate <= 0 {
		e.targetRate = DefaultTargetRate
	}
	if e.grace <= 0 {
		e.grace = DefaultGracePeriod
	}
	if e.tick <= 0 {
		e.tick = DefaultTickInterval
	}
	return e
}

// Capture records for a fixed duration and returns mono float32 PCM at the
// engine's target rate. An empty result with a nil error means the device
// produced no frames.
func (e *Engine) Capture(ctx context.Context, duration time.Duration) ([]float32, error) {
	e.log.Info().Dur("duration", duration).Msg("Starting audio capture")

	expectedSecs := int((duration + time.Second - 1) / time.Second)
	return e.run(ctx, FixedDuration(duration), expectedSecs)
}

// CaptureToggle records until shouldStop reports true, keeps recording
// through the grace window, then returns. maxDuration is a safety bound
// that ends the session even if the signal never arrives.
func (e *Engine) CaptureToggle(ctx context.Context, maxDuration time.Duration, shouldStop func() bool) ([]float32, error) {
	e.log.Info().Dur("max_duration", maxDuration).Msg("Starting toggle mode capture")

	if shouldStop == nil {
		shouldStop = func() bool { return false }
	}
	return e.run(ctx, ExternalSignal(maxDuration, shouldStop, e.grace), 0)
}

// run is the shared session path: open the stream, funnel frames into a
// single loop goroutine that owns all mutable session state, exit when the
// termination controller says so, then finalize at the target rate.
func (e *Engine) run(ctx context.Context, policy Policy, expectedSecs int) ([]float32, error) {
	frames := make(chan []byte, frameQueueDepth)
	done := make(chan struct{})

	stream, err := e.source.Open(e.deviceID, func(data []byte) {
		// Copy before handing off; the backend reuses its buffer.
		frame := make([]byte, len(data))
		copy(frame, data)
		select {
		case frames <- frame:
		case <-done:
			// Session already stopped; frames past this point are ignored.
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}
	defer stream.Close()

	info := stream.Info()
	e.log.Info().
		Int("sample_rate", info.SampleRate).
		Int("channels", info.Channels).
		Msg("Audio stream open")

	buf := NewSampleBuffer(e.targetRate, expectedSecs)
	ctrl := newController(policy, nil)
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	start := time.Now()

loop:
	for {
		select {
		case data := <-frames:
			samples := DecodePCM(data)
			if info.Channels == 2 {
				samples = DownmixStereo(samples)
			}
			buf.Append(samples)
			if ctrl.Observe() {
				break loop
			}
		case <-ticker.C:
			if ctrl.Observe() {
				break loop
			}
		case <-ctx.Done():
			break loop
		}
	}
	elapsed := time.Since(start)
	close(done)

	if err := stream.Stop(); err != nil {
		e.log.Warn().Err(err).Msg("Error stopping audio stream")
	}

	// Frames still queued at loop exit were delivered before the stop
	// transition; append them rather than drop them.
drain:
	for {
		select {
		case data := <-frames:
			samples := DecodePCM(data)
			if info.Channels == 2 {
				samples = DownmixStereo(samples)
			}
			buf.Append(samples)
		default:
			break drain
		}
	}

	samples := buf.Snapshot()
	if len(samples) == 0 {
		e.log.Warn().Msg("No audio captured - check microphone permissions")
		return nil, nil
	}

	detected := DetectRate(len(samples), elapsed)
	e.log.Info().
		Int("samples", len(samples)).
		Float64("seconds", elapsed.Seconds()).
		Int("detected_rate", detected).
		Msg("Capture finished")

	out := Resample(samples, detected, e.targetRate, e.log)
	e.log.Info().
		Int("samples", len(out)).
		Float64("seconds", float64(len(out))/float64(e.targetRate)).
		Msg("Final audio")
	return out, nil
}

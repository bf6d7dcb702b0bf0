package capture

// defaultCaptureSeconds sizes the accumulator when the session has no known
// duration up front (toggle mode).
const defaultCaptureSeconds = 30

// SampleBuffer accumulates mono samples at the device-native rate while a
// session runs. It is append-only for the lifetime of the session; growth
// past the initial capacity is allowed but the pre-sizing makes it rare.
type SampleBuffer struct {
	samples []float32
}

// NewSampleBuffer pre-allocates room for expectedSecs of audio at rate, or
// for defaultCaptureSeconds when the duration is unknown.
func NewSampleBuffer(rate, expectedSecs int) *SampleBuffer {
	if expectedSecs <= 0 {
		expectedSecs = defaultCaptureSeconds
	}
	return &SampleBuffer{samples: make([]float32, 0, rate*expectedSecs)}
}

// Append adds samples in arrival order. It never drops data.
func (b *SampleBuffer) Append(samples []float32) {
	b.samples = append(b.samples, samples...)
}

// Len returns the number of accumulated samples.
func (b *SampleBuffer) Len() int {
	return len(b.samples)
}

// Snapshot returns the accumulated sequence. The buffer is done being
// written to by the time this is called; the caller takes ownership.
func (b *SampleBuffer) Snapshot() []float32 {
	return b.samples
}

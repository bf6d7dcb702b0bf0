package capture

// DownmixStereo collapses an interleaved two-channel sequence to mono by
// averaging each left/right pair. An odd trailing sample is passed through
// unchanged. Called once per frame, so it performs a single allocation.
func DownmixStereo(samples []float32) []float32 {
	mono := make([]float32, 0, (len(samples)+1)/2)
	for i := 0; i+1 < len(samples); i += 2 {
		mono = append(mono, (samples[i]+samples[i+1])/2)
	}
	if len(samples)%2 == 1 {
		mono = append(mono, samples[len(samples)-1])
	}
	return mono
}

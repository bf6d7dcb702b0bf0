package capture

import (
	"fmt"
	"math"
	"math/cmplx"
	"time"

	"github.com/mjibson/go-dsp/fft"
	"github.com/rs/zerolog"
)

const (
	// resampleToleranceHz is how far the measured source rate may sit from
	// the target before resampling is worth the cost and precision loss.
	resampleToleranceHz = 1000

	// Chunking parameters for the frequency-domain resampler. Tuning knobs,
	// not a contract; the defaults match what works well for speech.
	resampleChunkSize = 1024
	resampleSubChunks = 2
)

// DetectRate estimates the true source rate from the number of samples
// accumulated over a measured wall-clock interval. Device-reported nominal
// rates are unreliable in practice; the measurement is not.
func DetectRate(sampleCount int, elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	return int(math.Round(float64(sampleCount) / elapsed.Seconds()))
}

// Resample converts mono samples from sourceRate to targetRate. Sources
// already within resampleToleranceHz of the target are returned untouched.
// Any failure in the sinc path degrades to linear interpolation with a
// warning; the caller never sees an error.
func Resample(samples []float32, sourceRate, targetRate int, log zerolog.Logger) []float32 {
	if len(samples) == 0 || sourceRate <= 0 || targetRate <= 0 {
		return samples
	}

	diff := sourceRate - targetRate
	if diff < 0 {
		diff = -diff
	}
	if diff <= resampleToleranceHz {
		return samples
	}

	log.Info().Int("source_rate", sourceRate).Int("target_rate", targetRate).Msg("Resampling")

	out, err := resampleSinc(samples, sourceRate, targetRate)
	if err != nil {
		log.Warn().Err(err).Msg("Sinc resampler failed, using linear fallback")
		return resampleLinear(samples, float64(sourceRate)/float64(targetRate))
	}
	return out
}

// resampleSinc converts rates in the frequency domain: each fixed-size chunk
// is split into sub-chunks, transformed, its spectrum stretched or truncated
// to the output length, and transformed back. Processing is double-precision
// end to end; the final partial chunk is zero-padded to a full window and
// the concatenated output truncated to round(n * target/source).
func resampleSinc(samples []float32, sourceRate, targetRate int) ([]float32, error) {
	if sourceRate <= 0 || targetRate <= 0 {
		return nil, fmt.Errorf("invalid rate conversion %dHz -> %dHz", sourceRate, targetRate)
	}

	ratio := float64(targetRate) / float64(sourceRate)
	subSize := resampleChunkSize / resampleSubChunks

	input := make([]float64, len(samples))
	for i, s := range samples {
		input[i] = float64(s)
	}
	if rem := len(input) % resampleChunkSize; rem != 0 {
		input = append(input, make([]float64, resampleChunkSize-rem)...)
	}

	want := int(math.Round(float64(len(samples)) * ratio))
	out := make([]float32, 0, want+resampleChunkSize)

	produced := 0
	for off := 0; off < len(input); off += subSize {
		// Cumulative rounding keeps the running output aligned with the
		// exact ratio instead of accumulating per-chunk error.
		outLen := int(math.Round(float64(off+subSize)*ratio)) - produced
		chunkOut, err := resampleChunk(input[off:off+subSize], outLen)
		if err != nil {
			return nil, err
		}
		for _, s := range chunkOut {
			out = append(out, float32(s))
		}
		produced += outLen
	}

	if len(out) > want {
		out = out[:want]
	}
	return out, nil
}

// resampleChunk maps one time-domain chunk to outLen samples via FFT,
// spectrum resize, and inverse FFT.
func resampleChunk(chunk []float64, outLen int) ([]float64, error) {
	if outLen <= 0 {
		return nil, fmt.Errorf("degenerate chunk output length %d", outLen)
	}

	spectrum := fft.FFTReal(chunk)
	n := len(chunk)

	// Copy the bins both sizes can represent. Content above the smaller
	// Nyquist is dropped when downsampling and left zero when upsampling.
	bins := n/2 + 1
	if outBins := outLen/2 + 1; outBins < bins {
		bins = outBins
	}

	scale := complex(float64(outLen)/float64(n), 0)
	stretched := make([]complex128, outLen)
	for i := 0; i < bins; i++ {
		stretched[i] = spectrum[i] * scale
		if i > 0 && outLen-i > i {
			stretched[outLen-i] = cmplx.Conj(spectrum[i]) * scale
		}
	}

	inverse := fft.IFFT(stretched)
	out := make([]float64, outLen)
	for i, c := range inverse {
		out[i] = real(c)
	}
	return out, nil
}

// resampleLinear is the fallback: fractional blend of the two nearest source
// samples, or the boundary sample at the end of the sequence. ratio is
// sourceRate / targetRate.
func resampleLinear(samples []float32, ratio float64) []float32 {
	if ratio <= 0 {
		return nil
	}
	outLen := int(float64(len(samples)) / ratio)
	out := make([]float32, outLen)
	for i := range out {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := float32(srcPos - float64(srcIdx))

		switch {
		case srcIdx+1 < len(samples):
			out[i] = samples[srcIdx]*(1-frac) + samples[srcIdx+1]*frac
		case srcIdx < len(samples):
			out[i] = samples[srcIdx]
		}
	}
	return out
}

// Package wav persists finalized captures as 16-bit PCM WAV files.
package wav

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	gwav "github.com/go-audio/wav"
)

const bitDepth = 16

// Write encodes mono float32 samples as a 16-bit PCM WAV file at path.
// Samples are clamped to [-1, 1] before scaling.
func Write(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := gwav.NewEncoder(f, sampleRate, bitDepth, 1, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(s * 32767)
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return nil
}

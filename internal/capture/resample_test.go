package capture

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDetectRate(t *testing.T) {
	if got := DetectRate(16000, time.Second); got != 16000 {
		t.Fatalf("expected 16000, got %d", got)
	}
	if got := DetectRate(24000, 500*time.Millisecond); got != 48000 {
		t.Fatalf("expected 48000, got %d", got)
	}
	if got := DetectRate(16000, 0); got != 0 {
		t.Fatalf("expected 0 for zero elapsed, got %d", got)
	}
}

func TestResampleSkipWithinTolerance(t *testing.T) {
	input := make([]float32, 1650)
	for i := range input {
		input[i] = float32(math.Sin(float64(i) / 10))
	}

	got := Resample(input, 16500, 16000, zerolog.Nop())
	if len(got) != len(input) {
		t.Fatalf("expected unmodified length %d, got %d", len(input), len(got))
	}
	for i := range input {
		if got[i] != input[i] {
			t.Fatalf("sample %d modified: %f != %f", i, got[i], input[i])
		}
	}
}

func TestResampleDownscaling(t *testing.T) {
	input := make([]float32, 48000)
	for i := range input {
		input[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 48000))
	}

	got := Resample(input, 48000, 16000, zerolog.Nop())
	if diff := len(got) - 16000; diff < -1 || diff > 1 {
		t.Fatalf("expected ~16000 samples, got %d", len(got))
	}
}

func TestResampleUpscaling(t *testing.T) {
	input := make([]float32, 8000)
	for i := range input {
		input[i] = float32(math.Sin(2 * math.Pi * 200 * float64(i) / 8000))
	}

	got := Resample(input, 8000, 16000, zerolog.Nop())
	if diff := len(got) - 16000; diff < -1 || diff > 1 {
		t.Fatalf("expected ~16000 samples, got %d", len(got))
	}
}

func TestResampleDCPreserved(t *testing.T) {
	input := make([]float32, 48000)
	for i := range input {
		input[i] = 0.5
	}

	got := Resample(input, 48000, 16000, zerolog.Nop())
	// Skip the edges: the zero-padded final chunk rings near the tail.
	for i := 1000; i < 14000; i++ {
		if diff := math.Abs(float64(got[i]) - 0.5); diff > 0.01 {
			t.Fatalf("sample %d drifted from DC: %f", i, got[i])
		}
	}
}

func TestResampleSincInvalidRates(t *testing.T) {
	if _, err := resampleSinc([]float32{1, 2, 3}, 0, 16000); err == nil {
		t.Fatal("expected error for zero source rate")
	}
}

func TestResampleLinearDownsampling(t *testing.T) {
	input := make([]float32, 100)
	for i := range input {
		input[i] = float32(math.Sin(float64(i)))
	}
	got := resampleLinear(input, 2.0)
	if len(got) != 50 {
		t.Fatalf("expected 50 samples, got %d", len(got))
	}
}

func TestResampleLinearUpsampling(t *testing.T) {
	input := []float32{0.0, 1.0, 0.0, -1.0}
	got := resampleLinear(input, 0.5)
	if len(got) != 8 {
		t.Fatalf("expected 8 samples, got %d", len(got))
	}
	// Midpoints blend their neighbors.
	if got[1] != 0.5 {
		t.Fatalf("expected interpolated 0.5, got %f", got[1])
	}
}

func TestResampleEmptyInput(t *testing.T) {
	if got := Resample(nil, 48000, 16000, zerolog.Nop()); len(got) != 0 {
		t.Fatalf("expected empty output, got %d samples", len(got))
	}
}

package capture

import "testing"

func TestDownmixStereoPairs(t *testing.T) {
	input := []float32{
		0.0, 1.0,
		0.5, 0.5,
		1.0, 0.0,
		-0.5, 0.5,
	}
	want := []float32{0.5, 0.5, 0.5, 0.0}

	got := DownmixStereo(input)
	if len(got) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestDownmixStereoOddTail(t *testing.T) {
	got := DownmixStereo([]float32{1.0, -1.0, 0.5})
	want := []float32{0.0, 0.5}

	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestDownmixStereoEmpty(t *testing.T) {
	if got := DownmixStereo(nil); len(got) != 0 {
		t.Fatalf("expected empty output, got %d samples", len(got))
	}
}

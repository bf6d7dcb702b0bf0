package capture

import "testing"

func TestSampleBufferPresized(t *testing.T) {
	b := NewSampleBuffer(16000, 5)
	if got := cap(b.samples); got != 16000*5 {
		t.Fatalf("expected capacity %d, got %d", 16000*5, got)
	}

	b = NewSampleBuffer(16000, 0)
	if got := cap(b.samples); got != 16000*defaultCaptureSeconds {
		t.Fatalf("expected default capacity %d, got %d", 16000*defaultCaptureSeconds, got)
	}
}

func TestSampleBufferAppendOrder(t *testing.T) {
	b := NewSampleBuffer(100, 1)
	b.Append([]float32{1, 2})
	b.Append([]float32{3})
	b.Append(nil)
	b.Append([]float32{4})

	if b.Len() != 4 {
		t.Fatalf("expected 4 samples, got %d", b.Len())
	}
	got := b.Snapshot()
	for i, want := range []float32{1, 2, 3, 4} {
		if got[i] != want {
			t.Fatalf("sample %d: expected %f, got %f", i, want, got[i])
		}
	}
}

func TestSampleBufferGrowsPastCapacity(t *testing.T) {
	b := NewSampleBuffer(2, 1)
	for i := 0; i < 10; i++ {
		b.Append([]float32{float32(i)})
	}
	if b.Len() != 10 {
		t.Fatalf("expected 10 samples after growth, got %d", b.Len())
	}
	if b.Snapshot()[9] != 9 {
		t.Fatalf("expected last sample 9, got %f", b.Snapshot()[9])
	}
}

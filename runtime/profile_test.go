package runtime

import "testing"

func TestProfileAggregatesByTag(t *testing.T) {
	gc := New()
	gc.NewString([]byte("a"))
	gc.NewString([]byte("bb"))
	gc.NewIntArray(4)

	p := gc.Profile()
	if len(p.Sample) != 2 {
		t.Fatalf("expected 2 samples (string, int[]), got %d", len(p.Sample))
	}

	var total int64
	for _, s := range p.Sample {
		if len(s.Value) != 2 {
			t.Fatalf("expected each sample to carry [count, bytes]")
		}
		total += s.Value[0]
	}
	if total != 3 {
		t.Fatalf("expected 3 total live objects across samples, got %d", total)
	}
}

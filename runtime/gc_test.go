package runtime

import (
	"fmt"
	"testing"
)

func TestAddRootIdempotent(t *testing.T) {
	gc := New()
	s := gc.NewString([]byte("hi"))
	gc.AddRoot(s)
	gc.AddRoot(s)
	gc.AddRoot(s)
	if got := gc.RootCount(); got != 1 {
		t.Fatalf("expected 1 root after repeated AddRoot, got %d", got)
	}
}

func TestRemoveRootIsExactMatch(t *testing.T) {
	gc := New()
	s := gc.NewString([]byte("hi"))
	gc.AddRoot(s)
	gc.RemoveRoot(s)
	if got := gc.RootCount(); got != 0 {
		t.Fatalf("expected 0 roots after RemoveRoot, got %d", got)
	}
	// Removing again, or removing nil, must not panic.
	gc.RemoveRoot(s)
	gc.RemoveRoot(nil)
}

func TestAddRootIgnoresNil(t *testing.T) {
	gc := New()
	gc.AddRoot(nil)
	if got := gc.RootCount(); got != 0 {
		t.Fatalf("expected AddRoot(nil) to be a no-op, got %d roots", got)
	}
}

// TestCollectSurvivorsAndBytes is spec.md §8's GC correctness scenario:
// 20 strings allocated, roots on even indices, collect, then every
// even-indexed string must still be readable with its original bytes
// and total_bytes_allocated must equal the sum of the 10 survivors.
func TestCollectSurvivorsAndBytes(t *testing.T) {
	gc := New()

	strs := make([]*StringObject, 20)
	for i := 0; i < 20; i++ {
		strs[i] = gc.NewString([]byte(fmt.Sprintf("s%02d", i)))
		if i%2 == 0 {
			gc.AddRoot(strs[i])
		}
	}

	gc.Collect()

	var wantBytes int64
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			wantBytes += int64(stringHeaderBytes + len(strs[i].Bytes))
			if string(strs[i].Bytes) != fmt.Sprintf("s%02d", i) {
				t.Fatalf("survivor %d has corrupted bytes: %q", i, strs[i].Bytes)
			}
		}
	}

	if got := gc.TotalBytesAllocated(); got != wantBytes {
		t.Fatalf("total_bytes_allocated = %d, want %d", got, wantBytes)
	}
}

func TestCollectClearsMarkBits(t *testing.T) {
	gc := New()
	s := gc.NewString([]byte("root"))
	gc.AddRoot(s)
	gc.Collect()
	if s.Mark {
		t.Fatalf("expected mark bit cleared after collect, still set")
	}
}

func TestUnreachableArrayAndElementAreCollected(t *testing.T) {
	// A string array and the string it references, with no live root
	// on either, must both be swept: a reference from an unreachable
	// object does not keep its target alive.
	gc := New()
	arr := gc.NewStringArray(1)
	s := gc.NewString([]byte("cyclic"))
	arr.Set(0, s)
	// No root registered on arr or s.

	before := gc.TotalBytesAllocated()
	gc.Collect()
	after := gc.TotalBytesAllocated()

	if after >= before {
		t.Fatalf("expected unreachable objects to be freed: before=%d after=%d", before, after)
	}
}

func TestStringArrayTracesLiveElements(t *testing.T) {
	gc := New()
	arr := gc.NewStringArray(2)
	s0 := gc.NewString([]byte("kept"))
	arr.Set(0, s0)
	// index 1 left nil - spec.md §8: "StringArray with a null slot is
	// valid and the mark phase skips nulls."
	gc.AddRoot(arr)

	gc.Collect()

	if got := arr.Get(0); got != s0 {
		t.Fatalf("expected element 0 to survive collection unchanged")
	}
}

func TestThresholdAdaptsAfterCollect(t *testing.T) {
	gc := New()
	if gc.Threshold() != initialThreshold {
		t.Fatalf("expected initial threshold %d, got %d", initialThreshold, gc.Threshold())
	}
	gc.NewString([]byte("x"))
	gc.Collect()
	want := gc.TotalBytesAllocated() * 2
	if want < 1024 {
		want = 1024
	}
	if gc.Threshold() != want {
		t.Fatalf("expected threshold max(total*2, 1024) = %d, got %d", want, gc.Threshold())
	}
}

package runtime

import "testing"

func TestIntArrayPushPopIsIdentity(t *testing.T) {
	gc := New()
	a := gc.NewIntArray(4)
	for _, v := range []int64{1, 2, 3} {
		a.Push(v)
	}
	lengthBefore := a.Length
	contentsBefore := append([]int64(nil), a.Data[:a.Length]...)

	popped := a.Pop()
	a.Push(popped)

	if a.Length != lengthBefore {
		t.Fatalf("push-after-pop changed length: got %d, want %d", a.Length, lengthBefore)
	}
	for i := range contentsBefore {
		if a.Data[i] != contentsBefore[i] {
			t.Fatalf("push-after-pop changed contents at %d: got %d, want %d", i, a.Data[i], contentsBefore[i])
		}
	}
}

func TestIntArrayGrowthPolicy(t *testing.T) {
	tests := []struct {
		capacity int
		want     int
	}{
		{0, 4},
		{2, 4},
		{4, 8},
		{512, 1024},
		{1024, 1536},
		{2000, 3000},
	}
	for _, tt := range tests {
		if got := nextCapacity(tt.capacity); got != tt.want {
			t.Errorf("nextCapacity(%d) = %d, want %d", tt.capacity, got, tt.want)
		}
	}
}

func TestIntArrayResizeEnlargesOnly(t *testing.T) {
	gc := New()
	a := gc.NewIntArray(4)
	a.Push(1)
	a.Push(2)

	if err := a.Resize(8); err != nil {
		t.Fatalf("unexpected error enlarging: %v", err)
	}
	if a.Capacity != 8 {
		t.Fatalf("expected capacity 8 after resize, got %d", a.Capacity)
	}
	if a.Data[0] != 1 || a.Data[1] != 2 {
		t.Fatalf("resize did not preserve contents: %v", a.Data[:2])
	}

	if err := a.Resize(2); err == nil {
		t.Fatalf("expected an error shrinking capacity")
	}
}

func TestIntArrayBoundsCheck(t *testing.T) {
	gc := New()
	a := gc.NewIntArray(4)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a panic indexing an empty array")
		}
	}()
	a.Get(0)
}

func TestIntArraySetGrowsLength(t *testing.T) {
	gc := New()
	a := gc.NewIntArray(4)
	a.Set(2, 99)
	if a.Length != 3 {
		t.Fatalf("expected Set at index 2 to widen length to 3, got %d", a.Length)
	}
	if a.Get(2) != 99 {
		t.Fatalf("expected Get(2) == 99")
	}
}

func TestFloatArrayPushPop(t *testing.T) {
	gc := New()
	a := gc.NewFloatArray(2)
	a.Push(1.5)
	a.Push(2.5)
	if got := a.Pop(); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
	if a.Length != 1 {
		t.Fatalf("expected length 1 after pop, got %d", a.Length)
	}
}

func TestBoolArrayPushPop(t *testing.T) {
	gc := New()
	a := gc.NewBoolArray(2)
	a.Push(true)
	a.Push(false)
	if got := a.Pop(); got != false {
		t.Fatalf("expected false, got %v", got)
	}
}

func TestStringArrayNullSlotIsValid(t *testing.T) {
	gc := New()
	a := gc.NewStringArray(3)
	a.Set(2, gc.NewString([]byte("a")))
	// index 0 and 1 left nil, but within the length Set(2) widened to.
	if got := a.Get(1); got != nil {
		t.Fatalf("expected nil slot, got %v", got)
	}
}

// Growing an array's element buffer (via Resize or an implicit Push
// growth) must keep total_bytes_allocated and the object's own Size in
// sync with the new buffer, per spec.md §8.2c.
func TestIntArrayGrowthUpdatesAllocationAccounting(t *testing.T) {
	gc := New()
	a := gc.NewIntArray(4)
	before := gc.TotalBytesAllocated()
	sizeBefore := a.Size

	if err := a.Resize(8); err != nil {
		t.Fatalf("unexpected error enlarging: %v", err)
	}

	wantDelta := int64((8 - 4) * 8)
	if got := gc.TotalBytesAllocated(); got != before+wantDelta {
		t.Fatalf("total_bytes_allocated after growth = %d, want %d", got, before+wantDelta)
	}
	if a.Size != sizeBefore+wantDelta {
		t.Fatalf("array Size after growth = %d, want %d", a.Size, sizeBefore+wantDelta)
	}
}

func TestPopOnEmptyArrayPanics(t *testing.T) {
	gc := New()
	a := gc.NewIntArray(4)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a panic popping an empty array")
		}
	}()
	a.Pop()
}

package render

import "testing"

func ramp(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}

func TestWindowNoWrap(t *testing.T) {
	x := ramp(10)
	v := Window(x, 2, 5)
	if len(v.Tail) != 0 {
		t.Fatalf("unexpected tail %v", v.Tail)
	}
	if v.Len() != 5 || v.Head[0] != 2 || v.Head[4] != 6 {
		t.Fatalf("head = %v", v.Head)
	}
}

func TestWindowExactEnd(t *testing.T) {
	x := ramp(10)
	v := Window(x, 6, 4)
	if len(v.Head) != 4 || len(v.Tail) != 0 {
		t.Fatalf("view split = (%d, %d), want (4, 0)", len(v.Head), len(v.Tail))
	}
}

// A window built across the wrap boundary must match two manual reads.
func TestWindowMatchesManualSplitAcrossWrap(t *testing.T) {
	const size = 37
	x := ramp(size)

	for start := -size; start < 2*size; start++ {
		for _, n := range []int{1, 5, 16, size} {
			v := Window(x, start, n)
			if v.Len() != n {
				t.Fatalf("start=%d n=%d: Len = %d", start, n, v.Len())
			}

			s := ((start % size) + size) % size
			var manual []float64
			if s+n <= size {
				manual = append(manual, x[s:s+n]...)
			} else {
				manual = append(manual, x[s:]...)
				manual = append(manual, x[:n-(size-s)]...)
			}

			for k := 0; k < n; k++ {
				if v.At(k) != manual[k] {
					t.Fatalf("start=%d n=%d k=%d: At = %v, want %v", start, n, k, v.At(k), manual[k])
				}
				if want := x[(s+k)%size]; v.At(k) != want {
					t.Fatalf("start=%d n=%d k=%d: At = %v, modulo read %v", start, n, k, v.At(k), want)
				}
			}
		}
	}
}

func TestWindowSetWritesThrough(t *testing.T) {
	x := make([]float64, 6)
	v := Window(x, 4, 4)
	for k := 0; k < 4; k++ {
		v.Set(k, float64(k+1))
	}
	want := []float64{3, 4, 0, 0, 1, 2}
	for i := range want {
		if x[i] != want[i] {
			t.Fatalf("x = %v, want %v", x, want)
		}
	}
}

func TestWindowEmptyAndOversized(t *testing.T) {
	if v := Window(ramp(4), 1, 0); v.Len() != 0 {
		t.Fatalf("empty window Len = %d", v.Len())
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for oversized window")
		}
	}()
	Window(ramp(4), 0, 5)
}

func TestWindowCopyTo(t *testing.T) {
	x := ramp(8)
	dst := make([]float64, 5)
	n := Window(x, 6, 5).CopyTo(dst)
	want := []float64{6, 7, 0, 1, 2}
	if n != 5 {
		t.Fatalf("copied %d, want 5", n)
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}

package render

import (
	"errors"
	"testing"
)

func TestNewInvalidSize(t *testing.T) {
	for _, size := range []int{0, -4} {
		if _, err := New(size); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("New(%d) error = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestInsertStoresNewestFirst(t *testing.T) {
	b, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	b.Insert([]float64{1, 2, 3})
	if b.WriteIndex() != 5 {
		t.Fatalf("WriteIndex = %d, want 5", b.WriteIndex())
	}

	// Walking forward from the write index walks backward in time.
	want := []float64{3, 2, 1}
	for k, w := range want {
		if got := b.Samples()[b.OffsetIndex(b.WriteIndex(), k)]; got != w {
			t.Fatalf("sample %d back = %v, want %v", k, got, w)
		}
	}
}

func TestInsertWrapsAroundRing(t *testing.T) {
	b, _ := New(5)
	b.Insert([]float64{1, 2, 3})
	b.Insert([]float64{4, 5, 6})

	if b.WriteIndex() != 4 {
		t.Fatalf("WriteIndex = %d, want 4", b.WriteIndex())
	}

	// Most recent five samples, newest first.
	want := []float64{6, 5, 4, 3, 2}
	got := make([]float64, 5)
	Window(b.Samples(), b.WriteIndex(), 5).CopyTo(got)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history = %v, want %v", got, want)
		}
	}
}

func TestReadDelayFollowsWrites(t *testing.T) {
	b, _ := New(16)
	b.SetReadDelay(3)
	if b.ReadIndex() != 3 {
		t.Fatalf("ReadIndex = %d, want 3", b.ReadIndex())
	}

	for i := 0; i < 10; i++ {
		b.Insert([]float64{float64(i), float64(i)})
		if want := b.OffsetIndex(b.WriteIndex(), 3); b.ReadIndex() != want {
			t.Fatalf("insert %d: ReadIndex = %d, want %d", i, b.ReadIndex(), want)
		}
	}

	b.SetReadDelay(-1)
	if b.ReadDelay() != 15 {
		t.Fatalf("ReadDelay = %d, want 15 after wrapping -1", b.ReadDelay())
	}
}

func TestOffsetIndexNegative(t *testing.T) {
	b, _ := New(10)
	tests := []struct{ index, offset, want int }{
		{0, -1, 9},
		{3, -13, 0},
		{9, 1, 0},
		{4, 25, 9},
	}
	for _, tt := range tests {
		if got := b.OffsetIndex(tt.index, tt.offset); got != tt.want {
			t.Fatalf("OffsetIndex(%d, %d) = %d, want %d", tt.index, tt.offset, got, tt.want)
		}
	}
}

func TestInsertPanicsOnOversizedBlock(t *testing.T) {
	b, _ := New(4)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for block longer than buffer")
		}
	}()
	b.Insert(make([]float64, 5))
}

func TestResetKeepsDelay(t *testing.T) {
	b, _ := New(8)
	b.SetReadDelay(2)
	b.Insert([]float64{1, 2, 3, 4})
	b.Reset()

	if b.WriteIndex() != 0 || b.ReadIndex() != 2 {
		t.Fatalf("indices after Reset = (%d, %d), want (0, 2)", b.WriteIndex(), b.ReadIndex())
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("sample %d = %v after Reset", i, v)
		}
	}
}

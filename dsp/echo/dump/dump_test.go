package dump

import "testing"

func TestRecorderCopiesValues(t *testing.T) {
	r := NewRecorder()
	v := []float64{1, 2, 3}
	r.DumpRaw("a", v)
	v[0] = 99

	got, ok := r.Latest("a")
	if !ok {
		t.Fatal("missing entry")
	}
	if got[0] != 1 {
		t.Fatalf("recorder aliased caller slice: %v", got)
	}

	got[1] = 42
	again, _ := r.Latest("a")
	if again[1] != 2 {
		t.Fatalf("Latest returned internal buffer: %v", again)
	}
}

func TestRecorderCountsAndNames(t *testing.T) {
	r := NewRecorder()
	r.DumpRaw("b", []float64{1})
	r.DumpRaw("a", []float64{1})
	r.DumpRaw("b", []float64{2, 3})

	if n := r.Calls("b"); n != 2 {
		t.Fatalf("Calls(b) = %d, want 2", n)
	}
	if got, _ := r.Latest("b"); len(got) != 2 || got[1] != 3 {
		t.Fatalf("Latest(b) = %v", got)
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("Names = %v", names)
	}

	r.Reset()
	if _, ok := r.Latest("a"); ok {
		t.Fatal("entry survived Reset")
	}
	if r.Calls("b") != 0 {
		t.Fatal("count survived Reset")
	}
}

func TestNop(t *testing.T) {
	Nop{}.DumpRaw("x", []float64{1})
}

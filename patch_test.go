package hexblock

import (
	"bytes"
	"testing"
)

func TestPatchSetSupersedes(t *testing.T) {
	p := NewPatchOverlay()
	p.Set(10, []byte{1, 2, 3})
	p.Set(10, []byte{9})

	run, ok := p.Get(10)
	if !ok {
		t.Fatal("Expected run at 10")
	}
	if !bytes.Equal(run, []byte{9}) {
		t.Errorf("Later set should replace the whole run, got %v", run)
	}
	if p.Len() != 1 {
		t.Errorf("Expected 1 run, got %d", p.Len())
	}
}

func TestPatchAscendRangeOrder(t *testing.T) {
	p := NewPatchOverlay()
	// Inserted out of order on purpose.
	for _, off := range []int64{500, 10, 2048, 100} {
		p.Set(off, []byte{byte(off)})
	}

	var got []int64
	p.AscendRange(0, 1000, func(offset int64, data []byte) bool {
		got = append(got, offset)
		return true
	})

	want := []int64{10, 100, 500}
	if len(got) != len(want) {
		t.Fatalf("Expected %d runs in range, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Run %d: expected offset %d, got %d", i, want[i], got[i])
		}
	}
}

func TestPatchSetCopiesRun(t *testing.T) {
	p := NewPatchOverlay()
	src := []byte{1, 2, 3}
	p.Set(0, src)
	src[0] = 99

	run, _ := p.Get(0)
	if run[0] != 1 {
		t.Error("Overlay must not alias the caller's slice")
	}
}

func TestPatchApply(t *testing.T) {
	p := NewPatchOverlay()
	p.Set(100, []byte{0xAA, 0xBB})
	p.Set(2, []byte{0xCC}) // below the window, ignored
	p.Set(70, []byte{0xDD})

	b := &Block{Offset: 64, Working: make([]byte, 64)}
	p.Apply(b)

	if b.Working[70-64] != 0xDD {
		t.Errorf("Expected 0xDD at local 6, got %#x", b.Working[6])
	}
	if b.Working[100-64] != 0xAA || b.Working[101-64] != 0xBB {
		t.Error("Run at 100 not applied")
	}
	for i, v := range b.Working {
		switch i {
		case 6, 36, 37:
			continue
		}
		if v != 0 {
			t.Fatalf("Byte %d unexpectedly changed to %#x", i, v)
		}
	}
}

func TestPatchApplyClipsAtWindowEnd(t *testing.T) {
	p := NewPatchOverlay()
	// Starts inside the window, extends two bytes past it.
	p.Set(62, []byte{1, 2, 3, 4})

	b := &Block{Offset: 0, Working: make([]byte, 64)}
	p.Apply(b)

	if b.Working[62] != 1 || b.Working[63] != 2 {
		t.Error("In-window part of the run should be applied")
	}
}

func TestPatchClear(t *testing.T) {
	p := NewPatchOverlay()
	p.Set(0, []byte{1})
	p.Set(9000, []byte{2})
	p.Clear()
	if p.Len() != 0 {
		t.Errorf("Expected empty overlay, got %d runs", p.Len())
	}
	if _, ok := p.Get(0); ok {
		t.Error("Cleared overlay should not return runs")
	}
}

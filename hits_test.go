package hexblock

import "testing"

// newHitFile builds a file with two prepared hit groups.
func newHitFile(t *testing.T) *File {
	t.Helper()
	_, f, _ := newTestFile(t, make([]byte, 8192), 0)
	f.hits.Add(HitGroup{Pattern: "one", Hits: []int64{10, 200, 3000}})
	f.hits.Add(HitGroup{Pattern: "two", Hits: []int64{42}})
	return f
}

func TestNextPrevHitWraps(t *testing.T) {
	f := newHitFile(t)

	off, ok := f.NextHit()
	if !ok || off != 200 {
		t.Errorf("Expected jump to 200, got %d ok=%v", off, ok)
	}
	if f.Block().Offset != 200 {
		t.Errorf("Window should follow the hit, offset=%d", f.Block().Offset)
	}

	f.NextHit()
	off, _ = f.NextHit()
	if off != 10 {
		t.Errorf("Expected wrap to first hit 10, got %d", off)
	}

	off, _ = f.PrevHit()
	if off != 3000 {
		t.Errorf("Expected wrap back to last hit 3000, got %d", off)
	}
}

func TestHitGroupNavigation(t *testing.T) {
	f := newHitFile(t)

	off, ok := f.NextHitGroup()
	if !ok || off != 42 {
		t.Errorf("Expected jump to group two's hit 42, got %d ok=%v", off, ok)
	}
	if f.hits.Selected != 1 {
		t.Errorf("Expected group 1 selected, got %d", f.hits.Selected)
	}

	off, _ = f.NextHitGroup()
	if off != 10 || f.hits.Selected != 0 {
		t.Errorf("Expected wrap to group 0 hit 10, got %d sel=%d", off, f.hits.Selected)
	}

	off, _ = f.PrevHitGroup()
	if off != 42 || f.hits.Selected != 1 {
		t.Errorf("Expected wrap to group 1 hit 42, got %d sel=%d", off, f.hits.Selected)
	}
}

func TestHitNavigationWithoutGroups(t *testing.T) {
	_, f, _ := newTestFile(t, []byte("x"), 0)

	if _, ok := f.NextHit(); ok {
		t.Error("NextHit without groups should report no hit")
	}
	if _, ok := f.PrevHit(); ok {
		t.Error("PrevHit without groups should report no hit")
	}
	if _, ok := f.NextHitGroup(); ok {
		t.Error("NextHitGroup without groups should report no hit")
	}
	if f.Block().Offset != 0 {
		t.Error("Failed navigation must not move the window")
	}
}

func TestHitNavigationEmptyGroup(t *testing.T) {
	_, f, _ := newTestFile(t, []byte("x"), 0)
	f.hits.Add(HitGroup{Pattern: "miss"})

	if _, ok := f.NextHit(); ok {
		t.Error("Empty group should report no hit")
	}
	if _, ok := f.NextHitGroup(); ok {
		t.Error("Wrapping onto an empty group should report no hit")
	}
}

func TestHitSelectionPersistsPerGroup(t *testing.T) {
	f := newHitFile(t)

	f.NextHit() // group one -> selected 1 (offset 200)
	f.NextHitGroup()
	off, _ := f.NextHitGroup() // back to group one
	if off != 200 {
		t.Errorf("Group should keep its own selection, got %d", off)
	}
}

package hexblock

// HitGroup is the ordered set of match offsets produced by one search
// invocation, with a wrapping selected index for navigation.
type HitGroup struct {
	Pattern  string
	Hits     []int64
	Selected int
}

// Empty reports whether the group found no matches.
func (g *HitGroup) Empty() bool {
	return len(g.Hits) == 0
}

// HitList is a file's collection of hit groups. Groups accumulate per
// search invocation, even for a repeated pattern, and live until the file
// is closed.
type HitList struct {
	Groups   []HitGroup
	Selected int
}

// Add appends a group.
func (l *HitList) Add(g HitGroup) {
	l.Groups = append(l.Groups, g)
}

// Current returns the selected group.
func (l *HitList) Current() (*HitGroup, bool) {
	if len(l.Groups) == 0 {
		return nil, false
	}
	return &l.Groups[l.Selected], true
}

// NextHit advances the selected group's hit selection, wrapping past the
// last hit, and moves the window to it. It returns the hit offset and
// whether a hit was selected.
func (f *File) NextHit() (int64, bool) {
	g, ok := f.hits.Current()
	if !ok || g.Empty() {
		return 0, false
	}
	g.Selected = (g.Selected + 1) % len(g.Hits)
	return f.jumpToHit(g), true
}

// PrevHit is the mirror of NextHit, wrapping past the first hit.
func (f *File) PrevHit() (int64, bool) {
	g, ok := f.hits.Current()
	if !ok || g.Empty() {
		return 0, false
	}
	if g.Selected > 0 {
		g.Selected--
	} else {
		g.Selected = len(g.Hits) - 1
	}
	return f.jumpToHit(g), true
}

// NextHitGroup selects the next hit group, wrapping, and moves the window
// to that group's selected hit if it has one.
func (f *File) NextHitGroup() (int64, bool) {
	l := &f.hits
	if len(l.Groups) == 0 {
		return 0, false
	}
	l.Selected = (l.Selected + 1) % len(l.Groups)
	g := &l.Groups[l.Selected]
	if g.Empty() {
		return 0, false
	}
	return f.jumpToHit(g), true
}

// PrevHitGroup is the mirror of NextHitGroup.
func (f *File) PrevHitGroup() (int64, bool) {
	l := &f.hits
	if len(l.Groups) == 0 {
		return 0, false
	}
	if l.Selected > 0 {
		l.Selected--
	} else {
		l.Selected = len(l.Groups) - 1
	}
	g := &l.Groups[l.Selected]
	if g.Empty() {
		return 0, false
	}
	return f.jumpToHit(g), true
}

func (f *File) jumpToHit(g *HitGroup) int64 {
	offset := g.Hits[g.Selected]
	f.block.Offset = offset
	return offset
}

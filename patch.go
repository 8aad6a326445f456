package hexblock

import "github.com/google/btree"

// patchRun is one pending edit: a replacement byte run at an absolute
// file offset.
type patchRun struct {
	offset int64
	data   []byte
}

// PatchOverlay is an ordered mapping from absolute file offset to a
// replacement byte run, representing edits not yet committed to disk.
// A later Set at the same offset supersedes the earlier run entirely.
// Runs are never merged at write time; coalescing happens only during
// flush.
type PatchOverlay struct {
	tree *btree.BTreeG[patchRun]
}

// NewPatchOverlay creates an empty overlay.
func NewPatchOverlay() *PatchOverlay {
	return &PatchOverlay{
		tree: btree.NewG(16, func(a, b patchRun) bool { return a.offset < b.offset }),
	}
}

// Set records a replacement run at the given offset, replacing any run
// previously recorded at exactly that offset.
func (p *PatchOverlay) Set(offset int64, data []byte) {
	p.tree.ReplaceOrInsert(patchRun{offset: offset, data: append([]byte(nil), data...)})
}

// Get returns the run recorded at exactly the given offset.
func (p *PatchOverlay) Get(offset int64) ([]byte, bool) {
	run, ok := p.tree.Get(patchRun{offset: offset})
	if !ok {
		return nil, false
	}
	return run.data, true
}

// Len returns the number of pending runs.
func (p *PatchOverlay) Len() int {
	return p.tree.Len()
}

// Clear drops every pending run.
func (p *PatchOverlay) Clear() {
	p.tree.Clear(false)
}

// AscendRange visits runs with offset in [min, max) in ascending order.
// The iterator must not mutate the overlay.
func (p *PatchOverlay) AscendRange(min, max int64, fn func(offset int64, data []byte) bool) {
	p.tree.AscendRange(patchRun{offset: min}, patchRun{offset: max}, func(run patchRun) bool {
		return fn(run.offset, run.data)
	})
}

// Apply splices every run whose offset lies inside the block's window
// into the working buffer, overwriting byte-for-byte. Runs extending past
// the window's upper bound are clipped.
func (p *PatchOverlay) Apply(b *Block) {
	min := b.Offset
	max := b.Offset + int64(len(b.Working))
	p.AscendRange(min, max, func(offset int64, data []byte) bool {
		local := offset - min
		n := int64(len(data))
		if local+n > int64(len(b.Working)) {
			n = int64(len(b.Working)) - local
		}
		copy(b.Working[local:local+n], data[:n])
		return true
	})
}

package hexblock

// WriteBlock is the alignment unit for flush writes. Every flushed region
// starts and ends on a WriteBlock boundary (clamped to the file length).
const WriteBlock = 2048

// Flush persists every pending patch to disk and clears the overlay.
//
// Patches are walked in ascending offset order, restricted to offsets
// below the file's length as of the last load; patches at or past the end
// are dropped (the engine does not extend files). Each patch maps to an
// aligned region starting at its offset rounded down to WriteBlock, sized
// to its run length rounded up to WriteBlock. A region whose end does not
// extend past the previously written region's end was already covered by
// that write and is skipped, making the scan single-pass. For each new
// region the current disk bytes are read into a scratch window, the full
// overlay is re-applied to it (picking up every patch landing inside the
// region), and the region is written back, clamped to the file length.
//
// On any read or write failure the flush aborts with the error and the
// overlay is left intact in full, so a retried flush re-writes every
// region; regions written before the failure simply get the same bytes
// again.
func (f *File) Flush() error {
	h, err := f.fs.Open(f.path, OpenModeReadWrite)
	if err != nil {
		return err
	}
	defer f.fs.Close(h)

	length, err := f.fs.FileSize(h)
	if err != nil {
		return err
	}

	scratch := &Block{}
	prevEnd := int64(0)
	var ioErr error

	f.patch.AscendRange(0, f.size, func(offset int64, data []byte) bool {
		at := offset &^ (WriteBlock - 1)
		size := ((int64(len(data)) - 1) | (WriteBlock - 1)) + 1
		next := at + size
		if next <= prevEnd {
			// Subsumed by the previous region's write.
			return true
		}

		buf, err := readWindow(f.fs, h, size, at, length)
		if err != nil {
			ioErr = err
			return false
		}
		scratch.Working = buf
		scratch.Offset = at
		f.patch.Apply(scratch)

		wsize := size
		if length-at < wsize {
			wsize = length - at
		}
		if wsize > 0 {
			if err := f.fs.WriteBytesAt(h, scratch.Working[:wsize], at); err != nil {
				ioErr = err
				return false
			}
		}
		prevEnd = next
		return true
	})

	if ioErr != nil {
		return ioErr
	}
	f.patch.Clear()
	return nil
}

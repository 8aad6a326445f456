package hexblock

import "bytes"

// Search scans the file on disk for a byte pattern and appends a new hit
// group to the file's collection, returning the number of hits found.
//
// The file is streamed in fixed chunks; each chunk's read is extended by
// patlen-1 bytes so a match straddling a chunk boundary is still found
// when anchored in the earlier chunk. Only the first match per chunk is
// recorded, and the scan advances by exactly one chunk regardless of
// where the match fell. Search always reads from disk: pending patches
// are not visible to it.
func (f *File) Search(pattern string) (int, error) {
	if pattern == "" {
		return 0, ErrEmptyPattern
	}

	h, err := f.fs.Open(f.path, OpenModeRead)
	if err != nil {
		return 0, err
	}
	defer f.fs.Close(h)

	length, err := f.fs.FileSize(h)
	if err != nil {
		return 0, err
	}

	needle := []byte(pattern)
	group := HitGroup{Pattern: pattern}

	for offset := int64(0); offset < length; offset += DefaultBlockSize {
		buf, err := readWindow(f.fs, h, DefaultBlockSize+int64(len(needle))-1, offset, length)
		if err != nil {
			return 0, err
		}
		if avail := length - offset; avail < int64(len(buf)) {
			// Keep matches out of the end-of-file padding.
			buf = buf[:avail]
		}
		if idx := bytes.Index(buf, needle); idx >= 0 {
			group.Hits = append(group.Hits, offset+int64(idx))
		}
	}

	f.hits.Add(group)
	return len(group.Hits), nil
}

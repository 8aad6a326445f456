package hexblock

import "math"

// DefaultBlockSize is the window size used when none is configured. It is
// also the alignment unit for flush writes and the search chunk size.
const DefaultBlockSize = 2048

// padByte fills the tail of a window that extends past end-of-file.
const padByte = 0xFF

// Block is a fixed-size view of a file at a given offset. Source holds
// exactly what was last read from disk; Working holds Source with all
// pending patches applied. A block is reloaded only when Offset or Size
// differs from the previous load.
type Block struct {
	Working []byte
	Source  []byte

	Offset int64
	Size   int64

	PrevOffset int64
	PrevSize   int64

	loaded bool
}

// NewBlock creates an unloaded block of the given window size.
func NewBlock(size int64) *Block {
	if size <= 0 {
		size = DefaultBlockSize
	}
	return &Block{Size: size}
}

// readWindow reads size bytes at offset from the handle, padding every
// byte past fileLen with the fill value. The returned slice always has
// length size.
func readWindow(fs FileSystemInterface, h FileHandle, size, offset, fileLen int64) ([]byte, error) {
	buf := make([]byte, size)
	n := 0
	if offset < fileLen {
		if err := fs.SeekByte(h, offset); err != nil {
			return nil, err
		}
		var err error
		n, err = fs.ReadBytes(h, buf)
		if err != nil {
			return nil, err
		}
	}
	for i := n; i < len(buf); i++ {
		buf[i] = padByte
	}
	return buf, nil
}

// Load re-reads the window from disk at the current Offset/Size. On
// success Source holds the fresh bytes, Working is a copy of Source, and
// the previous-load markers are updated. On failure the block is left
// exactly as it was.
func (b *Block) Load(fs FileSystemInterface, h FileHandle, fileLen int64) error {
	buf, err := readWindow(fs, h, b.Size, b.Offset, fileLen)
	if err != nil {
		return err
	}
	b.Source = buf
	b.Working = append([]byte(nil), buf...)
	b.PrevOffset = b.Offset
	b.PrevSize = b.Size
	b.loaded = true
	return nil
}

// NeedsLoad reports whether the window must be re-read from disk: either
// it has never been loaded, or its offset or size changed since the last
// load. An unchanged window is served from the cached buffers.
func (b *Block) NeedsLoad() bool {
	return !b.loaded || b.Offset != b.PrevOffset || b.Size != b.PrevSize
}

// Loaded reports whether the block has been read at least once.
func (b *Block) Loaded() bool {
	return b.loaded
}

// Entropy computes the Shannon entropy of the working buffer in bits per
// byte (0 for an empty or uniform window, up to 8 for uniformly random
// bytes).
func (b *Block) Entropy() float64 {
	return Entropy(b.Working)
}

// Entropy computes the Shannon entropy of a byte run in bits per byte.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var histogram [256]int64
	for _, v := range data {
		histogram[v]++
	}
	entropy := 0.0
	scale := 1.0 / float64(len(data))
	for _, count := range histogram {
		if count > 0 {
			p := float64(count) * scale
			entropy += p * -math.Log2(p)
		}
	}
	return entropy
}

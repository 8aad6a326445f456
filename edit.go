package hexblock

import (
	"encoding/binary"
	"strconv"
)

// ElementMode selects the numeric radix edits and displays use.
type ElementMode int

const (
	ModeHex ElementMode = iota
	ModeDec
	ModeOct
	ModeBin
)

// ElementWidth selects the numeric unit an edit decodes into.
type ElementWidth int

const (
	WidthByte ElementWidth = iota
	WidthWord
	WidthDWord
	WidthQWord
)

// SkipMarker is the keystroke that leaves a digit slot unchanged.
const SkipMarker = '.'

// inputSlots covers the widest element: a qword in binary, 8 bytes of 8
// digits each.
const inputSlots = 64

// Base returns the radix of the mode.
func (m ElementMode) Base() int {
	switch m {
	case ModeDec:
		return 10
	case ModeOct:
		return 8
	case ModeBin:
		return 2
	}
	return 16
}

// DigitsPerByte returns how many digit slots one byte occupies in this
// mode.
func (m ElementMode) DigitsPerByte() int {
	switch m {
	case ModeDec, ModeOct:
		return 3
	case ModeBin:
		return 8
	}
	return 2
}

func (m ElementMode) String() string {
	switch m {
	case ModeDec:
		return "dec"
	case ModeOct:
		return "oct"
	case ModeBin:
		return "bin"
	}
	return "hex"
}

// Bytes returns the element size in bytes.
func (w ElementWidth) Bytes() int {
	switch w {
	case WidthWord:
		return 2
	case WidthDWord:
		return 4
	case WidthQWord:
		return 8
	}
	return 1
}

func (w ElementWidth) String() string {
	switch w {
	case WidthWord:
		return "word"
	case WidthDWord:
		return "dword"
	case WidthQWord:
		return "qword"
	}
	return "byte"
}

// Input accumulates per-keystroke digits for one element and decodes them
// against the active radix and element width. There is no commit
// keystroke: every keystroke is a decode attempt, and partial input is
// simply retried on the next one.
type Input struct {
	Mode  ElementMode
	Width ElementWidth

	buf   [inputSlots]byte
	index int
}

// NewInput creates a decoder in hex byte mode.
func NewInput() *Input {
	return &Input{Mode: ModeHex, Width: WidthByte}
}

// Span returns the number of digit slots the current element occupies.
func (in *Input) Span() int {
	return in.Width.Bytes() * in.Mode.DigitsPerByte()
}

// Index returns the cursor position within the element's digit span.
func (in *Input) Index() int {
	return in.index
}

// Digits returns a copy of the element's current digit slots.
func (in *Input) Digits() []byte {
	return append([]byte(nil), in.buf[:in.Span()]...)
}

// Reset rewinds the digit cursor to the first slot. The slot contents are
// kept; they are expected to be re-seeded before the next keystroke.
func (in *Input) Reset() {
	in.index = 0
}

// Seed overwrites the digit buffer with the element's current rendered
// digits, so that skipped slots decode to their existing value.
func (in *Input) Seed(digits []byte) {
	var fresh [inputSlots]byte
	copy(fresh[:], digits)
	in.buf = fresh
}

// Put writes a keystroke into the slot under the cursor. The skip marker
// leaves the slot unchanged.
func (in *Input) Put(c byte) {
	if c != SkipMarker {
		in.buf[in.index] = c
	}
}

// Advance moves the cursor one slot forward, wrapping to the start of the
// element's digit span.
func (in *Input) Advance() {
	in.index++
	if in.index >= in.Span() {
		in.index = 0
	}
}

// Decode attempts to parse the element's digit slots as an unsigned
// integer of the element's bit width, returning its little-endian byte
// run. Incomplete or invalid digits fail the decode and leave all state
// unchanged.
func (in *Input) Decode() ([]byte, bool) {
	width := in.Width.Bytes()
	v, err := strconv.ParseUint(string(in.buf[:in.Span()]), in.Mode.Base(), width*8)
	if err != nil {
		return nil, false
	}
	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], v)
	return le[:width], true
}

// IsEditKey reports whether a keystroke belongs to the edit decoder: a
// hexadecimal digit or the skip marker. Lower radixes reject out-of-range
// digits at decode time.
func IsEditKey(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		return true
	case c == SkipMarker:
		return true
	}
	return false
}

// Edit feeds one keystroke at the given window-relative position. When
// the accumulated digits decode, the element's bytes are spliced into the
// working buffer, the pre/post snapshot pair is pushed onto the undo log,
// and the run is recorded in the overlay. It returns true iff a byte run
// was committed. The digit cursor advances either way.
func (f *File) Edit(in *Input, pos int64, key byte) bool {
	in.Put(key)
	defer in.Advance()

	vv, ok := in.Decode()
	if !ok {
		return false
	}
	n := int64(len(vv))
	if pos < 0 || pos+n > int64(len(f.block.Working)) {
		return false
	}

	at := f.block.Offset + pos
	f.undo.Push(Data{Offset: at, Bytes: append([]byte(nil), f.block.Working[pos:pos+n]...)})
	copy(f.block.Working[pos:pos+n], vv)
	f.undo.Push(Data{Offset: at, Bytes: append([]byte(nil), f.block.Working[pos:pos+n]...)})
	f.patch.Set(at, vv)
	return true
}

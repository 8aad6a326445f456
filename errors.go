// Package hexblock implements the windowed block I/O and edit-overlay
// engine of an interactive binary file editor: fixed-size file windows,
// an in-memory patch overlay with undo/redo, aligned read-modify-write
// flushing, and chunked on-disk pattern search.
package hexblock

import "errors"

// Position and window errors
var (
	// ErrInvalidPosition indicates that an offset or length is out of bounds.
	ErrInvalidPosition = errors.New("position out of bounds")

	// ErrBlockNotLoaded indicates that the window has never been loaded.
	ErrBlockNotLoaded = errors.New("block not loaded")
)

// File table errors
var (
	// ErrNoFile indicates that the session has no open files.
	ErrNoFile = errors.New("no open file")

	// ErrFileNotOpen indicates that the file handle is not open.
	ErrFileNotOpen = errors.New("file not open")
)

// Search errors
var (
	// ErrEmptyPattern indicates that a search pattern was empty.
	ErrEmptyPattern = errors.New("empty search pattern")

	// ErrNoHitGroup indicates that no hit group exists for navigation.
	ErrNoHitGroup = errors.New("no hit group")
)

// Storage errors
var (
	// ErrNotSupported indicates that an optional file system operation is
	// not supported by the backend.
	ErrNotSupported = errors.New("operation not supported")
)

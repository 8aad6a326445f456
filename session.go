package hexblock

import "sync"

// SessionOptions configures a session.
type SessionOptions struct {
	// FileSystem overrides the default local-disk backend.
	FileSystem FileSystemInterface
}

// FileOptions configures how a file is opened.
type FileOptions struct {
	// Path of the target file.
	Path string

	// BlockSize is the window size in bytes (DefaultBlockSize when zero).
	BlockSize int64
}

// Session is the file table: it owns every open File and tracks which one
// is current. All views (tabs) referencing the same file share its
// window, overlay, and undo state through the table index.
//
// Sessions and files are single-threaded by design: every operation runs
// to completion on the calling control flow. The mutex guards only the
// table itself.
type Session struct {
	mu    sync.Mutex
	fs    FileSystemInterface
	files []*File
	index int
}

// File is the per-file record: one window, one overlay, two logs, one hit
// group collection, and the cached on-disk length. Ownership is exclusive
// per open file.
type File struct {
	fs   FileSystemInterface
	path string
	size int64

	block *Block
	patch *PatchOverlay
	undo  UndoLog
	redo  UndoLog
	hits  HitList
}

// Init creates an empty session.
func Init(options SessionOptions) (*Session, error) {
	fs := options.FileSystem
	if fs == nil {
		fs = &localFileSystem{}
	}
	return &Session{fs: fs}, nil
}

// Open adds a file to the session table and makes it current. The file's
// on-disk length is queried immediately; the window is not loaded until
// the first Sync.
func (s *Session) Open(options FileOptions) (*File, error) {
	size, err := s.fs.StatSize(options.Path)
	if err != nil {
		return nil, err
	}

	f := &File{
		fs:    s.fs,
		path:  options.Path,
		size:  size,
		block: NewBlock(options.BlockSize),
		patch: NewPatchOverlay(),
	}

	s.mu.Lock()
	s.files = append(s.files, f)
	s.index = len(s.files) - 1
	s.mu.Unlock()

	return f, nil
}

// Len returns the number of open files.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Index returns the current file's table index.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// FileAt returns the file at a table index.
func (s *Session) FileAt(index int) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.files) {
		return nil, ErrNoFile
	}
	return s.files[index], nil
}

// Current returns the current file.
func (s *Session) Current() (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.files) == 0 {
		return nil, ErrNoFile
	}
	return s.files[s.index], nil
}

// NextFile makes the next file in the table current, wrapping at the end.
func (s *Session) NextFile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.files) > 0 {
		s.index = (s.index + 1) % len(s.files)
	}
}

// PrevFile makes the previous file in the table current, wrapping at the
// start.
func (s *Session) PrevFile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.files) == 0 {
		return
	}
	if s.index > 0 {
		s.index--
	} else {
		s.index = len(s.files) - 1
	}
}

// Path returns the file's path.
func (f *File) Path() string {
	return f.path
}

// Size returns the on-disk length cached at the last load.
func (f *File) Size() int64 {
	return f.size
}

// Block returns the file's window.
func (f *File) Block() *Block {
	return f.block
}

// Patch returns the file's overlay.
func (f *File) Patch() *PatchOverlay {
	return f.patch
}

// Hits returns the file's hit group collection.
func (f *File) Hits() *HitList {
	return &f.hits
}

// UndoLen returns the number of snapshots on the undo log.
func (f *File) UndoLen() int {
	return f.undo.Len()
}

// RedoLen returns the number of snapshots on the redo log.
func (f *File) RedoLen() int {
	return f.redo.Len()
}

// SetOffset moves the window. The move takes effect at the next Sync.
func (f *File) SetOffset(offset int64) {
	if offset < 0 {
		offset = 0
	}
	f.block.Offset = offset
}

// SetBlockSize resizes the window. The resize takes effect at the next
// Sync.
func (f *File) SetBlockSize(size int64) {
	if size > 0 {
		f.block.Size = size
	}
}

// Sync brings the window up to date: if the offset or size changed since
// the last load, the window is re-read from disk (refreshing the cached
// file length); the overlay is then re-applied in either case, since it
// may have changed between draws. On a read failure the window keeps its
// last-known-good contents and the error is returned.
func (f *File) Sync() error {
	var loadErr error
	if f.block.NeedsLoad() {
		loadErr = f.reload()
	}
	f.patch.Apply(f.block)
	return loadErr
}

// LoadBlock positions the window and loads it in one step.
func (f *File) LoadBlock(size, offset int64) error {
	f.SetBlockSize(size)
	f.SetOffset(offset)
	return f.Sync()
}

func (f *File) reload() error {
	h, err := f.fs.Open(f.path, OpenModeRead)
	if err != nil {
		return err
	}
	defer f.fs.Close(h)

	length, err := f.fs.FileSize(h)
	if err != nil {
		return err
	}
	if err := f.block.Load(f.fs, h, length); err != nil {
		return err
	}
	f.size = length
	return nil
}

package hexblock

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// newTestFile writes content to a scratch file and opens it in a fresh
// session with the given block size.
func newTestFile(t *testing.T, content []byte, blockSize int64) (*Session, *File, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	s, err := Init(SessionOptions{})
	if err != nil {
		t.Fatalf("Failed to init session: %v", err)
	}
	f, err := s.Open(FileOptions{Path: path, BlockSize: blockSize})
	if err != nil {
		t.Fatalf("Failed to open file: %v", err)
	}
	return s, f, path
}

// typeHex feeds a string of digit keystrokes at a fixed window position
// and reports whether any of them committed a byte run.
func typeHex(t *testing.T, f *File, in *Input, pos int64, digits string) bool {
	t.Helper()
	committed := false
	for i := 0; i < len(digits); i++ {
		if f.Edit(in, pos, digits[i]) {
			committed = true
		}
	}
	return committed
}

func TestOpenStatsLength(t *testing.T) {
	_, f, _ := newTestFile(t, make([]byte, 300), 64)
	if f.Size() != 300 {
		t.Errorf("Expected size 300, got %d", f.Size())
	}
	if f.Block().Loaded() {
		t.Error("Block should not be loaded before first Sync")
	}
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Init(SessionOptions{})
	if err != nil {
		t.Fatalf("Failed to init session: %v", err)
	}
	if _, err := s.Open(FileOptions{Path: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("Expected error opening missing file")
	}
}

func TestFileTableNavigation(t *testing.T) {
	s, _, _ := newTestFile(t, []byte("one"), 0)
	dir := t.TempDir()
	for _, name := range []string{"b", "c"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		if _, err := s.Open(FileOptions{Path: path}); err != nil {
			t.Fatalf("Failed to open %s: %v", name, err)
		}
	}

	if s.Len() != 3 {
		t.Fatalf("Expected 3 files, got %d", s.Len())
	}
	// Open leaves the last file current.
	if s.Index() != 2 {
		t.Errorf("Expected index 2, got %d", s.Index())
	}

	s.NextFile()
	if s.Index() != 0 {
		t.Errorf("NextFile should wrap to 0, got %d", s.Index())
	}
	s.PrevFile()
	if s.Index() != 2 {
		t.Errorf("PrevFile should wrap to 2, got %d", s.Index())
	}

	f, err := s.Current()
	if err != nil {
		t.Fatalf("Current error: %v", err)
	}
	if filepath.Base(f.Path()) != "c" {
		t.Errorf("Expected current file c, got %s", f.Path())
	}
}

func TestCurrentEmptySession(t *testing.T) {
	s, err := Init(SessionOptions{})
	if err != nil {
		t.Fatalf("Failed to init session: %v", err)
	}
	if _, err := s.Current(); err != ErrNoFile {
		t.Errorf("Expected ErrNoFile, got %v", err)
	}
	// Navigation on an empty table is a no-op.
	s.NextFile()
	s.PrevFile()
}

func TestSyncReloadsOnlyOnMove(t *testing.T) {
	content := bytes.Repeat([]byte{0x11}, 256)
	_, f, path := newTestFile(t, content, 64)

	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if len(f.Block().Working) != 64 {
		t.Fatalf("Expected 64-byte window, got %d", len(f.Block().Working))
	}

	// Change the file behind the window's back: an unmoved window is
	// served from cache and must not observe it.
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x22}, 256), 0644); err != nil {
		t.Fatalf("Failed to rewrite file: %v", err)
	}
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if f.Block().Working[0] != 0x11 {
		t.Error("Unmoved window should not be re-read")
	}

	// Moving the window forces a reload.
	f.SetOffset(64)
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if f.Block().Working[0] != 0x22 {
		t.Error("Moved window should be re-read from disk")
	}

	// Resizing also forces a reload.
	f.SetBlockSize(32)
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if len(f.Block().Working) != 32 {
		t.Errorf("Expected 32-byte window after resize, got %d", len(f.Block().Working))
	}
}

func TestSyncFailureKeepsLastKnownGood(t *testing.T) {
	_, f, path := newTestFile(t, bytes.Repeat([]byte{0x33}, 128), 64)
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}
	f.SetOffset(64)
	if err := f.Sync(); err == nil {
		t.Fatal("Expected error syncing a removed file")
	}
	if f.Block().Working[0] != 0x33 {
		t.Error("Failed load should leave the window unchanged")
	}
	if f.Size() != 128 {
		t.Errorf("Failed load should keep the cached size, got %d", f.Size())
	}
}

func TestEditFlushReloadRoundTrip(t *testing.T) {
	content := make([]byte, 4096)
	_, f, path := newTestFile(t, content, 2048)

	if err := f.LoadBlock(2048, 0); err != nil {
		t.Fatalf("LoadBlock error: %v", err)
	}

	// Two hex byte edits at offsets 100 and 101.
	tab := NewTabs().Add("t0")
	if !typeHex(t, f, tab.Input, 100, "41") {
		t.Fatal("Expected edit at 100 to commit")
	}
	if !typeHex(t, f, tab.Input, 101, "42") {
		t.Fatal("Expected edit at 101 to commit")
	}

	if err := f.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}
	if f.Patch().Len() != 0 {
		t.Errorf("Overlay should be empty after flush, has %d runs", f.Patch().Len())
	}

	disk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read back file: %v", err)
	}
	if disk[100] != 0x41 || disk[101] != 0x42 {
		t.Errorf("Expected 0x41 0x42 at 100, got %#x %#x", disk[100], disk[101])
	}
	for i, b := range disk {
		if i == 100 || i == 101 {
			continue
		}
		if b != 0 {
			t.Fatalf("Byte %d changed to %#x", i, b)
		}
	}

	// A fresh window over the edited region sees the flushed bytes.
	if err := f.LoadBlock(2048, 0); err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	if f.Block().Source[100] != 0x41 || f.Block().Source[101] != 0x42 {
		t.Error("Reloaded source should contain the flushed bytes")
	}
}

package hexblock

import (
	"bytes"
	"testing"
)

func TestUndoLogStackDiscipline(t *testing.T) {
	var l UndoLog
	if _, ok := l.Pop(); ok {
		t.Error("Empty log should pop nothing")
	}
	l.Push(Data{Offset: 1, Bytes: []byte{1}})
	l.Push(Data{Offset: 2, Bytes: []byte{2}})
	if l.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", l.Len())
	}
	d, ok := l.Pop()
	if !ok || d.Offset != 2 {
		t.Errorf("Expected most recent entry (offset 2), got %+v ok=%v", d, ok)
	}
	d, _ = l.Pop()
	if d.Offset != 1 {
		t.Errorf("Expected offset 1, got %d", d.Offset)
	}
	if _, ok := l.Pop(); ok {
		t.Error("Exhausted log should pop nothing")
	}
}

func TestUndoRedoInverse(t *testing.T) {
	content := make([]byte, 256)
	content[5] = 0x10
	_, f, _ := newTestFile(t, content, 256)
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}

	in := NewInput()
	if !typeHex(t, f, in, 5, "7e") {
		t.Fatal("Expected edit to commit")
	}
	post := append([]byte(nil), f.Block().Working...)
	if post[5] != 0x7E {
		t.Fatalf("Expected 0x7e at 5, got %#x", post[5])
	}

	f.Undo()
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if f.Block().Working[5] != 0x10 {
		t.Errorf("Undo should restore pre-edit byte, got %#x", f.Block().Working[5])
	}
	if f.UndoLen() != 0 || f.RedoLen() != 2 {
		t.Errorf("Expected pair moved to redo, undo=%d redo=%d", f.UndoLen(), f.RedoLen())
	}

	f.Redo()
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if !bytes.Equal(f.Block().Working, post) {
		t.Error("Redo should restore the post-edit window exactly")
	}
	if f.UndoLen() != 2 || f.RedoLen() != 0 {
		t.Errorf("Expected pair moved back to undo, undo=%d redo=%d", f.UndoLen(), f.RedoLen())
	}
}

func TestUndoEmptyIsNoop(t *testing.T) {
	_, f, _ := newTestFile(t, make([]byte, 64), 64)
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	before := append([]byte(nil), f.Block().Working...)

	f.Undo()
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if !bytes.Equal(f.Block().Working, before) {
		t.Error("Undo with empty log must leave working unchanged")
	}
	if f.Patch().Len() != 0 {
		t.Error("Undo with empty log must leave the overlay unchanged")
	}

	f.Redo()
	if f.Patch().Len() != 0 {
		t.Error("Redo with empty log must leave the overlay unchanged")
	}
}

func TestRedoThenUndoUnmodifiedStackIsNoop(t *testing.T) {
	_, f, _ := newTestFile(t, make([]byte, 64), 64)
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}

	in := NewInput()
	if !typeHex(t, f, in, 0, "aa") {
		t.Fatal("Expected edit to commit")
	}
	post := append([]byte(nil), f.Block().Working...)

	// Redo with an empty redo stack, then undo: net effect is one undo.
	f.Redo()
	f.Undo()
	f.Redo()
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if !bytes.Equal(f.Block().Working, post) {
		t.Error("Undo/redo round trip should restore the post-edit state")
	}
}

func TestUndoSurvivesOddEntryCount(t *testing.T) {
	_, f, _ := newTestFile(t, make([]byte, 64), 64)
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}

	// A single orphan entry: undo applies it and stops.
	f.undo.Push(Data{Offset: 3, Bytes: []byte{0x99}})
	f.Undo()
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync error: %v", err)
	}
	if f.Block().Working[3] != 0x99 {
		t.Errorf("Expected orphan entry applied, got %#x", f.Block().Working[3])
	}
	if f.RedoLen() != 1 {
		t.Errorf("Expected 1 redo entry, got %d", f.RedoLen())
	}
}

package hexblock

// Data is an offset + byte-run snapshot recorded on the undo and redo
// logs. Every logical edit records exactly two entries at the same
// offset and length: the pre-edit bytes, then the post-edit bytes.
type Data struct {
	Offset int64
	Bytes  []byte
}

// UndoLog is a stack of edit snapshots. Popping an empty log is a no-op
// signalled by the second return value, never an error.
type UndoLog struct {
	entries []Data
}

// Push appends a snapshot.
func (l *UndoLog) Push(d Data) {
	l.entries = append(l.entries, d)
}

// Pop removes and returns the most recent snapshot.
func (l *UndoLog) Pop() (Data, bool) {
	if len(l.entries) == 0 {
		return Data{}, false
	}
	d := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return d, true
}

// Len returns the number of snapshots on the log.
func (l *UndoLog) Len() int {
	return len(l.entries)
}

// Undo pops up to two snapshots (the post/pre pair of the most recent
// edit) from the undo log, re-applies each to the overlay, and moves them
// to the redo log. The pre-edit bytes are applied last, so the overlay
// ends up holding the pre-edit state. A partially exhausted log applies
// whatever was available.
func (f *File) Undo() {
	for i := 0; i < 2; i++ {
		d, ok := f.undo.Pop()
		if !ok {
			return
		}
		f.patch.Set(d.Offset, d.Bytes)
		f.redo.Push(d)
	}
}

// Redo is the mirror of Undo: it pops up to two snapshots from the redo
// log, re-applies each to the overlay (ending with the post-edit bytes),
// and moves them back to the undo log.
func (f *File) Redo() {
	for i := 0; i < 2; i++ {
		d, ok := f.redo.Pop()
		if !ok {
			return
		}
		f.patch.Set(d.Offset, d.Bytes)
		f.undo.Push(d)
	}
}

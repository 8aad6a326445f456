package hexblock

// Display selects what a tab renders.
type Display int

const (
	// DisplayElement renders numeric elements plus an ASCII column.
	DisplayElement Display = iota

	// DisplayAscii renders the window as printable text.
	DisplayAscii

	// DisplayEntropy renders per-block entropy bars.
	DisplayEntropy
)

// Tab is one view over an open file. Multiple tabs may pin the same file
// index; they then share that file's window, overlay, and undo state, so
// edits and scroll position made through one tab are visible through the
// others.
type Tab struct {
	Title     string
	FileIndex int

	PrintWidth  int // bytes per row
	PrintHeight int // rows

	Display Display

	InsertMode bool
	Input      *Input

	CursorRow int
	CursorCol int // byte column, kept element-aligned
}

// Tabs is the ordered tab collection with a current index.
type Tabs struct {
	Tabs  []*Tab
	Index int
}

// NewTabs creates an empty tab collection.
func NewTabs() *Tabs {
	return &Tabs{}
}

// Add appends a tab pinned to file index 0, with a 16-byte row and the
// decoder in hex byte mode.
func (t *Tabs) Add(title string) *Tab {
	tab := &Tab{
		Title:       title,
		PrintWidth:  16,
		PrintHeight: 1,
		Input:       NewInput(),
	}
	t.Tabs = append(t.Tabs, tab)
	return tab
}

// Current returns the current tab, or nil when the collection is empty.
func (t *Tabs) Current() *Tab {
	if len(t.Tabs) == 0 {
		return nil
	}
	return t.Tabs[t.Index]
}

// Next makes the next tab current, wrapping.
func (t *Tabs) Next() {
	if len(t.Tabs) > 0 {
		t.Index = (t.Index + 1) % len(t.Tabs)
	}
}

// Previous makes the previous tab current, wrapping.
func (t *Tabs) Previous() {
	if len(t.Tabs) == 0 {
		return
	}
	if t.Index > 0 {
		t.Index--
	} else {
		t.Index = len(t.Tabs) - 1
	}
}

// CursorPos returns the cursor's window-relative byte position, with the
// column snapped down to the element boundary.
func (tab *Tab) CursorPos() int64 {
	size := tab.Input.Width.Bytes()
	col := tab.CursorCol &^ (size - 1)
	return int64(tab.PrintWidth*tab.CursorRow + col)
}

// CursorLeft moves the cursor one element left and rewinds the digit
// cursor.
func (tab *Tab) CursorLeft() {
	size := tab.Input.Width.Bytes()
	col := tab.CursorCol &^ (size - 1)
	if col >= size {
		col -= size
	}
	tab.CursorCol = col
	tab.Input.Reset()
}

// CursorRight moves the cursor one element right, clamped to the row
// width, and rewinds the digit cursor.
func (tab *Tab) CursorRight() {
	size := tab.Input.Width.Bytes()
	col := tab.CursorCol &^ (size - 1)
	if col < tab.PrintWidth-size {
		col += size
	} else {
		col = tab.PrintWidth - size
	}
	tab.CursorCol = col &^ (size - 1)
	tab.Input.Reset()
}

// CursorUp moves the cursor one row up and rewinds the digit cursor.
func (tab *Tab) CursorUp() {
	if tab.CursorRow > 0 {
		tab.CursorRow--
	}
	tab.Input.Reset()
}

// CursorDown moves the cursor one row down, clamped to the view height,
// and rewinds the digit cursor.
func (tab *Tab) CursorDown() {
	if tab.CursorRow < tab.PrintHeight-1 {
		tab.CursorRow++
	}
	tab.Input.Reset()
}

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"hexblock"
)

// App ties a session, its tabs, and the terminal together.
type App struct {
	screen  tcell.Screen
	session *hexblock.Session
	tabs    *hexblock.Tabs
	theme   *Theme

	width   int
	height  int
	message string
}

func NewApp(paths []string) (*App, error) {
	theme, err := loadTheme()
	if err != nil {
		return nil, fmt.Errorf("theme: %v", err)
	}

	session, err := hexblock.Init(hexblock.SessionOptions{})
	if err != nil {
		return nil, err
	}

	tabs := hexblock.NewTabs()
	for _, path := range paths {
		if _, err := session.Open(hexblock.FileOptions{Path: path}); err != nil {
			return nil, fmt.Errorf("open %s: %v", path, err)
		}
		tab := tabs.Add(filepath.Base(path))
		tab.FileIndex = session.Index()
	}
	tabs.Index = 0

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	width, height := screen.Size()
	return &App{
		screen:  screen,
		session: session,
		tabs:    tabs,
		theme:   theme,
		width:   width,
		height:  height,
	}, nil
}

// file resolves the current tab's file through the session table.
func (a *App) file() *hexblock.File {
	tab := a.tabs.Current()
	if tab == nil {
		return nil
	}
	f, err := a.session.FileAt(tab.FileIndex)
	if err != nil {
		return nil
	}
	return f
}

// layout sizes the current tab's window to the terminal and syncs it. The
// tab bar takes the top row and the status bar the bottom one.
func (a *App) layout() {
	tab := a.tabs.Current()
	f := a.file()
	if tab == nil || f == nil {
		return
	}

	rows := a.height - 2
	if rows < 1 {
		rows = 1
	}
	tab.PrintHeight = rows
	if tab.CursorRow >= rows {
		tab.CursorRow = rows - 1
	}

	f.SetBlockSize(int64(tab.PrintWidth * tab.PrintHeight))
	if err := f.Sync(); err != nil {
		a.message = fmt.Sprintf("read: %v", err)
	}
	a.seedInput()
}

// seedInput re-seeds the digit buffer from the element under the cursor,
// so skipped digit slots keep their on-screen value.
func (a *App) seedInput() {
	tab := a.tabs.Current()
	f := a.file()
	if tab == nil || f == nil {
		return
	}
	working := f.Block().Working
	pos := tab.CursorPos()
	size := int64(tab.Input.Width.Bytes())
	if pos < 0 || pos+size > int64(len(working)) {
		return
	}
	tab.Input.Seed([]byte(formatElement(working[pos:pos+size], tab.Input)))
}

func (a *App) run() error {
	defer a.screen.Fini()

	a.layout()
	a.draw()

	for {
		ev := a.screen.PollEvent()

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if quit := a.handleKey(ev); quit {
				return nil
			}

		case *tcell.EventResize:
			a.width, a.height = a.screen.Size()
			a.screen.Clear()
			a.layout()
		}

		a.draw()
	}
}

// handleKey dispatches one keystroke. It returns true when the app should
// exit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	tab := a.tabs.Current()
	f := a.file()
	a.message = ""

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return a.confirmQuit()

	case tcell.KeyEscape:
		if tab != nil && tab.InsertMode {
			tab.InsertMode = false
			return false
		}
		return a.confirmQuit()

	case tcell.KeyTab:
		a.tabs.Next()
		a.layout()
		return false

	case tcell.KeyBacktab:
		a.tabs.Previous()
		a.layout()
		return false

	case tcell.KeyLeft:
		if tab != nil {
			tab.CursorLeft()
			a.seedInput()
		}
		return false

	case tcell.KeyRight:
		if tab != nil {
			tab.CursorRight()
			a.seedInput()
		}
		return false

	case tcell.KeyUp:
		a.moveUp()
		return false

	case tcell.KeyDown:
		a.moveDown()
		return false

	case tcell.KeyPgUp:
		if tab != nil && f != nil {
			f.SetOffset(f.Block().Offset - int64(tab.PrintWidth*tab.PrintHeight))
			a.syncAndSeed()
		}
		return false

	case tcell.KeyPgDn:
		if tab != nil && f != nil {
			f.SetOffset(f.Block().Offset + int64(tab.PrintWidth*tab.PrintHeight))
			a.syncAndSeed()
		}
		return false

	case tcell.KeyHome:
		if f != nil {
			f.SetOffset(0)
			a.syncAndSeed()
		}
		return false

	case tcell.KeyEnd:
		if tab != nil && f != nil {
			rows := (f.Size() + int64(tab.PrintWidth) - 1) / int64(tab.PrintWidth)
			end := (rows - int64(tab.PrintHeight)) * int64(tab.PrintWidth)
			f.SetOffset(end)
			a.syncAndSeed()
		}
		return false
	}

	r := ev.Rune()
	if r == 0 {
		return false
	}

	if tab != nil && tab.InsertMode && r < 128 && hexblock.IsEditKey(byte(r)) {
		a.edit(byte(r))
		return false
	}

	switch r {
	case 'q':
		return a.confirmQuit()

	case 'i':
		if tab != nil {
			tab.InsertMode = !tab.InsertMode
			a.seedInput()
		}

	case 'u':
		if f != nil {
			f.Undo()
			a.syncAndSeed()
			a.message = "undo"
		}

	case 'U':
		if f != nil {
			f.Redo()
			a.syncAndSeed()
			a.message = "redo"
		}

	case 'W':
		a.flush()

	case 'm':
		if tab != nil {
			tab.Input.Mode = hexblock.ElementMode((int(tab.Input.Mode) + 1) % 4)
			tab.Input.Reset()
			a.seedInput()
		}

	case 'w':
		if tab != nil {
			tab.Input.Width = hexblock.ElementWidth((int(tab.Input.Width) + 1) % 4)
			tab.CursorCol = 0
			tab.Input.Reset()
			a.seedInput()
		}

	case 'd':
		if tab != nil {
			tab.Display = hexblock.Display((int(tab.Display) + 1) % 3)
		}

	case 'n':
		a.jump(func(f *hexblock.File) (int64, bool) { return f.NextHit() })

	case 'N':
		a.jump(func(f *hexblock.File) (int64, bool) { return f.PrevHit() })

	case 'g':
		a.jump(func(f *hexblock.File) (int64, bool) { return f.NextHitGroup() })

	case 'G':
		a.jump(func(f *hexblock.File) (int64, bool) { return f.PrevHitGroup() })

	case 't':
		if f != nil && tab != nil {
			nt := a.tabs.Add(tab.Title)
			nt.FileIndex = tab.FileIndex
			a.tabs.Index = len(a.tabs.Tabs) - 1
			a.layout()
		}

	case '/':
		a.search(a.promptLine("/"))

	case ':':
		cmd := strings.TrimSpace(a.promptLine(":"))
		if cmd == "q" || cmd == "quit" {
			return a.confirmQuit()
		}
		a.runCommand(cmd)
	}

	return false
}

// moveUp moves the cursor a row up, scrolling the window one row when the
// cursor is already on the top row.
func (a *App) moveUp() {
	tab := a.tabs.Current()
	f := a.file()
	if tab == nil || f == nil {
		return
	}
	if tab.CursorRow == 0 {
		f.SetOffset(f.Block().Offset - int64(tab.PrintWidth))
		a.syncAndSeed()
		return
	}
	tab.CursorUp()
	a.seedInput()
}

func (a *App) moveDown() {
	tab := a.tabs.Current()
	f := a.file()
	if tab == nil || f == nil {
		return
	}
	if tab.CursorRow >= tab.PrintHeight-1 {
		f.SetOffset(f.Block().Offset + int64(tab.PrintWidth))
		a.syncAndSeed()
		return
	}
	tab.CursorDown()
	a.seedInput()
}

func (a *App) syncAndSeed() {
	if f := a.file(); f != nil {
		if err := f.Sync(); err != nil {
			a.message = fmt.Sprintf("read: %v", err)
		}
	}
	a.seedInput()
}

// edit feeds a keystroke into the decoder at the cursor element.
func (a *App) edit(key byte) {
	tab := a.tabs.Current()
	f := a.file()
	if tab == nil || f == nil {
		return
	}
	if f.Edit(tab.Input, tab.CursorPos(), key) {
		a.message = fmt.Sprintf("%d byte(s) patched", tab.Input.Width.Bytes())
		a.seedInput()
	}
}

func (a *App) flush() {
	f := a.file()
	if f == nil {
		return
	}
	if err := f.Flush(); err != nil {
		a.message = fmt.Sprintf("flush: %v", err)
		return
	}
	a.syncAndSeed()
	a.message = "flushed"
}

func (a *App) search(pattern string) {
	f := a.file()
	if f == nil || pattern == "" {
		return
	}
	n, err := f.Search(pattern)
	if err != nil {
		a.message = fmt.Sprintf("search: %v", err)
		return
	}
	a.message = fmt.Sprintf("%d results", n)
	if n > 0 {
		if g, ok := f.Hits().Current(); ok && !g.Empty() {
			f.SetOffset(g.Hits[g.Selected])
			a.syncAndSeed()
		}
	}
}

func (a *App) jump(fn func(f *hexblock.File) (int64, bool)) {
	f := a.file()
	if f == nil {
		return
	}
	off, ok := fn(f)
	if !ok {
		a.message = "no hits"
		return
	}
	a.syncAndSeed()
	a.message = fmt.Sprintf("hit at 0x%x", off)
}

// runCommand executes one ':' command line.
func (a *App) runCommand(line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	tab := a.tabs.Current()
	f := a.file()

	switch parts[0] {
	case "offset", "goto":
		if len(parts) < 2 || f == nil {
			return
		}
		n, err := parseNumber(parts[1])
		if err != nil {
			a.message = fmt.Sprintf("bad number %q", parts[1])
			return
		}
		f.SetOffset(n)
		a.syncAndSeed()

	case "width":
		if len(parts) < 2 || tab == nil {
			return
		}
		n, err := parseNumber(parts[1])
		if err != nil || n < 1 {
			a.message = fmt.Sprintf("bad width %q", parts[1])
			return
		}
		tab.PrintWidth = int(n)
		tab.CursorCol = 0
		a.layout()

	case "open":
		if len(parts) < 2 {
			return
		}
		if _, err := a.session.Open(hexblock.FileOptions{Path: parts[1]}); err != nil {
			a.message = fmt.Sprintf("open: %v", err)
			return
		}
		nt := a.tabs.Add(filepath.Base(parts[1]))
		nt.FileIndex = a.session.Index()
		a.tabs.Index = len(a.tabs.Tabs) - 1
		a.layout()

	case "file":
		if len(parts) < 2 || tab == nil {
			return
		}
		switch parts[1] {
		case "next":
			a.session.NextFile()
		case "prev":
			a.session.PrevFile()
		default:
			return
		}
		tab.FileIndex = a.session.Index()
		if nf := a.file(); nf != nil {
			tab.Title = filepath.Base(nf.Path())
		}
		a.layout()

	default:
		a.message = fmt.Sprintf("unknown command %q", parts[0])
	}
}

// confirmQuit prompts when the overlay still holds unwritten patches.
func (a *App) confirmQuit() bool {
	pending := 0
	for i := 0; i < a.session.Len(); i++ {
		if f, err := a.session.FileAt(i); err == nil {
			pending += f.Patch().Len()
		}
	}
	if pending == 0 {
		return true
	}
	answer := a.promptLine(fmt.Sprintf("discard %d unwritten patch run(s)? (y/n) ", pending))
	return answer == "y"
}

// promptLine reads a line of input on the status row.
func (a *App) promptLine(prompt string) string {
	input := ""
	for {
		a.drawStatusBar()
		a.drawText(0, a.height-1, prompt+input, a.theme.prompt())
		a.screen.Show()

		ev := a.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEnter:
				return input
			case tcell.KeyEscape:
				return ""
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(input) > 0 {
					input = input[:len(input)-1]
				}
			default:
				if ev.Rune() != 0 {
					input += string(ev.Rune())
				}
			}
		case *tcell.EventResize:
			a.width, a.height = a.screen.Size()
			a.screen.Clear()
		}
	}
}

// parseNumber accepts decimal, 0x-prefixed hex, and o/b-suffixed octal
// and binary literals.
func parseNumber(s string) (int64, error) {
	switch {
	case strings.HasPrefix(s, "0x"):
		v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 63)
		return int64(v), err
	case strings.HasSuffix(s, "o"):
		v, err := strconv.ParseUint(strings.TrimSuffix(s, "o"), 8, 63)
		return int64(v), err
	case strings.HasSuffix(s, "b"):
		v, err := strconv.ParseUint(strings.TrimSuffix(s, "b"), 2, 63)
		return int64(v), err
	}
	v, err := strconv.ParseUint(s, 10, 63)
	return int64(v), err
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <file> [file...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nA windowed binary editor.\n")
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  arrows/PgUp/PgDn/Home/End   move the cursor and window\n")
		fmt.Fprintf(os.Stderr, "  i                           toggle insert mode\n")
		fmt.Fprintf(os.Stderr, "  0-9 a-f .                   type element digits ('.' skips)\n")
		fmt.Fprintf(os.Stderr, "  m / w / d                   cycle radix, element width, display\n")
		fmt.Fprintf(os.Stderr, "  u / U                       undo / redo\n")
		fmt.Fprintf(os.Stderr, "  W                           write pending patches to disk\n")
		fmt.Fprintf(os.Stderr, "  / pattern                   search; n/N and g/G walk hits and groups\n")
		fmt.Fprintf(os.Stderr, "  t, Tab, Shift-Tab           add and switch tabs\n")
		fmt.Fprintf(os.Stderr, "  : offset|width|open|file    command line\n")
		fmt.Fprintf(os.Stderr, "  q, Esc, Ctrl+C              quit\n")
		os.Exit(1)
	}

	app, err := NewApp(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	if err := app.run(); err != nil {
		log.Fatalf("Editor error: %v", err)
	}
}

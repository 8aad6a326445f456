package main

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"hexblock"
)

// offsetColumn is the screen width of the row-offset label.
const offsetColumn = 10

// formatElement renders a little-endian element as zero-padded digits in
// the decoder's radix.
func formatElement(data []byte, in *hexblock.Input) string {
	var le [8]byte
	copy(le[:], data)
	v := binary.LittleEndian.Uint64(le[:])

	s := strconv.FormatUint(v, in.Mode.Base())
	if pad := in.Span() - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s
}

func (a *App) draw() {
	a.screen.Clear()
	a.screen.HideCursor()

	a.drawTabBar()

	tab := a.tabs.Current()
	f := a.file()
	if tab != nil && f != nil && f.Block().Loaded() {
		switch tab.Display {
		case hexblock.DisplayAscii:
			a.drawAscii(tab, f)
		case hexblock.DisplayEntropy:
			a.drawEntropy(tab, f)
		default:
			a.drawElements(tab, f)
		}
	}

	a.drawStatusBar()
	a.screen.Show()
}

func (a *App) drawTabBar() {
	style := a.theme.status()
	for x := 0; x < a.width; x++ {
		a.screen.SetContent(x, 0, ' ', nil, style)
	}

	x := 0
	for i, tab := range a.tabs.Tabs {
		s := style
		if i == a.tabs.Index {
			s = s.Reverse(true)
		}
		label := fmt.Sprintf(" %d:%s ", i+1, tab.Title)
		x = a.drawText(x, 0, label, s)
		if x >= a.width {
			break
		}
	}
}

// drawElements renders the window as rows of numeric elements with an
// ASCII column. The cursor element shows the decoder's digit slots while
// insert mode is active.
func (a *App) drawElements(tab *hexblock.Tab, f *hexblock.File) {
	b := f.Block()
	size := tab.Input.Width.Bytes()
	span := tab.Input.Span()
	asciiX := offsetColumn + (tab.PrintWidth/size)*(span+1) + 1

	for row := 0; row < tab.PrintHeight; row++ {
		base := row * tab.PrintWidth
		if base >= len(b.Working) {
			break
		}
		y := row + 1

		a.drawText(0, y, fmt.Sprintf("%08x", b.Offset+int64(base)), a.theme.offset())

		for col := 0; col+size <= tab.PrintWidth; col += size {
			pos := base + col
			if pos+size > len(b.Working) {
				break
			}
			onCursor := row == tab.CursorRow && col == int(tab.CursorPos())%tab.PrintWidth

			digits := formatElement(b.Working[pos:pos+size], tab.Input)
			if onCursor && tab.InsertMode {
				digits = string(tab.Input.Digits())
			}

			style := a.theme.base()
			if edited(b, pos, size) {
				style = a.theme.edited()
			}
			if onCursor {
				style = style.Reverse(true)
			}

			x := offsetColumn + (col/size)*(span+1)
			a.drawText(x, y, digits, style)
			if onCursor && tab.InsertMode {
				a.screen.ShowCursor(x+tab.Input.Index(), y)
			}
		}

		for i := 0; i < tab.PrintWidth && base+i < len(b.Working); i++ {
			style := a.theme.base()
			if edited(b, base+i, 1) {
				style = a.theme.edited()
			}
			a.screen.SetContent(asciiX+i, y, printable(b.Working[base+i]), nil, style)
		}
	}
}

func (a *App) drawAscii(tab *hexblock.Tab, f *hexblock.File) {
	b := f.Block()
	for row := 0; row < tab.PrintHeight; row++ {
		base := row * tab.PrintWidth
		if base >= len(b.Working) {
			break
		}
		y := row + 1

		a.drawText(0, y, fmt.Sprintf("%08x", b.Offset+int64(base)), a.theme.offset())
		for i := 0; i < tab.PrintWidth && base+i < len(b.Working); i++ {
			style := a.theme.base()
			if edited(b, base+i, 1) {
				style = a.theme.edited()
			}
			if row == tab.CursorRow && i == tab.CursorCol {
				style = style.Reverse(true)
			}
			a.screen.SetContent(offsetColumn+i, y, printable(b.Working[base+i]), nil, style)
		}
	}
}

// drawEntropy renders one bar per window row, scaled to 8 bits/byte.
func (a *App) drawEntropy(tab *hexblock.Tab, f *hexblock.File) {
	b := f.Block()
	barWidth := a.width - offsetColumn - 8
	if barWidth < 1 {
		barWidth = 1
	}

	for row := 0; row < tab.PrintHeight; row++ {
		base := row * tab.PrintWidth
		if base >= len(b.Working) {
			break
		}
		end := base + tab.PrintWidth
		if end > len(b.Working) {
			end = len(b.Working)
		}
		y := row + 1

		e := hexblock.Entropy(b.Working[base:end])
		a.drawText(0, y, fmt.Sprintf("%08x", b.Offset+int64(base)), a.theme.offset())
		a.drawText(offsetColumn, y, fmt.Sprintf("%5.3f ", e), a.theme.base())
		bar := int(e / 8.0 * float64(barWidth))
		a.drawText(offsetColumn+7, y, strings.Repeat("#", bar), a.theme.bar())
	}
}

func (a *App) drawStatusBar() {
	style := a.theme.status()
	y := a.height - 1
	for x := 0; x < a.width; x++ {
		a.screen.SetContent(x, y, ' ', nil, style)
	}

	tab := a.tabs.Current()
	f := a.file()
	if tab == nil || f == nil {
		a.drawText(0, y, " no file", style)
		return
	}

	insert := ""
	if tab.InsertMode {
		insert = " INS"
	}
	status := fmt.Sprintf(" %s | 0x%x/%d bytes | %s %s%s | %d pending | undo %d redo %d",
		f.Path(),
		f.Block().Offset+tab.CursorPos(), f.Size(),
		tab.Input.Mode, tab.Input.Width, insert,
		f.Patch().Len(), f.UndoLen(), f.RedoLen())
	if a.message != "" {
		status += " | " + a.message
	}
	a.drawText(0, y, status, style)
}

// drawText draws a string advancing by display width, returning the x
// position after the last cell.
func (a *App) drawText(x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		if x >= a.width {
			break
		}
		a.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

// edited reports whether any byte of the element differs from what was
// read off disk.
func edited(b *hexblock.Block, pos, size int) bool {
	for i := pos; i < pos+size && i < len(b.Working); i++ {
		if b.Working[i] != b.Source[i] {
			return true
		}
	}
	return false
}

func printable(v byte) rune {
	if v >= 0x20 && v < 0x7F {
		return rune(v)
	}
	return '.'
}

package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
)

// Theme holds the color names read from the theme file. Any field left
// empty in the file keeps its default.
type Theme struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	OffsetFg   string `toml:"offset_fg"`
	EditedFg   string `toml:"edited_fg"`
	StatusBg   string `toml:"status_bg"`
	StatusFg   string `toml:"status_fg"`
	PromptBg   string `toml:"prompt_bg"`
	PromptFg   string `toml:"prompt_fg"`
	BarFg      string `toml:"bar_fg"`
}

func defaultTheme() *Theme {
	return &Theme{
		Background: "black",
		Foreground: "silver",
		OffsetFg:   "teal",
		EditedFg:   "red",
		StatusBg:   "gray",
		StatusFg:   "white",
		PromptBg:   "blue",
		PromptFg:   "white",
		BarFg:      "green",
	}
}

// loadTheme reads the theme file, looking first at $HEXBLOCK_THEME and
// then at ~/.config/hexblock/theme.toml. A missing file is not an
// error; the defaults apply.
func loadTheme() (*Theme, error) {
	theme := defaultTheme()

	path := os.Getenv("HEXBLOCK_THEME")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return theme, nil
		}
		path = filepath.Join(home, ".config", "hexblock", "theme.toml")
	}

	if _, err := os.Stat(path); err != nil {
		return theme, nil
	}
	if _, err := toml.DecodeFile(path, theme); err != nil {
		return nil, err
	}
	return theme, nil
}

func (t *Theme) base() tcell.Style {
	return tcell.StyleDefault.
		Background(tcell.GetColor(t.Background)).
		Foreground(tcell.GetColor(t.Foreground))
}

func (t *Theme) offset() tcell.Style {
	return t.base().Foreground(tcell.GetColor(t.OffsetFg))
}

func (t *Theme) edited() tcell.Style {
	return t.base().Foreground(tcell.GetColor(t.EditedFg)).Bold(true)
}

func (t *Theme) status() tcell.Style {
	return tcell.StyleDefault.
		Background(tcell.GetColor(t.StatusBg)).
		Foreground(tcell.GetColor(t.StatusFg))
}

func (t *Theme) prompt() tcell.Style {
	return tcell.StyleDefault.
		Background(tcell.GetColor(t.PromptBg)).
		Foreground(tcell.GetColor(t.PromptFg))
}

func (t *Theme) bar() tcell.Style {
	return t.base().Foreground(tcell.GetColor(t.BarFg))
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"hexblock"
)

// REPL holds the state of the interactive session
type REPL struct {
	session *hexblock.Session
	input   *hexblock.Input
	reader  *bufio.Reader
}

func main() {
	fmt.Println("hexblock REPL - Interactive Binary Editor Demo")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	session, err := hexblock.Init(hexblock.SessionOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing session: %v\n", err)
		os.Exit(1)
	}

	repl := &REPL{
		session: session,
		input:   hexblock.NewInput(),
		reader:  bufio.NewReader(os.Stdin),
	}

	for _, path := range os.Args[1:] {
		repl.cmdOpen([]string{path})
	}

	for {
		fmt.Print("hexblock> ")
		line, err := repl.reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !repl.handleCommand(line) {
			break
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false

	case "open":
		r.cmdOpen(args)

	case "file":
		r.cmdFile(args)

	case "status":
		r.cmdStatus()

	case "offset":
		r.cmdOffset(args)

	case "size", "block_size":
		r.cmdSize(args)

	case "dump":
		r.cmdDump()

	case "edit":
		r.cmdEdit(args)

	case "mode":
		r.cmdMode(args)

	case "width":
		r.cmdWidth(args)

	case "undo":
		r.withFile(func(f *hexblock.File) { f.Undo() })

	case "redo":
		r.withFile(func(f *hexblock.File) { f.Redo() })

	case "flush":
		r.cmdFlush()

	case "search":
		r.cmdSearch(args)

	case "hits":
		r.cmdHits()

	case "next":
		r.cmdJump(func(f *hexblock.File) (int64, bool) { return f.NextHit() })

	case "prev":
		r.cmdJump(func(f *hexblock.File) (int64, bool) { return f.PrevHit() })

	case "nextgroup":
		r.cmdJump(func(f *hexblock.File) (int64, bool) { return f.NextHitGroup() })

	case "prevgroup":
		r.cmdJump(func(f *hexblock.File) (int64, bool) { return f.PrevHitGroup() })

	case "entropy":
		r.withFile(func(f *hexblock.File) {
			if err := f.Sync(); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("Window entropy: %.4f bits/byte\n", f.Block().Entropy())
		})

	default:
		fmt.Printf("Unknown command: %s (try 'help')\n", cmd)
	}

	return true
}

func (r *REPL) withFile(fn func(f *hexblock.File)) {
	f, err := r.session.Current()
	if err != nil {
		fmt.Println("No open file (use 'open <path>')")
		return
	}
	fn(f)
}

func (r *REPL) cmdOpen(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: open <path>")
		return
	}
	f, err := r.session.Open(hexblock.FileOptions{Path: args[0]})
	if err != nil {
		fmt.Printf("Error opening %s: %v\n", args[0], err)
		return
	}
	fmt.Printf("Opened %s (%d bytes)\n", f.Path(), f.Size())
}

func (r *REPL) cmdFile(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: file add <path> | next | prev")
		return
	}
	switch args[0] {
	case "add":
		r.cmdOpen(args[1:])
		return
	case "next":
		r.session.NextFile()
	case "prev":
		r.session.PrevFile()
	}
	r.withFile(func(f *hexblock.File) {
		fmt.Printf("Current file: %s\n", f.Path())
	})
}

func (r *REPL) cmdStatus() {
	r.withFile(func(f *hexblock.File) {
		b := f.Block()
		fmt.Printf("Path:      %s\n", f.Path())
		fmt.Printf("Size:      %d bytes\n", f.Size())
		fmt.Printf("Window:    offset=%d size=%d loaded=%v\n", b.Offset, b.Size, b.Loaded())
		fmt.Printf("Overlay:   %d pending runs\n", f.Patch().Len())
		fmt.Printf("Undo/redo: %d/%d snapshots\n", f.UndoLen(), f.RedoLen())
		fmt.Printf("Decoder:   %s %s (digit %d of %d)\n",
			r.input.Mode, r.input.Width, r.input.Index()+1, r.input.Span())
		fmt.Printf("Hit groups: %d\n", len(f.Hits().Groups))
	})
}

func (r *REPL) cmdOffset(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: offset <n>  (decimal, 0x hex, o/b suffix)")
		return
	}
	n, err := parseNumber(args[0])
	if err != nil {
		fmt.Printf("Bad number %q: %v\n", args[0], err)
		return
	}
	r.withFile(func(f *hexblock.File) { f.SetOffset(n) })
}

func (r *REPL) cmdSize(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: size <n>")
		return
	}
	n, err := parseNumber(args[0])
	if err != nil {
		fmt.Printf("Bad number %q: %v\n", args[0], err)
		return
	}
	r.withFile(func(f *hexblock.File) { f.SetBlockSize(n) })
}

func (r *REPL) cmdDump() {
	r.withFile(func(f *hexblock.File) {
		if err := f.Sync(); err != nil {
			fmt.Printf("Error loading window: %v\n", err)
			return
		}
		b := f.Block()
		for row := 0; row < len(b.Working); row += 16 {
			end := row + 16
			if end > len(b.Working) {
				end = len(b.Working)
			}
			var hex, ascii strings.Builder
			for i := row; i < end; i++ {
				v := b.Working[i]
				mark := ' '
				if v != b.Source[i] {
					mark = '*'
				}
				fmt.Fprintf(&hex, "%02x%c", v, mark)
				if v >= 0x20 && v < 0x7F {
					ascii.WriteByte(v)
				} else {
					ascii.WriteByte('.')
				}
			}
			fmt.Printf("0x%08x  %-48s %s\n", b.Offset+int64(row), hex.String(), ascii.String())
		}
	})
}

func (r *REPL) cmdEdit(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: edit <pos> <digits>  ('.' skips a slot)")
		return
	}
	pos, err := parseNumber(args[0])
	if err != nil {
		fmt.Printf("Bad position %q: %v\n", args[0], err)
		return
	}
	r.withFile(func(f *hexblock.File) {
		if err := f.Sync(); err != nil {
			fmt.Printf("Error loading window: %v\n", err)
			return
		}
		committed := 0
		for _, c := range []byte(args[1]) {
			if !hexblock.IsEditKey(c) {
				fmt.Printf("Skipping non-edit key %q\n", c)
				continue
			}
			if f.Edit(r.input, pos, c) {
				committed++
			}
		}
		fmt.Printf("Committed %d byte run(s)\n", committed)
	})
}

func (r *REPL) cmdMode(args []string) {
	if len(args) < 1 {
		fmt.Printf("Mode: %s\n", r.input.Mode)
		return
	}
	switch args[0] {
	case "hex":
		r.input.Mode = hexblock.ModeHex
	case "dec":
		r.input.Mode = hexblock.ModeDec
	case "oct":
		r.input.Mode = hexblock.ModeOct
	case "bin":
		r.input.Mode = hexblock.ModeBin
	default:
		fmt.Println("Usage: mode hex|dec|oct|bin")
		return
	}
	r.input.Reset()
}

func (r *REPL) cmdWidth(args []string) {
	if len(args) < 1 {
		fmt.Printf("Width: %s\n", r.input.Width)
		return
	}
	switch args[0] {
	case "byte":
		r.input.Width = hexblock.WidthByte
	case "word":
		r.input.Width = hexblock.WidthWord
	case "dword":
		r.input.Width = hexblock.WidthDWord
	case "qword":
		r.input.Width = hexblock.WidthQWord
	default:
		fmt.Println("Usage: width byte|word|dword|qword")
		return
	}
	r.input.Reset()
}

func (r *REPL) cmdFlush() {
	r.withFile(func(f *hexblock.File) {
		if err := f.Flush(); err != nil {
			fmt.Printf("Flush failed: %v\n", err)
			return
		}
		fmt.Println("Flushed")
	})
}

func (r *REPL) cmdSearch(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: search <pattern>")
		return
	}
	pattern := strings.Join(args, " ")
	r.withFile(func(f *hexblock.File) {
		n, err := f.Search(pattern)
		if err != nil {
			fmt.Printf("Search failed: %v\n", err)
			return
		}
		fmt.Printf("Found %d results\n", n)
	})
}

func (r *REPL) cmdHits() {
	r.withFile(func(f *hexblock.File) {
		hits := f.Hits()
		if len(hits.Groups) == 0 {
			fmt.Println("No hit groups")
			return
		}
		for i, g := range hits.Groups {
			marker := ' '
			if i == hits.Selected {
				marker = '*'
			}
			fmt.Printf("%c group %d %q: %d hits\n", marker, i, g.Pattern, len(g.Hits))
			for j, off := range g.Hits {
				sel := ' '
				if j == g.Selected {
					sel = '>'
				}
				fmt.Printf("  %c 0x%08x\n", sel, off)
			}
		}
	})
}

func (r *REPL) cmdJump(fn func(f *hexblock.File) (int64, bool)) {
	r.withFile(func(f *hexblock.File) {
		off, ok := fn(f)
		if !ok {
			fmt.Println("No hit to jump to")
			return
		}
		fmt.Printf("Window moved to 0x%08x\n", off)
	})
}

func (r *REPL) printHelp() {
	fmt.Println(`Commands:
  open <path>           open a file and make it current
  file add|next|prev    add or switch between open files
  status                show window/overlay/log state
  offset <n>            move the window (takes effect at next dump)
  size <n>              resize the window
  dump                  load the window and hex-dump it ('*' = edited)
  edit <pos> <digits>   feed edit keystrokes at a window position
  mode hex|dec|oct|bin  set the decode radix
  width byte|word|dword|qword
                        set the element width
  undo / redo           roll edits back / forward
  flush                 write all pending patches to disk
  search <pattern>      scan the file on disk, record a hit group
  hits                  list hit groups
  next / prev           jump to next/previous hit in the group
  nextgroup / prevgroup switch hit groups
  entropy               entropy of the current window
  quit                  exit`)
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

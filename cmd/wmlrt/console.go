package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// startConsole reads commands from in on a separate goroutine and runs
// them on the player's event loop. The returned func restores the
// terminal.
func startConsole(p *player, in *os.File) (restore func()) {
	restore = func() {}
	fd := int(in.Fd())

	var read func() (string, bool)
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to set raw mode: %v\n", err)
		} else {
			restore = func() { term.Restore(fd, oldState) }
			p.eol = "\r\n"
			read = func() (string, bool) { return readLineRaw(in, p.out) }
		}
	}
	if read == nil {
		read = basicReader(in)
	}

	go runConsole(p, read)
	return restore
}

// runConsole feeds lines to the player until EOF or quit.
func runConsole(p *player, read func() (string, bool)) {
	for {
		fmt.Fprint(p.out, "> ")
		line, eof := read()
		if eof {
			p.r.Post(p.quit)
			return
		}
		done := make(chan bool, 1)
		posted := p.r.Post(func() {
			more := p.exec(line)
			if !more {
				p.quit()
			}
			done <- more
		})
		if !posted || !<-done {
			return
		}
	}
}

// basicReader reads lines from non-TTY input.
func basicReader(in io.Reader) func() (string, bool) {
	sc := bufio.NewScanner(in)
	return func() (string, bool) {
		if !sc.Scan() {
			return "", true
		}
		return sc.Text(), false
	}
}

// readLineRaw reads a line in raw mode, echoing to out.
// Returns the line and whether EOF was encountered.
func readLineRaw(in io.Reader, out io.Writer) (string, bool) {
	var line []rune
	cursor := 0
	buf := make([]byte, 1)

	redrawFromCursor := func() {
		fmt.Fprint(out, "\x1b[K")
		fmt.Fprint(out, string(line[cursor:]))
		if cursor < len(line) {
			fmt.Fprintf(out, "\x1b[%dD", len(line)-cursor)
		}
	}
	insert := func(r rune) {
		line = append(line[:cursor], append([]rune{r}, line[cursor:]...)...)
		cursor++
		fmt.Fprint(out, string(r))
		if cursor < len(line) {
			redrawFromCursor()
		}
	}
	readByte := func() (byte, bool) {
		n, err := in.Read(buf)
		if err != nil || n == 0 {
			return 0, false
		}
		return buf[0], true
	}

	for {
		b, ok := readByte()
		if !ok {
			return string(line), true
		}

		switch b {
		case 0x04: // Ctrl+D
			if len(line) == 0 {
				return "", true
			}
			if cursor < len(line) {
				line = append(line[:cursor], line[cursor+1:]...)
				redrawFromCursor()
			}

		case 0x03: // Ctrl+C
			fmt.Fprint(out, "^C\r\n")
			return "quit", false

		case 0x0d, 0x0a:
			fmt.Fprint(out, "\r\n")
			return string(line), false

		case 0x7f, 0x08:
			if cursor > 0 {
				cursor--
				line = append(line[:cursor], line[cursor+1:]...)
				fmt.Fprint(out, "\b")
				redrawFromCursor()
			}

		case 0x1b: // ESC [ C/D moves the cursor, anything else is ignored
			if next, ok := readByte(); !ok || next != '[' {
				continue
			}
			arrow, ok := readByte()
			if !ok {
				continue
			}
			switch arrow {
			case 'C':
				if cursor < len(line) {
					cursor++
					fmt.Fprint(out, "\x1b[C")
				}
			case 'D':
				if cursor > 0 {
					cursor--
					fmt.Fprint(out, "\x1b[D")
				}
			}

		case 0x01: // Ctrl+A
			if cursor > 0 {
				fmt.Fprintf(out, "\x1b[%dD", cursor)
				cursor = 0
			}

		case 0x05: // Ctrl+E
			if cursor < len(line) {
				fmt.Fprintf(out, "\x1b[%dC", len(line)-cursor)
				cursor = len(line)
			}

		case 0x0b: // Ctrl+K
			if cursor < len(line) {
				line = line[:cursor]
				fmt.Fprint(out, "\x1b[K")
			}

		case 0x15: // Ctrl+U
			if cursor > 0 {
				fmt.Fprintf(out, "\x1b[%dD", cursor)
				line = line[cursor:]
				cursor = 0
				redrawFromCursor()
			}

		default:
			if b >= 0x20 && b < 0x7f {
				insert(rune(b))
				continue
			}
			if b < 0x80 {
				continue
			}
			// UTF-8 multi-byte sequence
			utf := []byte{b}
			more := 0
			switch {
			case b&0xE0 == 0xC0:
				more = 1
			case b&0xF0 == 0xE0:
				more = 2
			case b&0xF8 == 0xF0:
				more = 3
			}
			for i := 0; i < more; i++ {
				c, ok := readByte()
				if !ok {
					break
				}
				utf = append(utf, c)
			}
			insert([]rune(string(utf))[0])
		}
	}
}

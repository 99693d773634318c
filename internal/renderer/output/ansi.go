package output

import "strconv"

// CSI sequences emitted by the renderer.
const (
	seqCursorHide  = "\x1b[?25l"
	seqCursorShow  = "\x1b[?25h"
	seqClearLine   = "\x1b[K"
	seqClearScreen = "\x1b[2J"
)

// HideCursor appends the hide-cursor sequence.
func (b *Buffer) HideCursor() {
	b.pending.WriteString(seqCursorHide)
}

// ShowCursor appends the show-cursor sequence.
func (b *Buffer) ShowCursor() {
	b.pending.WriteString(seqCursorShow)
}

// ClearLine appends an erase from the cursor to the end of the line.
func (b *Buffer) ClearLine() {
	b.pending.WriteString(seqClearLine)
}

// ClearScreen appends an erase of the whole screen.
func (b *Buffer) ClearScreen() {
	b.pending.WriteString(seqClearScreen)
}

// MoveTo appends a cursor position sequence. x and y are 0-indexed.
func (b *Buffer) MoveTo(x, y int) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	var scratch [24]byte
	seq := append(scratch[:0], '\x1b', '[')
	seq = strconv.AppendInt(seq, int64(y+1), 10)
	seq = append(seq, ';')
	seq = strconv.AppendInt(seq, int64(x+1), 10)
	seq = append(seq, 'H')
	b.pending.Write(seq)
}

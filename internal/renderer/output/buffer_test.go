package output

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// recordingWriter counts Write calls and can be made to fail.
type recordingWriter struct {
	buf    bytes.Buffer
	writes int
	err    error
	short  bool
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.err != nil {
		return 0, w.err
	}
	if w.short && len(p) > 0 {
		return w.buf.Write(p[:len(p)-1])
	}
	return w.buf.Write(p)
}

func TestBuffer_NoIOUntilFlush(t *testing.T) {
	dev := &recordingWriter{}
	b := New(dev)

	b.WriteByte('~')
	b.WriteString("hello")
	b.WriteRune('é')

	if dev.writes != 0 {
		t.Fatalf("writes before flush = %d, want 0", dev.writes)
	}
	if b.Len() == 0 {
		t.Fatal("expected pending bytes")
	}
}

func TestBuffer_FlushSingleWrite(t *testing.T) {
	dev := &recordingWriter{}
	b := New(dev)

	b.HideCursor()
	b.MoveTo(0, 0)
	b.WriteString("~")
	b.ClearLine()
	b.ShowCursor()

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if dev.writes != 1 {
		t.Errorf("writes = %d, want 1", dev.writes)
	}
	want := "\x1b[?25l\x1b[1;1H~\x1b[K\x1b[?25h"
	if got := dev.buf.String(); got != want {
		t.Errorf("device got %q, want %q", got, want)
	}
	if b.Len() != 0 {
		t.Errorf("pending after flush = %d, want 0", b.Len())
	}
}

func TestBuffer_FlushEmpty(t *testing.T) {
	dev := &recordingWriter{}
	b := New(dev)

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if dev.writes != 0 {
		t.Errorf("writes = %d, want 0 for empty buffer", dev.writes)
	}
}

func TestBuffer_FlushError(t *testing.T) {
	hangup := errors.New("terminal hung up")
	dev := &recordingWriter{err: hangup}
	b := New(dev)
	b.WriteString("frame")

	err := b.Flush()
	if !errors.Is(err, hangup) {
		t.Fatalf("Flush error = %v, want wrapped %v", err, hangup)
	}
	if b.Len() != 0 {
		t.Error("pending frame should be cleared after a failed flush")
	}
}

func TestBuffer_FlushShortWrite(t *testing.T) {
	dev := &recordingWriter{short: true}
	b := New(dev)
	b.WriteString("frame")

	if err := b.Flush(); !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("Flush error = %v, want io.ErrShortWrite", err)
	}
}

func TestBuffer_WriteRejectsInvalidUTF8(t *testing.T) {
	b := New(io.Discard)
	b.WriteString("ok")

	n, err := b.Write([]byte{0xff, 0xfe})
	if !errors.Is(err, ErrWriteZero) {
		t.Fatalf("Write error = %v, want ErrWriteZero", err)
	}
	if n != 0 {
		t.Errorf("Write n = %d, want 0", n)
	}
	if b.String() != "ok" {
		t.Errorf("pending = %q, want unchanged %q", b.String(), "ok")
	}

	n, err = b.Write([]byte("héllo"))
	if err != nil {
		t.Fatalf("Write valid utf-8 failed: %v", err)
	}
	if n != len("héllo") {
		t.Errorf("Write n = %d, want %d", n, len("héllo"))
	}
}

func TestBuffer_MoveTo(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"origin", 0, 0, "\x1b[1;1H"},
		{"column and row", 4, 2, "\x1b[3;5H"},
		{"large", 199, 1000, "\x1b[1001;200H"},
		{"negative clamps", -3, -1, "\x1b[1;1H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(io.Discard)
			b.MoveTo(tt.x, tt.y)
			if got := b.String(); got != tt.want {
				t.Errorf("MoveTo(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestBuffer_ClearScreen(t *testing.T) {
	b := New(io.Discard)
	b.ClearScreen()
	if got := b.String(); got != "\x1b[2J" {
		t.Errorf("ClearScreen = %q", got)
	}
}

func TestBuffer_Reset(t *testing.T) {
	dev := &recordingWriter{}
	b := New(dev)
	b.WriteString("stale")
	b.Reset()

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if dev.writes != 0 {
		t.Errorf("writes = %d, want 0 after Reset", dev.writes)
	}
}

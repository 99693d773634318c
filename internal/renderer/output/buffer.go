// Package output provides the frame buffer that coalesces one screen draw
// and hands it to the terminal in a single write.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrWriteZero is returned by Write when the input is not valid UTF-8.
// No bytes are accepted in that case.
var ErrWriteZero = errors.New("write zero: invalid utf-8")

// Buffer accumulates text and control sequences for one frame.
//
// Nothing reaches the device until Flush. The pending frame is not capped;
// its size is bounded only by available memory, so callers that append in a
// loop must flush once per frame.
type Buffer struct {
	dev     io.Writer
	pending bytes.Buffer
}

// New creates a buffer that flushes to dev.
func New(dev io.Writer) *Buffer {
	return &Buffer{dev: dev}
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) error {
	return b.pending.WriteByte(c)
}

// WriteRune appends a single rune.
func (b *Buffer) WriteRune(r rune) (int, error) {
	return b.pending.WriteRune(r)
}

// WriteString appends s.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.pending.WriteString(s)
}

// Write implements io.Writer. Input that is not valid UTF-8 is rejected
// with ErrWriteZero and leaves the pending frame untouched.
func (b *Buffer) Write(p []byte) (int, error) {
	if !utf8.Valid(p) {
		return 0, ErrWriteZero
	}
	return b.pending.Write(p)
}

// Len returns the number of pending bytes.
func (b *Buffer) Len() int {
	return b.pending.Len()
}

// String returns the pending frame.
func (b *Buffer) String() string {
	return b.pending.String()
}

// Reset discards the pending frame without writing it.
func (b *Buffer) Reset() {
	b.pending.Reset()
}

// Flush writes the pending frame to the device in one call and clears it.
// The frame is cleared even when the write fails.
func (b *Buffer) Flush() error {
	if b.pending.Len() == 0 {
		return nil
	}
	defer b.pending.Reset()

	n, err := b.dev.Write(b.pending.Bytes())
	if err != nil {
		return fmt.Errorf("output: flush: %w", err)
	}
	if n != b.pending.Len() {
		return fmt.Errorf("output: flush: %w", io.ErrShortWrite)
	}
	return nil
}

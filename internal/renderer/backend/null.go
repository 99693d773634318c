package backend

import (
	"bytes"
	"io"
	"time"
)

// NullBackend is an in-memory backend for testing. Events are served in
// the order they were posted; once the queue is empty every poll times out.
type NullBackend struct {
	width, height int
	events        []Event
	out           io.Writer
	captured      bytes.Buffer

	initErr     error
	shutdownErr error
	pollErr     error

	initialized bool
	raw         bool
	polls       int
	shutdowns   int
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{width: width, height: height}
	b.out = &b.captured
	return b
}

func (b *NullBackend) Init() error {
	if b.initErr != nil {
		return b.initErr
	}
	b.initialized = true
	b.raw = true
	return nil
}

func (b *NullBackend) Shutdown() error {
	b.shutdowns++
	b.raw = false
	return b.shutdownErr
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) Output() io.Writer {
	return b.out
}

func (b *NullBackend) PollEvent(time.Duration) (Event, bool, error) {
	b.polls++
	if b.pollErr != nil {
		return Event{}, false, b.pollErr
	}
	if len(b.events) == 0 {
		return Event{}, false, nil
	}
	ev := b.events[0]
	b.events = b.events[1:]
	return ev, true, nil
}

func (b *NullBackend) PostEvent(ev Event) {
	b.events = append(b.events, ev)
}

// PostKeys queues key events in order.
func (b *NullBackend) PostKeys(events ...Event) {
	b.events = append(b.events, events...)
}

// SetInitError makes Init fail with err.
func (b *NullBackend) SetInitError(err error) { b.initErr = err }

// SetShutdownError makes Shutdown fail with err.
func (b *NullBackend) SetShutdownError(err error) { b.shutdownErr = err }

// SetPollError makes every PollEvent fail with err.
func (b *NullBackend) SetPollError(err error) { b.pollErr = err }

// SetOutput replaces the output device, e.g. with a failing writer.
func (b *NullBackend) SetOutput(w io.Writer) { b.out = w }

// Captured returns everything written to the default output device.
func (b *NullBackend) Captured() string { return b.captured.String() }

// Raw reports whether the backend is between Init and Shutdown.
func (b *NullBackend) Raw() bool { return b.raw }

// Polls returns the number of PollEvent calls.
func (b *NullBackend) Polls() int { return b.polls }

// Shutdowns returns the number of Shutdown calls.
func (b *NullBackend) Shutdowns() int { return b.shutdowns }

// Pending returns the number of queued events.
func (b *NullBackend) Pending() int { return len(b.events) }

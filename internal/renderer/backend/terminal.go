//go:build unix

package backend

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// maxPollSlice bounds a single poll(2) so events posted by the input
// processor's escape timer are picked up promptly.
const maxPollSlice = 100 * time.Millisecond

// readSize is the most input bytes decoded at once.
const readSize = 256

// eventQueueSize must exceed what one read can decode, since tcell drops
// events that do not fit. Every event consumes at least one byte, and an
// unfinished sequence from the previous read can carry over.
const eventQueueSize = 2 * readSize

// Terminal implements Backend on the process's controlling terminal using
// raw ANSI I/O. Input bytes are decoded by tcell's input processor.
type Terminal struct {
	out   *os.File
	inFd  int
	outFd int

	oldState *term.State
	width    int
	height   int

	queue  []Event
	events chan tcell.Event
	input  tcell.InputProcessor
	buf    []byte
}

// NewTerminal creates a terminal backend on stdin/stdout.
func NewTerminal() *Terminal {
	return newTerminal(os.Stdin, os.Stdout)
}

func newTerminal(in, out *os.File) *Terminal {
	events := make(chan tcell.Event, eventQueueSize)
	return &Terminal{
		out:    out,
		inFd:   int(in.Fd()),
		outFd:  int(out.Fd()),
		events: events,
		input:  tcell.NewInputProcessor(events),
		buf:    make([]byte, readSize),
	}
}

// Init samples the window size and enables raw mode. The size is checked
// first so a failure leaves the terminal untouched.
func (t *Terminal) Init() error {
	if !term.IsTerminal(t.inFd) {
		return ErrNotTerminal
	}

	w, h, err := windowSize(t.outFd)
	if err != nil {
		return fmt.Errorf("window size: %w", err)
	}
	if w < 1 || h < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	t.width, t.height = w, h

	old, err := term.MakeRaw(t.inFd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	t.oldState = old
	return nil
}

// Shutdown restores the terminal mode saved by Init.
func (t *Terminal) Shutdown() error {
	if t.oldState == nil {
		return nil
	}
	err := term.Restore(t.inFd, t.oldState)
	t.oldState = nil
	if err != nil {
		return fmt.Errorf("disable raw mode: %w", err)
	}
	return nil
}

func (t *Terminal) Size() (int, int) {
	return t.width, t.height
}

func (t *Terminal) Output() io.Writer {
	return t.out
}

func (t *Terminal) PostEvent(ev Event) {
	t.queue = append(t.queue, ev)
}

// PollEvent waits up to timeout for input and returns the first decoded
// event. Keys tcell decodes into events we do not model are skipped.
func (t *Terminal) PollEvent(timeout time.Duration) (Event, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		if ev, ok := t.nextQueued(); ok {
			return ev, true, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Event{}, false, nil
		}

		ready, err := t.wait(min(remaining, maxPollSlice))
		if err != nil {
			return Event{}, false, err
		}
		if !ready {
			continue
		}

		n, err := unix.Read(t.inFd, t.buf)
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return Event{}, false, fmt.Errorf("read input: %w", err)
		}
		if n == 0 {
			return Event{}, false, ErrClosed
		}
		t.input.ScanUTF8(t.buf[:n])
	}
}

// nextQueued returns a posted event, or the next decoded terminal event.
func (t *Terminal) nextQueued() (Event, bool) {
	if len(t.queue) > 0 {
		ev := t.queue[0]
		t.queue = t.queue[1:]
		return ev, true
	}
	for {
		select {
		case tev := <-t.events:
			if ev, ok := convertEvent(tev); ok {
				return ev, true
			}
		default:
			return Event{}, false
		}
	}
}

// wait blocks until stdin is readable or d elapses.
func (t *Terminal) wait(d time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(t.inFd), Events: unix.POLLIN}}
	ms := int(d / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, fmt.Errorf("poll input: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 && fds[0].Revents&unix.POLLIN == 0 {
		return false, ErrClosed
	}
	return true, nil
}

// windowSize returns the terminal size for a given fd.
func windowSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

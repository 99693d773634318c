package backend

import (
	"errors"
	"testing"
	"time"
)

var (
	_ Backend = (*NullBackend)(nil)
	_ Backend = (*Terminal)(nil)
)

func TestModMask_Has(t *testing.T) {
	m := ModCtrl | ModAlt
	if !m.Has(ModCtrl) || !m.Has(ModAlt) {
		t.Error("expected Ctrl and Alt")
	}
	if m.Has(ModShift) || m.Has(ModMeta) {
		t.Error("unexpected Shift or Meta")
	}
	if ModNone.Has(ModCtrl) {
		t.Error("ModNone has no modifiers")
	}
}

func TestEvent_String(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{"named key", KeyEvent(KeyPageDown, 0, ModNone), "PgDn"},
		{"rune", KeyEvent(KeyRune, 'x', ModNone), "Rune[x]"},
		{"ctrl key", KeyEvent(KeyCtrlQ, 0, ModCtrl), "Ctrl-Q"},
		{"ctrl key without mod", KeyEvent(KeyCtrlQ, 0, ModNone), "Ctrl-Q"},
		{"ctrl key with alt", KeyEvent(KeyCtrlQ, 0, ModCtrl|ModAlt), "Alt+Ctrl-Q"},
		{"ctrl rune", KeyEvent(KeyRune, 'q', ModCtrl), "Ctrl+Rune[q]"},
		{"modified arrow", KeyEvent(KeyUp, 0, ModShift|ModAlt), "Alt+Shift+Up"},
		{"function key", KeyEvent(KeyF5, 0, ModNone), "F5"},
		{"focus", Event{Type: EventFocus}, "Focus"},
		{"none", Event{}, "None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_StringUnknown(t *testing.T) {
	if got := Key(999).String(); got != "Key(999)" {
		t.Errorf("String() = %q", got)
	}
}

func TestNullBackend_Lifecycle(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !b.Raw() {
		t.Error("expected raw mode after Init")
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("Size() = %dx%d, want 80x24", w, h)
	}

	if err := b.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if b.Raw() {
		t.Error("expected cooked mode after Shutdown")
	}
	if b.Shutdowns() != 1 {
		t.Errorf("Shutdowns() = %d, want 1", b.Shutdowns())
	}
}

func TestNullBackend_InitError(t *testing.T) {
	b := NewNullBackend(80, 24)
	want := errors.New("no tty")
	b.SetInitError(want)

	if err := b.Init(); !errors.Is(err, want) {
		t.Fatalf("Init error = %v, want %v", err, want)
	}
	if b.Raw() {
		t.Error("raw mode must not be set after failed Init")
	}
}

func TestNullBackend_PollOrder(t *testing.T) {
	b := NewNullBackend(10, 10)
	b.PostKeys(KeyEvent(KeyUp, 0, ModNone), KeyEvent(KeyDown, 0, ModNone))
	b.PostEvent(KeyEvent(KeyRune, 'a', ModNone))

	want := []Key{KeyUp, KeyDown, KeyRune}
	for i, k := range want {
		ev, ok, err := b.PollEvent(time.Second)
		if err != nil || !ok {
			t.Fatalf("poll %d: ok=%v err=%v", i, ok, err)
		}
		if ev.Key != k {
			t.Errorf("poll %d: key = %v, want %v", i, ev.Key, k)
		}
	}

	_, ok, err := b.PollEvent(time.Second)
	if err != nil || ok {
		t.Errorf("empty queue: ok=%v err=%v, want timeout", ok, err)
	}
	if b.Polls() != 4 {
		t.Errorf("Polls() = %d, want 4", b.Polls())
	}
}

func TestNullBackend_PollError(t *testing.T) {
	b := NewNullBackend(10, 10)
	b.SetPollError(ErrClosed)

	if _, _, err := b.PollEvent(time.Millisecond); !errors.Is(err, ErrClosed) {
		t.Errorf("PollEvent error = %v, want ErrClosed", err)
	}
}

func TestNullBackend_CapturesOutput(t *testing.T) {
	b := NewNullBackend(10, 10)
	if _, err := b.Output().Write([]byte("frame")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if b.Captured() != "frame" {
		t.Errorf("Captured() = %q", b.Captured())
	}
}

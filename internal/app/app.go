package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/pound/internal/renderer"
	"github.com/dshills/pound/internal/renderer/backend"
	"github.com/dshills/pound/internal/renderer/cursor"
	"github.com/dshills/pound/internal/renderer/output"
)

// DefaultPollTimeout bounds a single wait for input.
const DefaultPollTimeout = time.Second

// Application owns the terminal, the frame buffer, the cursor and the
// renderer, and drives them from a single goroutine.
type Application struct {
	backend  backend.Backend
	out      *output.Buffer
	cursor   *cursor.Controller
	renderer *renderer.Renderer
	logger   *Logger
	metrics  *Metrics

	pollTimeout atomic.Int64

	running      atomic.Bool
	shutdownOnce sync.Once
}

// Options configures the application.
type Options struct {
	// PollTimeout bounds each input poll. Zero means DefaultPollTimeout.
	PollTimeout time.Duration

	// Version is shown in the welcome banner.
	Version string

	// Logger receives lifecycle and key logs. Nil discards them.
	Logger *Logger
}

// DefaultOptions returns the default application options.
func DefaultOptions() Options {
	return Options{
		PollTimeout: DefaultPollTimeout,
		Version:     renderer.Version,
	}
}

// New initializes the backend and builds the editor components around it.
// On failure the backend is left in its original mode.
func New(b backend.Backend, opts Options) (*Application, error) {
	if b == nil {
		return nil, &InitError{Component: "terminal", Err: errors.New("no backend")}
	}
	if opts.Logger == nil {
		opts.Logger = NullLogger
	}

	if err := b.Init(); err != nil {
		return nil, &InitError{Component: "terminal", Err: err}
	}

	columns, rows := b.Size()
	if columns < 1 || rows < 1 {
		if err := b.Shutdown(); err != nil {
			opts.Logger.Warn("restore terminal after bad size: %v", err)
		}
		return nil, &InitError{
			Component: "terminal",
			Err:       fmt.Errorf("%w: %dx%d", backend.ErrInvalidSize, columns, rows),
		}
	}

	app := &Application{
		backend:  b,
		out:      output.New(b.Output()),
		cursor:   cursor.New(columns, rows),
		renderer: renderer.New(columns, rows, renderer.Options{Version: opts.Version}),
		logger:   opts.Logger,
		metrics:  NewMetrics(),
	}
	app.SetPollTimeout(opts.PollTimeout)
	return app, nil
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Cursor returns the cursor controller.
func (app *Application) Cursor() *cursor.Controller {
	return app.cursor
}

// Renderer returns the renderer.
func (app *Application) Renderer() *renderer.Renderer {
	return app.renderer
}

// Metrics returns the session counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// IsRunning returns true while Run is executing.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// PollTimeout returns the current input poll timeout.
func (app *Application) PollTimeout() time.Duration {
	return time.Duration(app.pollTimeout.Load())
}

// SetPollTimeout changes the input poll timeout. It is safe to call while
// Run is executing; non-positive values select DefaultPollTimeout.
func (app *Application) SetPollTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultPollTimeout
	}
	app.pollTimeout.Store(int64(d))
}

// Run draws a frame, waits for a key and dispatches it until Ctrl+q is
// pressed, ctx is cancelled or a component fails. It returns nil on quit
// and ctx.Err() on cancellation. A panic is recovered into a
// *RecoveredPanicError; the caller still runs Shutdown.
func (app *Application) Run(ctx context.Context) (err error) {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			perr := NewRecoveredPanicError(r, string(debug.Stack()))
			app.logger.Error("%s", perr.Summary())
			err = perr
		}
	}()

	columns, rows := app.cursor.Size()
	app.logger.Info("started %dx%d, poll timeout %v", columns, rows, app.PollTimeout())
	defer func() {
		app.logger.Info("session: %s", app.metrics.Snapshot())
	}()

	for {
		timer := StartTimer()
		if err := app.renderer.Refresh(app.out, app.cursor.Position()); err != nil {
			return NewComponentError("renderer", "refresh", err)
		}
		app.metrics.RecordFrame(timer.Elapsed())

		ev, err := app.readKey(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				app.logger.Info("cancelled: %v", err)
			}
			return err
		}

		if !app.ProcessKey(ev) {
			app.logger.Info("quit after %d frames", app.renderer.FrameCount())
			return nil
		}
	}
}

// readKey polls until a key event arrives. Timeouts and non-key events are
// absorbed; cancellation of ctx is checked between polls.
func (app *Application) readKey(ctx context.Context) (backend.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return backend.Event{}, err
		}

		ev, ok, err := app.backend.PollEvent(app.PollTimeout())
		if err != nil {
			return backend.Event{}, NewComponentError("backend", "poll", err)
		}
		if !ok {
			app.metrics.RecordPollTimeout()
			continue
		}
		if ev.Type != backend.EventKey {
			app.logger.Debug("skip %s event", ev)
			continue
		}

		app.logger.Debug("key %s", ev)
		return ev, nil
	}
}

// ProcessKey applies one key event and reports whether the editor should
// keep running. Only Ctrl+q returns false.
func (app *Application) ProcessKey(ev backend.Event) bool {
	if ev.Type != backend.EventKey {
		return true
	}
	if isQuit(ev) {
		app.metrics.RecordKey(true)
		return false
	}
	app.metrics.RecordKey(app.move(ev))
	return true
}

// move applies an unmodified navigation key and reports whether ev was one.
func (app *Application) move(ev backend.Event) bool {
	if ev.Mod != backend.ModNone {
		return false
	}

	switch ev.Key {
	case backend.KeyUp:
		app.cursor.Move(cursor.Up)
	case backend.KeyDown:
		app.cursor.Move(cursor.Down)
	case backend.KeyLeft:
		app.cursor.Move(cursor.Left)
	case backend.KeyRight:
		app.cursor.Move(cursor.Right)
	case backend.KeyHome:
		app.cursor.Move(cursor.Home)
	case backend.KeyEnd:
		app.cursor.Move(cursor.End)
	case backend.KeyPageUp:
		app.repeat(cursor.Up)
	case backend.KeyPageDown:
		app.repeat(cursor.Down)
	default:
		return false
	}
	return true
}

// repeat moves one full screen of rows in d.
func (app *Application) repeat(d cursor.Direction) {
	_, rows := app.cursor.Size()
	for i := 0; i < rows; i++ {
		app.cursor.Move(d)
	}
}

// isQuit matches Ctrl+q however the terminal encodes it.
func isQuit(ev backend.Event) bool {
	switch ev.Key {
	case backend.KeyCtrlQ:
		return ev.Mod&^backend.ModCtrl == 0
	case backend.KeyRune:
		return ev.Rune == 'q' && ev.Mod == backend.ModCtrl
	}
	return false
}

// Shutdown restores the terminal mode and clears the screen. It runs at
// most once; later calls do nothing. Failures are logged, not returned.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		if err := app.backend.Shutdown(); err != nil {
			app.logger.WithComponent("terminal").Warn("%v",
				NewOperationError("restore", "terminal", err).WithContext("shutdown"))
		}

		app.out.Reset()
		app.out.ClearScreen()
		app.out.MoveTo(0, 0)
		if err := app.out.Flush(); err != nil {
			app.logger.WithComponent("renderer").Warn("%v",
				NewOperationError("clear", "screen", err).WithContext("shutdown"))
		}
	})
}

// Package renderer draws the editor screen.
//
// One call to Refresh produces one frame: the cursor is hidden, every
// viewport row is drawn (a '~' marker, or the welcome banner on row rows/3),
// the real cursor is moved to the tracked position and shown again, and the
// frame is flushed in a single write.
//
// Layout:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer (frame order)        │
//	├───────────────────┬─────────────────────┤
//	│  output.Buffer    │  cursor.Controller  │
//	├───────────────────┴─────────────────────┤
//	│        backend (raw terminal device)    │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	out := output.New(term.Output())
//	r := renderer.New(cols, rows, renderer.DefaultOptions())
//	err := r.Refresh(out, cur.Position())
package renderer

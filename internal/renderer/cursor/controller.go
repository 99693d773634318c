// Package cursor tracks the editor's logical cursor inside the viewport.
package cursor

import "fmt"

// Direction is a single cursor movement request.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
	Home
	End
)

var directionNames = [...]string{
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
	Home:  "home",
	End:   "end",
}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", d)
}

// Position is a 0-indexed screen coordinate.
type Position struct {
	X int
	Y int
}

// Controller owns the cursor position and the viewport size.
// The position always satisfies 0 <= X < columns and 0 <= Y < rows.
type Controller struct {
	pos     Position
	columns int
	rows    int
}

// New creates a controller at the top-left corner of a columns x rows
// viewport. It panics if either dimension is less than one; callers
// validate the terminal size before constructing the controller.
func New(columns, rows int) *Controller {
	if columns < 1 || rows < 1 {
		panic(fmt.Sprintf("cursor: invalid viewport %dx%d", columns, rows))
	}
	return &Controller{columns: columns, rows: rows}
}

// Position returns the current cursor position.
func (c *Controller) Position() Position {
	return c.pos
}

// Size returns the viewport dimensions.
func (c *Controller) Size() (columns, rows int) {
	return c.columns, c.rows
}

// Move applies one movement. Moves that would leave the viewport are
// clamped to its edge; unknown directions are ignored.
func (c *Controller) Move(d Direction) {
	switch d {
	case Up:
		if c.pos.Y > 0 {
			c.pos.Y--
		}
	case Down:
		if c.pos.Y < c.rows-1 {
			c.pos.Y++
		}
	case Left:
		if c.pos.X > 0 {
			c.pos.X--
		}
	case Right:
		if c.pos.X < c.columns-1 {
			c.pos.X++
		}
	case Home:
		c.pos.X = 0
	case End:
		c.pos.X = c.columns - 1
	}
}

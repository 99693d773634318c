package renderer

import (
	"fmt"

	"github.com/dshills/pound/internal/renderer/cursor"
	"github.com/dshills/pound/internal/renderer/output"
)

// Options configures the renderer.
type Options struct {
	// Version is shown in the welcome banner.
	Version string
}

// DefaultOptions returns the default renderer options.
func DefaultOptions() Options {
	return Options{
		Version: Version,
	}
}

// Renderer draws full frames for a fixed viewport.
type Renderer struct {
	opts    Options
	columns int
	rows    int

	frameCount uint64
}

// New creates a renderer for a columns x rows viewport.
func New(columns, rows int, opts Options) *Renderer {
	if opts.Version == "" {
		opts.Version = Version
	}
	return &Renderer{
		opts:    opts,
		columns: columns,
		rows:    rows,
	}
}

// Size returns the viewport dimensions.
func (r *Renderer) Size() (columns, rows int) {
	return r.columns, r.rows
}

// FrameCount returns the number of frames flushed so far.
func (r *Renderer) FrameCount() uint64 {
	return r.frameCount
}

// BannerRow returns the row index that carries the welcome banner.
func (r *Renderer) BannerRow() int {
	return r.rows / 3
}

// Refresh draws one frame into out and flushes it. The cursor is hidden
// while the rows are drawn and shown again at pos afterwards. A frame that
// cannot be drawn is discarded without reaching the device.
func (r *Renderer) Refresh(out *output.Buffer, pos cursor.Position) error {
	out.HideCursor()
	out.MoveTo(0, 0)
	if err := r.drawRows(out); err != nil {
		out.Reset()
		return fmt.Errorf("draw frame %d: %w", r.frameCount, err)
	}
	out.MoveTo(pos.X, pos.Y)
	out.ShowCursor()

	if err := out.Flush(); err != nil {
		return fmt.Errorf("refresh frame %d: %w", r.frameCount, err)
	}
	r.frameCount++
	return nil
}

// drawRows appends every viewport row. Rows are separated by CRLF with no
// trailing line break, so the last row never scrolls the display. The
// banner goes through Write, which rejects a version that is not UTF-8.
func (r *Renderer) drawRows(out *output.Buffer) error {
	bannerRow := r.BannerRow()
	for i := 0; i < r.rows; i++ {
		if i == bannerRow {
			if _, err := out.Write([]byte(bannerLine(r.columns, r.opts.Version))); err != nil {
				return err
			}
		} else {
			out.WriteByte('~')
		}

		out.ClearLine()
		if i < r.rows-1 {
			out.WriteString("\r\n")
		}
	}
	return nil
}

package loop

import (
	"fmt"
	"io"

	"github.com/tomz197/asteroids-neo/internal/config"
	"github.com/tomz197/asteroids-neo/internal/draw"
)

// screen fits the play field into the terminal and writes one frame at a
// time through a single chunked flush.
type screen struct {
	view     config.ViewConfig
	termSize draw.TermSizeFunc
	canvas   *draw.Canvas
	out      *draw.ChunkWriter
}

func newScreen(w io.Writer, view config.ViewConfig, termSize draw.TermSizeFunc) *screen {
	return &screen{
		view:     view,
		termSize: termSize,
		canvas:   draw.NewScaledCanvas(int(view.Width)*2, int(view.Height), view.Width, view.Height),
		out:      draw.NewChunkWriter(w, 0, 0),
	}
}

// present draws the world and its panels, centred and letterboxed to the
// view's aspect ratio.
func (s *screen) present(world *World) error {
	cols, rows, err := s.termSize()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}
	// Leave room for the border.
	w, h, offCol, offRow := draw.FitArea(max(cols-2, 1), max(rows-2, 1), s.view.Width, s.view.Height)
	s.canvas.Resize(w, h)
	s.canvas.SetOffset(offCol+1, offRow+1)

	if err := world.Draw(s.canvas); err != nil {
		return err
	}

	draw.ClearScreen(s.out)
	s.canvas.Render(s.out)
	s.canvas.RenderBorder(s.out)
	s.out.SetOffset(s.canvas.OffsetCol(), s.canvas.OffsetRow())
	world.DrawUI(s.out, w, h)
	return s.out.Flush()
}

package draw

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// ChunkWriter collects one frame of escape sequences and text, then sends
// it to the terminal in maxChunkSize pieces on Flush. Positions passed to
// WriteAt are 1-based and relative to the current offset.
type ChunkWriter struct {
	out    io.Writer
	frame  bytes.Buffer
	num    [20]byte
	offCol int
	offRow int
}

// NewChunkWriter creates a writer for w with the given cell offset.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{out: w, offCol: offsetCol, offRow: offsetRow}
}

// SetOffset moves the origin used by WriteAt, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

// WriteAt places s at (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.frame.WriteString("\033[")
	cw.frame.Write(strconv.AppendInt(cw.num[:0], int64(row+cw.offRow), 10))
	cw.frame.WriteByte(';')
	cw.frame.Write(strconv.AppendInt(cw.num[:0], int64(col+cw.offCol), 10))
	cw.frame.WriteByte('H')
	cw.frame.WriteString(s)
}

// Write appends raw bytes, so the canvas and screen helpers can render
// into the same frame.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.frame.Write(p)
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush sends the frame and starts a new one.
func (cw *ChunkWriter) Flush() error {
	defer cw.frame.Reset()
	return writeChunked(cw.out, cw.frame.String())
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	io.WriteString(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	io.WriteString(w, "\033[?25h")
}

// FitArea returns the largest area of a cols x rows terminal that shows a
// logicalW x logicalH field without distortion, and the offsets that
// centre it. Terminal cells are about twice as tall as wide.
func FitArea(cols, rows int, logicalW, logicalH float64) (w, h, offCol, offRow int) {
	w = cols
	h = int(float64(cols) * logicalH / logicalW / 2)
	if h > rows {
		h = rows
		w = int(float64(rows) * 2 * logicalW / logicalH)
	}
	w, h = max(w, 1), max(h, 1)
	return w, h, (cols - w) / 2, (rows - h) / 2
}

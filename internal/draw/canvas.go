package draw

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
)

// maxChunkSize is the largest single write sent to the terminal. Keeping
// writes under a typical MTU keeps SSH sessions smooth.
const maxChunkSize = 1400

// Canvas is a monochrome pixel buffer rendered with half-block characters,
// so every terminal cell holds two vertically stacked pixels.
//
// Callers draw in logical coordinates (origin top-left, +Y down). The
// canvas scales them to whatever terminal area it currently covers.
type Canvas struct {
	cols, rows int    // Terminal cells covered
	pixH       int    // rows * 2
	pixels     []bool // [y*cols + x]

	logicalW, logicalH float64
	sx, sy             float64 // Logical to pixel scale

	offCol, offRow int // Cells skipped before the canvas starts

	out       strings.Builder
	scaled    []Point
	crossings []float64
	borrowed  []Point
}

// NewScaledCanvas creates a canvas covering cols x rows terminal cells that
// maps a logicalW x logicalH coordinate space onto them.
func NewScaledCanvas(cols, rows int, logicalW, logicalH float64) *Canvas {
	c := &Canvas{logicalW: logicalW, logicalH: logicalH}
	c.Resize(cols, rows)
	return c
}

// Resize changes the covered terminal area, keeping the logical size.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols != c.cols || rows != c.rows {
		c.cols, c.rows, c.pixH = cols, rows, rows*2
		c.pixels = make([]bool, c.pixH*cols)
	}
	c.sx = float64(c.cols) / c.logicalW
	c.sy = float64(c.pixH) / c.logicalH
}

// SetOffset places the canvas origin col columns and row rows into the
// terminal.
func (c *Canvas) SetOffset(col, row int) {
	c.offCol, c.offRow = col, row
}

// Clear resets every pixel.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// TerminalWidth returns the number of columns covered.
func (c *Canvas) TerminalWidth() int { return c.cols }

// TerminalHeight returns the number of rows covered.
func (c *Canvas) TerminalHeight() int { return c.rows }

// OffsetCol returns the column offset.
func (c *Canvas) OffsetCol() int { return c.offCol }

// OffsetRow returns the row offset.
func (c *Canvas) OffsetRow() int { return c.offRow }

func (c *Canvas) plot(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.pixH {
		c.pixels[y*c.cols+x] = true
	}
}

func (c *Canvas) toPixel(p Point) (int, int) {
	return int(math.Round(p.X * c.sx)), int(math.Round(p.Y * c.sy))
}

// SetFloat sets the pixel under a logical position.
func (c *Canvas) SetFloat(x, y float64) {
	c.plot(c.toPixel(Point{x, y}))
}

// Pixel reports whether the pixel under a logical position is set.
func (c *Canvas) Pixel(x, y float64) bool {
	px, py := c.toPixel(Point{x, y})
	if px < 0 || px >= c.cols || py < 0 || py >= c.pixH {
		return false
	}
	return c.pixels[py*c.cols+px]
}

// DrawLine draws a Bresenham line between two logical points.
func (c *Canvas) DrawLine(a, b Point) {
	x0, y0 := c.toPixel(a)
	x1, y1 := c.toPixel(b)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawPolygon draws the closed outline through points, filling it first
// when filled is set.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fill(points)
	}
	for i := range points {
		c.DrawLine(points[i], points[(i+1)%len(points)])
	}
}

// DrawCircle draws a circle outline of logical radius r around center.
func (c *Canvas) DrawCircle(center Point, r float64) {
	if r <= 0 {
		return
	}
	// Enough segments that neighbouring points land on adjacent pixels.
	n := max(int(2*math.Pi*r*max(c.sx, c.sy)), 8)
	pts := c.BorrowPoints(n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
	}
	c.DrawPolygon(pts, false)
}

// fill scanline-fills a polygon in pixel space.
func (c *Canvas) fill(points []Point) {
	c.scaled = c.scaled[:0]
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		q := Point{X: p.X * c.sx, Y: p.Y * c.sy}
		c.scaled = append(c.scaled, q)
		lo, hi = min(lo, q.Y), max(hi, q.Y)
	}

	n := len(c.scaled)
	for y := int(math.Floor(lo)); y <= int(math.Ceil(hi)); y++ {
		scan := float64(y) + 0.5
		c.crossings = c.crossings[:0]
		for i := range n {
			a, b := c.scaled[i], c.scaled[(i+1)%n]
			if (a.Y <= scan) != (b.Y <= scan) {
				t := (scan - a.Y) / (b.Y - a.Y)
				c.crossings = append(c.crossings, a.X+t*(b.X-a.X))
			}
		}
		slices.Sort(c.crossings)
		for i := 0; i+1 < len(c.crossings); i += 2 {
			for x := int(math.Ceil(c.crossings[i])); x <= int(math.Floor(c.crossings[i+1])); x++ {
				c.plot(x, y)
			}
		}
	}
}

// BorrowPoints returns a scratch slice of n points, valid until the next
// call. It keeps per-frame polygon drawing allocation free.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.borrowed) < n {
		c.borrowed = make([]Point, n)
	}
	return c.borrowed[:n]
}

// Render writes the set pixels to w as half-block characters. Empty cells
// are skipped, so the caller clears the screen beforehand.
func (c *Canvas) Render(w io.Writer) {
	c.out.Reset()
	for row := range c.rows {
		top := c.pixels[row*2*c.cols : (row*2+1)*c.cols]
		bottom := c.pixels[(row*2+1)*c.cols : (row*2+2)*c.cols]
		for col := range c.cols {
			var ch rune
			switch {
			case top[col] && bottom[col]:
				ch = BlockFull
			case top[col]:
				ch = BlockUpperHalf
			case bottom[col]:
				ch = BlockLowerHalf
			default:
				continue
			}
			fmt.Fprintf(&c.out, "\033[%d;%dH%c", row+1+c.offRow, col+1+c.offCol, ch)
		}
	}
	writeChunked(w, c.out.String())
}

// RenderBorder frames the canvas when it is offset inside a larger
// terminal: horizontal rules need a row offset, vertical bars a column
// offset.
func (c *Canvas) RenderBorder(w io.Writer) {
	var b strings.Builder
	left, right := c.offCol, c.offCol+c.cols+1
	top, bottom := c.offRow, c.offRow+c.rows+1
	rule := strings.Repeat("─", c.cols)

	if c.offRow >= 1 {
		if c.offCol >= 1 {
			fmt.Fprintf(&b, "\033[%d;%dH┌%s┐", top, left, rule)
			fmt.Fprintf(&b, "\033[%d;%dH└%s┘", bottom, left, rule)
		} else {
			fmt.Fprintf(&b, "\033[%d;%dH%s", top, c.offCol+1, rule)
			fmt.Fprintf(&b, "\033[%d;%dH%s", bottom, c.offCol+1, rule)
		}
	}
	if c.offCol >= 1 {
		for row := c.offRow + 1; row <= c.offRow+c.rows; row++ {
			fmt.Fprintf(&b, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}
	writeChunked(w, b.String())
}

func writeChunked(w io.Writer, data string) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := io.WriteString(w, data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

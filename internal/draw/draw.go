// Package draw renders the play field to an ANSI terminal: a half-block
// pixel canvas for shapes and a chunked writer for text overlays.
package draw

// Point is a position in canvas logical coordinates.
type Point struct {
	X, Y float64
}

// Block characters used by the canvas.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

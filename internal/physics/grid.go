package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection over an
// origin-centred play field. Objects are inserted by position and index,
// then nearby objects are queried through a 3x3 cell neighbourhood.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding objects so that all potential collisions are found within
// the 3x3 neighbourhood.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	minX, minY  float64 // World-space corner of cell (0,0)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of objects that fall within a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering the given bounds plus a
// margin on every side (wrapped objects may sit slightly outside).
func NewSpatialGrid(b Bounds, margin, cellSize float64) *SpatialGrid {
	w := b.Width() + 2*margin
	h := b.Height() + 2*margin
	cols := max(int(math.Ceil(w/cellSize)), 1)
	rows := max(int(math.Ceil(h/cellSize)), 1)

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		minX:        -b.HalfWidth - margin,
		minY:        -b.HalfHeight - margin,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given world position.
func (g *SpatialGrid) Insert(p Vec2, index int) {
	col, row := g.posToCell(p)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighbourhood
// around p. Neighbours wrap at the grid edges like the play field does.
// If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(p Vec2, fn func(index int) bool) {
	col, row := g.posToCell(p)

	for dr := -1; dr <= 1; dr++ {
		r := (row + dr + g.rows) % g.rows
		rowOffset := r * g.cols

		for dc := -1; dc <= 1; dc++ {
			c := (col + dc + g.cols) % g.cols
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// posToCell converts world coordinates to grid cell coordinates,
// clamped to the valid range.
func (g *SpatialGrid) posToCell(p Vec2) (col, row int) {
	col = min(max(int((p.X-g.minX)*g.invCellSize), 0), g.cols-1)
	row = min(max(int((p.Y-g.minY)*g.invCellSize), 0), g.rows-1)
	return col, row
}

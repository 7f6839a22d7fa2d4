package core

// ByteGrid is a row-major buffer of display levels, one byte per cell.
type ByteGrid struct {
	size  Size
	cells []uint8
}

// NewByteGrid allocates a zeroed w×h grid. Non-positive dimensions become 1.
func NewByteGrid(w, h int) *ByteGrid {
	size := Size{W: max(w, 1), H: max(h, 1)}
	return &ByteGrid{size: size, cells: make([]uint8, size.W*size.H)}
}

// Cells returns the backing slice. Writes are visible to every reader.
func (g *ByteGrid) Cells() []uint8 { return g.cells }

// Size reports the grid dimensions.
func (g *ByteGrid) Size() Size { return g.size }

// Update refills the grid through fill, which is handed the backing slice and
// returns the filled slice. A result of the wrong length is ignored.
func (g *ByteGrid) Update(fill func([]uint8) []uint8) {
	if out := fill(g.cells); len(out) == len(g.cells) {
		g.cells = out
	}
}

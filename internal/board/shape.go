package board

import "fmt"

// Offset is the grid position of a sub-board's top-left corner.
type Offset struct {
	Row, Col int
}

// Shape declares a board as a union of 9×9 sub-boards placed on a rectangular
// extent. Overlapping sub-boards must meet on block boundaries (offsets that
// differ by multiples of 3); misaligned unions are rejected when the topology
// is derived.
type Shape struct {
	Rows, Cols int
	Subgrids   []Offset
}

// StandardShape is a single 9×9 board.
func StandardShape() Shape {
	return Shape{Rows: Size, Cols: Size, Subgrids: []Offset{{0, 0}}}
}

// TwinShape is two 9×9 boards joined diagonally by one shared 3×3 block.
func TwinShape() Shape {
	return Shape{
		Rows:     2*Size - BoxSize,
		Cols:     2*Size - BoxSize,
		Subgrids: []Offset{{0, 0}, {Size - BoxSize, Size - BoxSize}},
	}
}

// Topology computes the active mask declared by the shape and derives the
// full region structure from it.
func (s Shape) Topology() (*Topology, error) {
	if s.Rows <= 0 || s.Cols <= 0 {
		return nil, fmt.Errorf("%w: empty %dx%d extent", ErrMalformedShape, s.Rows, s.Cols)
	}
	if len(s.Subgrids) == 0 {
		return nil, fmt.Errorf("%w: no subgrids declared", ErrMalformedShape)
	}

	active := make([]bool, s.Rows*s.Cols)
	for _, off := range s.Subgrids {
		if off.Row < 0 || off.Col < 0 || off.Row+Size > s.Rows || off.Col+Size > s.Cols {
			return nil, fmt.Errorf("%w: subgrid at (%d,%d) exceeds the %dx%d extent",
				ErrMalformedShape, off.Row, off.Col, s.Rows, s.Cols)
		}
		for r := off.Row; r < off.Row+Size; r++ {
			for c := off.Col; c < off.Col+Size; c++ {
				active[r*s.Cols+c] = true
			}
		}
	}

	return NewTopology(s.Rows, s.Cols, active)
}

package board

import (
	"fmt"
	"slices"
)

// RegionKind distinguishes the three constraint shapes a region can have.
type RegionKind uint8

const (
	KindRow RegionKind = iota
	KindCol
	KindBlock
)

// Region is an ordered set of exactly nine cell positions that must hold a
// permutation of 1-9: a row segment, a column segment, or a 3×3 block.
type Region struct {
	Kind  RegionKind
	Cells [Size]int
}

// Topology describes which cells of a rectangular grid exist and the complete
// list of regions constraining them. Joined and samurai boards are unions of
// overlapping 9×9 sub-boards rendered on one grid; every fully-active 9×9
// window of that grid contributes nine row segments, nine column segments,
// and nine blocks, with duplicates merged so each physical block is a single
// region no matter how many sub-boards share it.
//
// Topology is immutable after construction — it is safe to share the same
// pointer across Board clones.
type Topology struct {
	rows, cols int
	active     []bool

	regions []Region

	// cellRegions maps a cell position to the indices of every region that
	// contains it. Forbidden cells have no entries; cells inside an overlap
	// zone have one row and one column region per sub-board plus one block.
	cellRegions [][]int

	// blockIDs lists the indices of block regions, in claim order. The
	// stochastic solver proposes its moves within these.
	blockIDs []int
}

type window struct {
	row, col int
}

// NewTopology derives the full region structure from an active-cell mask.
// It returns ErrMalformedShape if the mask admits no consistent topology:
// overlaps not aligned on block boundaries, or active cells left uncovered
// by a row, column, or block region.
func NewTopology(rows, cols int, active []bool) (*Topology, error) {
	if rows <= 0 || cols <= 0 || len(active) != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d grid with %d mask entries", ErrMalformedShape, rows, cols, len(active))
	}

	t := &Topology{
		rows:   rows,
		cols:   cols,
		active: slices.Clone(active),
	}

	t.buildRegions(t.findWindows())
	if err := t.buildIndex(); err != nil {
		return nil, err
	}
	return t, nil
}

// StandardTopology returns the topology of a classic single 9×9 board.
func StandardTopology() *Topology {
	active := make([]bool, Size*Size)
	for i := range active {
		active[i] = true
	}
	t, err := NewTopology(Size, Size, active)
	if err != nil {
		// The standard mask is hard-coded and always valid; panic on bugs.
		panic("standard topology failed validation: " + err.Error())
	}
	return t
}

// findWindows locates every fully-active 9×9 window, row-major.
func (t *Topology) findWindows() []window {
	var windows []window
	for r := 0; r+Size <= t.rows; r++ {
		for c := 0; c+Size <= t.cols; c++ {
			if t.windowActive(r, c) {
				windows = append(windows, window{r, c})
			}
		}
	}
	return windows
}

func (t *Topology) windowActive(row, col int) bool {
	for r := row; r < row+Size; r++ {
		for c := col; c < col+Size; c++ {
			if !t.active[r*t.cols+c] {
				return false
			}
		}
	}
	return true
}

// buildRegions assembles the region list. Blocks are claimed through an
// ownership table so that a block shared by overlapping windows is created
// exactly once; a candidate block that collides with an earlier, differently
// aligned claim is skipped and left for the coverage check in buildIndex.
func (t *Topology) buildRegions(windows []window) {
	claim := make([]int, t.rows*t.cols)
	for i := range claim {
		claim[i] = -1
	}
	seenRows := make(map[int]bool)
	seenCols := make(map[int]bool)

	for _, w := range windows {
		for br := w.row; br < w.row+Size; br += BoxSize {
			for bc := w.col; bc < w.col+Size; bc += BoxSize {
				t.claimBlock(claim, br, bc)
			}
		}
		for i := 0; i < Size; i++ {
			t.addLine(seenRows, KindRow, w.row+i, w.col, 0, 1)
		}
		for j := 0; j < Size; j++ {
			t.addLine(seenCols, KindCol, w.row, w.col+j, 1, 0)
		}
	}
}

// claimBlock registers the 3×3 block with top-left corner (row, col) as a
// region, unless any of its cells already belongs to a block.
func (t *Topology) claimBlock(claim []int, row, col int) {
	for r := row; r < row+BoxSize; r++ {
		for c := col; c < col+BoxSize; c++ {
			if claim[r*t.cols+c] >= 0 {
				return
			}
		}
	}

	reg := Region{Kind: KindBlock}
	i := 0
	for r := row; r < row+BoxSize; r++ {
		for c := col; c < col+BoxSize; c++ {
			pos := r*t.cols + c
			claim[pos] = len(t.regions)
			reg.Cells[i] = pos
			i++
		}
	}
	t.blockIDs = append(t.blockIDs, len(t.regions))
	t.regions = append(t.regions, reg)
}

// addLine registers a nine-cell row or column segment starting at (row, col),
// deduplicating segments shared by overlapping windows.
func (t *Topology) addLine(seen map[int]bool, kind RegionKind, row, col, dr, dc int) {
	start := row*t.cols + col
	if seen[start] {
		return
	}
	seen[start] = true

	reg := Region{Kind: kind}
	for i := 0; i < Size; i++ {
		reg.Cells[i] = (row+i*dr)*t.cols + (col + i*dc)
	}
	t.regions = append(t.regions, reg)
}

// buildIndex fills the reverse cell→regions index and verifies that every
// active cell is constrained by at least one region of each kind.
func (t *Topology) buildIndex() error {
	t.cellRegions = make([][]int, t.rows*t.cols)
	cover := make([]uint8, t.rows*t.cols)

	for ri, reg := range t.regions {
		for _, pos := range reg.Cells {
			t.cellRegions[pos] = append(t.cellRegions[pos], ri)
			cover[pos] |= 1 << reg.Kind
		}
	}

	for pos, a := range t.active {
		if a && cover[pos] != 1<<KindRow|1<<KindCol|1<<KindBlock {
			return fmt.Errorf("%w: active cell (%d,%d) is not covered by row, column, and block regions",
				ErrMalformedShape, pos/t.cols, pos%t.cols)
		}
	}
	return nil
}

// Rows returns the grid height in cells.
func (t *Topology) Rows() int { return t.rows }

// Cols returns the grid width in cells.
func (t *Topology) Cols() int { return t.cols }

// CellCount returns the total grid size including forbidden cells.
func (t *Topology) CellCount() int { return t.rows * t.cols }

// Active reports whether pos is an existing cell of the board.
func (t *Topology) Active(pos int) bool {
	return pos >= 0 && pos < len(t.active) && t.active[pos]
}

// ActiveCount returns the number of existing cells.
func (t *Topology) ActiveCount() int {
	n := 0
	for _, a := range t.active {
		if a {
			n++
		}
	}
	return n
}

// Pos transforms a row and column into a linear position.
// Returns InvalidCell if row and/or col are out of bounds.
func (t *Topology) Pos(row, col int) int {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return InvalidCell
	}
	return row*t.cols + col
}

// RegionCount returns the number of regions.
func (t *Topology) RegionCount() int { return len(t.regions) }

// Region returns the region with the given index.
func (t *Topology) Region(i int) Region { return t.regions[i] }

// CellRegions returns the indices of every region containing pos.
// The returned slice is owned by the topology and must not be modified.
func (t *Topology) CellRegions(pos int) []int { return t.cellRegions[pos] }

// BlockRegions returns the indices of all block regions.
// The returned slice is owned by the topology and must not be modified.
func (t *Topology) BlockRegions() []int { return t.blockIDs }

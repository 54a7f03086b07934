package board

import (
	"fmt"
	"slices"
	"strings"
)

// Special cell values
const (
	EmptyCell   = 0
	InvalidCell = -1
)

// Grid dimensions
const (
	Size    = 9 // cells per row/column/block, and the largest cell value
	BoxSize = 3 // block side length
)

const allNine = 0x1ff

// Board is the mutable solving state over an immutable Topology. Unlike a
// classical play board it accepts conflicting values: the stochastic solver
// spends its whole run in conflict-carrying states, so writes are checked
// only for bounds and cell activity, never against Sudoku rules. Per-region
// value counts are maintained incrementally, which makes candidate domains,
// conflict counts, and swap deltas O(regions-of-cell) instead of full scans.
type Board struct {
	top   *Topology
	cells []int
	fixed []bool

	// counts[ri*(Size+1)+v] is how many cells of region ri currently hold v.
	// used[ri] is the bitmask of values present in region ri (bit 0 = 1).
	counts []uint8
	used   []uint

	// empty tracks unfilled active cells for quick completion checks.
	empty int
}

// New creates an empty Board with the given topology.
// If top is nil, StandardTopology is used.
func New(top *Topology) *Board {
	if top == nil {
		top = StandardTopology()
	}
	return &Board{
		top:    top,
		cells:  make([]int, top.CellCount()),
		fixed:  make([]bool, top.CellCount()),
		counts: make([]uint8, top.RegionCount()*(Size+1)),
		used:   make([]uint, top.RegionCount()),
		empty:  top.ActiveCount(),
	}
}

// NewFromShape builds the shape's topology and returns an empty board on it.
func NewFromShape(s Shape) (*Board, error) {
	top, err := s.Topology()
	if err != nil {
		return nil, err
	}
	return New(top), nil
}

// Clone creates an independent copy of the Board.
// The topology pointer is shared — Topology is immutable after construction.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	return &Board{
		top:    b.top,
		cells:  slices.Clone(b.cells),
		fixed:  slices.Clone(b.fixed),
		counts: slices.Clone(b.counts),
		used:   slices.Clone(b.used),
		empty:  b.empty,
	}
}

// Topology returns the board's region structure.
func (b *Board) Topology() *Topology { return b.top }

// Set places a value 1-9 at the given position, or clears it when val is
// EmptyCell. Returns ErrInvalidCellAccess for forbidden or out-of-range
// positions and ErrInvalidValue for values outside 0-9. Placements that
// duplicate a value within a region are legal; they simply raise Conflicts.
func (b *Board) Set(pos, val int) error {
	if err := b.checkCell(pos); err != nil {
		return err
	}
	if val < 0 || val > Size {
		return fmt.Errorf("%w: got %d", ErrInvalidValue, val)
	}
	if val == EmptyCell {
		return b.Clear(pos)
	}
	if b.cells[pos] != EmptyCell {
		b.remove(pos)
	}
	b.place(pos, val)
	return nil
}

// SetGiven places a value and pins it as an immutable clue.
func (b *Board) SetGiven(pos, val int) error {
	if err := b.Set(pos, val); err != nil {
		return err
	}
	b.fixed[pos] = val != EmptyCell
	return nil
}

// SetForce places a value 1-9 on a known-empty cell without checks.
// Use only on positions already validated by the caller.
func (b *Board) SetForce(pos, val int) {
	b.place(pos, val)
}

// Clear removes the value at the given position.
// No harm is done calling Clear on an already empty cell.
func (b *Board) Clear(pos int) error {
	if err := b.checkCell(pos); err != nil {
		return err
	}
	if b.cells[pos] == EmptyCell {
		return nil
	}
	b.remove(pos)
	b.fixed[pos] = false
	return nil
}

// Swap exchanges the values of two filled cells, updating region counts
// without touching the completion counter.
func (b *Board) Swap(p, q int) error {
	if err := b.checkCell(p); err != nil {
		return err
	}
	if err := b.checkCell(q); err != nil {
		return err
	}
	vp, vq := b.cells[p], b.cells[q]
	if vp == EmptyCell || vq == EmptyCell {
		return fmt.Errorf("%w: swap requires two filled cells", ErrInvalidCellAccess)
	}
	if vp == vq || p == q {
		return nil
	}
	b.remove(p)
	b.remove(q)
	b.place(p, vq)
	b.place(q, vp)
	return nil
}

// Get returns the value at the given position.
// Returns InvalidCell for forbidden or out-of-range positions.
func (b *Board) Get(pos int) int {
	if !b.top.Active(pos) {
		return InvalidCell
	}
	return b.cells[pos]
}

// Fixed reports whether pos holds an immutable clue.
func (b *Board) Fixed(pos int) bool {
	return b.top.Active(pos) && b.fixed[pos]
}

// CandidatesMask returns the bitmask of values not yet present in any region
// containing pos (bit 0 = value 1). Meaningful for empty cells; a returned 0
// on an empty cell signals a locally unsatisfiable state.
func (b *Board) CandidatesMask(pos int) uint {
	if !b.top.Active(pos) {
		return 0
	}
	mask := uint(allNine)
	for _, ri := range b.top.cellRegions[pos] {
		mask &^= b.used[ri]
	}
	return mask
}

// Candidates returns the values 1-9 still placeable at pos, ascending.
func (b *Board) Candidates(pos int) []int {
	mask := b.CandidatesMask(pos)
	candidates := make([]int, 0, Size)
	for v := 1; v <= Size; v++ {
		if mask&(1<<(v-1)) != 0 {
			candidates = append(candidates, v)
		}
	}
	return candidates
}

// RegionConflicts counts the cells of region ri whose value duplicates
// another cell's value in that region. Empty cells contribute nothing.
func (b *Board) RegionConflicts(ri int) int {
	conflicts := 0
	base := ri * (Size + 1)
	for v := 1; v <= Size; v++ {
		if n := b.counts[base+v]; n >= 2 {
			conflicts += int(n)
		}
	}
	return conflicts
}

// Conflicts returns the board's energy: the total number of same-region
// value collisions summed over all regions. Zero on a complete board means
// the board is a valid solution.
func (b *Board) Conflicts() int {
	total := 0
	for ri := range b.top.regions {
		total += b.RegionConflicts(ri)
	}
	return total
}

// IsValid reports whether the filled cells satisfy all region constraints.
func (b *Board) IsValid() bool { return b.Conflicts() == 0 }

// IsComplete reports whether every active cell holds a value.
func (b *Board) IsComplete() bool { return b.empty == 0 }

// EmptyCount returns the number of empty active cells.
func (b *Board) EmptyCount() int { return b.empty }

// String renders the board in the grid text format: one token per cell with
// '.' for forbidden cells, '0' for empty cells, and '1'-'9' for values.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.top.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.top.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			pos := r*b.top.cols + c
			if !b.top.active[pos] {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('0' + byte(b.cells[pos]))
			}
		}
	}
	return sb.String()
}

// Format returns a human-readable board representation with grid lines drawn
// on block boundaries. Forbidden cells render as blanks, empty cells as '.'.
// Unlike String, the output is for display and is not re-parseable.
func (b *Board) Format() string {
	blockOf := make([]int, b.top.CellCount())
	for i := range blockOf {
		blockOf[i] = -1
	}
	for _, ri := range b.top.blockIDs {
		for _, pos := range b.top.regions[ri].Cells {
			blockOf[pos] = ri
		}
	}

	// block returns the block region of (row, col), or -1 off-grid and on
	// forbidden cells, so boundaries fall exactly where membership changes.
	block := func(row, col int) int {
		pos := b.top.Pos(row, col)
		if pos == InvalidCell {
			return -1
		}
		return blockOf[pos]
	}
	vertical := func(row, col int) bool {
		left, right := block(row, col-1), block(row, col)
		return left != right && (left >= 0 || right >= 0)
	}

	var sb strings.Builder
	width := 2*b.top.cols + 1

	for r := 0; r <= b.top.rows; r++ {
		rule := make([]byte, width)
		for i := range rule {
			rule[i] = ' '
		}
		ruled := false
		for c := 0; c < b.top.cols; c++ {
			if above, below := block(r-1, c), block(r, c); above != below && (above >= 0 || below >= 0) {
				rule[2*c+1] = '-'
				ruled = true
			}
		}
		if ruled {
			for c := 0; c <= b.top.cols; c++ {
				dashLeft := c > 0 && rule[2*c-1] == '-'
				dashRight := c < b.top.cols && rule[2*c+1] == '-'
				vert := vertical(r-1, c) || vertical(r, c)
				switch {
				case dashLeft && dashRight && !vert:
					rule[2*c] = '-'
				case dashLeft || dashRight:
					rule[2*c] = '+'
				case vert:
					rule[2*c] = '|'
				}
			}
			sb.Write(rule)
			sb.WriteByte('\n')
		}
		if r == b.top.rows {
			break
		}

		for c := 0; c < b.top.cols; c++ {
			if vertical(r, c) {
				sb.WriteByte('|')
			} else {
				sb.WriteByte(' ')
			}
			pos := r*b.top.cols + c
			switch {
			case !b.top.active[pos]:
				sb.WriteByte(' ')
			case b.cells[pos] == EmptyCell:
				sb.WriteByte('.')
			default:
				sb.WriteByte('0' + byte(b.cells[pos]))
			}
		}
		if vertical(r, b.top.cols) {
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (b *Board) place(pos, val int) {
	b.cells[pos] = val
	for _, ri := range b.top.cellRegions[pos] {
		b.counts[ri*(Size+1)+val]++
		b.used[ri] |= 1 << (val - 1)
	}
	b.empty--
}

func (b *Board) remove(pos int) {
	val := b.cells[pos]
	b.cells[pos] = EmptyCell
	for _, ri := range b.top.cellRegions[pos] {
		idx := ri*(Size+1) + val
		b.counts[idx]--
		if b.counts[idx] == 0 {
			b.used[ri] &^= 1 << (val - 1)
		}
	}
	b.empty++
}

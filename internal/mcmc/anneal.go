package mcmc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/Brian-Yee/montecarlo-sudoku/internal/board"
)

// ErrInvalidGivens means a block's clues duplicate a value, so no
// block-permutation fill exists and the move set cannot start.
var ErrInvalidGivens = errors.New("block givens admit no permutation fill")

// replica is one fully-filled board evolving at a fixed temperature.
// Conditioning fills every block with a permutation of 1-9 and the move set
// only swaps values within a block, so blocks stay permutations for the
// whole run and all energy lives in the row/column regions.
type replica struct {
	board  *board.Board
	energy int
	temp   float64
	rng    *rand.Rand

	// free lists the swappable (non-given) cells per block, for blocks with
	// at least two of them. Identical across replicas of one puzzle.
	free [][]int
}

// newReplica clones the board, fills each block's free cells with a random
// permutation of its missing values, and records the starting energy.
func newReplica(b *board.Board, temp float64, rng *rand.Rand) (*replica, error) {
	r := &replica{
		board: b.Clone(),
		temp:  temp,
		rng:   rng,
	}

	top := r.board.Topology()
	for _, ri := range top.BlockRegions() {
		region := top.Region(ri)

		var missing []int
		seen := make(map[int]bool, board.Size)
		var cells []int
		for _, pos := range region.Cells {
			if v := r.board.Get(pos); v != board.EmptyCell {
				seen[v] = true
			} else {
				cells = append(cells, pos)
			}
		}
		for v := 1; v <= board.Size; v++ {
			if !seen[v] {
				missing = append(missing, v)
			}
		}
		if len(missing) != len(cells) {
			return nil, fmt.Errorf("%w: block region %d", ErrInvalidGivens, ri)
		}

		rng.Shuffle(len(missing), func(i, j int) {
			missing[i], missing[j] = missing[j], missing[i]
		})
		for i, pos := range cells {
			r.board.SetForce(pos, missing[i])
		}
		if len(cells) >= 2 {
			r.free = append(r.free, cells)
		}
	}

	r.energy = r.board.Conflicts()
	return r, nil
}

// step proposes one within-block swap and applies the Metropolis criterion:
// accept when the energy does not rise, otherwise with probability
// exp(-dE/T). The energy delta is computed over the touched regions only.
func (r *replica) step() {
	if len(r.free) == 0 {
		return
	}
	cells := r.free[r.rng.Intn(len(r.free))]
	i := r.rng.Intn(len(cells))
	j := r.rng.Intn(len(cells) - 1)
	if j >= i {
		j++
	}
	p, q := cells[i], cells[j]

	touched := r.touchedRegions(p, q)
	before := 0
	for _, ri := range touched {
		before += r.board.RegionConflicts(ri)
	}

	r.board.Swap(p, q)
	after := 0
	for _, ri := range touched {
		after += r.board.RegionConflicts(ri)
	}

	dE := after - before
	if dE <= 0 || r.rng.Float64() < math.Exp(-float64(dE)/r.temp) {
		r.energy += dE
		return
	}
	r.board.Swap(p, q)
}

// touchedRegions returns the union of the two cells' regions. The shared
// block is included once; its conflict count cannot change under a swap.
func (r *replica) touchedRegions(p, q int) []int {
	top := r.board.Topology()
	pr := top.CellRegions(p)
	touched := make([]int, len(pr), len(pr)+3)
	copy(touched, pr)
	for _, ri := range top.CellRegions(q) {
		found := false
		for _, pi := range pr {
			if pi == ri {
				found = true
				break
			}
		}
		if !found {
			touched = append(touched, ri)
		}
	}
	return touched
}

// Anneal runs the single-temperature Metropolis loop until the energy hits
// zero, the step budget runs out, or ctx is cancelled. The returned board is
// always fully filled and block-consistent; a non-zero energy means the run
// was inconclusive, never that the puzzle is unsolvable.
func Anneal(ctx context.Context, b *board.Board, opts *Options) (*board.Board, int, int64, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	rng := rand.New(rand.NewSource(opts.seed()))

	rep, err := newReplica(b, opts.Temperature, rng)
	if err != nil {
		return nil, 0, 0, err
	}

	var steps int64
	for rep.energy != 0 && len(rep.free) > 0 {
		if opts.MaxSteps > 0 && steps >= opts.MaxSteps {
			break
		}
		if ctx.Err() != nil {
			break
		}
		rep.step()
		steps++
	}
	return rep.board, rep.energy, steps, nil
}

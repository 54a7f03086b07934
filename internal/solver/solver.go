package solver

import (
	"context"
	"errors"
	"math/bits"
	"time"

	"github.com/Brian-Yee/montecarlo-sudoku/internal/board"
)

var (
	// ErrNoSolution is a proof: the search space was exhausted.
	ErrNoSolution = errors.New("puzzle has no solution")
	// ErrBudgetExceeded means the node or time budget ran out before the
	// search finished. It proves nothing about solvability.
	ErrBudgetExceeded = errors.New("search budget exceeded")
)

// Options bounds a backtracking run. Zero values mean unbounded.
type Options struct {
	Timeout  time.Duration // wall-clock budget for the whole search
	MaxNodes int64         // maximum search-tree nodes visited
}

// DefaultOptions returns an unbounded configuration.
func DefaultOptions() *Options {
	return &Options{}
}

// Solver solves generalized Sudoku boards by depth-first search with
// constraint propagation and the minimum-remaining-values heuristic.
// The search is deterministic: MRV ties break on the lowest cell index and
// candidate values are tried in ascending order.
type Solver struct {
	board   *board.Board
	options *Options
	nodes   int64
}

// New creates a solver over a private clone of the given board.
func New(b *board.Board, options *Options) *Solver {
	if options == nil {
		options = DefaultOptions()
	}
	return &Solver{
		board:   b.Clone(),
		options: options,
	}
}

// Nodes returns the number of search-tree nodes visited so far.
func (s *Solver) Nodes() int64 { return s.nodes }

// Solve attempts to solve the puzzle. It returns the solved board,
// ErrNoSolution when exhaustion proves there is none, or ErrBudgetExceeded
// when the budget tripped first.
func (s *Solver) Solve(ctx context.Context) (*board.Board, error) {
	// Conflicting givens are a proof of unsolvability in their own right.
	if s.board.Conflicts() > 0 {
		return nil, ErrNoSolution
	}

	if s.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.Timeout)
		defer cancel()
	}

	if err := s.backtrack(ctx); err != nil {
		return nil, err
	}
	return s.board, nil
}

// backtrack explores one search node: propagate forced values, pick the most
// constrained cell, and try its candidates in ascending order. All board
// mutations made at this node are undone before a failure is returned, so
// the caller always sees its own partial assignment intact.
func (s *Solver) backtrack(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrBudgetExceeded
	}
	s.nodes++
	if s.options.MaxNodes > 0 && s.nodes > s.options.MaxNodes {
		return ErrBudgetExceeded
	}

	filled, ok := s.propagate()
	if !ok {
		s.unwind(filled)
		return ErrNoSolution
	}
	if s.board.EmptyCount() == 0 {
		return nil
	}

	pos, candidates := s.findMRVCell()
	for _, val := range candidates {
		s.board.SetForce(pos, val)
		err := s.backtrack(ctx)
		if err == nil {
			return nil
		}
		s.board.Clear(pos)
		if errors.Is(err, ErrBudgetExceeded) {
			s.unwind(filled)
			return err
		}
	}

	s.unwind(filled)
	return ErrNoSolution
}

// propagate applies naked and hidden singles to a fixpoint, returning the
// cells it filled (for undo) and whether the state stayed locally
// satisfiable. Only domains shrink; no assigned value is ever changed.
func (s *Solver) propagate() (filled []int, ok bool) {
	changed := true
	for changed {
		changed = false
		if f, c := s.applyNakedSingles(); c {
			filled = append(filled, f...)
			changed = true
		}
		if f, c := s.applyHiddenSingles(); c {
			filled = append(filled, f...)
			changed = true
		}
		if s.hasContradiction() {
			return filled, false
		}
	}
	return filled, true
}

// applyNakedSingles fills cells whose domain shrank to one value.
func (s *Solver) applyNakedSingles() (filled []int, changed bool) {
	top := s.board.Topology()
	for pos := 0; pos < top.CellCount(); pos++ {
		if s.board.Get(pos) != board.EmptyCell {
			continue
		}
		mask := s.board.CandidatesMask(pos)
		if mask != 0 && bits.OnesCount(mask) == 1 {
			s.board.SetForce(pos, bits.TrailingZeros(mask)+1)
			filled = append(filled, pos)
			changed = true
		}
	}
	return filled, changed
}

// applyHiddenSingles fills values that have a single possible home within a
// region. Standard rows, joined-board row segments, and blocks are all just
// regions here, so one pass covers every topology.
func (s *Solver) applyHiddenSingles() (filled []int, changed bool) {
	top := s.board.Topology()
	for ri := 0; ri < top.RegionCount(); ri++ {
		region := top.Region(ri)

		var home [board.Size + 1]int
		var homes [board.Size + 1]int
		for _, pos := range region.Cells {
			if s.board.Get(pos) != board.EmptyCell {
				continue
			}
			mask := s.board.CandidatesMask(pos)
			for v := 1; v <= board.Size; v++ {
				if mask&(1<<(v-1)) != 0 {
					home[v] = pos
					homes[v]++
				}
			}
		}

		for v := 1; v <= board.Size; v++ {
			if homes[v] != 1 {
				continue
			}
			pos := home[v]
			// An earlier single in this pass may have taken the cell or
			// invalidated the candidate; recheck before forcing.
			if s.board.Get(pos) != board.EmptyCell || s.board.CandidatesMask(pos)&(1<<(v-1)) == 0 {
				continue
			}
			s.board.SetForce(pos, v)
			filled = append(filled, pos)
			changed = true
		}
	}
	return filled, changed
}

// hasContradiction reports whether some empty cell has an empty domain.
func (s *Solver) hasContradiction() bool {
	top := s.board.Topology()
	for pos := 0; pos < top.CellCount(); pos++ {
		if s.board.Get(pos) == board.EmptyCell && s.board.CandidatesMask(pos) == 0 {
			return true
		}
	}
	return false
}

// findMRVCell locates the empty cell with the fewest candidates, breaking
// ties on the lowest position for reproducible searches.
func (s *Solver) findMRVCell() (int, []int) {
	top := s.board.Topology()
	mrvPos := -1
	mrvCount := board.Size + 1
	var mrvCandidates []int

	for pos := 0; pos < top.CellCount(); pos++ {
		if s.board.Get(pos) != board.EmptyCell {
			continue
		}
		candidates := s.board.Candidates(pos)
		if len(candidates) < mrvCount {
			mrvCount = len(candidates)
			mrvPos = pos
			mrvCandidates = candidates
			if mrvCount <= 1 {
				break
			}
		}
	}
	return mrvPos, mrvCandidates
}

// unwind clears propagated fills in reverse order.
func (s *Solver) unwind(filled []int) {
	for i := len(filled) - 1; i >= 0; i-- {
		s.board.Clear(filled[i])
	}
}

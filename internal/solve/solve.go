// Package solve dispatches a board to one of the solving engines by method
// name and normalizes their outcomes into a single Result shape.
package solve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Brian-Yee/montecarlo-sudoku/internal/board"
	"github.com/Brian-Yee/montecarlo-sudoku/internal/mcmc"
	"github.com/Brian-Yee/montecarlo-sudoku/internal/solver"
)

// Method selects a solving engine. The set is closed.
type Method int

const (
	Backtracking Method = iota
	Annealing
	Tempering
)

// ParseMethod resolves a method by name.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(name) {
	case "backtracking", "backtrack":
		return Backtracking, nil
	case "annealing", "anneal", "mcmc":
		return Annealing, nil
	case "tempering", "temper":
		return Tempering, nil
	}
	return 0, fmt.Errorf("unknown solving method %q", name)
}

func (m Method) String() string {
	switch m {
	case Backtracking:
		return "backtracking"
	case Annealing:
		return "annealing"
	case Tempering:
		return "tempering"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Status is the terminal outcome of a run.
type Status int

const (
	// Solved carries a completed, constraint-satisfying board.
	Solved Status = iota
	// Unsolvable is a proof of no solution; only backtracking produces it.
	Unsolvable
	// Inconclusive means the budget ran out: no proof either way.
	Inconclusive
)

func (s Status) String() string {
	switch s {
	case Solved:
		return "solved"
	case Unsolvable:
		return "unsolvable"
	case Inconclusive:
		return "inconclusive"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Config is the full solving configuration supplied by the caller.
type Config struct {
	Method       Method
	Backtracking *solver.Options
	MCMC         *mcmc.Options
	Logger       *slog.Logger
}

// DefaultConfig returns a usable configuration for the given method.
func DefaultConfig(m Method) *Config {
	cfg := &Config{
		Method:       m,
		Backtracking: solver.DefaultOptions(),
		MCMC:         mcmc.DefaultOptions(),
	}
	if m == Tempering {
		cfg.MCMC.Schedule = mcmc.DefaultSchedule(4, 0.1, 0.8)
	}
	return cfg
}

// Validate rejects configurations the selected engine cannot run with.
func (c *Config) Validate() error {
	switch c.Method {
	case Backtracking:
		if c.Backtracking != nil && (c.Backtracking.Timeout < 0 || c.Backtracking.MaxNodes < 0) {
			return fmt.Errorf("backtracking budgets must be non-negative")
		}
	case Annealing:
		if c.MCMC == nil || c.MCMC.Temperature <= 0 {
			return fmt.Errorf("annealing requires a positive temperature")
		}
	case Tempering:
		if c.MCMC == nil || len(c.MCMC.Schedule) < 2 {
			return fmt.Errorf("tempering requires at least two replicas")
		}
		if c.MCMC.SwapInterval < 1 {
			return fmt.Errorf("tempering requires a positive swap interval")
		}
		prev := 0.0
		for i, t := range c.MCMC.Schedule {
			if t <= prev {
				return fmt.Errorf("temperature schedule must be positive and strictly ascending (entry %d)", i)
			}
			prev = t
		}
	default:
		return fmt.Errorf("unknown solving method %d", int(c.Method))
	}
	return nil
}

// Result is the normalized outcome of a solving run. Board is the solution
// when Status is Solved; for inconclusive stochastic runs it is the final
// (complete, block-consistent) state reached, with its residual Energy.
type Result struct {
	Status Status
	Board  *board.Board
	Energy int
	Steps  int64
}

// Run validates the configuration and drives the selected engine. Hard
// failures — malformed input, invalid configuration — return an error;
// search outcomes, including exhausted budgets, are reported in the Result.
func Run(ctx context.Context, b *board.Board, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig(Backtracking)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Method {
	case Backtracking:
		s := solver.New(b, cfg.Backtracking)
		solved, err := s.Solve(ctx)
		switch {
		case err == nil:
			return &Result{Status: Solved, Board: solved, Steps: s.Nodes()}, nil
		case errors.Is(err, solver.ErrNoSolution):
			return &Result{Status: Unsolvable, Steps: s.Nodes()}, nil
		case errors.Is(err, solver.ErrBudgetExceeded):
			return &Result{Status: Inconclusive, Steps: s.Nodes()}, nil
		default:
			return nil, err
		}

	case Annealing:
		final, energy, steps, err := mcmc.Anneal(ctx, b, cfg.MCMC)
		if err != nil {
			return nil, err
		}
		return stochasticResult(final, energy, steps), nil

	case Tempering:
		final, energy, steps, err := mcmc.Temper(ctx, b, cfg.MCMC, cfg.Logger)
		if err != nil {
			return nil, err
		}
		return stochasticResult(final, energy, steps), nil
	}
	return nil, fmt.Errorf("unknown solving method %d", int(cfg.Method))
}

// stochasticResult maps a Metropolis outcome: zero energy is a solution,
// anything else is inconclusive — stochastic search never proves absence.
func stochasticResult(b *board.Board, energy int, steps int64) *Result {
	status := Inconclusive
	if energy == 0 {
		status = Solved
	}
	return &Result{Status: status, Board: b, Energy: energy, Steps: steps}
}

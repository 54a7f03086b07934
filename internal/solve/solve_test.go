package solve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brian-Yee/montecarlo-sudoku/internal/board"
	"github.com/Brian-Yee/montecarlo-sudoku/internal/mcmc"
	"github.com/Brian-Yee/montecarlo-sudoku/internal/solver"
)

const puzzle = `
5 3 0 0 7 0 0 0 0
6 0 0 1 9 5 0 0 0
0 9 8 0 0 0 0 6 0
8 0 0 0 6 0 0 0 3
4 0 0 8 0 3 0 0 1
7 0 0 0 2 0 0 0 6
0 6 0 0 0 0 2 8 0
0 0 0 4 1 9 0 0 5
0 0 0 0 8 0 0 7 9
`

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name    string
		want    Method
		wantErr bool
	}{
		{name: "backtracking", want: Backtracking},
		{name: "Backtrack", want: Backtracking},
		{name: "annealing", want: Annealing},
		{name: "mcmc", want: Annealing},
		{name: "TEMPERING", want: Tempering},
		{name: "quantum", wantErr: true},
		{name: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMethod(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name: "backtracking defaults",
			cfg:  DefaultConfig(Backtracking),
		},
		{
			name: "annealing defaults",
			cfg:  DefaultConfig(Annealing),
		},
		{
			name: "tempering defaults",
			cfg:  DefaultConfig(Tempering),
		},
		{
			name:    "annealing zero temperature",
			cfg:     &Config{Method: Annealing, MCMC: &mcmc.Options{Temperature: 0}},
			wantErr: true,
		},
		{
			name:    "tempering one replica",
			cfg:     &Config{Method: Tempering, MCMC: &mcmc.Options{Schedule: []float64{0.2}, SwapInterval: 10}},
			wantErr: true,
		},
		{
			name:    "tempering descending schedule",
			cfg:     &Config{Method: Tempering, MCMC: &mcmc.Options{Schedule: []float64{0.4, 0.1}, SwapInterval: 10}},
			wantErr: true,
		},
		{
			name:    "tempering zero swap interval",
			cfg:     &Config{Method: Tempering, MCMC: &mcmc.Options{Schedule: []float64{0.1, 0.4}}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunBacktrackingSolves(t *testing.T) {
	b, err := board.ParseString(puzzle)
	require.NoError(t, err)

	result, err := Run(context.Background(), b, DefaultConfig(Backtracking))
	require.NoError(t, err)
	assert.Equal(t, Solved, result.Status)
	require.NotNil(t, result.Board)
	assert.True(t, result.Board.IsComplete())
	assert.True(t, result.Board.IsValid())
}

func TestRunReportsUnsolvable(t *testing.T) {
	b := board.New(nil)
	require.NoError(t, b.SetGiven(0, 5))
	require.NoError(t, b.SetGiven(3, 5))

	result, err := Run(context.Background(), b, DefaultConfig(Backtracking))
	require.NoError(t, err)
	assert.Equal(t, Unsolvable, result.Status)
	assert.Nil(t, result.Board)
}

func TestRunBudgetMapsToInconclusive(t *testing.T) {
	cfg := DefaultConfig(Backtracking)
	cfg.Backtracking = &solver.Options{MaxNodes: 1}

	result, err := Run(context.Background(), board.New(nil), cfg)
	require.NoError(t, err)
	assert.Equal(t, Inconclusive, result.Status, "budget exhaustion is not a proof")
}

func TestRunAnnealing(t *testing.T) {
	if testing.Short() {
		t.Skip("stochastic search in -short mode")
	}

	cfg := DefaultConfig(Annealing)
	cfg.MCMC.Seed = 1

	result, err := Run(context.Background(), board.New(nil), cfg)
	require.NoError(t, err)
	require.NotNil(t, result.Board)
	assert.True(t, result.Board.IsComplete())
	if result.Status == Solved {
		assert.Zero(t, result.Energy)
		assert.True(t, result.Board.IsValid())
	} else {
		assert.Equal(t, Inconclusive, result.Status)
		assert.Positive(t, result.Energy)
	}
}

func TestRunTempering(t *testing.T) {
	if testing.Short() {
		t.Skip("stochastic search in -short mode")
	}

	cfg := DefaultConfig(Tempering)
	cfg.MCMC.Seed = 1

	result, err := Run(context.Background(), board.New(nil), cfg)
	require.NoError(t, err)
	require.NotNil(t, result.Board)
	assert.True(t, result.Board.IsComplete())
	assert.Equal(t, result.Energy == 0, result.Status == Solved)
}

func TestRunNilConfigDefaultsToBacktracking(t *testing.T) {
	b, err := board.ParseString(puzzle)
	require.NoError(t, err)

	result, err := Run(context.Background(), b, nil)
	require.NoError(t, err)
	assert.Equal(t, Solved, result.Status)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "solved", Solved.String())
	assert.Equal(t, "unsolvable", Unsolvable.String())
	assert.Equal(t, "inconclusive", Inconclusive.String())
	assert.Equal(t, "backtracking", Backtracking.String())
	assert.Equal(t, "annealing", Annealing.String())
	assert.Equal(t, "tempering", Tempering.String())
}

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standardGrid = `5 3 0 0 7 0 0 0 0
6 0 0 1 9 5 0 0 0
0 9 8 0 0 0 0 6 0
8 0 0 0 6 0 0 0 3
4 0 0 8 0 3 0 0 1
7 0 0 0 2 0 0 0 6
0 6 0 0 0 0 2 8 0
0 0 0 4 1 9 0 0 5
0 0 0 0 8 0 0 7 9`

func TestParseStandardGrid(t *testing.T) {
	b, err := ParseString(standardGrid)
	require.NoError(t, err)

	assert.Equal(t, 9, b.Topology().Rows())
	assert.Equal(t, 9, b.Topology().Cols())
	assert.Equal(t, 81-30, b.EmptyCount(), "the example has 30 givens")
	assert.Equal(t, 5, b.Get(b.Topology().Pos(0, 0)))
	assert.True(t, b.Fixed(b.Topology().Pos(0, 0)))
	assert.False(t, b.Fixed(b.Topology().Pos(0, 2)))

	// Rendering reproduces the input grid exactly.
	assert.Equal(t, standardGrid, b.String())
}

func TestParseTwinGrid(t *testing.T) {
	grid := `0 0 0 0 0 0 0 0 0 . . . . . .
0 0 0 0 0 0 0 0 0 . . . . . .
0 0 0 0 0 0 0 0 0 . . . . . .
0 0 0 0 0 0 0 0 0 . . . . . .
0 0 0 0 0 0 0 0 0 . . . . . .
0 0 0 0 0 0 0 0 0 . . . . . .
0 0 0 0 0 0 7 0 0 0 0 0 0 0 0
0 0 0 0 0 0 0 0 0 0 0 0 0 0 0
0 0 0 0 0 0 0 0 0 0 0 0 0 0 0
. . . . . . 0 0 0 0 0 0 0 0 0
. . . . . . 0 0 0 0 0 0 0 0 0
. . . . . . 0 0 0 0 0 0 0 0 0
. . . . . . 0 0 0 0 0 0 0 0 0
. . . . . . 0 0 0 0 0 0 0 0 0
. . . . . . 0 0 0 0 0 0 0 0 0`

	b, err := ParseString(grid)
	require.NoError(t, err)

	top := b.Topology()
	assert.Equal(t, 2*81-9, top.ActiveCount())
	assert.Len(t, top.BlockRegions(), 17)

	// The given inside the shared block belongs to both sub-boards.
	pos := top.Pos(6, 6)
	assert.Equal(t, 7, b.Get(pos))
	assert.Len(t, top.CellRegions(pos), 5)

	assert.Equal(t, grid, b.String())
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		grid string
		want error
	}{
		{name: "empty", grid: "", want: ErrMalformedGrid},
		{name: "ragged rows", grid: "0 0 0\n0 0", want: ErrMalformedGrid},
		{name: "bad token", grid: "0 0 x\n0 0 0\n0 0 0", want: ErrMalformedGrid},
		{name: "value out of range", grid: "0 0 12\n0 0 0\n0 0 0", want: ErrMalformedGrid},
		{name: "no valid topology", grid: "1 2 3\n4 5 6\n7 8 9", want: ErrMalformedShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.grid)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

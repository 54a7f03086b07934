package board

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads a board from the grid text format: whitespace-separated tokens,
// one row per line, where '.' marks a forbidden cell, '0' an empty cell, and
// '1'-'9' a given. The topology — including joined and samurai layouts — is
// derived from the forbidden-cell mask. Values read as givens are pinned.
func Parse(r io.Reader) (*Board, error) {
	scanner := bufio.NewScanner(r)
	var grid [][]string
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		grid = append(grid, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading grid: %w", err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrMalformedGrid)
	}

	rows, cols := len(grid), len(grid[0])
	active := make([]bool, rows*cols)
	values := make([]int, rows*cols)

	for r, line := range grid {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: row %d has %d tokens, expected %d", ErrMalformedGrid, r, len(line), cols)
		}
		for c, token := range line {
			pos := r*cols + c
			if token == "." {
				continue
			}
			v, err := strconv.Atoi(token)
			if err != nil || v < 0 || v > Size {
				return nil, fmt.Errorf("%w: invalid token %q at row %d col %d", ErrMalformedGrid, token, r, c)
			}
			active[pos] = true
			values[pos] = v
		}
	}

	top, err := NewTopology(rows, cols, active)
	if err != nil {
		return nil, err
	}

	b := New(top)
	for pos, v := range values {
		if v == EmptyCell {
			continue
		}
		if err := b.SetGiven(pos, v); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ParseString is Parse over an in-memory grid.
func ParseString(s string) (*Board, error) {
	return Parse(strings.NewReader(s))
}

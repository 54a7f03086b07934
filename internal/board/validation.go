package board

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedShape    = errors.New("malformed board shape")
	ErrInvalidCellAccess = errors.New("forbidden or out-of-range cell")
	ErrInvalidValue      = errors.New("value must be between 0-9")
	ErrMalformedGrid     = errors.New("malformed grid text")
)

// checkCell rejects writes to positions that do not exist on the board.
func (b *Board) checkCell(pos int) error {
	if !b.top.Active(pos) {
		return fmt.Errorf("%w: position %d", ErrInvalidCellAccess, pos)
	}
	return nil
}

// Package board implements the grid, piece placement and
// win-condition detection for a card-movement strategy game.
package board

import "github.com/hailam/gridmaster/geometry"

// Piece is a single board piece: a color and whether it is the
// player's master (as opposed to one of their students).
type Piece struct {
	Color    geometry.Color
	IsMaster bool
}

// String returns a compact debug representation: uppercase for Red,
// lowercase for Blue, 'M'/'m' for a master and 'S'/'s' for a student.
func (p Piece) String() string {
	ch := byte('s')
	if p.IsMaster {
		ch = 'm'
	}
	if p.Color == geometry.Red {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

package graph

import (
	"github.com/hailam/gridmaster/board"
	"github.com/hailam/gridmaster/card"
	"github.com/hailam/gridmaster/cardgame"
	"github.com/hailam/gridmaster/geometry"
)

// Flip returns g's turn-reflected counterpart: the board rotated 180
// degrees with every piece's color swapped, the two hands swapped
// between players, and the side to move switched to match. The
// set-aside card is unchanged, since set-aside identity does not
// belong to either player.
//
// Go's garbage collector means the graph that keys on this need not
// adopt the generational-index/arena scheme the design notes describe
// for languages without automatic cycle collection; Flip itself is
// plain value construction, independent of that concern.
func Flip(g *cardgame.Game) *cardgame.Game {
	w, h := g.Board.Width, g.Board.Height

	tiles := make([]*board.Piece, w*h)
	for i, p := range g.Board.Tiles() {
		if p == nil {
			continue
		}
		c := geometry.CoordinateFromIndex(i, w)
		rotated := geometry.Coordinate{X: w - 1 - c.X, Y: h - 1 - c.Y}
		tiles[rotated.Index(w)] = &board.Piece{Color: p.Color.Other(), IsMaster: p.IsMaster}
	}

	var cards [cardgame.CardCount]card.Variant
	cards[0] = g.Cards[0]
	redHand := g.Hand(geometry.Red)
	blueHand := g.Hand(geometry.Blue)
	copy(cards[1:1+cardgame.Hand], blueHand)
	copy(cards[1+cardgame.Hand:1+2*cardgame.Hand], redHand)

	flipped := &cardgame.Game{
		Board:      board.NewFromGrid(w, h, tiles),
		Cards:      cards,
		SideToMove: g.SideToMove.Other(),
	}
	cardgame.RecomputeValidMoves(flipped)
	return flipped
}

// Equal reports whether a and b describe the same game state up to
// turn reflection: either raw structural equality, or a's raw
// equality with b's flip.
func Equal(a, b *cardgame.Game) bool {
	return a.Equal(b) || a.Equal(Flip(b))
}

// Hash returns a value that commutes with Equal: equivalent states
// always hash equal. It xors the set-aside card and the to-move
// player's hand (the opponent's hand is symmetric under flip, so it
// is excluded), then xors every occupied square's flat index,
// normalised to (W*H-1)-index whenever the top player is to move, so
// a 180-degree-rotated, recolored counterpart lands on the same value.
func Hash(g *cardgame.Game) uint64 {
	w, h := g.Board.Width, g.Board.Height

	var result uint64
	result ^= uint64(g.Cards[0])
	for _, c := range g.Hand(g.SideToMove) {
		result ^= uint64(c)
	}

	topToMove := g.SideToMove.IsTop()
	for i, p := range g.Board.Tiles() {
		if p == nil {
			continue
		}
		idx := uint64(i)
		if topToMove {
			idx = uint64(w*h-1) - idx
		}
		result ^= idx
	}
	return result
}

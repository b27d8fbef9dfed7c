// Package cardgame implements game state: a board plus the five cards
// in play and the side to move. It derives legal moves, applies them,
// and tests for a terminal position.
package cardgame

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/hailam/gridmaster/board"
	"github.com/hailam/gridmaster/card"
	"github.com/hailam/gridmaster/geometry"
)

// Hand is the number of cards each player holds.
const Hand = 2

// CardCount is the total number of cards in play: one set aside, two
// per player's hand.
const CardCount = 1 + 2*Hand

// ErrInvalidMove is returned by DoMove when the given move is not
// among the current position's valid moves.
var ErrInvalidMove = errors.New("cardgame: invalid move")

// Game is a board, the five cards currently in play, and the side to
// move. Cards[0] is the set-aside card; Cards[1:Hand+1] is the top
// player's (Red's) hand; Cards[Hand+1:2*Hand+1] is the bottom
// player's (Blue's) hand.
type Game struct {
	Board      *board.Board
	Cards      [CardCount]card.Variant
	SideToMove geometry.Color

	validMoves        []Move
	hasRealBoardMoves bool
}

// handRange returns the [start, end) slice bounds of c's hand within Cards.
func handRange(c geometry.Color) (int, int) {
	if c.IsTop() {
		return 1, 1 + Hand
	}
	return 1 + Hand, 1 + 2*Hand
}

// Hand returns c's current hand.
func (g *Game) Hand(c geometry.Color) []card.Variant {
	lo, hi := handRange(c)
	return g.Cards[lo:hi]
}

// SetAside returns the card not currently held by either player.
func (g *Game) SetAside() card.Variant {
	return g.Cards[0]
}

// New builds a game from an explicit board and card assignment. The
// side to move is whichever color the set-aside card would have
// started, per the rules: the player who'd own Cards[0] if it were in
// their hand moves first.
func New(width, height int, cards [CardCount]card.Variant) *Game {
	g := &Game{
		Board:      board.New(width, height),
		Cards:      cards,
		SideToMove: cards[0].StartColor(),
	}
	g.computeValidMoves()
	return g
}

// WithRandomCards builds a game on a fresh board with a uniformly
// random assignment of 5 distinct card slots. If allowDuplicates is
// false, no variant appears twice; a duplicate draw is resampled.
func WithRandomCards(width, height int, allowDuplicates bool) *Game {
	var cards [CardCount]card.Variant
	for i := range cards {
		for {
			cards[i] = card.Variant(rand.IntN(int(card.Count)))
			if allowDuplicates {
				break
			}
			duplicate := false
			for j := 0; j < i; j++ {
				if cards[j] == cards[i] {
					duplicate = true
					break
				}
			}
			if !duplicate {
				break
			}
		}
	}
	return New(width, height, cards)
}

// Copy returns a deep copy of g.
func (g *Game) Copy() *Game {
	cp := &Game{
		Board:      g.Board.Copy(),
		Cards:      g.Cards,
		SideToMove: g.SideToMove,
	}
	cp.validMoves = append([]Move(nil), g.validMoves...)
	cp.hasRealBoardMoves = g.hasRealBoardMoves
	return cp
}

// IsFinished reports the winner, if any.
func (g *Game) IsFinished() (geometry.Color, bool) {
	return g.Board.IsFinished()
}

// Equal is raw structural equality: same board grid, same set-aside
// card, hands equal as multisets, same side to move. It is NOT the
// symmetry-aware equivalence the state graph keys on (see package
// graph); it is the "disable symmetries" comparison and the basis for
// move validation.
func (g *Game) Equal(other *Game) bool {
	if g.SideToMove != other.SideToMove {
		return false
	}
	if g.Cards[0] != other.Cards[0] {
		return false
	}
	if g.Board.Width != other.Board.Width || g.Board.Height != other.Board.Height {
		return false
	}
	for _, c := range []geometry.Color{geometry.Red, geometry.Blue} {
		if !handEqual(g.Hand(c), other.Hand(c)) {
			return false
		}
	}
	for i, p := range g.Board.Tiles() {
		op := other.Board.Tiles()[i]
		switch {
		case p == nil && op == nil:
			continue
		case p == nil || op == nil:
			return false
		case *p != *op:
			return false
		}
	}
	return true
}

func handEqual(a, b []card.Variant) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, va := range a {
		found := false
		for j, vb := range b {
			if !used[j] && va == vb {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RecomputeValidMoves rebuilds g's cached valid-move list. Exported
// for codec, which constructs a Game's fields directly when
// deserializing and must populate the cache the same way New and
// DoMove do.
func RecomputeValidMoves(g *Game) {
	g.computeValidMoves()
}

// pawnCount returns the number of pieces the side to move controls.
func (g *Game) pawnCount() int {
	return len(g.Board.PawnCoordinates(g.SideToMove))
}

func (g *Game) String() string {
	return fmt.Sprintf("Game{%dx%d, toMove=%s, setAside=%s}", g.Board.Width, g.Board.Height, g.SideToMove, g.Cards[0])
}

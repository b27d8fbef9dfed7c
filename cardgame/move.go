package cardgame

import (
	"fmt"

	"github.com/hailam/gridmaster/card"
)

// Move identifies an action the side to move can take: slide the
// pawn at PawnIndex (0 = master if present, else the first student,
// in the side's PawnCoordinates order) using the offset OffsetIndex
// of card UsedCard. When the player has no legal board move, a Move
// is a pass: it still names the UsedCard to discard, but PawnIndex
// and OffsetIndex are conventionally both 0 and ignored.
type Move struct {
	PawnIndex   int
	UsedCard    card.Variant
	OffsetIndex int
}

func (m Move) String() string {
	return fmt.Sprintf("Move{pawn=%d, card=%s, offset=%d}", m.PawnIndex, m.UsedCard, m.OffsetIndex)
}

// ValidMoves returns the side to move's legal moves, computed fresh
// each time cards or the side to move change.
func (g *Game) ValidMoves() []Move {
	return g.validMoves
}

func (g *Game) computeValidMoves() {
	g.validMoves = nil

	if _, finished := g.IsFinished(); finished {
		return
	}

	hand := g.Hand(g.SideToMove)
	pawnCount := g.pawnCount()

	for pawnIdx := 0; pawnIdx < pawnCount; pawnIdx++ {
		for cardPos, c := range hand {
			// Don't count a move twice if the hand holds the same
			// variant in two slots.
			duplicate := false
			for j := 0; j < cardPos; j++ {
				if hand[j] == c {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}

			offsets := c.Offsets()
			for offsetIdx := range offsets {
				move := Move{PawnIndex: pawnIdx, UsedCard: c, OffsetIndex: offsetIdx}
				if g.checkValidBoardMove(move) {
					g.validMoves = append(g.validMoves, move)
				}
			}
		}
	}

	g.hasRealBoardMoves = len(g.validMoves) > 0
	if !g.hasRealBoardMoves {
		for _, c := range hand {
			g.validMoves = append(g.validMoves, Move{UsedCard: c})
		}
	}
}

// checkValidBoardMove reports whether move is a legal pawn slide,
// without considering the no-moves-available fallback.
func (g *Game) checkValidBoardMove(move Move) bool {
	pawns := g.Board.PawnCoordinates(g.SideToMove)
	if move.PawnIndex < 0 || move.PawnIndex >= len(pawns) {
		return false
	}

	hand := g.Hand(g.SideToMove)
	inHand := false
	for _, c := range hand {
		if c == move.UsedCard {
			inHand = true
			break
		}
	}
	if !inHand {
		return false
	}

	offsets := move.UsedCard.Offsets()
	if move.OffsetIndex < 0 || move.OffsetIndex >= len(offsets) {
		return false
	}

	oriented := offsets[move.OffsetIndex].Orient(g.SideToMove)
	dest := pawns[move.PawnIndex].Add(oriented)
	if !g.Board.OnBoard(dest) {
		return false
	}

	tile, occupied := g.Board.GetTile(dest)
	if occupied && tile.Color == g.SideToMove {
		return false
	}

	return true
}

// hasBoardMoves reports whether the current valid-move list holds
// real board moves, as opposed to a forced pass per hand card.
func (g *Game) hasBoardMoves() bool {
	return g.hasRealBoardMoves
}

// IsValidMove reports whether m is one of g's current valid moves.
// When only passes are legal, a pass matches on UsedCard alone: its
// PawnIndex and OffsetIndex are ignored.
func (g *Game) IsValidMove(m Move) bool {
	for _, v := range g.validMoves {
		if v == m || (!g.hasRealBoardMoves && v.UsedCard == m.UsedCard) {
			return true
		}
	}
	return false
}

// IsInvalidMove returns a human-readable reason m is not playable, or
// invalid=false if m is in fact valid.
func (g *Game) IsInvalidMove(m Move) (reason string, invalid bool) {
	if g.IsValidMove(m) {
		return "", false
	}

	pawns := g.Board.PawnCoordinates(g.SideToMove)
	if m.PawnIndex < 0 || m.PawnIndex >= len(pawns) {
		return "pawn does not exist", true
	}

	offsets := m.UsedCard.Offsets()
	if m.OffsetIndex < 0 || m.OffsetIndex >= len(offsets) {
		return "invalid offset index", true
	}

	hand := g.Hand(g.SideToMove)
	inHand := false
	for _, c := range hand {
		if c == m.UsedCard {
			inHand = true
			break
		}
	}
	if !inHand {
		return "used card not in player's hand", true
	}

	if !g.hasBoardMoves() {
		return "a board move was offered while only a pass is legal", true
	}

	oriented := offsets[m.OffsetIndex].Orient(g.SideToMove)
	dest := pawns[m.PawnIndex].Add(oriented)
	if !g.Board.OnBoard(dest) {
		return "destination is not on the board", true
	}

	tile, occupied := g.Board.GetTile(dest)
	if occupied && tile.Color == g.SideToMove {
		return "cannot capture a piece of the same color", true
	}

	return "attempted to perform an invalid move", true
}

// DoMove applies m to g and returns the resulting state. g itself is
// left unmodified. It returns ErrInvalidMove if m is not one of g's
// current valid moves.
func (g *Game) DoMove(m Move) (*Game, error) {
	if !g.IsValidMove(m) {
		reason, _ := g.IsInvalidMove(m)
		return nil, fmt.Errorf("%w: %s", ErrInvalidMove, reason)
	}

	next := g.Copy()

	if g.hasBoardMoves() {
		pawns := next.Board.PawnCoordinates(next.SideToMove)
		src := pawns[m.PawnIndex]
		oriented := m.UsedCard.Offsets()[m.OffsetIndex].Orient(next.SideToMove)
		next.Board.DoMove(src, oriented)
	}

	lo, hi := handRange(next.SideToMove)
	swapped := false
	for i := lo; i < hi; i++ {
		if next.Cards[i] == m.UsedCard {
			next.Cards[i], next.Cards[0] = next.Cards[0], next.Cards[i]
			swapped = true
			break
		}
	}
	if !swapped {
		panic("cardgame: DoMove could not find the used card in the mover's hand")
	}

	next.SideToMove = next.SideToMove.Other()
	next.computeValidMoves()

	return next, nil
}

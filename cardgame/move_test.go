package cardgame

import (
	"errors"
	"testing"

	"github.com/hailam/gridmaster/card"
	"github.com/hailam/gridmaster/geometry"
)

func TestValidMovesNonEmptyOnFreshBoard(t *testing.T) {
	g := New(5, 5, fiveCards(card.Boar, card.Crab, card.Eel, card.Cobra, card.Crane))
	moves := g.ValidMoves()
	if len(moves) == 0 {
		t.Fatal("a fresh 5x5 board should always have legal moves")
	}
	for _, m := range moves {
		if !g.IsValidMove(m) {
			t.Errorf("move %v reported by ValidMoves but rejected by IsValidMove", m)
		}
	}
}

func TestDoMoveSwapsUsedCardToSetAside(t *testing.T) {
	g := New(5, 5, fiveCards(card.Boar, card.Crab, card.Eel, card.Cobra, card.Crane))
	moves := g.ValidMoves()
	var m Move
	found := false
	for _, mv := range moves {
		if mv.UsedCard == card.Eel {
			m = mv
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected a legal move using Eel in Red's opening hand")
	}

	next, err := g.DoMove(m)
	if err != nil {
		t.Fatalf("DoMove: %v", err)
	}

	if next.SetAside() != card.Eel {
		t.Errorf("SetAside() = %v, want Eel", next.SetAside())
	}
	hand := next.Hand(geometry.Red)
	if hand[0] != card.Boar && hand[1] != card.Boar {
		t.Errorf("Red's hand should now include the previously set-aside Boar: %v", hand)
	}
	if next.SideToMove != geometry.Blue {
		t.Errorf("SideToMove after Red's move = %v, want Blue", next.SideToMove)
	}
}

func TestDoMoveRejectsInvalidMove(t *testing.T) {
	g := New(5, 5, fiveCards(card.Boar, card.Crab, card.Eel, card.Cobra, card.Crane))
	bogus := Move{PawnIndex: 999, UsedCard: card.Tiger, OffsetIndex: 0}

	if g.IsValidMove(bogus) {
		t.Fatal("expected bogus move to be invalid")
	}
	if _, err := g.DoMove(bogus); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("DoMove(bogus) error = %v, want ErrInvalidMove", err)
	}
}

func TestIsInvalidMoveReasons(t *testing.T) {
	g := New(5, 5, fiveCards(card.Boar, card.Crab, card.Eel, card.Cobra, card.Crane))

	if reason, invalid := g.IsInvalidMove(Move{PawnIndex: -1, UsedCard: card.Crab}); !invalid || reason == "" {
		t.Errorf("expected a reason for a negative pawn index, got %q, invalid=%v", reason, invalid)
	}

	notInHand := Move{PawnIndex: 0, UsedCard: card.Tiger, OffsetIndex: 0}
	if reason, invalid := g.IsInvalidMove(notInHand); !invalid || reason == "" {
		t.Errorf("expected a reason for a card not in hand, got %q, invalid=%v", reason, invalid)
	}
}

func TestDoMovePreservesCardMultiset(t *testing.T) {
	g := New(5, 5, fiveCards(card.Boar, card.Crab, card.Eel, card.Cobra, card.Crane))
	before := cardMultiset(g)

	for _, m := range g.ValidMoves() {
		next, err := g.DoMove(m)
		if err != nil {
			t.Fatalf("DoMove: %v", err)
		}
		after := cardMultiset(next)
		if before != after {
			t.Errorf("move %v changed the card multiset: before=%v after=%v", m, before, after)
		}
	}
}

func cardMultiset(g *Game) [card.Count]int {
	var counts [card.Count]int
	for _, c := range g.Cards {
		counts[c]++
	}
	return counts
}

func TestValidMovesKeepDimensionsAndFlipSide(t *testing.T) {
	g := New(5, 5, fiveCards(card.Boar, card.Crab, card.Eel, card.Cobra, card.Crane))
	for _, m := range g.ValidMoves() {
		next, err := g.DoMove(m)
		if err != nil {
			t.Fatalf("DoMove(%v): %v", m, err)
		}
		if next.Board.Width != g.Board.Width || next.Board.Height != g.Board.Height {
			t.Errorf("move %v changed board dimensions", m)
		}
		if next.SideToMove == g.SideToMove {
			t.Errorf("move %v did not flip the side to move", m)
		}
	}
}

func TestDoMoveLeavesOriginalUnchanged(t *testing.T) {
	g := New(5, 5, fiveCards(card.Boar, card.Crab, card.Eel, card.Cobra, card.Crane))
	before := g.Copy()

	m := g.ValidMoves()[0]
	if _, err := g.DoMove(m); err != nil {
		t.Fatalf("DoMove: %v", err)
	}
	if !g.Equal(before) {
		t.Error("DoMove must not mutate its receiver")
	}
}

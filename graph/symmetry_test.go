package graph

import (
	"testing"

	"github.com/hailam/gridmaster/cardgame"
)

func TestFlipIsAnInvolution(t *testing.T) {
	g := cardgame.WithRandomCards(5, 5, false)
	back := Flip(Flip(g))
	if !g.Equal(back) {
		t.Errorf("Flip(Flip(g)) != g:\n  got  %v\n  want %v", back, g)
	}
}

func TestEqualHoldsBetweenAStateAndItsFlip(t *testing.T) {
	g := cardgame.WithRandomCards(5, 5, false)
	if !Equal(g, Flip(g)) {
		t.Error("a state must be graph-equal to its own turn reflection")
	}
}

func TestHashCommutesWithEqual(t *testing.T) {
	g := cardgame.WithRandomCards(5, 5, false)
	flipped := Flip(g)
	if Hash(g) != Hash(flipped) {
		t.Errorf("Hash(g) = %d, Hash(Flip(g)) = %d; equivalent states must hash equal", Hash(g), Hash(flipped))
	}
}

func TestCanonicalKeyAgreesAcrossFlip(t *testing.T) {
	g := cardgame.WithRandomCards(5, 5, false)
	flipped := Flip(g)

	keyG, err := CanonicalKey(g)
	if err != nil {
		t.Fatalf("CanonicalKey(g): %v", err)
	}
	keyFlipped, err := CanonicalKey(flipped)
	if err != nil {
		t.Fatalf("CanonicalKey(Flip(g)): %v", err)
	}
	if keyG != keyFlipped {
		t.Errorf("CanonicalKey differs between a state and its flip: %q vs %q", keyG, keyFlipped)
	}
}

func TestFlipSwapsSideToMove(t *testing.T) {
	g := cardgame.WithRandomCards(5, 5, false)
	flipped := Flip(g)
	if flipped.SideToMove == g.SideToMove {
		t.Error("Flip should swap the side to move")
	}
	if flipped.SetAside() != g.SetAside() {
		t.Error("Flip must leave the set-aside card unchanged")
	}
}

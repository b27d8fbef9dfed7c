package graphcache

import (
	"path/filepath"
	"testing"

	"github.com/hailam/gridmaster/card"
	"github.com/hailam/gridmaster/cardgame"
	"github.com/hailam/gridmaster/graph"
)

func freshGame(c card.Variant) *cardgame.Game {
	return cardgame.New(5, 5, [cardgame.CardCount]card.Variant{
		c, card.Crab, card.Eel, card.Cobra, card.Crane,
	})
}

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetSetRoundTrip(t *testing.T) {
	c := openTestCache(t)

	if _, found, err := c.Get("missing"); err != nil || found {
		t.Fatalf("Get on an empty cache: found=%v, err=%v", found, err)
	}

	if err := c.Set("k1", graph.Win); err != nil {
		t.Fatalf("Set: %v", err)
	}
	quality, found, err := c.Get("k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || quality != graph.Win {
		t.Errorf("Get(k1) = (%v, %v), want (Win, true)", quality, found)
	}
}

func TestWarmGraphSkipsUnlabelledVertices(t *testing.T) {
	c := openTestCache(t)
	gr := graph.New()

	winV, _, err := gr.GetOrCreate(freshGame(card.Boar))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	winV.Quality = graph.Win

	unknownV, _, err := gr.GetOrCreate(freshGame(card.Tiger))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if err := c.WarmGraph(gr); err != nil {
		t.Fatalf("WarmGraph: %v", err)
	}

	if _, found, _ := c.Get(winV.Key); !found {
		t.Error("WarmGraph should have cached the Win vertex")
	}
	if _, found, _ := c.Get(unknownV.Key); found {
		t.Error("WarmGraph should not cache an Unknown-quality vertex")
	}
}

func TestApplyToFillsUnlabelledVertices(t *testing.T) {
	c := openTestCache(t)

	g := freshGame(card.Boar)
	if err := c.Set(mustKey(t, g), graph.Lose); err != nil {
		t.Fatalf("Set: %v", err)
	}

	gr := graph.New()
	v, _, err := gr.GetOrCreate(g)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if v.Quality != graph.Unknown {
		t.Fatalf("test fixture: expected a fresh non-terminal vertex, got %v", v.Quality)
	}

	if err := c.ApplyTo(gr); err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	if v.Quality != graph.Lose {
		t.Errorf("v.Quality = %v, want Lose after ApplyTo", v.Quality)
	}
}

func mustKey(t *testing.T, g *cardgame.Game) string {
	t.Helper()
	key, err := graph.CanonicalKey(g)
	if err != nil {
		t.Fatalf("CanonicalKey: %v", err)
	}
	return key
}

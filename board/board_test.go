package board

import (
	"testing"

	"github.com/hailam/gridmaster/geometry"
)

func TestNewLayout(t *testing.T) {
	b := New(5, 5)

	redTemple := Temple(5, 5, geometry.Red)
	tile, ok := b.GetTile(redTemple)
	if !ok || !tile.IsMaster || tile.Color != geometry.Red {
		t.Fatalf("Red's temple should hold Red's master, got %v, ok=%v", tile, ok)
	}

	blueTemple := Temple(5, 5, geometry.Blue)
	tile, ok = b.GetTile(blueTemple)
	if !ok || !tile.IsMaster || tile.Color != geometry.Blue {
		t.Fatalf("Blue's temple should hold Blue's master, got %v, ok=%v", tile, ok)
	}

	if got := len(b.PawnCoordinates(geometry.Red)); got != 5 {
		t.Errorf("Red should have 5 pieces on a width-5 board, got %d", got)
	}
	if b.PawnCoordinates(geometry.Red)[0] != redTemple {
		t.Errorf("Red's master should be first in PawnCoordinates")
	}
}

func TestValidDimensions(t *testing.T) {
	cases := []struct {
		w, h int
		want bool
	}{
		{5, 5, true},
		{1, 2, true},
		{7, 7, true},
		{0, 5, false},
		{8, 5, false},
		{5, 1, false},
		{5, 8, false},
	}
	for _, tc := range cases {
		if got := ValidDimensions(tc.w, tc.h); got != tc.want {
			t.Errorf("ValidDimensions(%d, %d) = %v, want %v", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestDoMoveMovesPiece(t *testing.T) {
	b := New(5, 5)
	redMaster := Temple(5, 5, geometry.Red)
	blueMaster := Temple(5, 5, geometry.Blue)

	// Move Red's master one step forward onto an empty square. No
	// capture is involved: this checks the mechanics of a plain move.
	dst := geometry.Coordinate{X: redMaster.X, Y: redMaster.Y + 1}
	b.DoMove(redMaster, geometry.Offset{DX: 0, DY: 1})

	if _, ok := b.GetTile(redMaster); ok {
		t.Error("source square should be empty after DoMove")
	}
	tile, ok := b.GetTile(dst)
	if !ok || !tile.IsMaster || tile.Color != geometry.Red {
		t.Errorf("destination should hold Red's master, got %v, ok=%v", tile, ok)
	}

	if _, finished := b.IsFinished(); finished {
		t.Error("game should not be finished yet")
	}
	_ = blueMaster
}

func TestIsFinishedMasterCaptured(t *testing.T) {
	tiles := make([]*Piece, 9)
	tiles[0] = &Piece{Color: geometry.Red, IsMaster: true}
	b := NewFromGrid(3, 3, tiles)

	winner, finished := b.IsFinished()
	if !finished || winner != geometry.Red {
		t.Errorf("IsFinished() = (%v, %v), want (Red, true)", winner, finished)
	}
}

func TestIsFinishedTempleReached(t *testing.T) {
	// Red's master sitting on Blue's home temple should win for Red,
	// even though Blue's master is still on the board elsewhere.
	tiles := make([]*Piece, 9)
	blueTemple := Temple(3, 3, geometry.Blue)
	tiles[blueTemple.Index(3)] = &Piece{Color: geometry.Red, IsMaster: true}
	tiles[Temple(3, 3, geometry.Red).Index(3)] = &Piece{Color: geometry.Blue, IsMaster: true}
	b := NewFromGrid(3, 3, tiles)

	winner, finished := b.IsFinished()
	if !finished || winner != geometry.Red {
		t.Errorf("IsFinished() = (%v, %v), want (Red, true)", winner, finished)
	}
}

func TestIsFinishedStudentOnTempleDoesNotWin(t *testing.T) {
	tiles := make([]*Piece, 9)
	blueTemple := Temple(3, 3, geometry.Blue)
	tiles[blueTemple.Index(3)] = &Piece{Color: geometry.Red, IsMaster: false}
	tiles[Temple(3, 3, geometry.Red).Index(3)] = &Piece{Color: geometry.Red, IsMaster: true}
	tiles[3] = &Piece{Color: geometry.Blue, IsMaster: true}
	b := NewFromGrid(3, 3, tiles)

	if _, finished := b.IsFinished(); finished {
		t.Error("a student on the opponent's temple must not end the game")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	b := New(5, 5)
	cp := b.Copy()

	redMaster := Temple(5, 5, geometry.Red)
	b.DoMove(redMaster, geometry.Offset{DX: 0, DY: 1})

	if _, ok := cp.GetTile(redMaster); !ok {
		t.Error("copy should be unaffected by mutation of the original")
	}
}

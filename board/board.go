// Package board implements the grid: piece placement, movement,
// captures, and the temple/master-capture win conditions.
package board

import (
	"fmt"

	"github.com/hailam/gridmaster/geometry"
)

// Dimension bounds from the game's rules.
const (
	MinWidth  = 1
	MaxWidth  = 7
	MinHeight = 2
	MaxHeight = 7
)

// Board is a grid of tiles plus a cached, per-color projection of
// piece locations and master-captured flags. The projection must
// always agree with the grid; every mutator keeps both in sync.
type Board struct {
	Width, Height int

	tiles []*Piece // row-major, len == Width*Height; nil == empty

	// pieces[c] is c's piece coordinates, master first (if present)
	// then students in grid row-major order.
	pieces         [2][]geometry.Coordinate
	masterCaptured [2]bool
}

// ValidDimensions reports whether (width, height) satisfy the game's
// board-size bounds.
func ValidDimensions(width, height int) bool {
	return width >= MinWidth && width <= MaxWidth &&
		height >= MinHeight && height <= MaxHeight
}

// Temple returns the temple square for c: the center of c's home row.
func Temple(width, height int, c geometry.Color) geometry.Coordinate {
	if c.IsTop() {
		return geometry.Coordinate{X: (width - 1) / 2, Y: 0}
	}
	return geometry.Coordinate{X: width / 2, Y: height - 1}
}

// New builds the initial layout: a master on each side's temple, and
// students filling the rest of each home row.
func New(width, height int) *Board {
	if !ValidDimensions(width, height) {
		panic(fmt.Sprintf("board: invalid dimensions %dx%d", width, height))
	}

	b := &Board{Width: width, Height: height, tiles: make([]*Piece, width*height)}

	placeRow := func(c geometry.Color, y int) {
		temple := Temple(width, height, c)
		for x := 0; x < width; x++ {
			p := &Piece{Color: c, IsMaster: x == temple.X}
			b.tiles[geometry.Coordinate{X: x, Y: y}.Index(width)] = p
		}
	}
	placeRow(geometry.Red, 0)
	placeRow(geometry.Blue, height-1)

	b.rebuildProjection()
	return b
}

// NewFromGrid builds a board from an already-populated grid, as used
// by deserialization. tiles must have length width*height.
func NewFromGrid(width, height int, tiles []*Piece) *Board {
	if !ValidDimensions(width, height) {
		panic(fmt.Sprintf("board: invalid dimensions %dx%d", width, height))
	}
	if len(tiles) != width*height {
		panic("board: tile slice does not match dimensions")
	}

	b := &Board{Width: width, Height: height, tiles: append([]*Piece(nil), tiles...)}
	b.rebuildProjection()
	return b
}

func (b *Board) rebuildProjection() {
	b.pieces[geometry.Red] = nil
	b.pieces[geometry.Blue] = nil

	// Masters first.
	for i, p := range b.tiles {
		if p != nil && p.IsMaster {
			b.pieces[p.Color] = append(b.pieces[p.Color], geometry.CoordinateFromIndex(i, b.Width))
		}
	}
	// Then students, row-major.
	for i, p := range b.tiles {
		if p != nil && !p.IsMaster {
			b.pieces[p.Color] = append(b.pieces[p.Color], geometry.CoordinateFromIndex(i, b.Width))
		}
	}

	b.masterCaptured[geometry.Red] = !b.hasMaster(geometry.Red)
	b.masterCaptured[geometry.Blue] = !b.hasMaster(geometry.Blue)
}

func (b *Board) hasMaster(c geometry.Color) bool {
	for _, p := range b.pieces[c] {
		tile, _ := b.GetTile(p)
		if tile.IsMaster {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of b.
func (b *Board) Copy() *Board {
	cp := &Board{
		Width:          b.Width,
		Height:         b.Height,
		tiles:          make([]*Piece, len(b.tiles)),
		masterCaptured: b.masterCaptured,
	}
	for i, p := range b.tiles {
		if p != nil {
			pc := *p
			cp.tiles[i] = &pc
		}
	}
	cp.pieces[geometry.Red] = append([]geometry.Coordinate(nil), b.pieces[geometry.Red]...)
	cp.pieces[geometry.Blue] = append([]geometry.Coordinate(nil), b.pieces[geometry.Blue]...)
	return cp
}

// OnBoard reports whether c lies within the board.
func (b *Board) OnBoard(c geometry.Coordinate) bool {
	return c.OnBoard(b.Width, b.Height)
}

// GetTile returns the piece at c and whether the square is occupied.
// The outer off-board case must be checked separately with OnBoard;
// calling GetTile with an off-board coordinate panics.
func (b *Board) GetTile(c geometry.Coordinate) (Piece, bool) {
	if !b.OnBoard(c) {
		panic(fmt.Sprintf("board: coordinate %v is off board %dx%d", c, b.Width, b.Height))
	}
	p := b.tiles[c.Index(b.Width)]
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

// Tiles returns the raw row-major grid. Callers must not mutate it.
func (b *Board) Tiles() []*Piece {
	return b.tiles
}

// DoMove moves the piece at src by offset, capturing any opponent
// piece on the destination. The caller must have already validated
// the move (on-board destination, not occupied by a same-color
// piece): this is a programmer-error precondition, not a recoverable
// one, and a violation panics rather than returning an error.
func (b *Board) DoMove(src geometry.Coordinate, offset geometry.Offset) {
	dst := src.Add(offset)
	if !b.OnBoard(src) || !b.OnBoard(dst) {
		panic("board: DoMove with an off-board source or destination")
	}

	srcIdx := src.Index(b.Width)
	mover := b.tiles[srcIdx]
	if mover == nil {
		panic("board: DoMove from an empty square")
	}

	dstIdx := dst.Index(b.Width)
	if target := b.tiles[dstIdx]; target != nil && target.Color == mover.Color {
		panic("board: DoMove captures a piece of the same color")
	}

	b.tiles[dstIdx] = mover
	b.tiles[srcIdx] = nil
	b.rebuildProjection()
}

// IsFinished reports the winner, if any: a side wins when the
// opponent's master is captured, or when its own master stands on the
// opponent's temple. A student reaching the opponent's temple never
// ends the game.
func (b *Board) IsFinished() (geometry.Color, bool) {
	if b.masterCaptured[geometry.Blue] {
		return geometry.Red, true
	}
	if b.masterCaptured[geometry.Red] {
		return geometry.Blue, true
	}

	// A master standing on the *opponent's* temple wins.
	blueHomeTemple := Temple(b.Width, b.Height, geometry.Blue)
	if tile, ok := b.GetTile(blueHomeTemple); ok && tile.IsMaster && tile.Color == geometry.Red {
		return geometry.Red, true
	}

	redHomeTemple := Temple(b.Width, b.Height, geometry.Red)
	if tile, ok := b.GetTile(redHomeTemple); ok && tile.IsMaster && tile.Color == geometry.Blue {
		return geometry.Blue, true
	}

	return 0, false
}

// MasterCaptured reports whether c's master has been captured.
func (b *Board) MasterCaptured(c geometry.Color) bool {
	return b.masterCaptured[c]
}

// PawnCoordinates returns c's piece coordinates, master first (if
// present) then students in grid row-major order.
func (b *Board) PawnCoordinates(c geometry.Color) []geometry.Coordinate {
	return b.pieces[c]
}

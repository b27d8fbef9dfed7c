package codec

import (
	"errors"
	"fmt"

	"github.com/hailam/gridmaster/board"
	"github.com/hailam/gridmaster/card"
	"github.com/hailam/gridmaster/cardgame"
	"github.com/hailam/gridmaster/geometry"
)

// Field widths: 1 side-to-move bit, 5 four-bit card indices, a
// three-bit width and a three-bit height, then for each color a
// six-bit coordinate code per board-width slot (master slot first,
// then students, sentinel-padded up to the board's actual width).
const (
	sideBits  = 1
	cardBits  = 4
	dimBits   = 3
	coordBits = 6

	// Len is the container capacity in bits, sized for the widest
	// encodable board. A narrower board only fills a prefix of this
	// capacity — the per-player coordinate block holds exactly
	// board.Width slots, not board.MaxWidth — leaving the remaining
	// high bits zero, so ToBase64 naturally strips them.
	Len = sideBits + 5*cardBits + 2*dimBits + 2*board.MaxWidth*coordBits
)

// emptySlot is the sentinel coordinate code for an unused or captured
// slot: one past the largest representable square index.
const emptySlot = board.MaxWidth * board.MaxHeight

// ErrOutOfRange is returned when a board's dimensions exceed the
// bounds the fixed-width encoding was built for.
var ErrOutOfRange = errors.New("codec: board exceeds maximum encodable dimensions")

// ErrMalformed is returned when a decoded bit string does not
// describe a well-formed game.
var ErrMalformed = errors.New("codec: malformed serialization")

// Serialize packs g into its fixed-width canonical bit string.
func Serialize(g *cardgame.Game) (*Bits, error) {
	w, h := g.Board.Width, g.Board.Height
	if w > board.MaxWidth || h > board.MaxHeight {
		return nil, fmt.Errorf("%w: %dx%d", ErrOutOfRange, w, h)
	}

	b := NewBits(Len)
	pos := 0

	side := uint64(0)
	if g.SideToMove.IsTop() {
		side = 1
	}
	b.SetField(pos, sideBits, side)
	pos += sideBits

	for i := 0; i < 5; i++ {
		b.SetField(pos, cardBits, uint64(g.Cards[i]))
		pos += cardBits
	}

	b.SetField(pos, dimBits, uint64(w))
	pos += dimBits
	b.SetField(pos, dimBits, uint64(h))
	pos += dimBits

	for _, c := range []geometry.Color{geometry.Red, geometry.Blue} {
		codes := slotCodes(g.Board, c)
		for _, code := range codes {
			b.SetField(pos, coordBits, uint64(code))
			pos += coordBits
		}
	}

	return b, nil
}

// slotCodes returns exactly b.Width coordinate codes for c: slot 0 is
// the master's square (or the sentinel if captured), slots 1.. are
// students in row-major order, with any remaining slots sentinel.
// The slot count tracks the board's actual width, not the maximum
// encodable width, so a narrower board serializes to fewer bits.
func slotCodes(b *board.Board, c geometry.Color) []int {
	codes := make([]int, b.Width)
	for i := range codes {
		codes[i] = emptySlot
	}

	pawns := b.PawnCoordinates(c)
	if len(pawns) == 0 {
		return codes
	}

	start := 0
	if tile, _ := b.GetTile(pawns[0]); tile.IsMaster {
		codes[0] = pawns[0].Index(b.Width)
		start = 1
	}

	for slot, i := 1, start; i < len(pawns) && slot < b.Width; slot, i = slot+1, i+1 {
		codes[slot] = pawns[i].Index(b.Width)
	}
	return codes
}

// Deserialize unpacks a canonical bit string into a Game.
func Deserialize(b *Bits) (*cardgame.Game, error) {
	if b.Len() != Len {
		return nil, fmt.Errorf("%w: expected %d bits, got %d", ErrMalformed, Len, b.Len())
	}

	pos := 0
	side := b.Field(pos, sideBits)
	pos += sideBits

	var cards [cardgame.CardCount]card.Variant
	for i := 0; i < 5; i++ {
		v := card.Variant(b.Field(pos, cardBits))
		if !v.Valid() {
			return nil, fmt.Errorf("%w: card index %d out of range", ErrMalformed, v)
		}
		cards[i] = v
		pos += cardBits
	}

	w := int(b.Field(pos, dimBits))
	pos += dimBits
	h := int(b.Field(pos, dimBits))
	pos += dimBits
	if !board.ValidDimensions(w, h) {
		return nil, fmt.Errorf("%w: dimensions %dx%d out of range", ErrMalformed, w, h)
	}

	tiles := make([]*board.Piece, w*h)
	for _, c := range []geometry.Color{geometry.Red, geometry.Blue} {
		for slot := 0; slot < w; slot++ {
			code := int(b.Field(pos, coordBits))
			pos += coordBits
			if code == emptySlot {
				continue
			}
			if code < 0 || code >= w*h {
				return nil, fmt.Errorf("%w: coordinate code %d out of range for %dx%d", ErrMalformed, code, w, h)
			}
			if tiles[code] != nil {
				return nil, fmt.Errorf("%w: two pieces on the same square", ErrMalformed)
			}
			tiles[code] = &board.Piece{Color: c, IsMaster: slot == 0}
		}
	}

	g := &cardgame.Game{
		Board:      board.NewFromGrid(w, h, tiles),
		Cards:      cards,
		SideToMove: geometry.Blue,
	}
	if side == 1 {
		g.SideToMove = geometry.Red
	}
	cardgame.RecomputeValidMoves(g)

	return g, nil
}

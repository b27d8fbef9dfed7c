// Package card holds the fixed catalog of movement cards. Each card
// carries a small ordered list of offsets (given from Red's
// perspective) and the color of the player who starts a game in which
// it is set aside.
package card

import "github.com/hailam/gridmaster/geometry"

// Variant identifies one of the 16 fixed cards. Offset order within a
// card, and the order variants appear here, are both observable: they
// are part of a Move's identity and of the catalog index used by the
// bit-packed serialization.
type Variant uint8

const (
	Boar Variant = iota
	Cobra
	Crab
	Crane
	Dragon
	Eel
	Elephant
	Frog
	Goose
	Horse
	Mantis
	Monkey
	Ox
	Rabbit
	Rooster
	Tiger

	Count // number of variants
)

// String returns the card's name.
func (v Variant) String() string {
	if int(v) >= len(names) {
		return "Unknown"
	}
	return names[v]
}

var names = [Count]string{
	Boar: "Boar", Cobra: "Cobra", Crab: "Crab", Crane: "Crane",
	Dragon: "Dragon", Eel: "Eel", Elephant: "Elephant", Frog: "Frog",
	Goose: "Goose", Horse: "Horse", Mantis: "Mantis", Monkey: "Monkey",
	Ox: "Ox", Rabbit: "Rabbit", Rooster: "Rooster", Tiger: "Tiger",
}

// Card is the fixed data for a card variant.
type Card struct {
	Offsets []geometry.Offset
	Color   geometry.Color
}

// Catalog maps every variant to its fixed offsets and owner color.
var Catalog = [Count]Card{
	Boar: {
		Offsets: []geometry.Offset{{DX: -1, DY: 0}, {DX: 0, DY: -1}, {DX: 1, DY: 0}},
		Color:   geometry.Red,
	},
	Cobra: {
		Offsets: []geometry.Offset{{DX: -1, DY: 0}, {DX: 1, DY: -1}, {DX: 1, DY: 1}},
		Color:   geometry.Red,
	},
	Crab: {
		Offsets: []geometry.Offset{{DX: -2, DY: 0}, {DX: 0, DY: -1}, {DX: 2, DY: 0}},
		Color:   geometry.Blue,
	},
	Crane: {
		Offsets: []geometry.Offset{{DX: -1, DY: 1}, {DX: 0, DY: -1}, {DX: 1, DY: 1}},
		Color:   geometry.Blue,
	},
	Dragon: {
		Offsets: []geometry.Offset{{DX: -2, DY: -1}, {DX: -1, DY: 1}, {DX: 1, DY: 1}, {DX: 2, DY: -1}},
		Color:   geometry.Red,
	},
	Eel: {
		Offsets: []geometry.Offset{{DX: -1, DY: -1}, {DX: -1, DY: 1}, {DX: 1, DY: 0}},
		Color:   geometry.Blue,
	},
	Elephant: {
		Offsets: []geometry.Offset{{DX: -1, DY: -1}, {DX: -1, DY: 0}, {DX: 1, DY: -1}, {DX: 1, DY: 0}},
		Color:   geometry.Red,
	},
	Frog: {
		Offsets: []geometry.Offset{{DX: -2, DY: 0}, {DX: -1, DY: -1}, {DX: 1, DY: 1}},
		Color:   geometry.Red,
	},
	Goose: {
		Offsets: []geometry.Offset{{DX: -1, DY: -1}, {DX: -1, DY: 0}, {DX: 1, DY: 0}, {DX: 1, DY: 1}},
		Color:   geometry.Blue,
	},
	Horse: {
		Offsets: []geometry.Offset{{DX: -1, DY: 0}, {DX: 0, DY: -1}, {DX: 0, DY: 1}},
		Color:   geometry.Red,
	},
	Mantis: {
		Offsets: []geometry.Offset{{DX: -1, DY: -1}, {DX: 0, DY: 1}, {DX: 1, DY: -1}},
		Color:   geometry.Red,
	},
	Monkey: {
		Offsets: []geometry.Offset{{DX: -1, DY: -1}, {DX: -1, DY: 1}, {DX: 1, DY: -1}, {DX: 1, DY: 1}},
		Color:   geometry.Blue,
	},
	Ox: {
		Offsets: []geometry.Offset{{DX: 0, DY: -1}, {DX: 0, DY: 1}, {DX: 1, DY: 0}},
		Color:   geometry.Blue,
	},
	Rabbit: {
		Offsets: []geometry.Offset{{DX: -1, DY: 1}, {DX: 1, DY: -1}, {DX: 2, DY: 0}},
		Color:   geometry.Blue,
	},
	Rooster: {
		Offsets: []geometry.Offset{{DX: -1, DY: 0}, {DX: -1, DY: 1}, {DX: 1, DY: 0}, {DX: 1, DY: -1}},
		Color:   geometry.Red,
	},
	Tiger: {
		Offsets: []geometry.Offset{{DX: 0, DY: -2}, {DX: 0, DY: 1}},
		Color:   geometry.Blue,
	},
}

// Offsets returns v's offsets, from Red's perspective.
func (v Variant) Offsets() []geometry.Offset {
	return Catalog[v].Offsets
}

// StartColor returns the color that starts a game where v is set aside.
func (v Variant) StartColor() geometry.Color {
	return Catalog[v].Color
}

// Valid reports whether v is one of the 16 known catalog entries.
func (v Variant) Valid() bool {
	return v < Count
}

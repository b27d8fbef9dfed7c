package geometry

import "testing"

func TestColorOther(t *testing.T) {
	if Red.Other() != Blue {
		t.Errorf("Red.Other() = %v, want Blue", Red.Other())
	}
	if Blue.Other() != Red {
		t.Errorf("Blue.Other() = %v, want Red", Blue.Other())
	}
}

func TestColorIsTop(t *testing.T) {
	if !Red.IsTop() {
		t.Error("Red should be the top player")
	}
	if Blue.IsTop() {
		t.Error("Blue should not be the top player")
	}
}

func TestOffsetOrient(t *testing.T) {
	o := Offset{DX: 1, DY: -1}
	if got := o.Orient(Red); got != o {
		t.Errorf("Red orientation changed offset: got %v, want %v", got, o)
	}
	want := Offset{DX: -1, DY: 1}
	if got := o.Orient(Blue); got != want {
		t.Errorf("Blue orientation = %v, want %v", got, want)
	}
}

func TestCoordinateIndexRoundTrip(t *testing.T) {
	width := 5
	for y := 0; y < 4; y++ {
		for x := 0; x < width; x++ {
			c := Coordinate{X: x, Y: y}
			idx := c.Index(width)
			got := CoordinateFromIndex(idx, width)
			if got != c {
				t.Errorf("CoordinateFromIndex(%d, %d) = %v, want %v", idx, width, got, c)
			}
		}
	}
}

func TestCoordinateOnBoard(t *testing.T) {
	cases := []struct {
		c    Coordinate
		want bool
	}{
		{Coordinate{0, 0}, true},
		{Coordinate{4, 6}, true},
		{Coordinate{-1, 0}, false},
		{Coordinate{5, 0}, false},
		{Coordinate{0, 7}, false},
	}
	for _, tc := range cases {
		if got := tc.c.OnBoard(5, 7); got != tc.want {
			t.Errorf("%v.OnBoard(5, 7) = %v, want %v", tc.c, got, tc.want)
		}
	}
}

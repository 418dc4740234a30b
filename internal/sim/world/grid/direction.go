package grid

import "strings"

// Direction is a compass bitmask. Passability masks list the directions a
// hero may leave a tile through; Center marks the tile itself as enterable.
type Direction uint16

const (
	TopLeft     Direction = 0x001
	Top         Direction = 0x002
	TopRight    Direction = 0x004
	Right       Direction = 0x008
	BottomRight Direction = 0x010
	Bottom      Direction = 0x020
	BottomLeft  Direction = 0x040
	Left        Direction = 0x080
	Center      Direction = 0x100

	DirectionNone Direction = 0
	DirectionAll  Direction = 0x1FF

	// Compass covers the eight neighbors without Center.
	Compass   Direction = 0x0FF
	TopRow    Direction = TopLeft | Top | TopRight
	BottomRow Direction = BottomLeft | Bottom | BottomRight
)

// Neighbors lists the eight compass directions clockwise from top-left,
// the order every neighborhood scan in this module uses.
var Neighbors = [8]Direction{TopLeft, Top, TopRight, Right, BottomRight, Bottom, BottomLeft, Left}

var directionNames = map[Direction]string{
	TopLeft:     "top_left",
	Top:         "top",
	TopRight:    "top_right",
	Right:       "right",
	BottomRight: "bottom_right",
	Bottom:      "bottom",
	BottomLeft:  "bottom_left",
	Left:        "left",
	Center:      "center",
}

// Offset returns the (dx,dy) step for a single direction. y grows downward.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case TopLeft:
		return -1, -1
	case Top:
		return 0, -1
	case TopRight:
		return 1, -1
	case Right:
		return 1, 0
	case BottomRight:
		return 1, 1
	case Bottom:
		return 0, 1
	case BottomLeft:
		return -1, 1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// Count returns the number of set bits.
func (d Direction) Count() int {
	n := 0
	for v := d; v != 0; v &= v - 1 {
		n++
	}
	return n
}

func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case DirectionAll:
		return "all"
	}
	parts := make([]string, 0, 9)
	for _, n := range append(Neighbors[:], Center) {
		if d&n != 0 {
			parts = append(parts, directionNames[n])
		}
	}
	return strings.Join(parts, "|")
}

// ParseDirection accepts a single direction name plus the aliases "all",
// "none", "compass", "top_row" and "bottom_row".
func ParseDirection(name string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "all":
		return DirectionAll, true
	case "none":
		return DirectionNone, true
	case "compass":
		return Compass, true
	case "top_row":
		return TopRow, true
	case "bottom_row":
		return BottomRow, true
	}
	for d, n := range directionNames {
		if n == strings.ToLower(strings.TrimSpace(name)) {
			return d, true
		}
	}
	return 0, false
}

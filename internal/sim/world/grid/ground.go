package grid

// Ground is a terrain type. The declaration order is significant: ground
// reduction breaks majority ties in favor of the earlier type.
type Ground uint8

const (
	Water Ground = iota
	Grass
	Snow
	Swamp
	Lava
	Desert
	Dirt
	Wasteland
	Beach

	groundCount
)

// NumGrounds is the number of ground types.
const NumGrounds = int(groundCount)

// LandGrounds are the types a biome region may be assigned.
var LandGrounds = []Ground{Grass, Snow, Swamp, Lava, Desert, Dirt, Wasteland}

var groundNames = [groundCount]string{
	"water", "grass", "snow", "swamp", "lava", "desert", "dirt", "wasteland", "beach",
}

func (g Ground) String() string {
	if g < groundCount {
		return groundNames[g]
	}
	return "unknown"
}

// Marker grounds get the soft transition set from their land neighbors.
func (g Ground) Marker() bool { return g == Water || g == Beach }

// Family describes where a ground's sprites live in the ground sheet.
type Family struct {
	Start uint16
	Count uint16
	// Hard is false for families that only carry the soft boundary set.
	Hard bool
}

const (
	BoundarySetSize = 16
)

var families = [groundCount]Family{
	Water:     {Start: 0, Count: 30},
	Grass:     {Start: 30, Count: 62, Hard: true},
	Snow:      {Start: 92, Count: 54, Hard: true},
	Swamp:     {Start: 146, Count: 62, Hard: true},
	Lava:      {Start: 208, Count: 54, Hard: true},
	Desert:    {Start: 262, Count: 59, Hard: true},
	Dirt:      {Start: 321, Count: 40, Hard: true},
	Wasteland: {Start: 361, Count: 54, Hard: true},
	Beach:     {Start: 415, Count: 17},
}

// GroundIndexLimit is one past the last valid ground sprite index.
const GroundIndexLimit = 432

func FamilyOf(g Ground) Family {
	if g >= groundCount {
		return families[Water]
	}
	return families[g]
}

// GroundOf maps a ground sprite index to its type. Out-of-range indices
// read as water.
func GroundOf(index uint16) Ground {
	for g := groundCount - 1; ; g-- {
		if index >= families[g].Start {
			if index >= families[g].Start+families[g].Count {
				return Water
			}
			return g
		}
		if g == 0 {
			return Water
		}
	}
}

// PlainOffset is the offset of the first plain variant inside a family.
func (f Family) PlainOffset() uint16 {
	if f.Hard {
		return 2 * BoundarySetSize
	}
	return BoundarySetSize
}

func (f Family) PlainCount() uint16 { return f.Count - f.PlainOffset() }

// IsPlain reports whether index is one of the family's plain variants.
func (f Family) IsPlain(index uint16) bool {
	return index >= f.Start+f.PlainOffset() && index < f.Start+f.Count
}

// Plain returns plain variant n (mod the variant count).
func (f Family) Plain(n uint64) uint16 {
	return f.Start + f.PlainOffset() + uint16(n%uint64(f.PlainCount()))
}

// Boundary returns the sprite at offset within the soft or hard boundary
// set. Families without a hard set fall back to the soft one.
func (f Family) Boundary(hard bool, offset uint16) uint16 {
	base := f.Start
	if hard && f.Hard {
		base += BoundarySetSize
	}
	return base + offset%BoundarySetSize
}

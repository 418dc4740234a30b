package grid

// Level selects which stacking group a layer belongs to.
type Level uint8

const (
	LevelBottom Level = iota
	LevelTop
)

type LayerFlags uint8

const (
	FlagAnimated LayerFlags = 1 << iota
)

// Stacking keys, lowest painted last in the bottom group.
const (
	OrderObject     uint8 = 0
	OrderBackground uint8 = 1
	OrderShadow     uint8 = 2
	OrderTerrain    uint8 = 3
)

// SheetID identifies an icon sheet (6 bits in the legacy format).
type SheetID uint8

// SpriteLayer is one image reference attached to a tile.
type SpriteLayer struct {
	Sheet SheetID
	Index uint8
	Flags LayerFlags
	Order uint8
	Level Level
	UID   uint32
}

func (l SpriteLayer) Animated() bool { return l.Flags&FlagAnimated != 0 }

// SpriteInfo is what the catalog knows about one sprite.
type SpriteInfo struct {
	Class       Class
	Action      bool
	Passability Direction
	Animated    bool
}

// SpriteInfoSource resolves intrinsic sprite properties. Known reports
// whether a sheet exists at all.
type SpriteInfoSource interface {
	SpriteInfo(sheet SheetID, index uint8) SpriteInfo
	Known(sheet SheetID) bool
}

type openSource struct{}

func (openSource) SpriteInfo(SheetID, uint8) SpriteInfo {
	return SpriteInfo{Passability: DirectionAll}
}

func (openSource) Known(SheetID) bool { return true }

// OpenSource treats every sprite as a passable, non-interactive decoration.
var OpenSource SpriteInfoSource = openSource{}

package grid

import (
	"fmt"
	"strings"
)

// Class classifies what occupies a tile. The high bit marks the
// interactive ("action") variant of a class.
type Class uint8

const ClassActionFlag Class = 0x80

const (
	ClassNone      Class = 0x00
	ClassArtifact  Class = 0x02
	ClassResource  Class = 0x03
	ClassEvent     Class = 0x13
	ClassMonster   Class = 0x18
	ClassCastle    Class = 0x23
	ClassMountains Class = 0x26
	ClassSphinx    Class = 0x2C
	ClassHeroes    Class = 0x37
	ClassTrees     Class = 0x3A
	ClassRocks     Class = 0x3B
	ClassSign      Class = 0x4A
	ClassBottle    Class = 0x53
	ClassJail      Class = 0x7B
)

var classNames = map[Class]string{
	ClassNone:      "NONE",
	ClassArtifact:  "ARTIFACT",
	ClassResource:  "RESOURCE",
	ClassEvent:     "EVENT",
	ClassMonster:   "MONSTER",
	ClassCastle:    "CASTLE",
	ClassMountains: "MOUNTAINS",
	ClassSphinx:    "SPHINX",
	ClassHeroes:    "HEROES",
	ClassTrees:     "TREES",
	ClassRocks:     "ROCKS",
	ClassSign:      "SIGN",
	ClassBottle:    "BOTTLE",
	ClassJail:      "JAIL",
}

func (c Class) IsAction() bool { return c&ClassActionFlag != 0 }

func (c Class) Base() Class { return c &^ ClassActionFlag }

func (c Class) Action() Class { return c | ClassActionFlag }

func (c Class) String() string {
	name, ok := classNames[c.Base()]
	if !ok {
		name = fmt.Sprintf("0x%02X", uint8(c.Base()))
	}
	if c.IsAction() {
		return "ACTION_" + name
	}
	return name
}

func ParseClass(name string) (Class, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for c, n := range classNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

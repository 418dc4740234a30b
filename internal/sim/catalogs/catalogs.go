package catalogs

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mapedit.ai/internal/sim/world/grid"
)

//go:embed default_sprites.yaml
var defaultSprites []byte

// Catalog maps icon sheets to the intrinsic properties of their sprites.
// It implements grid.SpriteInfoSource.
type Catalog struct {
	Sheets map[grid.SheetID]*SheetDef
	ByName map[string]grid.SheetID
	Digest string
}

type SheetDef struct {
	ID          int           `yaml:"id"`
	Name        string        `yaml:"name"`
	Class       string        `yaml:"class"`
	Animated    bool          `yaml:"animated"`
	Passability []string      `yaml:"passability"`
	Actions     []ActionRange `yaml:"actions"`

	class grid.Class
	pass  grid.Direction
}

type ActionRange struct {
	From        int      `yaml:"from"`
	To          int      `yaml:"to"`
	Class       string   `yaml:"class"`
	Passability []string `yaml:"passability"`

	class grid.Class
	pass  grid.Direction
}

type catalogFile struct {
	Sheets []*SheetDef `yaml:"sheets"`
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultSprites)
	if err != nil {
		panic(fmt.Sprintf("default sprite catalog: %v", err))
	}
	return c
}

func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("sprites yaml: %w", err)
	}
	c := &Catalog{
		Sheets: map[grid.SheetID]*SheetDef{},
		ByName: map[string]grid.SheetID{},
		Digest: sha256Hex(raw),
	}
	for _, s := range f.Sheets {
		if s == nil {
			continue
		}
		if s.ID < 0 || s.ID > 63 {
			return nil, fmt.Errorf("sheet %q: id %d out of range", s.Name, s.ID)
		}
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("sheet %d: empty name", s.ID)
		}
		id := grid.SheetID(s.ID)
		if _, dup := c.Sheets[id]; dup {
			return nil, fmt.Errorf("sheet %d: duplicate id", s.ID)
		}
		if _, dup := c.ByName[s.Name]; dup {
			return nil, fmt.Errorf("sheet %q: duplicate name", s.Name)
		}
		var err error
		if s.class, err = parseClass(s.Class); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		if s.pass, err = parseMask(s.Passability); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		for i := range s.Actions {
			a := &s.Actions[i]
			if a.From < 0 || a.To > 255 || a.From > a.To {
				return nil, fmt.Errorf("sheet %q: bad action range %d..%d", s.Name, a.From, a.To)
			}
			if a.class, err = parseClass(a.Class); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
			}
			if a.pass, err = parseMask(a.Passability); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
			}
		}
		c.Sheets[id] = s
		c.ByName[s.Name] = id
	}
	return c, nil
}

func parseClass(name string) (grid.Class, error) {
	if strings.TrimSpace(name) == "" {
		return grid.ClassNone, nil
	}
	cl, ok := grid.ParseClass(name)
	if !ok {
		return 0, fmt.Errorf("unknown class %q", name)
	}
	return cl, nil
}

// parseMask ORs direction names together; an empty list means all.
func parseMask(names []string) (grid.Direction, error) {
	if len(names) == 0 {
		return grid.DirectionAll, nil
	}
	var m grid.Direction
	for _, n := range names {
		d, ok := grid.ParseDirection(n)
		if !ok {
			return 0, fmt.Errorf("unknown direction %q", n)
		}
		m |= d
	}
	return m, nil
}

func (c *Catalog) Known(sheet grid.SheetID) bool {
	_, ok := c.Sheets[sheet]
	return ok
}

func (c *Catalog) SpriteInfo(sheet grid.SheetID, index uint8) grid.SpriteInfo {
	s, ok := c.Sheets[sheet]
	if !ok {
		return grid.SpriteInfo{Passability: grid.DirectionAll}
	}
	for _, a := range s.Actions {
		if int(index) >= a.From && int(index) <= a.To {
			return grid.SpriteInfo{Class: a.class, Action: true, Passability: a.pass, Animated: s.Animated}
		}
	}
	return grid.SpriteInfo{Class: s.class, Passability: s.pass, Animated: s.Animated}
}

// Sheet looks a sheet up by name.
func (c *Catalog) Sheet(name string) (grid.SheetID, bool) {
	id, ok := c.ByName[name]
	return id, ok
}

// SheetForAction returns the first sheet (by id) carrying an action range of
// the given class, used when an object is placed without explicit art.
func (c *Catalog) SheetForAction(cl grid.Class) (grid.SheetID, uint8, bool) {
	ids := make([]int, 0, len(c.Sheets))
	for id := range c.Sheets {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for _, id := range ids {
		for _, a := range c.Sheets[grid.SheetID(id)].Actions {
			if a.class == cl.Base() {
				return grid.SheetID(id), uint8(a.From), true
			}
		}
	}
	return 0, 0, false
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

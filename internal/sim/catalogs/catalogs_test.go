package catalogs

import (
	"os"
	"path/filepath"
	"testing"

	"mapedit.ai/internal/sim/world/grid"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Digest == "" {
		t.Fatalf("missing digest")
	}
	town, ok := c.Sheet("OBJNTOWN")
	if !ok {
		t.Fatalf("OBJNTOWN missing")
	}
	entrance := c.SpriteInfo(town, 3)
	if !entrance.Action || entrance.Class != grid.ClassCastle {
		t.Fatalf("town entrance: %+v", entrance)
	}
	if entrance.Passability != grid.BottomRow|grid.Center {
		t.Fatalf("town entrance passability: %v", entrance.Passability)
	}
	wall := c.SpriteInfo(town, 30)
	if wall.Action || wall.Passability != grid.DirectionNone {
		t.Fatalf("town wall: %+v", wall)
	}
	if c.Known(grid.SheetID(63)) {
		t.Fatalf("sheet 63 should be unknown")
	}
	if got := c.SpriteInfo(grid.SheetID(63), 0); got.Passability != grid.DirectionAll || got.Action {
		t.Fatalf("unknown sheet info: %+v", got)
	}
}

func TestSheetForAction(t *testing.T) {
	c := Default()
	id, idx, ok := c.SheetForAction(grid.ClassSign)
	if !ok {
		t.Fatalf("no sign sheet")
	}
	if info := c.SpriteInfo(id, idx); !info.Action || info.Class != grid.ClassSign {
		t.Fatalf("sign sprite: %+v", info)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"dup id":      "sheets:\n  - {id: 1, name: A}\n  - {id: 1, name: B}\n",
		"bad class":   "sheets:\n  - {id: 1, name: A, class: DRAGON}\n",
		"bad dir":     "sheets:\n  - {id: 1, name: A, passability: [up]}\n",
		"id range":    "sheets:\n  - {id: 64, name: A}\n",
		"empty name":  "sheets:\n  - {id: 2}\n",
		"bad range":   "sheets:\n  - {id: 1, name: A, actions: [{from: 5, to: 2}]}\n",
		"not a yaml":  "sheets: [",
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprites.yaml")
	raw := "sheets:\n  - id: 7\n    name: TEST\n    class: ROCKS\n    passability: [top, center]\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	info := c.SpriteInfo(7, 0)
	if info.Class != grid.ClassRocks || info.Passability != grid.Top|grid.Center {
		t.Fatalf("info: %+v", info)
	}
}

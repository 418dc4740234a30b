// Package mp2codec reads the legacy fixed-layout map format.
package mp2codec

import (
	"fmt"
	"io"
	"log"

	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/objects"
)

// Map is a decoded legacy file: the tile grid plus pending objects whose
// UIDs have not been bound to their anchoring layers yet.
type Map struct {
	Header Header
	Grid   *grid.Grid

	Towns     []*objects.Town
	Heroes    []*objects.Hero
	Signs     []*objects.Sign
	Events    []*objects.Event
	Sphinxes  []*objects.Sphinx
	Resources []*objects.Resource
	Monsters  []*objects.Monster
	Artifacts []*objects.Artifact

	Rumors      []objects.Rumor
	DayEvents   []objects.DayEvent
	TownSlots   []objects.TownSlot
	Capturables []objects.Capturable
	Obelisks    int

	UIDCounter uint32
	Warnings   []Warning
}

type decoder struct {
	src    grid.SpriteInfoSource
	logger *log.Logger
	ext    []rawExtension
	m      *Map
}

func (d *decoder) warn(offset int, format string, args ...any) {
	w := Warning{Offset: offset, Msg: fmt.Sprintf(format, args...)}
	d.m.Warnings = append(d.m.Warnings, w)
	d.logger.Printf("warning %s", w)
}

// Decode parses raw into a Map. Any read past the end of raw is fatal and
// returns a *DecodeError with a nil Map; unknown sprite sheets, broken
// extension chains and malformed special blocks are skipped and recorded
// as warnings. logger may be nil.
func Decode(raw []byte, src grid.SpriteInfoSource, logger *log.Logger) (*Map, error) {
	if src == nil {
		src = grid.OpenSource
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	r := newReader(raw)

	hdr, err := decodeHeader(r)
	if err != nil {
		return nil, err
	}
	tiles, err := decodeTiles(r, hdr.Width*hdr.Height)
	if err != nil {
		return nil, err
	}
	ext, err := decodeExtensions(r)
	if err != nil {
		return nil, err
	}
	towns, err := decodeCoordTable(r, "town table", TownSlots)
	if err != nil {
		return nil, err
	}
	caps, err := decodeCoordTable(r, "capturable table", CapturableSlots)
	if err != nil {
		return nil, err
	}
	obelisks, err := r.u8("obelisks")
	if err != nil {
		return nil, err
	}
	blocks, err := decodeBlocks(r)
	if err != nil {
		return nil, err
	}
	uidCounter, err := r.u32("uid counter")
	if err != nil {
		return nil, err
	}
	if r.remaining() > 0 {
		logger.Printf("ignoring %d trailing bytes", r.remaining())
	}

	// Everything is read; only now build the grid and objects.
	g, err := grid.New(hdr.Width, hdr.Height, src)
	if err != nil {
		return nil, &DecodeError{Offset: offWidth, Op: "header", Err: err}
	}
	d := &decoder{
		src:    src,
		logger: logger,
		ext:    ext,
		m: &Map{
			Header:     hdr,
			Grid:       g,
			Obelisks:   int(obelisks),
			UIDCounter: uidCounter,
		},
	}
	for _, e := range towns {
		d.m.TownSlots = append(d.m.TownSlots, objects.TownSlot{Pos: grid.Point{X: int(e[0]), Y: int(e[1])}, Type: e[2]})
	}
	for _, e := range caps {
		d.m.Capturables = append(d.m.Capturables, objects.Capturable{Pos: grid.Point{X: int(e[0]), Y: int(e[1])}, Type: e[2]})
	}

	owners := map[int]int{}
	for i, t := range tiles {
		p := g.PointOf(i)
		g.SetGround(p, t.ground, grid.Flip(t.flags&0x03))
		g.ReplaceLayers(p, d.tileLayers(t))

		if ownsBlock(t.objectType) {
			if n := t.blockNumber(); n > 0 {
				if _, dup := owners[n]; dup {
					d.warn(t.offset, "block %d claimed twice; keeping first owner", n)
				} else {
					owners[n] = i
				}
			}
		}
	}

	for i, b := range blocks {
		if ti, ok := owners[i+1]; ok {
			d.applyOwnedBlock(b, tiles[ti], g.PointOf(ti))
			continue
		}
		d.applyLooseBlock(b)
	}

	d.collectTileObjects(tiles)
	return d.m, nil
}

// collectTileObjects emits resources, monsters and artifacts, which carry
// no special block: their type is the action sprite index and their
// amount lives in the quantity bytes.
func (d *decoder) collectTileObjects(tiles []rawTile) {
	g := d.m.Grid
	for i, t := range tiles {
		tile := g.TileAt(i)
		cl := tile.Class()
		if !cl.IsAction() {
			continue
		}
		act, ok := tile.ActionLayer(d.src)
		if !ok {
			continue
		}
		hdr := objects.Header{Pos: g.PointOf(i)}
		switch cl.Base() {
		case grid.ClassResource:
			d.m.Resources = append(d.m.Resources, &objects.Resource{Header: hdr, Type: act.Index, Amount: t.quantity()})
		case grid.ClassMonster:
			d.m.Monsters = append(d.m.Monsters, &objects.Monster{Header: hdr, MonsterID: act.Index, Count: t.quantity()})
		case grid.ClassArtifact:
			d.m.Artifacts = append(d.m.Artifacts, &objects.Artifact{Header: hdr, ArtifactID: act.Index})
		}
	}
}

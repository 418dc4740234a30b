package mp2codec_test

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapedit.ai/internal/sim/catalogs"
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/io/mp2codec"
	"mapedit.ai/internal/sim/world/io/mp2codec/mp2test"
	"mapedit.ai/internal/sim/world/objects"
)

const (
	sheetResource = 18
	sheetTown     = 20
	sheetHero     = 22
	sheetSign     = 24
	sheetSphinx   = 27
	sheetJail     = 28
	sheetTree     = 30
	sheetRoad     = 34
)

func decode(t *testing.T, b *mp2test.Builder) *mp2codec.Map {
	t.Helper()
	m, err := mp2codec.Decode(b.Bytes(), catalogs.Default(), nil)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func hasWarning(m *mp2codec.Map, substr string) bool {
	for _, w := range m.Warnings {
		if strings.Contains(w.Msg, substr) {
			return true
		}
	}
	return false
}

func TestDecodeHeaderAndGround(t *testing.T) {
	b := mp2test.New(5, 4)
	b.Name = "Twin Rivers"
	b.Description = "Two players, one bridge."
	b.Difficulty = 2
	b.Kingdom = 0x03
	b.Human = 0x01
	b.Computer = 0x02
	b.UIDCounter = 42
	b.Tile(1, 2).Ground = 3
	b.Tile(1, 2).Flip = 2

	m := decode(t, b)
	assert.Equal(t, "Twin Rivers", m.Header.Name)
	assert.Equal(t, "Two players, one bridge.", m.Header.Description)
	assert.Equal(t, uint16(2), m.Header.Difficulty)
	assert.Equal(t, uint8(0x03), m.Header.KingdomColors)
	assert.Equal(t, uint8(0x01), m.Header.HumanColors)
	assert.Equal(t, uint8(0x02), m.Header.ComputerColors)
	assert.Equal(t, 5, m.Grid.Width())
	assert.Equal(t, 4, m.Grid.Height())
	assert.Equal(t, uint32(42), m.UIDCounter)
	assert.Empty(t, m.Warnings)

	tile := m.Grid.At(grid.Point{X: 1, Y: 2})
	assert.Equal(t, grid.Water, tile.GroundType())
	assert.Equal(t, grid.FlipHorizontal, tile.Flip)
	assert.Equal(t, grid.Grass, m.Grid.At(grid.Point{}).GroundType())
}

func TestDecodeTileObjects(t *testing.T) {
	b := mp2test.New(4, 4)
	res := b.Tile(1, 1)
	res.Bottom = &mp2test.Layer{Sheet: sheetResource, Index: 6, UID: 5}
	res.ObjectType = uint8(grid.ClassResource.Action())
	res.Quantity = 300

	tree := b.Tile(2, 2)
	tree.Bottom = &mp2test.Layer{Sheet: sheetTree, Index: 3, UID: 9}
	tree.Top = &mp2test.Layer{Sheet: sheetTree, Index: 4, UID: 9}

	m := decode(t, b)
	require.Len(t, m.Resources, 1)
	assert.Equal(t, grid.Point{X: 1, Y: 1}, m.Resources[0].Pos)
	assert.Equal(t, uint8(6), m.Resources[0].Type)
	assert.Equal(t, uint32(300), m.Resources[0].Amount)

	rt := m.Grid.At(grid.Point{X: 1, Y: 1})
	assert.Equal(t, grid.ClassResource.Action(), rt.Class())
	assert.Equal(t, grid.DirectionAll, rt.Passability())

	tt := m.Grid.At(grid.Point{X: 2, Y: 2})
	assert.Equal(t, grid.ClassTrees, tt.Class())
	assert.Equal(t, grid.Direction(0), tt.Passability())
	require.Len(t, tt.Top, 1)
	assert.Equal(t, grid.LevelTop, tt.Top[0].Level)
}

func TestDecodeOwnedBlocks(t *testing.T) {
	b := mp2test.New(8, 8)

	town := b.Tile(2, 3)
	town.Bottom = &mp2test.Layer{Sheet: sheetTown, Index: 1, UID: 11}
	b.Own(2, 3, uint8(grid.ClassCastle.Action()), b.AddBlock(mp2test.TownBlock("Highgarden", 1, 2, true)))

	hero := b.Tile(5, 5)
	hero.Bottom = &mp2test.Layer{Sheet: sheetHero, Index: 0, UID: 12}
	b.Own(5, 5, uint8(grid.ClassHeroes.Action()), b.AddBlock(mp2test.HeroBlock("Lord Kilburn", 7, 1500)))

	jail := b.Tile(6, 1)
	jail.Bottom = &mp2test.Layer{Sheet: sheetJail, Index: 0, UID: 13}
	b.Own(6, 1, uint8(grid.ClassJail.Action()), b.AddBlock(mp2test.HeroBlock("Prisoner", 3, 0)))

	sign := b.Tile(0, 7)
	sign.Bottom = &mp2test.Layer{Sheet: sheetSign, Index: 0, UID: 14}
	b.Own(0, 7, uint8(grid.ClassSign.Action()), b.AddBlock(mp2test.SignBlock("Beware of dragons")))

	b.Own(3, 6, uint8(grid.ClassEvent.Action()), b.AddBlock(mp2test.EventBlock(500, 0x05, "You find a purse")))

	sphinx := b.Tile(7, 7)
	sphinx.Bottom = &mp2test.Layer{Sheet: sheetSphinx, Index: 0, UID: 15}
	b.Own(7, 7, uint8(grid.ClassSphinx.Action()), b.AddBlock(mp2test.SphinxBlock("What walks on four legs?", "man", "human")))

	m := decode(t, b)
	assert.Empty(t, m.Warnings)

	require.Len(t, m.Towns, 1)
	assert.Equal(t, "Highgarden", m.Towns[0].Name)
	assert.Equal(t, grid.Point{X: 2, Y: 3}, m.Towns[0].Pos)
	assert.Equal(t, uint8(objects.ColorGreen), m.Towns[0].Color)
	assert.Equal(t, uint8(2), m.Towns[0].Race)
	assert.True(t, m.Towns[0].IsCastle)

	require.Len(t, m.Heroes, 2)
	byName := map[string]*objects.Hero{}
	for _, h := range m.Heroes {
		byName[h.Name] = h
	}
	require.Contains(t, byName, "Lord Kilburn")
	assert.False(t, byName["Lord Kilburn"].Jailed)
	assert.Equal(t, uint32(1500), byName["Lord Kilburn"].Experience)
	assert.Equal(t, uint8(objects.ColorNone), byName["Lord Kilburn"].Color)
	require.Contains(t, byName, "Prisoner")
	assert.True(t, byName["Prisoner"].Jailed)

	require.Len(t, m.Signs, 1)
	assert.Equal(t, "Beware of dragons", m.Signs[0].Text)
	assert.False(t, m.Signs[0].Bottle)

	require.Len(t, m.Events, 1)
	assert.Equal(t, int32(500), m.Events[0].Resources[objects.Gold])
	assert.Equal(t, uint8(0x05), m.Events[0].Colors)
	assert.Equal(t, "You find a purse", m.Events[0].Message)

	require.Len(t, m.Sphinxes, 1)
	assert.Equal(t, "What walks on four legs?", m.Sphinxes[0].Question)
	assert.Equal(t, []string{"man", "human"}, m.Sphinxes[0].Answers)
}

func TestDecodeLooseBlocks(t *testing.T) {
	b := mp2test.New(3, 3)
	b.AddBlock(mp2test.RumorBlock("The wizard is out"))
	b.AddBlock(mp2test.DayEventBlock(3, 7, "Harvest festival"))
	b.AddBlock(mp2test.RumorBlock(""))

	m := decode(t, b)
	require.Len(t, m.Rumors, 1)
	assert.Equal(t, "The wizard is out", m.Rumors[0].Text)
	require.Len(t, m.DayEvents, 1)
	assert.Equal(t, uint16(3), m.DayEvents[0].FirstDay)
	assert.Equal(t, uint16(7), m.DayEvents[0].RepeatPeriod)
	assert.Equal(t, "Harvest festival", m.DayEvents[0].Message)
}

func TestDecodeBadBlockIsWarning(t *testing.T) {
	b := mp2test.New(4, 4)
	b.Tile(1, 1).Bottom = &mp2test.Layer{Sheet: sheetTown, Index: 0, UID: 3}
	b.Own(1, 1, uint8(grid.ClassCastle.Action()), b.AddBlock(make([]byte, 12)))

	m := decode(t, b)
	assert.Empty(t, m.Towns)
	assert.True(t, hasWarning(m, "town block"), "warnings: %v", m.Warnings)
}

func TestDecodeDuplicateOwnerKeepsFirst(t *testing.T) {
	b := mp2test.New(4, 4)
	i := b.AddBlock(mp2test.SignBlock("first"))
	b.Own(0, 0, uint8(grid.ClassSign.Action()), i)
	b.Own(3, 3, uint8(grid.ClassSign.Action()), i)

	m := decode(t, b)
	require.Len(t, m.Signs, 1)
	assert.Equal(t, grid.Point{}, m.Signs[0].Pos)
	assert.True(t, hasWarning(m, "claimed twice"))
}

func TestDecodeUnknownSheetDropped(t *testing.T) {
	b := mp2test.New(2, 2)
	b.Tile(0, 0).Bottom = &mp2test.Layer{Sheet: 60, Index: 1, UID: 4}

	m := decode(t, b)
	assert.Empty(t, m.Grid.At(grid.Point{}).Layers())
	assert.True(t, hasWarning(m, "unknown sprite sheet 60"))
}

func TestDecodeExtensionChain(t *testing.T) {
	b := mp2test.New(3, 3)
	tile := b.Tile(1, 1)
	tile.Bottom = &mp2test.Layer{Sheet: sheetTree, Index: 0, UID: 8}
	tile.Extensions = []mp2test.Extension{
		{Bottom: &mp2test.Layer{Sheet: sheetRoad, Index: 2, Order: 3, UID: 20}},
		{Top: &mp2test.Layer{Sheet: sheetTree, Index: 1, UID: 8}},
	}

	m := decode(t, b)
	assert.Empty(t, m.Warnings)
	got := m.Grid.At(grid.Point{X: 1, Y: 1})
	assert.Len(t, got.Bottom, 2)
	assert.Len(t, got.Top, 1)
	assert.True(t, got.HasUID(20))
}

func TestDecodeExtensionCycleIsCut(t *testing.T) {
	b := mp2test.New(2, 2)
	tile := b.Tile(0, 0)
	tile.Extensions = []mp2test.Extension{{}}

	// record 1 points at itself
	var loop [15]byte
	loop[0] = 1
	loop[2] = sheetRoad<<2 | 3
	loop[3] = 5
	b.RawExtensions = [][15]byte{{}, loop}

	m := decode(t, b)
	assert.True(t, hasWarning(m, "loops"))
	assert.Len(t, m.Grid.At(grid.Point{}).Bottom, 1)
}

func TestDecodeExtensionOutOfRange(t *testing.T) {
	b := mp2test.New(2, 2)
	b.Tile(1, 0).Extensions = []mp2test.Extension{{}}
	b.RawExtensions = [][15]byte{{}}

	m := decode(t, b)
	assert.True(t, hasWarning(m, "out of range"))
}

func TestDecodeCoordTables(t *testing.T) {
	b := mp2test.New(6, 6)
	b.TownSlots = [][3]uint8{{1, 2, 0x80}, {4, 4, 0x01}}
	b.Capturables = [][3]uint8{{3, 0, 0x64}}
	b.Obelisks = 4

	m := decode(t, b)
	require.Len(t, m.TownSlots, 2)
	assert.Equal(t, grid.Point{X: 1, Y: 2}, m.TownSlots[0].Pos)
	assert.Equal(t, uint8(0x80), m.TownSlots[0].Type)
	require.Len(t, m.Capturables, 1)
	assert.Equal(t, uint8(0x64), m.Capturables[0].Type)
	assert.Equal(t, 4, m.Obelisks)
}

func TestDecodeTruncatedIsFatal(t *testing.T) {
	raw := mp2test.New(4, 4).Bytes()
	for _, n := range []int{0, 100, mp2codec.HeaderSize + 3*mp2codec.TileSize, len(raw) - 1} {
		m, err := mp2codec.Decode(raw[:n], catalogs.Default(), nil)
		require.Error(t, err, "len %d", n)
		assert.Nil(t, m)
		var de *mp2codec.DecodeError
		require.True(t, errors.As(err, &de))
		assert.True(t, errors.Is(err, mp2codec.ErrTruncated), "len %d: %v", n, err)
	}
}

func TestDecodeRejectsBadHeader(t *testing.T) {
	raw := mp2test.New(2, 2).Bytes()
	bad := append([]byte(nil), raw...)
	bad[0] = 0x5D
	_, err := mp2codec.Decode(bad, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad magic")

	bad = append([]byte(nil), raw...)
	bad[0x1A4], bad[0x1A5] = 0, 0
	_, err = mp2codec.Decode(bad, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad map size")
}

func TestDecodeLogsTrailingBytes(t *testing.T) {
	raw := append(mp2test.New(2, 2).Bytes(), 1, 2, 3)
	var buf bytes.Buffer
	m, err := mp2codec.Decode(raw, catalogs.Default(), log.New(&buf, "", 0))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Contains(t, buf.String(), "ignoring 3 trailing bytes")
}

package gen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapedit.ai/internal/sim/tuning"
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/logic/mathx"
	"mapedit.ai/internal/sim/world/terrain/autotile"
)

func newGrid(t *testing.T, w, h int) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h, nil)
	require.NoError(t, err)
	return g
}

func sprites(g *grid.Grid) []uint32 {
	out := make([]uint32, 0, g.Len())
	g.Each(func(_ grid.Point, t *grid.Tile) {
		out = append(out, uint32(t.Ground)<<2|uint32(t.Flip))
	})
	return out
}

func defaults(seed int64) Params {
	return FromTuning(seed, tuning.Defaults().Generator)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, b := newGrid(t, 36, 36), newGrid(t, 36, 36)
	require.NoError(t, Generate(context.Background(), a, defaults(99)))
	require.NoError(t, Generate(context.Background(), b, defaults(99)))
	assert.Equal(t, sprites(a), sprites(b))

	c := newGrid(t, 36, 36)
	require.NoError(t, Generate(context.Background(), c, defaults(100)))
	assert.NotEqual(t, sprites(a), sprites(c))
}

func TestGenerateStepZeroIsRawBiomeFill(t *testing.T) {
	g := newGrid(t, 30, 21)
	p := defaults(5)
	p.InitialStep = 0
	require.NoError(t, Generate(context.Background(), g, p))

	biomes := PickBiomes(mathx.NewRand(5))
	g.Each(func(pt grid.Point, tile *grid.Tile) {
		want := biomes.At(pt.X, pt.Y, 30, 21)
		assert.Equal(t, want, tile.GroundType(), "at %v", pt)
		assert.Equal(t, autotile.PlainAt(want, pt), tile.Ground, "at %v", pt)
	})
}

func TestGenerateLevels(t *testing.T) {
	g := newGrid(t, 16, 16)
	p := defaults(1)
	p.WaterLevel, p.BeachLevel = 100, 100
	require.NoError(t, Generate(context.Background(), g, p))
	for _, gr := range g.GroundSummary() {
		require.Equal(t, grid.Water, gr)
	}

	p.WaterLevel, p.BeachLevel = -100, 100
	require.NoError(t, Generate(context.Background(), g, p))
	for _, gr := range g.GroundSummary() {
		require.Equal(t, grid.Beach, gr)
	}
}

func TestGenerateOutputIsNormalized(t *testing.T) {
	g := newGrid(t, 40, 28)
	require.NoError(t, Generate(context.Background(), g, defaults(17)))
	assert.Zero(t, autotile.BoundaryPass(g, g.Bounds()))
}

func TestGenerateKeepsLayers(t *testing.T) {
	g := newGrid(t, 8, 8)
	p := grid.Point{X: 3, Y: 4}
	g.AddLayer(p, grid.SpriteLayer{Sheet: 30, Index: 1, UID: 7})
	require.NoError(t, Generate(context.Background(), g, defaults(3)))
	assert.True(t, g.At(p).HasUID(7))
}

func TestGenerateCancelledLeavesGridUntouched(t *testing.T) {
	g := newGrid(t, 32, 32)
	before := sprites(g)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Generate(ctx, g, defaults(8))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, before, sprites(g))
}

func TestGenerateRejectsBadParams(t *testing.T) {
	g := newGrid(t, 4, 4)
	p := defaults(1)
	p.Smoothness = 0
	assert.Error(t, Generate(context.Background(), g, p))
	p = defaults(1)
	p.InitialStep = -2
	assert.Error(t, Generate(context.Background(), g, p))
}

func TestHeightsIsDeterministic(t *testing.T) {
	f, err := Heights(context.Background(), 13, 9, 8, 4, 2, mathx.NewRand(11))
	require.NoError(t, err)
	require.Len(t, f.V, 13*9)

	g, err := Heights(context.Background(), 13, 9, 8, 4, 2, mathx.NewRand(11))
	require.NoError(t, err)
	assert.Equal(t, f.V, g.V)
}

func TestFloorPow2(t *testing.T) {
	cases := map[int]int{0: 0, -3: 0, 1: 1, 2: 2, 3: 2, 16: 16, 17: 16, 100: 64}
	for in, want := range cases {
		assert.Equal(t, want, floorPow2(in), "floorPow2(%d)", in)
	}
}

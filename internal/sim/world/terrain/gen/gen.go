// Package gen fills a grid with procedurally generated terrain.
package gen

import (
	"context"
	"fmt"

	"mapedit.ai/internal/sim/tuning"
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/logic/mathx"
	"mapedit.ai/internal/sim/world/terrain/autotile"
)

type Params struct {
	Seed int64
	// InitialStep is the lattice spacing of the first pass. It is rounded
	// down to a power of two; zero skips the height field entirely.
	InitialStep int
	// Roughness bounds the noise of the first pass.
	Roughness float64
	// Smoothness divides the roughness after every pass.
	Smoothness float64
	WaterLevel float64
	BeachLevel float64
}

func FromTuning(seed int64, t tuning.Generator) Params {
	return Params{
		Seed:        seed,
		InitialStep: t.InitialStep,
		Roughness:   t.Roughness,
		Smoothness:  t.Smoothness,
		WaterLevel:  t.WaterLevel,
		BeachLevel:  t.BeachLevel,
	}
}

func (p Params) Validate() error {
	if p.InitialStep < 0 {
		return fmt.Errorf("initial step %d < 0", p.InitialStep)
	}
	if p.Smoothness <= 0 {
		return fmt.Errorf("smoothness %v must be > 0", p.Smoothness)
	}
	return nil
}

// Biomes partitions a map into a 3x3 array of land grounds.
type Biomes [3][3]grid.Ground

func PickBiomes(rng *mathx.Rand) Biomes {
	var b Biomes
	for ry := range b {
		for rx := range b[ry] {
			b[ry][rx] = grid.LandGrounds[rng.Intn(len(grid.LandGrounds))]
		}
	}
	return b
}

// At returns the ground of the region containing (x,y) on a w x h map.
func (b Biomes) At(x, y, w, h int) grid.Ground {
	rx := mathx.ClampInt(x*3/w, 0, 2)
	ry := mathx.ClampInt(y*3/h, 0, 2)
	return b[ry][rx]
}

// Generate replaces the ground of every tile of g. Layers are kept. The
// work happens on a scratch copy that is committed only after the last
// pass, so a cancelled ctx leaves g untouched and returns ctx.Err().
func Generate(ctx context.Context, g *grid.Grid, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	w, h := g.Width(), g.Height()
	rng := mathx.NewRand(p.Seed)
	biomes := PickBiomes(rng)

	scratch := g.Clone()
	if step := floorPow2(p.InitialStep); step == 0 {
		scratch.Each(func(pt grid.Point, _ *grid.Tile) {
			gr := biomes.At(pt.X, pt.Y, w, h)
			scratch.SetGround(pt, autotile.PlainAt(gr, pt), grid.FlipNone)
		})
	} else {
		f, err := Heights(ctx, w, h, step, p.Roughness, p.Smoothness, rng)
		if err != nil {
			return err
		}
		scratch.Each(func(pt grid.Point, _ *grid.Tile) {
			gr := classify(f.At(pt.X, pt.Y), p, biomes.At(pt.X, pt.Y, w, h))
			scratch.SetGround(pt, autotile.PlainAt(gr, pt), grid.FlipNone)
		})
		if err := ctx.Err(); err != nil {
			return err
		}
		autotile.Reduce(scratch, scratch.Bounds())
		if err := ctx.Err(); err != nil {
			return err
		}
		autotile.BoundaryPass(scratch, scratch.Bounds())
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	g.Each(func(pt grid.Point, _ *grid.Tile) {
		st := scratch.At(pt)
		g.SetGround(pt, st.Ground, st.Flip)
	})
	return nil
}

func classify(h float64, p Params, biome grid.Ground) grid.Ground {
	switch {
	case h < p.WaterLevel:
		return grid.Water
	case h < p.BeachLevel:
		return grid.Beach
	}
	return biome
}

func floorPow2(n int) int {
	if n <= 0 {
		return 0
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}

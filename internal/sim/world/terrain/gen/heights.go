package gen

import (
	"context"

	"mapedit.ai/internal/sim/world/logic/mathx"
)

// Field is a w x h height field in row-major order.
type Field struct {
	W, H int
	V    []float64
}

func (f *Field) At(x, y int) float64 { return f.V[x+y*f.W] }

func (f *Field) in(x, y int) bool { return x >= 0 && y >= 0 && x < f.W && y < f.H }

var (
	diagonals  = [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	orthogonal = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
)

// Heights runs diamond-square midpoint displacement. step must be a power
// of two. The lattice points step apart get noise in [-roughness,
// roughness); every later pass halves the step and divides the roughness
// by smoothness. ctx is checked before each diamond and square pass.
func Heights(ctx context.Context, w, h, step int, roughness, smoothness float64, rng *mathx.Rand) (*Field, error) {
	f := &Field{W: w, H: h, V: make([]float64, w*h)}
	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			f.V[x+y*w] = rng.Span(roughness)
		}
	}

	for ; step > 1; step /= 2 {
		half := step / 2
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// diamond: centers of lattice squares
		for y := half; y < h; y += step {
			for x := half; x < w; x += step {
				f.displace(x, y, half, diagonals, roughness, rng)
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// square: edge midpoints
		for y := 0; y < h; y += half {
			start := half
			if (y/half)%2 == 1 {
				start = 0
			}
			for x := start; x < w; x += step {
				f.displace(x, y, half, orthogonal, roughness, rng)
			}
		}
		roughness /= smoothness
	}
	return f, nil
}

func (f *Field) displace(x, y, dist int, around [4][2]int, roughness float64, rng *mathx.Rand) {
	sum, n := 0.0, 0
	for _, o := range around {
		nx, ny := x+o[0]*dist, y+o[1]*dist
		if f.in(nx, ny) {
			sum += f.At(nx, ny)
			n++
		}
	}
	avg := 0.0
	if n > 0 {
		avg = sum / float64(n)
	}
	f.V[x+y*f.W] = avg + rng.Span(roughness)
}

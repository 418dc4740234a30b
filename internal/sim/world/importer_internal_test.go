package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapedit.ai/internal/sim/catalogs"
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/objects"
)

func TestImportReportsRegistryConflict(t *testing.T) {
	src, err := NewArea(4, 4, catalogs.Default())
	require.NoError(t, err)
	_, err = src.Place(Composite{
		Parts:  []Part{{Layer: grid.SpriteLayer{Sheet: 24}, Anchor: true}},
		Object: &objects.Sign{Text: "west"},
	}, grid.Point{X: 1, Y: 1})
	require.NoError(t, err)

	dst, err := NewArea(6, 6, catalogs.Default())
	require.NoError(t, err)
	// a registry entry the allocator does not know about, outside the target
	clash := dst.uids.Peek()
	require.NoError(t, dst.objs.Add(&objects.Sign{Header: objects.Header{UID: clash, Pos: grid.Point{X: 5, Y: 5}}}))

	_, err = ImportArea(dst, src, src.Bounds(), grid.Point{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "import area")
	assert.False(t, dst.grid.At(grid.Point{X: 1, Y: 1}).HasUID(clash), "layers of the rejected clone are swept")
	o, ok := dst.objs.Get(clash)
	require.True(t, ok)
	assert.Equal(t, grid.Point{X: 5, Y: 5}, o.Head().Pos)
}

package world_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapedit.ai/internal/sim/catalogs"
	"mapedit.ai/internal/sim/world"
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/objects"
)

func populated(t *testing.T, w, h int) *world.Area {
	t.Helper()
	a := newArea(t, w, h)
	_, err := a.Place(townComposite("Alpha"), grid.Point{X: 2, Y: 2})
	require.NoError(t, err)
	_, err = a.Place(treeComposite(), grid.Point{X: 4, Y: 4})
	require.NoError(t, err)
	_, err = a.Place(single(sheetResource, 6, &objects.Resource{Type: 6, Amount: 500}), grid.Point{X: 1, Y: 4})
	require.NoError(t, err)
	_, err = a.Place(single(sheetSign, 0, &objects.Sign{Text: "east"}), grid.Point{X: 5, Y: 1})
	require.NoError(t, err)
	return a
}

func TestSelfImportKeepsContentAndRemapsEveryUID(t *testing.T) {
	a := populated(t, 6, 6)
	content := a.ContentDigest()
	before := a.UIDSet()
	next := a.NextUID()
	objs := a.Objects().Len()

	r, err := world.ImportArea(a, a, a.Bounds(), grid.Point{})
	require.NoError(t, err)
	assert.Equal(t, a.Bounds(), r)

	assert.Equal(t, content, a.ContentDigest())
	assert.Equal(t, objs, a.Objects().Len())
	for uid := range a.UIDSet() {
		_, old := before[uid]
		assert.False(t, old, "uid %d survived self-import", uid)
		assert.GreaterOrEqual(t, uid, next)
	}
	require.NoError(t, a.CheckUIDs())
}

func TestSelfImportOfSubRectKeepsCutComposites(t *testing.T) {
	a := populated(t, 6, 6)
	towns := objects.OfType[*objects.Town](a.Objects())
	require.Len(t, towns, 1)
	oldTown := towns[0].UID
	content := a.ContentDigest()
	objs := a.Objects().Len()

	// the town spans x=1..3 on row 2, the rectangle ends at x=2
	rect := grid.Rect{W: 3, H: 6}
	r, err := world.ImportArea(a, a, rect, grid.Point{})
	require.NoError(t, err)
	assert.Equal(t, rect, r)

	assert.Equal(t, content, a.ContentDigest())
	assert.Equal(t, objs, a.Objects().Len())

	towns = objects.OfType[*objects.Town](a.Objects())
	require.Len(t, towns, 1)
	newTown := towns[0].UID
	assert.NotEqual(t, oldTown, newTown)
	for _, x := range []int{1, 2, 3} {
		assert.True(t, a.Grid().At(grid.Point{X: x, Y: 2}).HasUID(newTown), "x=%d", x)
	}
	_, stale := a.UIDSet()[oldTown]
	assert.False(t, stale)
	require.NoError(t, a.CheckUIDs())
}

func TestImportKeepsDestinationLayersOutsideTarget(t *testing.T) {
	src := newArea(t, 4, 6)
	dst := populated(t, 6, 6)
	towns := objects.OfType[*objects.Town](dst.Objects())
	require.Len(t, towns, 1)
	townUID := towns[0].UID

	outside := map[grid.Point][]grid.SpriteLayer{}
	for y := 0; y < 6; y++ {
		for x := 0; x < 2; x++ {
			p := grid.Point{X: x, Y: y}
			ti := dst.Grid().At(p)
			outside[p] = append(append([]grid.SpriteLayer(nil), ti.Bottom...), ti.Top...)
		}
	}

	// the town anchor (2,2) is inside the target, its west part (1,2) is not
	r, err := world.ImportArea(dst, src, src.Bounds(), grid.Point{X: 2})
	require.NoError(t, err)
	assert.Equal(t, grid.Rect{X: 2, W: 4, H: 6}, r)

	_, ok := dst.Objects().Get(townUID)
	assert.False(t, ok, "town anchored in the target is unregistered")
	assert.Empty(t, objects.OfType[*objects.Town](dst.Objects()))
	for p, want := range outside {
		ti := dst.Grid().At(p)
		got := append(append([]grid.SpriteLayer(nil), ti.Bottom...), ti.Top...)
		assert.Equal(t, want, got, "%v", p)
	}
	assert.True(t, dst.Grid().At(grid.Point{X: 1, Y: 2}).HasUID(townUID))
	assert.Len(t, objects.OfType[*objects.Resource](dst.Objects()), 1, "resource at (1,4) is outside")
	require.NoError(t, dst.CheckUIDs())
}

func TestImportClipsToDestination(t *testing.T) {
	src := populated(t, 6, 6)
	dst, err := world.NewArea(4, 4, catalogs.Default())
	require.NoError(t, err)

	srcRect := grid.Rect{X: 0, Y: 0, W: 6, H: 6}
	at := grid.Point{X: 2, Y: 1}
	r, err := world.ImportArea(dst, src, srcRect, at)
	require.NoError(t, err)

	want := srcRect.Translate(at.X, at.Y).Intersect(dst.Bounds())
	assert.Equal(t, want, r)
	assert.Equal(t, grid.Rect{X: 2, Y: 1, W: 2, H: 3}, r)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			p := grid.Point{X: x, Y: y}
			got := dst.Grid().At(p)
			if r.Contains(p) {
				s := src.Grid().At(grid.Point{X: x - at.X, Y: y - at.Y})
				assert.Equal(t, s.Ground, got.Ground, "%v", p)
				assert.Equal(t, len(s.Bottom)+len(s.Top), len(got.Bottom)+len(got.Top), "%v", p)
			} else {
				assert.Equal(t, grid.Water, got.GroundType(), "%v untouched", p)
			}
		}
	}
	require.NoError(t, dst.CheckUIDs())
}

func TestImportOutOfBoundsChangesNothing(t *testing.T) {
	src := populated(t, 6, 6)
	dst := populated(t, 6, 6)
	digest := dst.StateDigest()
	next := dst.NextUID()

	_, err := world.ImportArea(dst, src, grid.Rect{W: 3, H: 3}, grid.Point{X: 6, Y: 0})
	var be *grid.BoundsError
	require.True(t, errors.As(err, &be), "got %v", err)
	assert.Equal(t, digest, dst.StateDigest())
	assert.Equal(t, next, dst.NextUID())

	_, err = world.ImportArea(dst, src, grid.Rect{X: 10, Y: 10, W: 2, H: 2}, grid.Point{})
	assert.True(t, errors.As(err, &be))
	assert.Equal(t, digest, dst.StateDigest())
}

func TestImportReplacesTargetObjects(t *testing.T) {
	src := newArea(t, 4, 4)
	dst := populated(t, 6, 6)
	_, hadSign := findSign(dst)
	require.True(t, hadSign)

	_, err := world.ImportArea(dst, src, src.Bounds(), grid.Point{X: 2, Y: 0})
	require.NoError(t, err)
	_, hasSign := findSign(dst)
	assert.False(t, hasSign, "sign at (5,1) was inside the target")
	require.NoError(t, dst.CheckUIDs())
}

func findSign(a *world.Area) (*objects.Sign, bool) {
	signs := objects.OfType[*objects.Sign](a.Objects())
	if len(signs) == 0 {
		return nil, false
	}
	return signs[0], true
}

func TestImportGroupsDecorationParts(t *testing.T) {
	src := newArea(t, 6, 6)
	treeUID, err := src.Place(treeComposite(), grid.Point{X: 2, Y: 3})
	require.NoError(t, err)
	dst := newArea(t, 6, 6)
	base := dst.NextUID()

	_, err = world.ImportArea(dst, src, grid.Rect{X: 1, Y: 1, W: 3, H: 3}, grid.Point{X: 1, Y: 1})
	require.NoError(t, err)

	bottom := dst.Grid().At(grid.Point{X: 2, Y: 3}).Bottom
	top := dst.Grid().At(grid.Point{X: 2, Y: 2}).Top
	require.Len(t, bottom, 1)
	require.Len(t, top, 1)
	assert.Equal(t, bottom[0].UID, top[0].UID)
	assert.NotEqual(t, treeUID, bottom[0].UID)
	assert.GreaterOrEqual(t, bottom[0].UID, base)
	assert.Greater(t, dst.NextUID(), bottom[0].UID)
}

func TestClipboardOutlivesSourceArea(t *testing.T) {
	var cb world.Clipboard
	assert.True(t, cb.Empty())
	_, err := cb.Paste(newArea(t, 2, 2), grid.Point{})
	assert.ErrorIs(t, err, world.ErrClipboardEmpty)

	src := populated(t, 6, 6)
	r, err := cb.Copy(src, grid.Rect{X: 1, Y: 1, W: 10, H: 3})
	require.NoError(t, err)
	assert.Equal(t, grid.Rect{X: 1, Y: 1, W: 5, H: 3}, r)
	w, h := cb.Size()
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)

	// the source is dropped, as when another map is loaded
	src = nil

	dst := newArea(t, 8, 8)
	pr, err := cb.Paste(dst, grid.Point{X: 0, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, grid.Rect{X: 0, Y: 4, W: 5, H: 3}, pr)

	towns := objects.OfType[*objects.Town](dst.Objects())
	require.Len(t, towns, 1)
	assert.Equal(t, "Alpha", towns[0].Name)
	assert.Equal(t, grid.Point{X: 1, Y: 5}, towns[0].Pos)
	require.NoError(t, dst.CheckUIDs())

	// pasting twice yields distinct identities
	_, err = cb.Paste(dst, grid.Point{X: 3, Y: 0})
	require.NoError(t, err)
	towns = objects.OfType[*objects.Town](dst.Objects())
	require.Len(t, towns, 2)
	assert.NotEqual(t, towns[0].UID, towns[1].UID)
	require.NoError(t, dst.CheckUIDs())

	_, err = cb.Copy(dst, grid.Rect{X: 8, Y: 8, W: 1, H: 1})
	var be *grid.BoundsError
	assert.True(t, errors.As(err, &be))
}

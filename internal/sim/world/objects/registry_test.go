package objects

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapedit.ai/internal/sim/world/grid"
)

func TestRegistryAddGetRemove(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&Town{Header: Header{UID: 5, Pos: grid.Point{X: 2, Y: 3}}, Name: "Alpha"}))
	require.NoError(t, r.Add(&Sign{Header: Header{UID: 2, Pos: grid.Point{X: 2, Y: 3}}, Text: "hi"}))
	require.NoError(t, r.Add(&Monster{Header: Header{UID: 9}, MonsterID: 4, Count: 20}))

	assert.Error(t, r.Add(&Sign{Header: Header{UID: 5}}), "duplicate uid")
	assert.Error(t, r.Add(&Sign{}), "zero uid")
	assert.Error(t, r.Add(nil))

	o, ok := r.Get(5)
	require.True(t, ok)
	assert.Equal(t, KindTown, o.Kind())

	at := r.At(grid.Point{X: 2, Y: 3})
	require.Len(t, at, 2)
	assert.Equal(t, uint32(2), at[0].Head().UID)

	assert.Len(t, r.ByKind(KindMonster), 1)
	assert.Len(t, r.Within(grid.Rect{W: 1, H: 1}), 1)
	assert.Equal(t, uint32(9), r.MaxUID())

	_, ok = r.Remove(9)
	assert.True(t, ok)
	_, ok = r.Remove(9)
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())
}

func TestAsRejectsWrongVariant(t *testing.T) {
	var o Object = &Hero{Header: Header{UID: 3}, Name: "Lord"}
	h, err := As[*Hero](o)
	require.NoError(t, err)
	assert.Equal(t, "Lord", h.Name)

	_, err = As[*Town](o)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWrongKind))

	_, err = As[*Town](nil)
	assert.True(t, errors.Is(err, ErrWrongKind))
}

func TestCloneIsDeep(t *testing.T) {
	r := NewRegistry()
	sph := &Sphinx{Header: Header{UID: 1}, Answers: []string{"time"}, Question: "?"}
	list := &ActionList{Header: Header{UID: 2}, Actions: []Action{
		&MessageAction{Text: "hello"},
		&ResourceAction{Resources: Funds{Gold: 500}},
	}}
	require.NoError(t, r.Add(sph))
	require.NoError(t, r.Add(list))

	c := r.Clone()
	sph.Answers[0] = "changed"
	list.Actions[0].(*MessageAction).Text = "changed"

	cs, err := As[*Sphinx](mustGet(t, c, 1))
	require.NoError(t, err)
	assert.Equal(t, "time", cs.Answers[0])

	cl, err := As[*ActionList](mustGet(t, c, 2))
	require.NoError(t, err)
	assert.Equal(t, "hello", cl.Actions[0].(*MessageAction).Text)
	assert.Equal(t, ActionResources, cl.Actions[1].ActionKind())
}

func TestOfTypeAndNew(t *testing.T) {
	r := NewRegistry()
	for i, k := range Kinds {
		o, err := New(k, uint32(i+1), grid.Point{X: i})
		require.NoError(t, err)
		assert.Equal(t, k, o.Kind())
		require.NoError(t, r.Add(o))
	}
	assert.Len(t, OfType[*Artifact](r), 1)
	_, err := New(Kind(99), 1, grid.Point{})
	assert.Error(t, err)

	k, ok := ParseKind("action_list")
	assert.True(t, ok)
	assert.Equal(t, KindActionList, k)
	assert.Equal(t, grid.ClassEvent, k.Class())
}

func mustGet(t *testing.T, r *Registry, uid uint32) Object {
	t.Helper()
	o, ok := r.Get(uid)
	require.True(t, ok, "uid %d missing", uid)
	return o
}

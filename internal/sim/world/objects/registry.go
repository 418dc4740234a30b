package objects

import (
	"fmt"
	"sort"

	"mapedit.ai/internal/sim/world/grid"
)

// Registry owns the map objects of one area, keyed by UID.
type Registry struct {
	byUID map[uint32]Object
}

func NewRegistry() *Registry {
	return &Registry{byUID: map[uint32]Object{}}
}

func (r *Registry) Len() int { return len(r.byUID) }

// Add registers o. UID 0 and duplicate UIDs are rejected.
func (r *Registry) Add(o Object) error {
	if o == nil {
		return fmt.Errorf("objects: nil object")
	}
	uid := o.Head().UID
	if uid == 0 {
		return fmt.Errorf("objects: %v without uid", o.Kind())
	}
	if prev, ok := r.byUID[uid]; ok {
		return fmt.Errorf("objects: uid %d already used by %v", uid, prev.Kind())
	}
	r.byUID[uid] = o
	return nil
}

func (r *Registry) Get(uid uint32) (Object, bool) {
	o, ok := r.byUID[uid]
	return o, ok
}

func (r *Registry) Remove(uid uint32) (Object, bool) {
	o, ok := r.byUID[uid]
	if ok {
		delete(r.byUID, uid)
	}
	return o, ok
}

// All returns every object ordered by UID.
func (r *Registry) All() []Object {
	out := make([]Object, 0, len(r.byUID))
	for _, o := range r.byUID {
		out = append(out, o)
	}
	sortByUID(out)
	return out
}

func (r *Registry) ByKind(k Kind) []Object {
	out := make([]Object, 0)
	for _, o := range r.byUID {
		if o.Kind() == k {
			out = append(out, o)
		}
	}
	sortByUID(out)
	return out
}

// At returns the objects anchored at p.
func (r *Registry) At(p grid.Point) []Object {
	var out []Object
	for _, o := range r.byUID {
		if o.Head().Pos == p {
			out = append(out, o)
		}
	}
	sortByUID(out)
	return out
}

// Within returns the objects anchored inside rect.
func (r *Registry) Within(rect grid.Rect) []Object {
	var out []Object
	for _, o := range r.byUID {
		if rect.Contains(o.Head().Pos) {
			out = append(out, o)
		}
	}
	sortByUID(out)
	return out
}

// MaxUID returns the largest registered UID, 0 when empty.
func (r *Registry) MaxUID() uint32 {
	var m uint32
	for uid := range r.byUID {
		if uid > m {
			m = uid
		}
	}
	return m
}

// Clone deep-copies every object.
func (r *Registry) Clone() *Registry {
	c := &Registry{byUID: make(map[uint32]Object, len(r.byUID))}
	for uid, o := range r.byUID {
		c.byUID[uid] = o.Clone()
	}
	return c
}

// OfType returns every object of variant T ordered by UID.
func OfType[T Object](r *Registry) []T {
	var out []T
	for _, o := range r.All() {
		if v, ok := o.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func sortByUID(objs []Object) {
	sort.Slice(objs, func(i, j int) bool { return objs[i].Head().UID < objs[j].Head().UID })
}

package objects

import (
	"errors"
	"fmt"
	"strings"

	"mapedit.ai/internal/sim/world/grid"
)

type Kind uint8

const (
	KindTown Kind = iota + 1
	KindHero
	KindSign
	KindEvent
	KindSphinx
	KindResource
	KindMonster
	KindArtifact
	KindActionList
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{KindTown, KindHero, KindSign, KindEvent, KindSphinx, KindResource, KindMonster, KindArtifact, KindActionList}

var kindNames = map[Kind]string{
	KindTown:       "town",
	KindHero:       "hero",
	KindSign:       "sign",
	KindEvent:      "event",
	KindSphinx:     "sphinx",
	KindResource:   "resource",
	KindMonster:    "monster",
	KindArtifact:   "artifact",
	KindActionList: "action_list",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == s {
			return k, true
		}
	}
	return 0, false
}

// Class returns the tile class an object of this kind anchors on. Action
// lists are editor-only and borrow the event class.
func (k Kind) Class() grid.Class {
	switch k {
	case KindTown:
		return grid.ClassCastle
	case KindHero:
		return grid.ClassHeroes
	case KindSign:
		return grid.ClassSign
	case KindEvent, KindActionList:
		return grid.ClassEvent
	case KindSphinx:
		return grid.ClassSphinx
	case KindResource:
		return grid.ClassResource
	case KindMonster:
		return grid.ClassMonster
	case KindArtifact:
		return grid.ClassArtifact
	}
	return grid.ClassNone
}

// ErrWrongKind is returned when an object is read as a variant it is not.
var ErrWrongKind = errors.New("objects: wrong object kind")

// Header carries the fields common to every object. UID equals the UID of
// the sprite layer the object is anchored to.
type Header struct {
	UID uint32
	Pos grid.Point
}

func (h *Header) Head() *Header { return h }

// Object is the closed set of map object variants. Only types in this
// package implement it.
type Object interface {
	Head() *Header
	Kind() Kind
	Clone() Object
	sealed()
}

// As reads o as variant T, failing with ErrWrongKind instead of guessing.
func As[T Object](o Object) (T, error) {
	v, ok := o.(T)
	if !ok {
		var zero T
		if o == nil {
			return zero, fmt.Errorf("%w: nil object", ErrWrongKind)
		}
		return zero, fmt.Errorf("%w: uid %d is a %v", ErrWrongKind, o.Head().UID, o.Kind())
	}
	return v, nil
}

// New returns an empty object of kind k.
func New(k Kind, uid uint32, pos grid.Point) (Object, error) {
	h := Header{UID: uid, Pos: pos}
	switch k {
	case KindTown:
		return &Town{Header: h}, nil
	case KindHero:
		return &Hero{Header: h}, nil
	case KindSign:
		return &Sign{Header: h}, nil
	case KindEvent:
		return &Event{Header: h}, nil
	case KindSphinx:
		return &Sphinx{Header: h}, nil
	case KindResource:
		return &Resource{Header: h}, nil
	case KindMonster:
		return &Monster{Header: h}, nil
	case KindArtifact:
		return &Artifact{Header: h}, nil
	case KindActionList:
		return &ActionList{Header: h}, nil
	}
	return nil, fmt.Errorf("objects: unknown kind %d", uint8(k))
}

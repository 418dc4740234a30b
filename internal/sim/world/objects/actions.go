package objects

import "fmt"

type ActionKind uint8

const (
	ActionDefault ActionKind = iota + 1
	ActionAccess
	ActionMessage
	ActionResources
	ActionArtifact
)

var actionNames = map[ActionKind]string{
	ActionDefault:   "default",
	ActionAccess:    "access",
	ActionMessage:   "message",
	ActionResources: "resources",
	ActionArtifact:  "artifact",
}

func (k ActionKind) String() string {
	if n, ok := actionNames[k]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

func ParseActionKind(s string) (ActionKind, bool) {
	for k, n := range actionNames {
		if n == s {
			return k, true
		}
	}
	return 0, false
}

// Action is one step of an ActionList.
type Action interface {
	ActionKind() ActionKind
	cloneAction() Action
}

// DefaultAction decides what happens when no other action applies.
type DefaultAction struct {
	Enabled bool
	Message string
}

// AccessAction restricts which players may trigger the list.
type AccessAction struct {
	Colors                uint8
	AllowComputer         bool
	CancelAfterFirstVisit bool
	Message               string
}

type MessageAction struct {
	Text string
}

type ResourceAction struct {
	Resources Funds
	Message   string
}

type ArtifactAction struct {
	Artifact uint16
	Message  string
}

func (*DefaultAction) ActionKind() ActionKind  { return ActionDefault }
func (*AccessAction) ActionKind() ActionKind   { return ActionAccess }
func (*MessageAction) ActionKind() ActionKind  { return ActionMessage }
func (*ResourceAction) ActionKind() ActionKind { return ActionResources }
func (*ArtifactAction) ActionKind() ActionKind { return ActionArtifact }

func (a *DefaultAction) cloneAction() Action {
	c := *a
	return &c
}

func (a *AccessAction) cloneAction() Action {
	c := *a
	return &c
}

func (a *MessageAction) cloneAction() Action {
	c := *a
	return &c
}

func (a *ResourceAction) cloneAction() Action {
	c := *a
	return &c
}

func (a *ArtifactAction) cloneAction() Action {
	c := *a
	return &c
}

// NewAction returns an empty sub-action of kind k.
func NewAction(k ActionKind) (Action, error) {
	switch k {
	case ActionDefault:
		return &DefaultAction{}, nil
	case ActionAccess:
		return &AccessAction{}, nil
	case ActionMessage:
		return &MessageAction{}, nil
	case ActionResources:
		return &ResourceAction{}, nil
	case ActionArtifact:
		return &ArtifactAction{}, nil
	}
	return nil, fmt.Errorf("objects: unknown action kind %d", uint8(k))
}

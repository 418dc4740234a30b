package objects

import "mapedit.ai/internal/sim/world/grid"

// Funds indexes resources in the legacy order.
type Funds [7]int32

const (
	Wood = iota
	Mercury
	Ore
	Sulfur
	Crystal
	Gems
	Gold
)

func (f Funds) Empty() bool { return f == Funds{} }

type Troop struct {
	Monster uint8
	Count   uint16
}

type Skill struct {
	ID    uint8
	Level uint8
}

// Owner colors are 6-bit masks: blue, green, red, yellow, orange, purple.
const (
	ColorBlue uint8 = 1 << iota
	ColorGreen
	ColorRed
	ColorYellow
	ColorOrange
	ColorPurple

	ColorNone uint8 = 0
	ColorAll  uint8 = 0x3F
)

type Town struct {
	Header
	Color           uint8
	Race            uint8
	IsCastle        bool
	AllowCastle     bool
	CustomName      bool
	Name            string
	CustomTroops    bool
	Troops          [5]Troop
	HasCaptain      bool
	CustomBuildings bool
	Buildings       uint32
}

func (*Town) Kind() Kind { return KindTown }
func (*Town) sealed()    {}
func (t *Town) Clone() Object {
	c := *t
	return &c
}

type Hero struct {
	Header
	Color          uint8
	Jailed         bool
	Race           uint8
	CustomTroops   bool
	Troops         [5]Troop
	CustomPortrait bool
	Portrait       uint8
	Artifacts      [3]uint8
	Experience     uint32
	CustomSkills   bool
	Skills         [8]Skill
	CustomName     bool
	Name           string
	Patrol         bool
	PatrolRadius   uint8
}

func (*Hero) Kind() Kind { return KindHero }
func (*Hero) sealed()    {}
func (h *Hero) Clone() Object {
	c := *h
	return &c
}

// Sign covers both signposts and message bottles.
type Sign struct {
	Header
	Bottle bool
	Text   string
}

func (*Sign) Kind() Kind { return KindSign }
func (*Sign) sealed()    {}
func (s *Sign) Clone() Object {
	c := *s
	return &c
}

type Event struct {
	Header
	Resources             Funds
	Artifact              uint16
	AllowComputer         bool
	CancelAfterFirstVisit bool
	Colors                uint8
	Message               string
}

func (*Event) Kind() Kind { return KindEvent }
func (*Event) sealed()    {}
func (e *Event) Clone() Object {
	c := *e
	return &c
}

type Sphinx struct {
	Header
	Resources Funds
	Artifact  uint16
	Answers   []string
	Question  string
}

func (*Sphinx) Kind() Kind { return KindSphinx }
func (*Sphinx) sealed()    {}
func (s *Sphinx) Clone() Object {
	c := *s
	c.Answers = append([]string(nil), s.Answers...)
	return &c
}

type Resource struct {
	Header
	Type   uint8
	Amount uint32
}

func (*Resource) Kind() Kind { return KindResource }
func (*Resource) sealed()    {}
func (r *Resource) Clone() Object {
	c := *r
	return &c
}

type Monster struct {
	Header
	MonsterID uint8
	Count     uint32
}

func (*Monster) Kind() Kind { return KindMonster }
func (*Monster) sealed()    {}
func (m *Monster) Clone() Object {
	c := *m
	return &c
}

type Artifact struct {
	Header
	ArtifactID uint8
}

func (*Artifact) Kind() Kind { return KindArtifact }
func (*Artifact) sealed()    {}
func (a *Artifact) Clone() Object {
	c := *a
	return &c
}

// ActionList is an editor-defined scripted object: an ordered list of
// sub-actions run when a hero visits the tile.
type ActionList struct {
	Header
	Actions []Action
}

func (*ActionList) Kind() Kind { return KindActionList }
func (*ActionList) sealed()    {}
func (a *ActionList) Clone() Object {
	c := *a
	c.Actions = make([]Action, len(a.Actions))
	for i, act := range a.Actions {
		c.Actions[i] = act.cloneAction()
	}
	return &c
}

// Rumor and DayEvent are map-global and have no position or UID.
type Rumor struct {
	Text string
}

type DayEvent struct {
	Resources     Funds
	AllowComputer bool
	FirstDay      uint16
	RepeatPeriod  uint16
	Colors        uint8
	Message       string
}

// TownSlot is one entry of the legacy town coordinate table.
type TownSlot struct {
	Pos  grid.Point
	Type uint8
}

// Capturable is one entry of the legacy resource/kingdom table (mines,
// sawmills, lighthouses and the like that a kingdom can own).
type Capturable struct {
	Pos  grid.Point
	Type uint8
}

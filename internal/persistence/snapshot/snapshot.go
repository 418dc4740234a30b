package snapshot

// CurrentVersion is written by this build. Documents older than
// MinSupportedVersion or newer than CurrentVersion are refused.
const (
	CurrentVersion      = 3
	MinSupportedVersion = 3
)

type Header struct {
	Version     int    `json:"version"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	UIDCounter  uint32 `json:"uid_counter"`

	// SavedAt is informational and ignored when comparing maps.
	SavedAt string `json:"saved_at,omitempty"`
}

type MapV3 struct {
	Header Header `json:"header"`

	// Info is the binary header sub-block (see EncodeInfo), base64 in JSON.
	Info []byte `json:"info"`
	// Preview is the RLE-encoded ground summary, base64 in JSON.
	Preview []byte `json:"preview,omitempty"`

	Towns       []TownV3       `json:"towns,omitempty"`
	Heroes      []HeroV3       `json:"heroes,omitempty"`
	Signs       []SignV3       `json:"signs,omitempty"`
	Events      []EventV3      `json:"events,omitempty"`
	Sphinxes    []SphinxV3     `json:"sphinxes,omitempty"`
	Resources   []ResourceV3   `json:"resources,omitempty"`
	Monsters    []MonsterV3    `json:"monsters,omitempty"`
	Artifacts   []ArtifactV3   `json:"artifacts,omitempty"`
	ActionLists []ActionListV3 `json:"action_lists,omitempty"`

	Rumors      []string     `json:"rumors,omitempty"`
	DayEvents   []DayEventV3 `json:"day_events,omitempty"`
	TownSlots   []SlotV3     `json:"town_slots,omitempty"`
	Capturables []SlotV3     `json:"capturables,omitempty"`
	Obelisks    int          `json:"obelisks,omitempty"`

	Tiles []TileV3 `json:"tiles"`
}

type LayerV3 struct {
	Sheet uint8  `json:"sheet"`
	Index uint8  `json:"index"`
	Flags uint8  `json:"flags,omitempty"`
	Order uint8  `json:"order"`
	UID   uint32 `json:"uid"`
}

type TileV3 struct {
	Index    int       `json:"index"`
	Ground   uint16    `json:"ground"`
	Flip     uint8     `json:"flip,omitempty"`
	Bottom   []LayerV3 `json:"bottom,omitempty"`
	Top      []LayerV3 `json:"top,omitempty"`
	Override *uint16   `json:"override,omitempty"`
}

type ObjectV3 struct {
	UID uint32 `json:"uid"`
	X   int    `json:"x"`
	Y   int    `json:"y"`
}

type TroopV3 struct {
	Monster uint8  `json:"monster"`
	Count   uint16 `json:"count"`
}

type SkillV3 struct {
	ID    uint8 `json:"id"`
	Level uint8 `json:"level"`
}

type TownV3 struct {
	ObjectV3
	Color           uint8     `json:"color"`
	Race            uint8     `json:"race"`
	IsCastle        bool      `json:"is_castle,omitempty"`
	AllowCastle     bool      `json:"allow_castle,omitempty"`
	CustomName      bool      `json:"custom_name,omitempty"`
	Name            string    `json:"name,omitempty"`
	CustomTroops    bool      `json:"custom_troops,omitempty"`
	Troops          []TroopV3 `json:"troops,omitempty"`
	HasCaptain      bool      `json:"has_captain,omitempty"`
	CustomBuildings bool      `json:"custom_buildings,omitempty"`
	Buildings       uint32    `json:"buildings,omitempty"`
}

type HeroV3 struct {
	ObjectV3
	Color          uint8     `json:"color"`
	Jailed         bool      `json:"jailed,omitempty"`
	Race           uint8     `json:"race"`
	CustomTroops   bool      `json:"custom_troops,omitempty"`
	Troops         []TroopV3 `json:"troops,omitempty"`
	CustomPortrait bool      `json:"custom_portrait,omitempty"`
	Portrait       uint8     `json:"portrait,omitempty"`
	Artifacts      []uint8   `json:"artifacts,omitempty"`
	Experience     uint32    `json:"experience,omitempty"`
	CustomSkills   bool      `json:"custom_skills,omitempty"`
	Skills         []SkillV3 `json:"skills,omitempty"`
	CustomName     bool      `json:"custom_name,omitempty"`
	Name           string    `json:"name,omitempty"`
	Patrol         bool      `json:"patrol,omitempty"`
	PatrolRadius   uint8     `json:"patrol_radius,omitempty"`
}

type SignV3 struct {
	ObjectV3
	Bottle bool   `json:"bottle,omitempty"`
	Text   string `json:"text"`
}

type EventV3 struct {
	ObjectV3
	Resources             []int32 `json:"resources,omitempty"`
	Artifact              uint16  `json:"artifact,omitempty"`
	AllowComputer         bool    `json:"allow_computer,omitempty"`
	CancelAfterFirstVisit bool    `json:"cancel_after_first_visit,omitempty"`
	Colors                uint8   `json:"colors"`
	Message               string  `json:"message,omitempty"`
}

type SphinxV3 struct {
	ObjectV3
	Resources []int32  `json:"resources,omitempty"`
	Artifact  uint16   `json:"artifact,omitempty"`
	Answers   []string `json:"answers,omitempty"`
	Question  string   `json:"question"`
}

type ResourceV3 struct {
	ObjectV3
	Type   uint8  `json:"type"`
	Amount uint32 `json:"amount"`
}

type MonsterV3 struct {
	ObjectV3
	MonsterID uint8  `json:"monster_id"`
	Count     uint32 `json:"count"`
}

type ArtifactV3 struct {
	ObjectV3
	ArtifactID uint8 `json:"artifact_id"`
}

type ActionListV3 struct {
	ObjectV3
	Actions []ActionV3 `json:"actions"`
}

// ActionV3 flattens the sub-action variants; Kind selects which fields
// are meaningful.
type ActionV3 struct {
	Kind                  string  `json:"kind"`
	Enabled               bool    `json:"enabled,omitempty"`
	Colors                uint8   `json:"colors,omitempty"`
	AllowComputer         bool    `json:"allow_computer,omitempty"`
	CancelAfterFirstVisit bool    `json:"cancel_after_first_visit,omitempty"`
	Resources             []int32 `json:"resources,omitempty"`
	Artifact              uint16  `json:"artifact,omitempty"`
	Text                  string  `json:"text,omitempty"`
	Message               string  `json:"message,omitempty"`
}

type DayEventV3 struct {
	Resources     []int32 `json:"resources,omitempty"`
	AllowComputer bool    `json:"allow_computer,omitempty"`
	FirstDay      uint16  `json:"first_day"`
	RepeatPeriod  uint16  `json:"repeat_period,omitempty"`
	Colors        uint8   `json:"colors"`
	Message       string  `json:"message,omitempty"`
}

type SlotV3 struct {
	X    int   `json:"x"`
	Y    int   `json:"y"`
	Type uint8 `json:"type"`
}

package world

import (
	"errors"
	"fmt"

	"mapedit.ai/internal/persistence/snapshot"
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/objects"
)

// ErrInvalidSnapshot marks a document that passed the schema but breaks
// an area invariant (objects off their layer, duplicate UIDs, bad tiles).
var ErrInvalidSnapshot = errors.New("world: invalid snapshot")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
}

// ImportSnapshot builds a new Area from m. The result is only returned
// when the whole document applied; a live Area is never involved.
func ImportSnapshot(m snapshot.MapV3, src grid.SpriteInfoSource) (*Area, error) {
	h := m.Header
	if h.Version < snapshot.MinSupportedVersion || h.Version > snapshot.CurrentVersion {
		return nil, &snapshot.FormatVersionError{What: "document", Got: h.Version, Min: snapshot.MinSupportedVersion, Max: snapshot.CurrentVersion}
	}
	info, err := snapshot.DecodeInfo(m.Info)
	if err != nil {
		return nil, err
	}
	if info.Width != h.Width || info.Height != h.Height {
		return nil, invalid("info size %dx%d != header %dx%d", info.Width, info.Height, h.Width, h.Height)
	}
	g, err := grid.New(h.Width, h.Height, src)
	if err != nil {
		return nil, invalid("%v", err)
	}
	a := newAreaFromGrid(g)
	a.Info = MapInfo{
		Name:               h.Name,
		Description:        h.Description,
		Difficulty:         info.Difficulty,
		KingdomColors:      info.KingdomColors,
		HumanColors:        info.HumanColors,
		ComputerColors:     info.ComputerColors,
		Races:              info.Races,
		VictoryCondition:   info.VictoryCondition,
		CompAlsoWins:       info.CompAlsoWins,
		AllowNormalVictory: info.AllowNormalVictory,
		VictoryParams:      info.VictoryParams,
		LossCondition:      info.LossCondition,
		LossParams:         info.LossParams,
		StartWithHero:      info.StartWithHero,
	}

	seen := make([]bool, g.Len())
	for _, tv := range m.Tiles {
		if tv.Index < 0 || tv.Index >= g.Len() {
			return nil, invalid("tile index %d out of range", tv.Index)
		}
		if seen[tv.Index] {
			return nil, invalid("tile %d listed twice", tv.Index)
		}
		seen[tv.Index] = true
		p := g.PointOf(tv.Index)
		g.SetGround(p, tv.Ground, grid.Flip(tv.Flip))
		layers := make([]grid.SpriteLayer, 0, len(tv.Bottom)+len(tv.Top))
		layers = append(layers, layersIn(tv.Bottom, grid.LevelBottom)...)
		layers = append(layers, layersIn(tv.Top, grid.LevelTop)...)
		g.ReplaceLayers(p, layers)
		if tv.Override != nil {
			g.SetOverride(p, grid.Direction(*tv.Override))
		}
	}

	for _, v := range m.Towns {
		o := &objects.Town{
			Color:           v.Color,
			Race:            v.Race,
			IsCastle:        v.IsCastle,
			AllowCastle:     v.AllowCastle,
			CustomName:      v.CustomName,
			Name:            v.Name,
			CustomTroops:    v.CustomTroops,
			Troops:          troopsIn(v.Troops),
			HasCaptain:      v.HasCaptain,
			CustomBuildings: v.CustomBuildings,
			Buildings:       v.Buildings,
		}
		if err := a.addImported(o, v.ObjectV3); err != nil {
			return nil, err
		}
	}
	for _, v := range m.Heroes {
		o := &objects.Hero{
			Color:          v.Color,
			Jailed:         v.Jailed,
			Race:           v.Race,
			CustomTroops:   v.CustomTroops,
			Troops:         troopsIn(v.Troops),
			CustomPortrait: v.CustomPortrait,
			Portrait:       v.Portrait,
			Experience:     v.Experience,
			CustomSkills:   v.CustomSkills,
			CustomName:     v.CustomName,
			Name:           v.Name,
			Patrol:         v.Patrol,
			PatrolRadius:   v.PatrolRadius,
		}
		copy(o.Artifacts[:], v.Artifacts)
		for i, s := range v.Skills {
			if i >= len(o.Skills) {
				break
			}
			o.Skills[i] = objects.Skill{ID: s.ID, Level: s.Level}
		}
		if err := a.addImported(o, v.ObjectV3); err != nil {
			return nil, err
		}
	}
	for _, v := range m.Signs {
		if err := a.addImported(&objects.Sign{Bottle: v.Bottle, Text: v.Text}, v.ObjectV3); err != nil {
			return nil, err
		}
	}
	for _, v := range m.Events {
		o := &objects.Event{
			Resources:             fundsIn(v.Resources),
			Artifact:              v.Artifact,
			AllowComputer:         v.AllowComputer,
			CancelAfterFirstVisit: v.CancelAfterFirstVisit,
			Colors:                v.Colors,
			Message:               v.Message,
		}
		if err := a.addImported(o, v.ObjectV3); err != nil {
			return nil, err
		}
	}
	for _, v := range m.Sphinxes {
		o := &objects.Sphinx{
			Resources: fundsIn(v.Resources),
			Artifact:  v.Artifact,
			Answers:   append([]string(nil), v.Answers...),
			Question:  v.Question,
		}
		if err := a.addImported(o, v.ObjectV3); err != nil {
			return nil, err
		}
	}
	for _, v := range m.Resources {
		if err := a.addImported(&objects.Resource{Type: v.Type, Amount: v.Amount}, v.ObjectV3); err != nil {
			return nil, err
		}
	}
	for _, v := range m.Monsters {
		if err := a.addImported(&objects.Monster{MonsterID: v.MonsterID, Count: v.Count}, v.ObjectV3); err != nil {
			return nil, err
		}
	}
	for _, v := range m.Artifacts {
		if err := a.addImported(&objects.Artifact{ArtifactID: v.ArtifactID}, v.ObjectV3); err != nil {
			return nil, err
		}
	}
	for _, v := range m.ActionLists {
		o := &objects.ActionList{Actions: make([]objects.Action, 0, len(v.Actions))}
		for i, av := range v.Actions {
			act, err := actionIn(av)
			if err != nil {
				return nil, invalid("action list %d action %d: %v", v.UID, i, err)
			}
			o.Actions = append(o.Actions, act)
		}
		if err := a.addImported(o, v.ObjectV3); err != nil {
			return nil, err
		}
	}

	for _, r := range m.Rumors {
		a.Rumors = append(a.Rumors, objects.Rumor{Text: r})
	}
	for _, e := range m.DayEvents {
		a.DayEvents = append(a.DayEvents, objects.DayEvent{
			Resources:     fundsIn(e.Resources),
			AllowComputer: e.AllowComputer,
			FirstDay:      e.FirstDay,
			RepeatPeriod:  e.RepeatPeriod,
			Colors:        e.Colors,
			Message:       e.Message,
		})
	}
	for _, s := range m.TownSlots {
		a.TownSlots = append(a.TownSlots, objects.TownSlot{Pos: grid.Point{X: s.X, Y: s.Y}, Type: s.Type})
	}
	for _, s := range m.Capturables {
		a.Capturables = append(a.Capturables, objects.Capturable{Pos: grid.Point{X: s.X, Y: s.Y}, Type: s.Type})
	}
	a.Obelisks = m.Obelisks

	a.uids.Reset(h.UIDCounter)
	a.observeUIDs()
	return a, nil
}

// addImported registers o under ov, refusing objects that are off-grid,
// reuse a UID, or lack a layer with their UID on the anchor tile.
func (a *Area) addImported(o objects.Object, ov snapshot.ObjectV3) error {
	hd := o.Head()
	hd.UID = ov.UID
	hd.Pos = grid.Point{X: ov.X, Y: ov.Y}
	t := a.grid.At(hd.Pos)
	if t == nil {
		return invalid("%v uid %d at %v off grid", o.Kind(), ov.UID, hd.Pos)
	}
	if !t.HasUID(ov.UID) {
		return invalid("%v uid %d has no layer at %v", o.Kind(), ov.UID, hd.Pos)
	}
	if err := a.objs.Add(o); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func layersIn(ls []snapshot.LayerV3, level grid.Level) []grid.SpriteLayer {
	out := make([]grid.SpriteLayer, len(ls))
	for i, l := range ls {
		out[i] = grid.SpriteLayer{
			Sheet: grid.SheetID(l.Sheet),
			Index: l.Index,
			Flags: grid.LayerFlags(l.Flags),
			Order: l.Order,
			Level: level,
			UID:   l.UID,
		}
	}
	return out
}

func fundsIn(v []int32) objects.Funds {
	var f objects.Funds
	copy(f[:], v)
	return f
}

func troopsIn(v []snapshot.TroopV3) [5]objects.Troop {
	var out [5]objects.Troop
	for i, t := range v {
		if i >= len(out) {
			break
		}
		out[i] = objects.Troop{Monster: t.Monster, Count: t.Count}
	}
	return out
}

func actionIn(v snapshot.ActionV3) (objects.Action, error) {
	k, ok := objects.ParseActionKind(v.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown action kind %q", v.Kind)
	}
	act, err := objects.NewAction(k)
	if err != nil {
		return nil, err
	}
	switch a := act.(type) {
	case *objects.DefaultAction:
		a.Enabled = v.Enabled
		a.Message = v.Message
	case *objects.AccessAction:
		a.Colors = v.Colors
		a.AllowComputer = v.AllowComputer
		a.CancelAfterFirstVisit = v.CancelAfterFirstVisit
		a.Message = v.Message
	case *objects.MessageAction:
		a.Text = v.Text
	case *objects.ResourceAction:
		a.Resources = fundsIn(v.Resources)
		a.Message = v.Message
	case *objects.ArtifactAction:
		a.Artifact = v.Artifact
		a.Message = v.Message
	}
	return act, nil
}

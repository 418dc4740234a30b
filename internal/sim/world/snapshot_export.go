package world

import (
	"mapedit.ai/internal/persistence/snapshot"
	simenc "mapedit.ai/internal/sim/encoding"
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/objects"
)

// ExportSnapshot converts a into the structured document. SavedAt is left
// for the caller to stamp.
func (a *Area) ExportSnapshot() snapshot.MapV3 {
	m := snapshot.MapV3{
		Header: snapshot.Header{
			Version:     snapshot.CurrentVersion,
			Name:        a.Info.Name,
			Description: a.Info.Description,
			Width:       a.Width(),
			Height:      a.Height(),
			UIDCounter:  a.uids.Peek(),
		},
		Info:     snapshot.EncodeInfo(a.info()),
		Preview:  simenc.EncodeRLE(a.groundIDs()),
		Obelisks: a.Obelisks,
	}

	for _, o := range a.objs.All() {
		ov := objectV3(o.Head())
		switch v := o.(type) {
		case *objects.Town:
			m.Towns = append(m.Towns, snapshot.TownV3{
				ObjectV3:        ov,
				Color:           v.Color,
				Race:            v.Race,
				IsCastle:        v.IsCastle,
				AllowCastle:     v.AllowCastle,
				CustomName:      v.CustomName,
				Name:            v.Name,
				CustomTroops:    v.CustomTroops,
				Troops:          troopsOut(v.Troops),
				HasCaptain:      v.HasCaptain,
				CustomBuildings: v.CustomBuildings,
				Buildings:       v.Buildings,
			})
		case *objects.Hero:
			m.Heroes = append(m.Heroes, snapshot.HeroV3{
				ObjectV3:       ov,
				Color:          v.Color,
				Jailed:         v.Jailed,
				Race:           v.Race,
				CustomTroops:   v.CustomTroops,
				Troops:         troopsOut(v.Troops),
				CustomPortrait: v.CustomPortrait,
				Portrait:       v.Portrait,
				Artifacts:      artifactsOut(v.Artifacts),
				Experience:     v.Experience,
				CustomSkills:   v.CustomSkills,
				Skills:         skillsOut(v.Skills),
				CustomName:     v.CustomName,
				Name:           v.Name,
				Patrol:         v.Patrol,
				PatrolRadius:   v.PatrolRadius,
			})
		case *objects.Sign:
			m.Signs = append(m.Signs, snapshot.SignV3{ObjectV3: ov, Bottle: v.Bottle, Text: v.Text})
		case *objects.Event:
			m.Events = append(m.Events, snapshot.EventV3{
				ObjectV3:              ov,
				Resources:             fundsOut(v.Resources),
				Artifact:              v.Artifact,
				AllowComputer:         v.AllowComputer,
				CancelAfterFirstVisit: v.CancelAfterFirstVisit,
				Colors:                v.Colors,
				Message:               v.Message,
			})
		case *objects.Sphinx:
			m.Sphinxes = append(m.Sphinxes, snapshot.SphinxV3{
				ObjectV3:  ov,
				Resources: fundsOut(v.Resources),
				Artifact:  v.Artifact,
				Answers:   append([]string(nil), v.Answers...),
				Question:  v.Question,
			})
		case *objects.Resource:
			m.Resources = append(m.Resources, snapshot.ResourceV3{ObjectV3: ov, Type: v.Type, Amount: v.Amount})
		case *objects.Monster:
			m.Monsters = append(m.Monsters, snapshot.MonsterV3{ObjectV3: ov, MonsterID: v.MonsterID, Count: v.Count})
		case *objects.Artifact:
			m.Artifacts = append(m.Artifacts, snapshot.ArtifactV3{ObjectV3: ov, ArtifactID: v.ArtifactID})
		case *objects.ActionList:
			acts := make([]snapshot.ActionV3, 0, len(v.Actions))
			for _, act := range v.Actions {
				acts = append(acts, actionOut(act))
			}
			m.ActionLists = append(m.ActionLists, snapshot.ActionListV3{ObjectV3: ov, Actions: acts})
		}
	}

	for _, r := range a.Rumors {
		m.Rumors = append(m.Rumors, r.Text)
	}
	for _, e := range a.DayEvents {
		m.DayEvents = append(m.DayEvents, snapshot.DayEventV3{
			Resources:     fundsOut(e.Resources),
			AllowComputer: e.AllowComputer,
			FirstDay:      e.FirstDay,
			RepeatPeriod:  e.RepeatPeriod,
			Colors:        e.Colors,
			Message:       e.Message,
		})
	}
	for _, s := range a.TownSlots {
		m.TownSlots = append(m.TownSlots, snapshot.SlotV3{X: s.Pos.X, Y: s.Pos.Y, Type: s.Type})
	}
	for _, s := range a.Capturables {
		m.Capturables = append(m.Capturables, snapshot.SlotV3{X: s.Pos.X, Y: s.Pos.Y, Type: s.Type})
	}

	m.Tiles = make([]snapshot.TileV3, 0, a.grid.Len())
	a.grid.Each(func(_ grid.Point, t *grid.Tile) {
		tv := snapshot.TileV3{
			Index:  t.Index,
			Ground: t.Ground,
			Flip:   uint8(t.Flip),
			Bottom: layersOut(t.Bottom),
			Top:    layersOut(t.Top),
		}
		if mask, ok := t.Override(); ok {
			v := uint16(mask)
			tv.Override = &v
		}
		m.Tiles = append(m.Tiles, tv)
	})
	return m
}

func (a *Area) info() snapshot.Info {
	in := a.Info
	return snapshot.Info{
		Width:              a.Width(),
		Height:             a.Height(),
		Difficulty:         in.Difficulty,
		KingdomColors:      in.KingdomColors,
		HumanColors:        in.HumanColors,
		ComputerColors:     in.ComputerColors,
		Races:              in.Races,
		VictoryCondition:   in.VictoryCondition,
		CompAlsoWins:       in.CompAlsoWins,
		AllowNormalVictory: in.AllowNormalVictory,
		VictoryParams:      in.VictoryParams,
		LossCondition:      in.LossCondition,
		LossParams:         in.LossParams,
		StartWithHero:      in.StartWithHero,
	}
}

func (a *Area) groundIDs() []uint16 {
	sum := a.grid.GroundSummary()
	out := make([]uint16, len(sum))
	for i, g := range sum {
		out[i] = uint16(g)
	}
	return out
}

func objectV3(h *objects.Header) snapshot.ObjectV3 {
	return snapshot.ObjectV3{UID: h.UID, X: h.Pos.X, Y: h.Pos.Y}
}

func layersOut(ls []grid.SpriteLayer) []snapshot.LayerV3 {
	if len(ls) == 0 {
		return nil
	}
	out := make([]snapshot.LayerV3, len(ls))
	for i, l := range ls {
		out[i] = snapshot.LayerV3{Sheet: uint8(l.Sheet), Index: l.Index, Flags: uint8(l.Flags), Order: l.Order, UID: l.UID}
	}
	return out
}

func fundsOut(f objects.Funds) []int32 {
	if f.Empty() {
		return nil
	}
	return append([]int32(nil), f[:]...)
}

func troopsOut(ts [5]objects.Troop) []snapshot.TroopV3 {
	if ts == [5]objects.Troop{} {
		return nil
	}
	out := make([]snapshot.TroopV3, len(ts))
	for i, t := range ts {
		out[i] = snapshot.TroopV3{Monster: t.Monster, Count: t.Count}
	}
	return out
}

func skillsOut(ss [8]objects.Skill) []snapshot.SkillV3 {
	if ss == [8]objects.Skill{} {
		return nil
	}
	out := make([]snapshot.SkillV3, len(ss))
	for i, s := range ss {
		out[i] = snapshot.SkillV3{ID: s.ID, Level: s.Level}
	}
	return out
}

func artifactsOut(as [3]uint8) []uint8 {
	if as == [3]uint8{} {
		return nil
	}
	return append([]uint8(nil), as[:]...)
}

func actionOut(act objects.Action) snapshot.ActionV3 {
	out := snapshot.ActionV3{Kind: act.ActionKind().String()}
	switch v := act.(type) {
	case *objects.DefaultAction:
		out.Enabled = v.Enabled
		out.Message = v.Message
	case *objects.AccessAction:
		out.Colors = v.Colors
		out.AllowComputer = v.AllowComputer
		out.CancelAfterFirstVisit = v.CancelAfterFirstVisit
		out.Message = v.Message
	case *objects.MessageAction:
		out.Text = v.Text
	case *objects.ResourceAction:
		out.Resources = fundsOut(v.Resources)
		out.Message = v.Message
	case *objects.ArtifactAction:
		out.Artifact = v.Artifact
		out.Message = v.Message
	}
	return out
}

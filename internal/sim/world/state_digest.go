package world

import (
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/io/digestcodec"
	"mapedit.ai/internal/sim/world/objects"
)

// StateDigest hashes everything semantic in the area. Two areas with equal
// digests save to equal documents apart from SavedAt.
func (a *Area) StateDigest() string {
	w := digestcodec.New()

	w.U32(uint32(a.Width()))
	w.U32(uint32(a.Height()))
	w.U32(a.uids.Peek())
	a.digestInfo(w)
	a.digestTiles(w, true)
	a.digestObjects(w)
	a.digestGlobals(w)

	return w.Sum()
}

func (a *Area) digestInfo(w *digestcodec.Writer) {
	in := a.Info
	w.String(in.Name)
	w.String(in.Description)
	w.U8(in.Difficulty)
	w.U8(in.KingdomColors)
	w.U8(in.HumanColors)
	w.U8(in.ComputerColors)
	for _, r := range in.Races {
		w.U8(r)
	}
	w.U8(in.VictoryCondition)
	w.Bool(in.CompAlsoWins)
	w.Bool(in.AllowNormalVictory)
	w.U32(in.VictoryParams[0])
	w.U32(in.VictoryParams[1])
	w.U8(in.LossCondition)
	w.U32(in.LossParams[0])
	w.U32(in.LossParams[1])
	w.Bool(in.StartWithHero)
}

func (a *Area) digestTiles(w *digestcodec.Writer, withUIDs bool) {
	writeLayers := func(ls []grid.SpriteLayer) {
		w.U32(uint32(len(ls)))
		for _, l := range ls {
			w.U8(uint8(l.Sheet))
			w.U8(l.Index)
			w.U8(uint8(l.Flags))
			w.U8(l.Order)
			if withUIDs {
				w.U32(l.UID)
			}
		}
	}
	a.grid.Each(func(_ grid.Point, t *grid.Tile) {
		w.U16(t.Ground)
		w.U8(uint8(t.Flip))
		writeLayers(t.Bottom)
		writeLayers(t.Top)
		mask, ok := t.Override()
		w.Bool(ok)
		if ok {
			w.U16(uint16(mask))
		}
	})
}

func (a *Area) digestObjects(w *digestcodec.Writer) {
	all := a.objs.All()
	w.U32(uint32(len(all)))
	for _, o := range all {
		h := o.Head()
		w.U8(uint8(o.Kind()))
		w.U32(h.UID)
		w.I64(int64(h.Pos.X))
		w.I64(int64(h.Pos.Y))

		switch v := o.(type) {
		case *objects.Town:
			w.U8(v.Color)
			w.U8(v.Race)
			w.Bool(v.IsCastle)
			w.Bool(v.AllowCastle)
			w.Bool(v.CustomName)
			w.String(v.Name)
			w.Bool(v.CustomTroops)
			digestTroops(w, v.Troops)
			w.Bool(v.HasCaptain)
			w.Bool(v.CustomBuildings)
			w.U32(v.Buildings)
		case *objects.Hero:
			w.U8(v.Color)
			w.Bool(v.Jailed)
			w.U8(v.Race)
			w.Bool(v.CustomTroops)
			digestTroops(w, v.Troops)
			w.Bool(v.CustomPortrait)
			w.U8(v.Portrait)
			for _, art := range v.Artifacts {
				w.U8(art)
			}
			w.U32(v.Experience)
			w.Bool(v.CustomSkills)
			for _, s := range v.Skills {
				w.U8(s.ID)
				w.U8(s.Level)
			}
			w.Bool(v.CustomName)
			w.String(v.Name)
			w.Bool(v.Patrol)
			w.U8(v.PatrolRadius)
		case *objects.Sign:
			w.Bool(v.Bottle)
			w.String(v.Text)
		case *objects.Event:
			digestFunds(w, v.Resources)
			w.U16(v.Artifact)
			w.Bool(v.AllowComputer)
			w.Bool(v.CancelAfterFirstVisit)
			w.U8(v.Colors)
			w.String(v.Message)
		case *objects.Sphinx:
			digestFunds(w, v.Resources)
			w.U16(v.Artifact)
			w.U32(uint32(len(v.Answers)))
			for _, ans := range v.Answers {
				w.String(ans)
			}
			w.String(v.Question)
		case *objects.Resource:
			w.U8(v.Type)
			w.U32(v.Amount)
		case *objects.Monster:
			w.U8(v.MonsterID)
			w.U32(v.Count)
		case *objects.Artifact:
			w.U8(v.ArtifactID)
		case *objects.ActionList:
			w.U32(uint32(len(v.Actions)))
			for _, act := range v.Actions {
				digestAction(w, act)
			}
		}
	}
}

func (a *Area) digestGlobals(w *digestcodec.Writer) {
	w.U32(uint32(len(a.Rumors)))
	for _, r := range a.Rumors {
		w.String(r.Text)
	}
	w.U32(uint32(len(a.DayEvents)))
	for _, e := range a.DayEvents {
		digestFunds(w, e.Resources)
		w.Bool(e.AllowComputer)
		w.U16(e.FirstDay)
		w.U16(e.RepeatPeriod)
		w.U8(e.Colors)
		w.String(e.Message)
	}
	w.U32(uint32(len(a.TownSlots)))
	for _, s := range a.TownSlots {
		w.I64(int64(s.Pos.X))
		w.I64(int64(s.Pos.Y))
		w.U8(s.Type)
	}
	w.U32(uint32(len(a.Capturables)))
	for _, s := range a.Capturables {
		w.I64(int64(s.Pos.X))
		w.I64(int64(s.Pos.Y))
		w.U8(s.Type)
	}
	w.I64(int64(a.Obelisks))
}

func digestFunds(w *digestcodec.Writer, f objects.Funds) {
	for _, v := range f {
		w.I64(int64(v))
	}
}

func digestTroops(w *digestcodec.Writer, ts [5]objects.Troop) {
	for _, t := range ts {
		w.U8(t.Monster)
		w.U16(t.Count)
	}
}

func digestAction(w *digestcodec.Writer, act objects.Action) {
	w.U8(uint8(act.ActionKind()))
	switch v := act.(type) {
	case *objects.DefaultAction:
		w.Bool(v.Enabled)
		w.String(v.Message)
	case *objects.AccessAction:
		w.U8(v.Colors)
		w.Bool(v.AllowComputer)
		w.Bool(v.CancelAfterFirstVisit)
		w.String(v.Message)
	case *objects.MessageAction:
		w.String(v.Text)
	case *objects.ResourceAction:
		digestFunds(w, v.Resources)
		w.String(v.Message)
	case *objects.ArtifactAction:
		w.U16(v.Artifact)
		w.String(v.Message)
	}
}

// ContentDigest hashes the size and the visible tile content (grounds,
// sprites, overrides) but no UIDs or objects.
func (a *Area) ContentDigest() string {
	w := digestcodec.New()
	w.U32(uint32(a.Width()))
	w.U32(uint32(a.Height()))
	a.digestTiles(w, false)
	return w.Sum()
}

// UIDSet returns every UID live on a layer or an object.
func (a *Area) UIDSet() map[uint32]struct{} {
	set := a.grid.UIDs()
	for _, o := range a.objs.All() {
		set[o.Head().UID] = struct{}{}
	}
	return set
}

// UIDDigest hashes the live UID set; it changes whenever identities do
// even if the visible content does not.
func (a *Area) UIDDigest() string {
	w := digestcodec.New()
	w.SortedU32s(a.UIDSet())
	return w.Sum()
}

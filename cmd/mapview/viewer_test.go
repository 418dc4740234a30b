package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"mapedit.ai/internal/sim/catalogs"
	"mapedit.ai/internal/sim/world"
	"mapedit.ai/internal/sim/world/grid"
)

func newSimScreen(w, h int) tcell.SimulationScreen {
	ss := tcell.NewSimulationScreen("UTF-8")
	_ = ss.Init()
	ss.SetSize(w, h)
	return ss
}

func testArea(t *testing.T) *world.Area {
	t.Helper()
	a, err := world.NewArea(30, 20, catalogs.Default())
	if err != nil {
		t.Fatalf("new area: %v", err)
	}
	a.Info.Name = "view"
	if _, err := a.SetGround(grid.Point{X: 10, Y: 5}, grid.Lava); err != nil {
		t.Fatalf("set ground: %v", err)
	}
	return a
}

func TestViewerDrawsGroundAndStatus(t *testing.T) {
	ss := newSimScreen(40, 25)
	defer ss.Fini()
	v := newViewer(testArea(t), true)
	v.draw(ss)

	if r, _, _, _ := ss.GetContent(0, 0); r != '~' {
		t.Fatalf("water glyph: %q", r)
	}
	if r, _, _, _ := ss.GetContent(10, 5); r != '^' {
		t.Fatalf("lava glyph: %q", r)
	}
	// past the map edge nothing is drawn
	if r, _, _, _ := ss.GetContent(35, 0); r != ' ' {
		t.Fatalf("outside map: %q", r)
	}
	if r, _, _, _ := ss.GetContent(1, 24); r != 'v' {
		t.Fatalf("status line: %q", r)
	}
}

func TestViewerScrollClamps(t *testing.T) {
	ss := newSimScreen(10, 6)
	defer ss.Fini()
	v := newViewer(testArea(t), false)

	for i := 0; i < 100; i++ {
		v.handle(ss, tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
		v.handle(ss, tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	}
	// 30x20 map on a 10x5 viewport
	if v.offX != 20 || v.offY != 15 {
		t.Fatalf("offset: %d,%d", v.offX, v.offY)
	}
	v.handle(ss, tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone))
	if v.offX != 0 || v.offY != 0 {
		t.Fatalf("home: %d,%d", v.offX, v.offY)
	}
	v.handle(ss, tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if v.offX != 0 {
		t.Fatalf("negative offset: %d", v.offX)
	}

	if !v.handle(ss, tcell.NewEventKey(tcell.KeyRune, 'o', tcell.ModNone)) || v.objects {
		t.Fatalf("o should toggle objects off")
	}
	if v.handle(ss, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatalf("q should quit")
	}
	if v.handle(ss, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("esc should quit")
	}
}

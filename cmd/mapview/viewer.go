package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"mapedit.ai/internal/sim/world"
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/objects"
)

var groundStyle = [grid.NumGrounds]struct {
	glyph rune
	color tcell.Color
}{
	grid.Water:     {'~', tcell.ColorBlue},
	grid.Grass:     {'"', tcell.ColorGreen},
	grid.Snow:      {'*', tcell.ColorWhite},
	grid.Swamp:     {'%', tcell.ColorOlive},
	grid.Lava:      {'^', tcell.ColorRed},
	grid.Desert:    {'.', tcell.ColorYellow},
	grid.Dirt:      {',', tcell.ColorMaroon},
	grid.Wasteland: {':', tcell.ColorGray},
	grid.Beach:     {'_', tcell.ColorTeal},
}

var kindGlyph = map[objects.Kind]rune{
	objects.KindTown:       'T',
	objects.KindHero:       'H',
	objects.KindSign:       's',
	objects.KindEvent:      'e',
	objects.KindSphinx:     'S',
	objects.KindResource:   'r',
	objects.KindMonster:    'm',
	objects.KindArtifact:   'a',
	objects.KindActionList: '!',
}

// viewer scrolls a read-only ground minimap; one cell is one tile.
type viewer struct {
	name       string
	w, h       int
	compressed bool

	ground  []grid.Ground
	anchors map[grid.Point]objects.Kind
	objects bool

	offX, offY int
}

func newViewer(a *world.Area, compressed bool) *viewer {
	v := &viewer{
		name:       a.Info.Name,
		w:          a.Width(),
		h:          a.Height(),
		compressed: compressed,
		ground:     a.GroundSummary(),
		anchors:    map[grid.Point]objects.Kind{},
		objects:    true,
	}
	for _, o := range a.Objects().All() {
		v.anchors[o.Head().Pos] = o.Kind()
	}
	return v
}

// viewport is the map area of the screen; the last row is the status line.
func viewport(s tcell.Screen) (int, int) {
	sw, sh := s.Size()
	if sh > 0 {
		sh--
	}
	return sw, sh
}

func (v *viewer) clamp(sw, sh int) {
	v.offX = min(v.offX, v.w-sw)
	v.offY = min(v.offY, v.h-sh)
	v.offX = max(v.offX, 0)
	v.offY = max(v.offY, 0)
}

func (v *viewer) draw(s tcell.Screen) {
	s.Clear()
	sw, sh := viewport(s)
	v.clamp(sw, sh)

	for y := 0; y < sh && v.offY+y < v.h; y++ {
		for x := 0; x < sw && v.offX+x < v.w; x++ {
			p := grid.Point{X: v.offX + x, Y: v.offY + y}
			g := v.ground[p.X+p.Y*v.w]
			st := groundStyle[g]
			glyph, style := st.glyph, tcell.StyleDefault.Foreground(st.color)
			if v.objects {
				if k, ok := v.anchors[p]; ok {
					glyph = kindGlyph[k]
					style = style.Bold(true).Foreground(tcell.ColorFuchsia)
				}
			}
			s.SetContent(x, y, glyph, nil, style)
		}
	}

	format := "json"
	if v.compressed {
		format = "mapz"
	}
	status := fmt.Sprintf(" %s  %dx%d  %s  objects:%d  @%d,%d  q:quit arrows:scroll o:objects",
		v.name, v.w, v.h, format, len(v.anchors), v.offX, v.offY)
	bar := tcell.StyleDefault.Reverse(true)
	for x := 0; x < sw; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		s.SetContent(x, sh, r, nil, bar)
	}
}

// handle applies one event and reports whether the viewer keeps running.
func (v *viewer) handle(s tcell.Screen, ev tcell.Event) bool {
	sw, sh := viewport(s)
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.offY--
		case tcell.KeyDown:
			v.offY++
		case tcell.KeyLeft:
			v.offX--
		case tcell.KeyRight:
			v.offX++
		case tcell.KeyPgUp:
			v.offY -= sh
		case tcell.KeyPgDn:
			v.offY += sh
		case tcell.KeyHome:
			v.offX, v.offY = 0, 0
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'o', 'O':
				v.objects = !v.objects
			case 'k':
				v.offY--
			case 'j':
				v.offY++
			case 'h':
				v.offX--
			case 'l':
				v.offX++
			}
		}
		v.clamp(sw, sh)
	}
	return true
}

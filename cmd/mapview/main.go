package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"mapedit.ai/internal/sim/catalogs"
	"mapedit.ai/internal/sim/world"
)

func main() {
	var (
		catalogPath = flag.String("catalog", "", "path to sprites.yaml (default: built-in catalog)")
		showObjects = flag.Bool("objects", true, "mark object anchors")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[mapview] ", log.LstdFlags|log.Lmicroseconds)
	if flag.NArg() != 1 {
		logger.Fatalf("usage: mapview [flags] <map.mapz|map.map>")
	}

	cat := catalogs.Default()
	if p := strings.TrimSpace(*catalogPath); p != "" {
		c, err := catalogs.Load(p)
		if err != nil {
			logger.Fatalf("load catalog: %v", err)
		}
		cat = c
	}
	a, f, err := world.OpenFile(flag.Arg(0), cat)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	v := newViewer(a, f.Compressed)
	v.objects = *showObjects

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		logger.Fatalf("screen init: %v", err)
	}
	defer screen.Fini()

	for {
		v.draw(screen)
		screen.Show()
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if !v.handle(screen, ev) {
			return
		}
	}
}

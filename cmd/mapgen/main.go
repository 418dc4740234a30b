package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"mapedit.ai/internal/persistence/indexdb"
	persistlog "mapedit.ai/internal/persistence/log"
	"mapedit.ai/internal/persistence/snapshot"
	"mapedit.ai/internal/sim/catalogs"
	"mapedit.ai/internal/sim/tuning"
	"mapedit.ai/internal/sim/world"
	"mapedit.ai/internal/sim/world/terrain/gen"
)

func main() {
	var (
		width      = flag.Int("w", 72, "map width in tiles")
		height     = flag.Int("h", 72, "map height in tiles")
		seed       = flag.Int64("seed", 0, "generator seed (0: time based)")
		name       = flag.String("name", "", "map name (default: output file name)")
		out        = flag.String("out", "./maps/generated.mapz", "output path")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: built-in tuning)")
		step       = flag.Int("step", -1, "initial diamond-square step (-1: tuning default, 0: biome fill only)")
		dbPath     = flag.String("db", "", "sqlite index to record the map in (optional)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[mapgen] ", log.LstdFlags|log.Lmicroseconds)

	tune := tuning.Defaults()
	if p := strings.TrimSpace(*tuningPath); p != "" {
		t, err := tuning.Load(p)
		if err != nil {
			logger.Fatalf("load tuning: %v", err)
		}
		tune = t
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	params := gen.FromTuning(*seed, tune.Generator)
	if *step >= 0 {
		params.InitialStep = *step
	}
	if err := params.Validate(); err != nil {
		logger.Fatalf("generator: %v", err)
	}

	cat := catalogs.Default()
	a, err := world.NewArea(*width, *height, cat)
	if err != nil {
		logger.Fatalf("new map: %v", err)
	}
	a.Info.Name = strings.TrimSpace(*name)
	if a.Info.Name == "" {
		base := filepath.Base(*out)
		a.Info.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	al := persistlog.NewAuditLogger(filepath.Dir(*out))
	defer al.Close()
	sinks := []world.AuditSink{al}

	var idx *indexdb.SQLiteIndex
	if p := strings.TrimSpace(*dbPath); p != "" {
		idx, err = indexdb.OpenSQLite(p)
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		sinks = append(sinks, idx)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ed := world.NewEditor(a.Info.Name, a, logger, sinks...)
	start := time.Now()
	if err := ed.Generate(ctx, params); err != nil {
		logger.Fatalf("generate: %v", err)
	}
	logger.Printf("generated %dx%d seed=%d in %s", *width, *height, *seed, time.Since(start).Round(time.Millisecond))

	compress := tune.Save.Compress
	switch strings.ToLower(filepath.Ext(*out)) {
	case ".mapz":
		compress = true
	case ".map", ".json":
		compress = false
	}
	m, err := ed.Save(*out, snapshot.WriteOptions{Compress: compress, KeepBackups: tune.Save.KeepBackups})
	if err != nil {
		logger.Fatalf("%v", err)
	}
	digest := ed.StateDigest()
	if idx != nil {
		idx.RecordMap(*out, m, snapshot.Format{Version: m.Header.Version, Compressed: compress}, digest)
	}
	logger.Printf("wrote %s (digest %s)", *out, digest[:12])
}

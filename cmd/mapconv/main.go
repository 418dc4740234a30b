package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"mapedit.ai/internal/persistence/indexdb"
	persistlog "mapedit.ai/internal/persistence/log"
	"mapedit.ai/internal/sim/catalogs"
	"mapedit.ai/internal/sim/tuning"
	"mapedit.ai/internal/sim/world"
)

func main() {
	var (
		outDir      = flag.String("out", "./maps", "output directory for converted maps")
		catalogPath = flag.String("catalog", "", "path to sprites.yaml (default: built-in catalog)")
		tuningPath  = flag.String("tuning", "", "path to tuning.yaml (default: built-in tuning)")
		workers     = flag.Int("workers", runtime.NumCPU(), "files converted in parallel")
		compress    = flag.Bool("compress", true, "write zstd containers (.mapz) instead of plain JSON (.map)")
		dbPath      = flag.String("db", "", "sqlite index path (default: <out>/index.sqlite)")
		disableDB   = flag.Bool("disable_db", false, "disable the map index")
		noAudit     = flag.Bool("no_audit", false, "do not write the audit log")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[mapconv] ", log.LstdFlags|log.Lmicroseconds)

	if flag.NArg() == 0 {
		logger.Fatalf("usage: mapconv [flags] <file.mp2|dir>...")
	}

	cat := catalogs.Default()
	if p := strings.TrimSpace(*catalogPath); p != "" {
		c, err := catalogs.Load(p)
		if err != nil {
			logger.Fatalf("load catalog: %v", err)
		}
		cat = c
	}
	tune := tuning.Defaults()
	if p := strings.TrimSpace(*tuningPath); p != "" {
		t, err := tuning.Load(p)
		if err != nil {
			logger.Fatalf("load tuning: %v", err)
		}
		tune = t
	}

	inputs, err := expandInputs(flag.Args())
	if err != nil {
		logger.Fatalf("inputs: %v", err)
	}
	if len(inputs) == 0 {
		logger.Fatalf("no legacy maps found")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatalf("mkdir %s: %v", *outDir, err)
	}

	var sinks []world.AuditSink
	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		p := strings.TrimSpace(*dbPath)
		if p == "" {
			p = filepath.Join(*outDir, "index.sqlite")
		}
		idx, err = indexdb.OpenSQLite(p)
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(cat, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
		sinks = append(sinks, idx)
	}
	if !*noAudit {
		al := persistlog.NewAuditLogger(*outDir)
		defer al.Close()
		sinks = append(sinks, al)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &converter{
		OutDir:      *outDir,
		Compress:    *compress,
		KeepBackups: tune.Save.KeepBackups,
		Workers:     *workers,
		Source:      cat,
		Sinks:       sinks,
		Logger:      logger,
	}
	if idx != nil {
		c.Index = idx
	}
	results, err := c.Run(ctx, inputs)
	if err != nil {
		logger.Fatalf("convert: %v", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Printf("FAIL %s: %v", r.In, r.Err)
			continue
		}
		logger.Printf("ok %s -> %s (%d objects, %d warnings)", r.In, r.Out, r.Objects, r.Warnings)
	}
	if idx != nil {
		st := idx.Stats()
		if st.DropMapTotal > 0 || st.DropAuditTotal > 0 {
			logger.Printf("index dropped %d map and %d audit writes", st.DropMapTotal, st.DropAuditTotal)
		}
	}
	logger.Printf("converted %d/%d maps", len(results)-failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}

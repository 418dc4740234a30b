package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"mapedit.ai/internal/persistence/snapshot"
	"mapedit.ai/internal/sim/world"
	"mapedit.ai/internal/sim/world/grid"
)

// mapIndex is the part of the sqlite index the converter records saves in.
type mapIndex interface {
	RecordMap(path string, m snapshot.MapV3, f snapshot.Format, digest string)
}

type converter struct {
	OutDir      string
	Compress    bool
	KeepBackups int
	Workers     int

	Source grid.SpriteInfoSource
	Sinks  []world.AuditSink
	Index  mapIndex
	Logger *log.Logger
}

type result struct {
	In, Out  string
	Objects  int
	Warnings int
	Digest   string
	Err      error
}

// Run converts every input concurrently. A file that fails to convert is
// reported in its result and does not stop the others; only cancellation
// aborts the batch.
func (c *converter) Run(ctx context.Context, inputs []string) ([]result, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	results := make([]result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	if c.Workers > 0 {
		g.SetLimit(c.Workers)
	}
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.convertOne(in, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (c *converter) convertOne(in string, logger *log.Logger) result {
	r := result{In: in, Out: outputPath(c.OutDir, in, c.Compress)}

	raw, err := os.ReadFile(in)
	if err != nil {
		r.Err = err
		return r
	}
	a, warnings, err := world.LoadLegacy(raw, c.Source, logger)
	if err != nil {
		r.Err = err
		return r
	}
	r.Warnings = len(warnings)
	r.Objects = a.Objects().Len()

	m, err := world.SaveFile(r.Out, a, snapshot.WriteOptions{Compress: c.Compress, KeepBackups: c.KeepBackups})
	if err != nil {
		r.Err = err
		return r
	}
	r.Digest = a.StateDigest()

	if c.Index != nil {
		c.Index.RecordMap(r.Out, m, snapshot.Format{Version: m.Header.Version, Compressed: c.Compress}, r.Digest)
	}
	entry := world.AuditEntry{
		At:      time.Now().UTC().Format(time.RFC3339Nano),
		Map:     mapName(r.Out),
		Op:      world.OpLoad,
		W:       a.Width(),
		H:       a.Height(),
		Changed: r.Objects,
		Detail:  fmt.Sprintf("legacy %s, %d warnings", filepath.Base(in), r.Warnings),
	}
	for _, s := range c.Sinks {
		if err := s.WriteAudit(entry); err != nil {
			logger.Printf("audit %s: %v", r.Out, err)
		}
	}
	return r
}

// expandInputs replaces directories with the legacy maps directly inside
// them. The result is sorted and free of duplicates.
func expandInputs(args []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			add(arg)
			continue
		}
		ents, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range ents {
			if e.IsDir() || !isLegacyName(e.Name()) {
				continue
			}
			add(filepath.Join(arg, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func isLegacyName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp2", ".mx2":
		return true
	}
	return false
}

func outputPath(outDir, in string, compress bool) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	if compress {
		return filepath.Join(outDir, base+".mapz")
	}
	return filepath.Join(outDir, base+".map")
}

func mapName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

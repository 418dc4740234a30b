package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"mapedit.ai/internal/persistence/snapshot"
	"mapedit.ai/internal/sim/catalogs"
	"mapedit.ai/internal/sim/world"
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/io/mp2codec/mp2test"
)

type recordSink struct {
	mu      sync.Mutex
	entries []world.AuditEntry
}

func (s *recordSink) WriteAudit(e world.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

type recordIndex struct {
	mu   sync.Mutex
	maps map[string]string
}

func (r *recordIndex) RecordMap(path string, m snapshot.MapV3, f snapshot.Format, digest string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maps[path] = digest
}

func writeLegacy(t *testing.T, dir, name string) string {
	t.Helper()
	b := mp2test.New(6, 6)
	b.Name = name
	b.Tile(1, 2).Bottom = &mp2test.Layer{Sheet: 20, Index: 1, UID: 4}
	b.Own(1, 2, uint8(grid.ClassCastle.Action()), b.AddBlock(mp2test.TownBlock(name, 0, 1, false)))
	p := filepath.Join(dir, name+".MP2")
	if err := os.WriteFile(p, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestConverterConvertsBatch(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeLegacy(t, in, "alpha")
	writeLegacy(t, in, "beta")
	if err := os.WriteFile(filepath.Join(in, "broken.mp2"), []byte("nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	inputs, err := expandInputs([]string{in})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(inputs) != 3 {
		t.Fatalf("inputs: %v", inputs)
	}

	sink := &recordSink{}
	idx := &recordIndex{maps: map[string]string{}}
	c := &converter{
		OutDir:   out,
		Compress: true,
		Workers:  2,
		Source:   catalogs.Default(),
		Sinks:    []world.AuditSink{sink},
		Index:    idx,
	}
	results, err := c.Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	ok := 0
	for _, r := range results {
		if filepath.Base(r.In) == "broken.mp2" {
			if r.Err == nil {
				t.Fatalf("broken input converted")
			}
			continue
		}
		if r.Err != nil {
			t.Fatalf("%s: %v", r.In, r.Err)
		}
		ok++
		if filepath.Ext(r.Out) != ".mapz" {
			t.Fatalf("out name: %s", r.Out)
		}
		a, f, err := world.OpenFile(r.Out, catalogs.Default())
		if err != nil {
			t.Fatalf("open %s: %v", r.Out, err)
		}
		if !f.Compressed {
			t.Fatalf("%s not compressed", r.Out)
		}
		if a.StateDigest() != r.Digest {
			t.Fatalf("%s digest changed across save", r.Out)
		}
		if idx.maps[r.Out] != r.Digest {
			t.Fatalf("%s not indexed", r.Out)
		}
		if r.Objects != 1 {
			t.Fatalf("%s objects: %d", r.Out, r.Objects)
		}
	}
	if ok != 2 {
		t.Fatalf("converted %d want 2", ok)
	}
	if len(sink.entries) != 2 {
		t.Fatalf("audit entries: %d", len(sink.entries))
	}
	for _, e := range sink.entries {
		if e.Op != world.OpLoad || e.W != 6 || e.H != 6 {
			t.Fatalf("audit entry: %+v", e)
		}
	}
}

func TestConverterStopsOnCancel(t *testing.T) {
	in := t.TempDir()
	p := writeLegacy(t, in, "gamma")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &converter{OutDir: t.TempDir(), Source: catalogs.Default()}
	if _, err := c.Run(ctx, []string{p}); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("/o", "/in/Big Map.MP2", false); got != filepath.Join("/o", "Big Map.map") {
		t.Fatalf("plain: %s", got)
	}
	if got := outputPath("/o", "x.mx2", true); got != filepath.Join("/o", "x.mapz") {
		t.Fatalf("compressed: %s", got)
	}
	if mapName("/o/x.mapz") != "x" {
		t.Fatalf("mapName")
	}
}

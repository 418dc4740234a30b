package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBackupSkipsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	got, err := Backup(path, 3)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if got != "" {
		t.Fatalf("expected no backup, got %q", got)
	}
}

func TestBackupDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Backup(path, 0)
	if err != nil || got != "" {
		t.Fatalf("Backup with keep=0: %q %v", got, err)
	}
	if _, err := os.Stat(Dir(path)); !os.IsNotExist(err) {
		t.Fatalf("backup dir should not exist: %v", err)
	}
}

func TestBackupCopiesAndPrunes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	for i, body := range []string{"v1", "v2", "v3", "v4"} {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		dst, err := Backup(path, 2)
		if err != nil {
			t.Fatalf("Backup %d: %v", i, err)
		}
		got, err := os.ReadFile(dst)
		if err != nil {
			t.Fatalf("read backup: %v", err)
		}
		if string(got) != body {
			t.Fatalf("backup %d = %q, want %q", i, got, body)
		}
		time.Sleep(2 * time.Millisecond)
	}

	files, err := List(path)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("kept %d backups, want 2", len(files))
	}
	oldest, _ := os.ReadFile(files[0])
	if string(oldest) != "v3" {
		t.Fatalf("oldest kept = %q, want v3", oldest)
	}
	if _, err := os.Stat(filepath.Join(Dir(path), "meta.json")); err != nil {
		t.Fatalf("meta.json: %v", err)
	}
}

package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupMeta describes the backups kept for one map file.
type BackupMeta struct {
	Source  string        `json:"source"`
	Backups []BackupEntry `json:"backups"`
}

type BackupEntry struct {
	File      string `json:"file"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

// Dir returns the backup directory for path: `<dir>/backups/<base>/`.
func Dir(path string) string {
	return filepath.Join(filepath.Dir(path), "backups", filepath.Base(path))
}

// Backup copies the current contents of path into Dir(path) and prunes
// all but the newest keep copies. It returns ("", nil) when keep <= 0 or
// path does not exist yet.
func Backup(path string, keep int) (string, error) {
	if keep <= 0 {
		return "", nil
	}
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	dir := Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	now := time.Now().UTC()
	dst := filepath.Join(dir, fmt.Sprintf("%s-%s", now.Format("20060102T150405.000000000Z"), filepath.Base(path)))
	if err := copyFile(path, dst); err != nil {
		return "", err
	}

	files, err := List(path)
	if err != nil {
		return dst, err
	}
	for len(files) > keep {
		if err := os.Remove(files[0]); err != nil {
			return dst, err
		}
		files = files[1:]
	}

	meta := BackupMeta{Source: filepath.Base(path)}
	for _, f := range files {
		e := BackupEntry{File: filepath.Base(f)}
		if fi, err := os.Stat(f); err == nil {
			e.Size = fi.Size()
			e.CreatedAt = fi.ModTime().UTC().Format(time.RFC3339Nano)
		}
		meta.Backups = append(meta.Backups, e)
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(filepath.Join(dir, "meta.json"), b, 0o644)
	}
	return dst, nil
}

// List returns the backups of path, oldest first.
func List(path string) ([]string, error) {
	dir := Dir(path)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	suffix := "-" + filepath.Base(path)
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

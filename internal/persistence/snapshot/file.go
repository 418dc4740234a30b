package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"mapedit.ai/internal/persistence/archive"
)

type WriteOptions struct {
	Compress bool
	// KeepBackups is how many copies of the previous file to retain
	// under archive's backup directory; zero disables backups.
	KeepBackups int
}

// WriteFile saves m to path atomically: the document goes to a temp file
// in the same directory, is synced, and only then replaces path. On any
// error the existing file is left as it was.
func WriteFile(path string, m MapV3, opt WriteOptions) error {
	data, err := Encode(m, opt.Compress)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if _, err := archive.Backup(path, opt.KeepBackups); err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}

func ReadFile(path string) (MapV3, Format, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return MapV3{}, Format{}, err
	}
	m, f, err := Decode(raw)
	if err != nil {
		return MapV3{}, f, fmt.Errorf("%s: %w", path, err)
	}
	return m, f, nil
}

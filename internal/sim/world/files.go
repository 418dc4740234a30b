package world

import (
	"fmt"
	"time"

	"mapedit.ai/internal/persistence/snapshot"
	"mapedit.ai/internal/sim/world/grid"
)

// SaveFile writes a to path atomically and returns the document written.
// On error the file on disk is unchanged.
func SaveFile(path string, a *Area, opt snapshot.WriteOptions) (snapshot.MapV3, error) {
	m := a.ExportSnapshot()
	m.Header.SavedAt = time.Now().UTC().Format(time.RFC3339)
	if err := snapshot.WriteFile(path, m, opt); err != nil {
		return m, fmt.Errorf("save %s: %w", path, err)
	}
	return m, nil
}

// OpenFile reads a saved map into a new Area and reports the format it was
// stored in.
func OpenFile(path string, src grid.SpriteInfoSource) (*Area, snapshot.Format, error) {
	m, f, err := snapshot.ReadFile(path)
	if err != nil {
		return nil, f, fmt.Errorf("open %s: %w", path, err)
	}
	a, err := ImportSnapshot(m, src)
	if err != nil {
		return nil, f, fmt.Errorf("open %s: %w", path, err)
	}
	return a, f, nil
}

package log

import (
	"encoding/json"
	"path/filepath"

	"mapedit.ai/internal/sim/world"
)

// AuditLogger writes edit audit entries (compressed) under <dir>/audit.
type AuditLogger struct {
	dir string
	w   *JSONLZstdWriter
}

func NewAuditLogger(mapDir string) *AuditLogger {
	dir := filepath.Join(mapDir, "audit")
	return &AuditLogger{dir: dir, w: NewJSONLZstdWriter(dir, "audit")}
}

func (l *AuditLogger) WriteAudit(v world.AuditEntry) error { return l.w.Write(v) }
func (l *AuditLogger) Close() error                        { return l.w.Close() }

// ReadAudit returns every entry logged under mapDir in file order.
func ReadAudit(mapDir string) ([]world.AuditEntry, error) {
	files, err := Files(filepath.Join(mapDir, "audit"), "audit")
	if err != nil {
		return nil, err
	}
	var out []world.AuditEntry
	for _, f := range files {
		err := ReadLines(f, func(line []byte) error {
			var e world.AuditEntry
			if err := json.Unmarshal(line, &e); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

package world

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"mapedit.ai/internal/persistence/snapshot"
	"mapedit.ai/internal/sim/world/grid"
	"mapedit.ai/internal/sim/world/terrain/gen"
)

// Editor serializes edits to one Area so allocate-then-use sequences stay
// atomic when several goroutines edit, and reports each applied edit to
// the audit sinks.
type Editor struct {
	mu     sync.Mutex
	name   string
	area   *Area
	sinks  []AuditSink
	logger *log.Logger
	now    func() time.Time
	seq    uint64
}

func NewEditor(name string, a *Area, logger *log.Logger, sinks ...AuditSink) *Editor {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Editor{name: name, area: a, sinks: sinks, logger: logger, now: time.Now}
}

func (e *Editor) audit(entry AuditEntry) {
	e.seq++
	entry.Seq = e.seq
	entry.Map = e.name
	entry.At = e.now().UTC().Format(time.RFC3339Nano)
	for _, s := range e.sinks {
		if err := s.WriteAudit(entry); err != nil {
			e.logger.Printf("audit %s: %v", entry.Op, err)
		}
	}
}

// View runs fn with the area under the lock. fn must not keep a.
func (e *Editor) View(fn func(a *Area)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.area)
}

// Replace swaps in a freshly loaded area. Clipboards are host-owned and
// unaffected.
func (e *Editor) Replace(name string, a *Area) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
	e.area = a
	e.audit(AuditEntry{Op: OpLoad, W: a.Width(), H: a.Height(), Detail: a.Info.Name})
}

func (e *Editor) Place(c Composite, p grid.Point) (uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	uid, err := e.area.Place(c, p)
	if err != nil {
		return 0, err
	}
	detail := ""
	if c.Object != nil {
		detail = c.Object.Kind().String()
	}
	e.audit(AuditEntry{Op: OpPlace, UID: uid, X: p.X, Y: p.Y, Changed: len(c.Parts), Detail: detail})
	return uid, nil
}

func (e *Editor) Remove(uid uint32) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, removed := e.area.Remove(uid)
	if n > 0 || removed {
		e.audit(AuditEntry{Op: OpRemove, UID: uid, Changed: n})
	}
	return n, removed
}

func (e *Editor) SetGround(p grid.Point, gr grid.Ground) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, err := e.area.SetGround(p, gr)
	if err != nil {
		return 0, err
	}
	e.audit(AuditEntry{Op: OpSetGround, X: p.X, Y: p.Y, Changed: n, Detail: gr.String()})
	return n, nil
}

func (e *Editor) SetPassabilityOverride(p grid.Point, mask grid.Direction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.area.SetPassabilityOverride(p, mask); err != nil {
		return err
	}
	e.audit(AuditEntry{Op: OpOverride, X: p.X, Y: p.Y, Changed: 1, Detail: mask.String()})
	return nil
}

func (e *Editor) FixRegion(rect grid.Rect) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, err := e.area.FixRegion(rect)
	if err != nil {
		return 0, err
	}
	e.audit(AuditEntry{Op: OpFixRegion, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, Changed: n})
	return n, nil
}

func (e *Editor) Generate(ctx context.Context, p gen.Params) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.area.Generate(ctx, p); err != nil {
		return err
	}
	e.audit(AuditEntry{Op: OpGenerate, W: e.area.Width(), H: e.area.Height(), Changed: e.area.grid.Len()})
	return nil
}

// Import copies srcRect of src into the edited area at p. src may be the
// edited area itself.
func (e *Editor) Import(src *Area, srcRect grid.Rect, p grid.Point) (grid.Rect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := ImportArea(e.area, src, srcRect, p)
	if err != nil {
		return r, err
	}
	e.audit(AuditEntry{Op: OpImportArea, X: r.X, Y: r.Y, W: r.W, H: r.H, Changed: r.W * r.H})
	return r, nil
}

func (e *Editor) Copy(cb *Clipboard, rect grid.Rect) (grid.Rect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := cb.Copy(e.area, rect)
	if err != nil {
		return r, err
	}
	e.audit(AuditEntry{Op: OpClipboardCp, X: r.X, Y: r.Y, W: r.W, H: r.H})
	return r, nil
}

func (e *Editor) Paste(cb *Clipboard, p grid.Point) (grid.Rect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, err := cb.Paste(e.area, p)
	if err != nil {
		return r, err
	}
	e.audit(AuditEntry{Op: OpImportArea, X: r.X, Y: r.Y, W: r.W, H: r.H, Changed: r.W * r.H, Detail: "paste"})
	return r, nil
}

// Save writes the area under the lock, so the file matches one state.
func (e *Editor) Save(path string, opt snapshot.WriteOptions) (snapshot.MapV3, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SaveFile(path, e.area, opt)
}

func (e *Editor) StateDigest() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.area.StateDigest()
}

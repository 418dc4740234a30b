package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"mapedit.ai/internal/persistence/snapshot"
	"mapedit.ai/internal/sim/catalogs"
	"mapedit.ai/internal/sim/tuning"
	"mapedit.ai/internal/sim/world"
)

// SQLiteIndex is the map library: one row per saved map plus the edit
// audit trail. Writes are queued to a single goroutine and dropped when
// the queue is full; the map files and JSONL logs stay authoritative.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropMap   atomic.Uint64
	dropAudit atomic.Uint64
}

type reqKind int

const (
	reqMap reqKind = iota + 1
	reqAudit
)

type req struct {
	kind reqKind

	m     MapRow
	audit world.AuditEntry
}

// MapRow is one indexed map file.
type MapRow struct {
	Path       string
	Name       string
	Width      int
	Height     int
	Version    int
	Compressed bool
	Objects    int
	UIDCounter uint32
	Digest     string
	Info       []byte
	Preview    []byte
	SavedAt    string
}

type Stats struct {
	DropMapTotal   uint64
	DropAuditTotal uint64
	QueueDepth     int
	QueueCapacity  int
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS maps (
			path TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			version INTEGER NOT NULL,
			compressed INTEGER NOT NULL,
			objects INTEGER NOT NULL,
			uid_counter INTEGER NOT NULL,
			digest TEXT NOT NULL,
			info BLOB,
			preview BLOB,
			saved_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_maps_name ON maps(name);`,
		`CREATE TABLE IF NOT EXISTS audits (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			map TEXT NOT NULL,
			op TEXT NOT NULL,
			uid INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			w INTEGER NOT NULL,
			h INTEGER NOT NULL,
			changed INTEGER NOT NULL,
			raw_json TEXT NOT NULL,
			at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_map_op ON audits(map, op);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_uid ON audits(uid);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close drains the queue and closes the database.
func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		DropMapTotal:   s.dropMap.Load(),
		DropAuditTotal: s.dropAudit.Load(),
		QueueDepth:     len(s.ch),
		QueueCapacity:  cap(s.ch),
	}
}

// WriteAudit queues an edit for the audits table. It never blocks.
func (s *SQLiteIndex) WriteAudit(entry world.AuditEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqAudit, audit: entry}:
	default:
		s.dropAudit.Add(1)
	}
	return nil
}

// RecordMap queues an upsert of the map saved at path.
func (s *SQLiteIndex) RecordMap(path string, m snapshot.MapV3, f snapshot.Format, digest string) {
	if s == nil || s.closed.Load() {
		return
	}
	r := MapRow{
		Path:       path,
		Name:       m.Header.Name,
		Width:      m.Header.Width,
		Height:     m.Header.Height,
		Version:    f.Version,
		Compressed: f.Compressed,
		Objects: len(m.Towns) + len(m.Heroes) + len(m.Signs) + len(m.Events) + len(m.Sphinxes) +
			len(m.Resources) + len(m.Monsters) + len(m.Artifacts) + len(m.ActionLists),
		UIDCounter: m.Header.UIDCounter,
		Digest:     digest,
		Info:       m.Info,
		Preview:    m.Preview,
		SavedAt:    m.Header.SavedAt,
	}
	if r.SavedAt == "" {
		r.SavedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	select {
	case s.ch <- req{kind: reqMap, m: r}:
	default:
		s.dropMap.Add(1)
	}
}

// UpsertCatalogs stores the sprite catalog and tuning in effect so an
// index can be matched to the configuration that produced it.
func (s *SQLiteIndex) UpsertCatalogs(cat *catalogs.Catalog, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if cat != nil {
		sheets := make([]*catalogs.SheetDef, 0, len(cat.Sheets))
		for _, sh := range cat.Sheets {
			sheets = append(sheets, sh)
		}
		sort.Slice(sheets, func(i, j int) bool { return sheets[i].ID < sheets[j].ID })
		if b, _ := json.Marshal(sheets); len(b) > 0 {
			rows = append(rows, kv{name: "sprites", digest: cat.Digest, json: b})
		}
	}
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns every indexed map ordered by path. Rows still queued are
// not visible until the writer commits them.
func (s *SQLiteIndex) List(ctx context.Context) ([]MapRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path,name,width,height,version,compressed,objects,uid_counter,digest,info,preview,saved_at FROM maps ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MapRow
	for rows.Next() {
		var r MapRow
		if err := rows.Scan(&r.Path, &r.Name, &r.Width, &r.Height, &r.Version, &r.Compressed, &r.Objects, &r.UIDCounter, &r.Digest, &r.Info, &r.Preview, &r.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Lookup returns the row for path; ok is false when it is not indexed.
func (s *SQLiteIndex) Lookup(ctx context.Context, path string) (MapRow, bool, error) {
	var r MapRow
	err := s.db.QueryRowContext(ctx, `SELECT path,name,width,height,version,compressed,objects,uid_counter,digest,info,preview,saved_at FROM maps WHERE path=?`, path).
		Scan(&r.Path, &r.Name, &r.Width, &r.Height, &r.Version, &r.Compressed, &r.Objects, &r.UIDCounter, &r.Digest, &r.Info, &r.Preview, &r.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return MapRow{}, false, nil
	}
	if err != nil {
		return MapRow{}, false, err
	}
	return r, true, nil
}

// AuditCount returns how many audit rows are stored for a map and op; an
// empty op counts every op.
func (s *SQLiteIndex) AuditCount(ctx context.Context, mapName, op string) (int, error) {
	var n int
	var err error
	if op == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audits WHERE map=?`, mapName).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audits WHERE map=? AND op=?`, mapName, op).Scan(&n)
	}
	return n, err
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	upsertMap, _ := s.db.Prepare(`INSERT OR REPLACE INTO maps(path,name,width,height,version,compressed,objects,uid_counter,digest,info,preview,saved_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`)
	insertAudit, _ := s.db.Prepare(`INSERT INTO audits(map,op,uid,x,y,w,h,changed,raw_json,at) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		if upsertMap != nil {
			_ = upsertMap.Close()
		}
		if insertAudit != nil {
			_ = insertAudit.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqMap:
			m := r.m
			if upsertMap == nil {
				continue
			}
			if _, err := tx.Stmt(upsertMap).Exec(
				m.Path, m.Name, m.Width, m.Height, m.Version, m.Compressed,
				m.Objects, int64(m.UIDCounter), m.Digest, m.Info, m.Preview, m.SavedAt,
			); err != nil {
				rollback()
				continue
			}
			opCount++
			// saves are rare and a list should see them promptly
			commit()

		case reqAudit:
			a := r.audit
			if insertAudit == nil {
				continue
			}
			raw, _ := json.Marshal(a)
			if _, err := tx.Stmt(insertAudit).Exec(
				a.Map, a.Op, int64(a.UID), a.X, a.Y, a.W, a.H, a.Changed, string(raw), a.At,
			); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}
	commit()
}

// Package storage provides SQLite-based persistence for match journals.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// Terrain is never stored: a match row keeps the seed and the full ground
// config, and the deltas table keeps every applied dig and collect in
// sequence order, which is enough to rebuild the match exactly.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/deepfront/internal/config"
	"github.com/vovakirdan/deepfront/internal/replication"
)

// Store manages the SQLite database connection for match journals.
type Store struct {
	db *sql.DB
}

// MatchRecord describes one journaled match.
type MatchRecord struct {
	ID         int64
	MatchID    string
	Seed       int64
	Width      float64 // World units
	Height     float64 // World units
	Resolution int
	CreatedAt  time.Time

	// Ground generated the match. When set, CreateMatch takes the world
	// shape from it. Zero for rows recorded before configs were stored.
	Ground config.GroundConfig

	// Filled by listing queries.
	Deltas int
	Cells  int
}

// HasGround reports whether the row carries its generation config.
func (m MatchRecord) HasGround() bool {
	return m.Ground.World.Resolution > 0
}

// GroundConfig returns the config that generated the match. Rows without a
// recorded config get base with the recorded world shape; exact is false
// for them, since the rest of base may differ from what was used.
func (m MatchRecord) GroundConfig(base config.GroundConfig) (cfg config.GroundConfig, exact bool) {
	if m.HasGround() {
		return m.Ground, true
	}
	base.World.Width = m.Width
	base.World.Height = m.Height
	base.World.Resolution = m.Resolution
	return base, false
}

// DeltaRecord is one journaled delta.
type DeltaRecord struct {
	MatchID   string
	Seq       uint64
	Tick      uint64
	Kind      string
	Payload   []byte
	Cells     int
	CreatedAt time.Time
}

// Data returns the record in the replication package's form.
func (r DeltaRecord) Data() replication.DeltaData {
	return replication.DeltaData{
		MatchID: r.MatchID,
		Seq:     r.Seq,
		Tick:    r.Tick,
		Kind:    r.Kind,
		Payload: r.Payload,
		Cells:   r.Cells,
	}
}

// ErrMatchExists is returned when creating a match whose id is taken.
var ErrMatchExists = errors.New("storage: match already exists")

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			seed INTEGER NOT NULL,
			width REAL NOT NULL,
			height REAL NOT NULL,
			resolution INTEGER NOT NULL,
			config TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS deltas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			tick INTEGER NOT NULL,
			kind TEXT NOT NULL,
			payload TEXT NOT NULL,
			cells INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (match_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_deltas_match ON deltas(match_id, seq);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Journals created before configs were recorded.
	has, err := s.hasColumn("matches", "config")
	if err != nil {
		return err
	}
	if !has {
		_, err = s.db.Exec(`ALTER TABLE matches ADD COLUMN config TEXT NOT NULL DEFAULT ''`)
	}
	return err
}

func (s *Store) hasColumn(table, column string) (bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateMatch records a new match. Returns the row ID.
func (s *Store) CreateMatch(m MatchRecord) (int64, error) {
	existing, err := s.Match(m.MatchID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, fmt.Errorf("%w: %s", ErrMatchExists, m.MatchID)
	}

	var cfgText string
	if m.HasGround() {
		m.Width = m.Ground.World.Width
		m.Height = m.Ground.World.Height
		m.Resolution = m.Ground.World.Resolution
		data, err := config.Encode(m.Ground)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot record config: %w", err)
		}
		cfgText = string(data)
	}

	res, err := s.db.Exec(
		`INSERT INTO matches (match_id, seed, width, height, resolution, config)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.MatchID, m.Seed, m.Width, m.Height, m.Resolution, cfgText,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot create match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Match retrieves a match by its match ID. Returns nil if not found.
func (s *Store) Match(matchID string) (*MatchRecord, error) {
	row := s.db.QueryRow(
		`SELECT m.id, m.match_id, m.seed, m.width, m.height, m.resolution, m.config, m.created_at,
		        COUNT(d.id), COALESCE(SUM(d.cells), 0)
		 FROM matches m
		 LEFT JOIN deltas d ON d.match_id = m.match_id
		 WHERE m.match_id = ?
		 GROUP BY m.id`,
		matchID,
	)

	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// scanMatch reads one row of the match listing columns.
func scanMatch(row interface{ Scan(dest ...any) error }) (MatchRecord, error) {
	var m MatchRecord
	var cfgText string
	var createdAt any
	if err := row.Scan(&m.ID, &m.MatchID, &m.Seed, &m.Width, &m.Height, &m.Resolution, &cfgText, &createdAt, &m.Deltas, &m.Cells); err != nil {
		return m, err
	}
	m.CreatedAt = parseTime(createdAt)
	if cfgText != "" {
		cfg, err := config.Decode([]byte(cfgText))
		if err != nil {
			return m, fmt.Errorf("match %s: %w", m.MatchID, err)
		}
		m.Ground = cfg
	}
	return m, nil
}

// RecentMatches retrieves the most recent matches with their delta totals.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT m.id, m.match_id, m.seed, m.width, m.height, m.resolution, m.config, m.created_at,
		        COUNT(d.id), COALESCE(SUM(d.cells), 0)
		 FROM matches m
		 LEFT JOIN deltas d ON d.match_id = m.match_id
		 GROUP BY m.id
		 ORDER BY m.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// DeleteMatch removes a match and its deltas.
func (s *Store) DeleteMatch(matchID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec("DELETE FROM deltas WHERE match_id = ?", matchID); err != nil {
		return fmt.Errorf("storage: cannot delete deltas: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM matches WHERE match_id = ?", matchID); err != nil {
		return fmt.Errorf("storage: cannot delete match: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// SaveDelta implements replication.Journal.
func (s *Store) SaveDelta(data replication.DeltaData) error {
	_, err := s.db.Exec(
		`INSERT INTO deltas (match_id, seq, tick, kind, payload, cells)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		data.MatchID, int64(data.Seq), int64(data.Tick), data.Kind, string(data.Payload), data.Cells,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save delta %s/%d: %w", data.MatchID, data.Seq, err)
	}
	return nil
}

// Ensure Store implements Journal
var _ replication.Journal = (*Store)(nil)

// Deltas retrieves every delta of a match in sequence order.
func (s *Store) Deltas(matchID string) ([]DeltaRecord, error) {
	rows, err := s.db.Query(
		`SELECT match_id, seq, tick, kind, payload, cells, created_at
		 FROM deltas
		 WHERE match_id = ?
		 ORDER BY seq ASC`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query deltas: %w", err)
	}
	defer rows.Close()

	var out []DeltaRecord
	for rows.Next() {
		var r DeltaRecord
		var seq, tick int64
		var payload string
		var createdAt any
		if err := rows.Scan(&r.MatchID, &seq, &tick, &r.Kind, &payload, &r.Cells, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Seq = uint64(seq)
		r.Tick = uint64(tick)
		r.Payload = []byte(payload)
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

package persist

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/masking-engine/go-engine/internal/prompt"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/transition"
)

// #endregion imports

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	masking       REAL NOT NULL,
	energy        REAL NOT NULL,
	safety        REAL NOT NULL,
	environment   TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transitions (
	id            TEXT PRIMARY KEY,
	type          TEXT NOT NULL,
	confidence    REAL NOT NULL,
	payload_json  TEXT,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS prompts (
	id            TEXT PRIMARY KEY,
	category      TEXT NOT NULL,
	prompt_text   TEXT NOT NULL,
	scheduled_at  TEXT NOT NULL,
	deliver_at    TEXT NOT NULL,
	delivered     INTEGER NOT NULL,
	delivered_at  TEXT
);

CREATE TABLE IF NOT EXISTS baselines (
	dimension     TEXT PRIMARY KEY,
	value         REAL NOT NULL,
	warmup_count  INTEGER NOT NULL,
	updated_at    TEXT NOT NULL
);
`

// #endregion schema

// #region store

// Store is the optional cross-session persistence adapter: session
// snapshots, transition log, prompt history, and baseline warm-start.
// The engine runs fully in-memory without one.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store

// #region snapshots

// SnapshotRow is one stored snapshot of the session levels.
type SnapshotRow struct {
	Masking     float64
	Energy      float64
	Safety      float64
	Environment signal.Environment
	CreatedAt   time.Time
}

// SaveSnapshot appends a snapshot row.
func (s *Store) SaveSnapshot(row SnapshotRow) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (masking, energy, safety, environment, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		row.Masking, row.Energy, row.Safety, string(row.Environment),
		row.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// RecentSnapshots returns the most recent snapshots, newest first.
func (s *Store) RecentSnapshots(limit int) ([]SnapshotRow, error) {
	rows, err := s.db.Query(
		`SELECT masking, energy, safety, environment, created_at
		 FROM snapshots ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var r SnapshotRow
		var env, created string
		if err := rows.Scan(&r.Masking, &r.Energy, &r.Safety, &env, &created); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		r.Environment = signal.Environment(env)
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion snapshots

// #region transitions

// SaveTransition appends a transition event to the log.
func (s *Store) SaveTransition(ev transition.Event) error {
	var payload interface{}
	if len(ev.Payload) > 0 {
		b, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		payload = string(b)
	}
	_, err := s.db.Exec(
		`INSERT INTO transitions (id, type, confidence, payload_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Type), ev.Confidence, payload,
		ev.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save transition: %w", err)
	}
	return nil
}

// RecentTransitions returns the most recent transitions, newest first.
func (s *Store) RecentTransitions(limit int) ([]transition.Event, error) {
	rows, err := s.db.Query(
		`SELECT id, type, confidence, payload_json, created_at
		 FROM transitions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var out []transition.Event
	for rows.Next() {
		var ev transition.Event
		var typ, created string
		var payload sql.NullString
		if err := rows.Scan(&ev.ID, &typ, &ev.Confidence, &payload, &created); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		ev.Type = transition.Type(typ)
		if payload.Valid {
			if err := json.Unmarshal([]byte(payload.String), &ev.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal payload: %w", err)
			}
		}
		ev.At, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// #endregion transitions

// #region prompts

// SavePrompt upserts a prompt record (scheduled, then again on delivery).
func (s *Store) SavePrompt(rec prompt.Record) error {
	var deliveredAt interface{}
	if rec.Delivered {
		deliveredAt = rec.DeliveredAt.UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.Exec(
		`INSERT INTO prompts (id, category, prompt_text, scheduled_at, deliver_at, delivered, delivered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET delivered = excluded.delivered, delivered_at = excluded.delivered_at`,
		rec.ID, string(rec.Category), rec.Text,
		rec.ScheduledAt.UTC().Format(time.RFC3339Nano),
		rec.DeliverAt.UTC().Format(time.RFC3339Nano),
		boolToInt(rec.Delivered), deliveredAt,
	)
	if err != nil {
		return fmt.Errorf("save prompt: %w", err)
	}
	return nil
}

// RecentPrompts returns the most recent prompt records, newest first.
func (s *Store) RecentPrompts(limit int) ([]prompt.Record, error) {
	rows, err := s.db.Query(
		`SELECT id, category, prompt_text, scheduled_at, deliver_at, delivered, delivered_at
		 FROM prompts ORDER BY scheduled_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var out []prompt.Record
	for rows.Next() {
		var rec prompt.Record
		var cat, scheduled, deliver string
		var delivered int
		var deliveredAt sql.NullString
		if err := rows.Scan(&rec.ID, &cat, &rec.Text, &scheduled, &deliver, &delivered, &deliveredAt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		rec.Category = prompt.Category(cat)
		rec.ScheduledAt, _ = time.Parse(time.RFC3339Nano, scheduled)
		rec.DeliverAt, _ = time.Parse(time.RFC3339Nano, deliver)
		rec.Delivered = delivered != 0
		if deliveredAt.Valid {
			rec.DeliveredAt, _ = time.Parse(time.RFC3339Nano, deliveredAt.String)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion prompts

// #region baselines

// BaselineRow is a persisted per-dimension baseline for warm-starting
// the next session.
type BaselineRow struct {
	Dimension   signal.Dimension
	Value       float64
	WarmupCount int
	UpdatedAt   time.Time
}

// UpsertBaseline writes the latest baseline for a dimension.
func (s *Store) UpsertBaseline(row BaselineRow) error {
	_, err := s.db.Exec(
		`INSERT INTO baselines (dimension, value, warmup_count, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(dimension) DO UPDATE SET
		   value = excluded.value,
		   warmup_count = excluded.warmup_count,
		   updated_at = excluded.updated_at`,
		string(row.Dimension), row.Value, row.WarmupCount,
		row.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert baseline: %w", err)
	}
	return nil
}

// LoadBaselines returns all persisted baselines.
func (s *Store) LoadBaselines() ([]BaselineRow, error) {
	rows, err := s.db.Query(`SELECT dimension, value, warmup_count, updated_at FROM baselines`)
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}
	defer rows.Close()

	var out []BaselineRow
	for rows.Next() {
		var r BaselineRow
		var dim, updated string
		if err := rows.Scan(&dim, &r.Value, &r.WarmupCount, &updated); err != nil {
			return nil, fmt.Errorf("scan baseline: %w", err)
		}
		r.Dimension = signal.Dimension(dim)
		r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion baselines

// #region helpers

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers

// Package store persists tracker records in an embedded SQLite database.
// Record payloads are stored as JSON documents alongside the columns used
// for scoping and listing, and every collection is scoped to a system.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// StorageError wraps a failed persistence call. In-memory state is not
// rolled back by callers; edits are optimistic and the failure is
// surfaced to the user.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the SQLite-backed persistence collaborator.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS systems (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_date TEXT NOT NULL,
	updated_date TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS poams (
	id INTEGER NOT NULL,
	system_id TEXT NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (id, system_id)
);
CREATE TABLE IF NOT EXISTS notes (
	id TEXT NOT NULL,
	system_id TEXT NOT NULL,
	folder TEXT,
	payload TEXT NOT NULL,
	PRIMARY KEY (id, system_id)
);
CREATE TABLE IF NOT EXISTS stig_mappings (
	id TEXT NOT NULL,
	system_id TEXT NOT NULL,
	name TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_date TEXT NOT NULL,
	PRIMARY KEY (id, system_id)
);
CREATE TABLE IF NOT EXISTS stp_prep_lists (
	id TEXT NOT NULL,
	system_id TEXT NOT NULL,
	name TEXT NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (id, system_id)
);
CREATE TABLE IF NOT EXISTS security_test_plans (
	id TEXT NOT NULL,
	system_id TEXT NOT NULL,
	name TEXT NOT NULL,
	payload TEXT NOT NULL,
	PRIMARY KEY (id, system_id)
);
CREATE INDEX IF NOT EXISTS idx_poams_system ON poams(system_id);
CREATE INDEX IF NOT EXISTS idx_notes_system ON notes(system_id);
CREATE INDEX IF NOT EXISTS idx_mappings_system ON stig_mappings(system_id);
`

// Open opens (creating when necessary) the database at path. ":memory:"
// is accepted for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &StorageError{Op: "open", Err: err}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StorageError{Op: "migrate", Err: err}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// CreateSystem inserts or replaces a system record.
func (s *Store) CreateSystem(ctx context.Context, sys model.System) error {
	payload, err := json.Marshal(sys)
	if err != nil {
		return &StorageError{Op: "save system", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO systems (id, name, payload, created_date, updated_date) VALUES (?, ?, ?, ?, ?)`,
		sys.ID, sys.Name, string(payload), sys.CreatedDate.Format(time.RFC3339), sys.UpdatedDate.Format(time.RFC3339))
	if err != nil {
		return &StorageError{Op: "save system", Err: err}
	}
	return nil
}

// ListSystems returns every system, ordered by name.
func (s *Store) ListSystems(ctx context.Context) ([]model.System, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM systems ORDER BY name`)
	if err != nil {
		return nil, &StorageError{Op: "list systems", Err: err}
	}
	defer rows.Close()
	return scanPayloads[model.System](rows, "list systems")
}

// DeleteSystem removes a system and all of its scoped records.
func (s *Store) DeleteSystem(ctx context.Context, systemID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "delete system", Err: err}
	}
	defer tx.Rollback()

	for _, table := range []string{"poams", "notes", "stig_mappings", "stp_prep_lists", "security_test_plans"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE system_id = ?`, table), systemID); err != nil {
			return &StorageError{Op: "delete system", Err: err}
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM systems WHERE id = ?`, systemID); err != nil {
		return &StorageError{Op: "delete system", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "delete system", Err: err}
	}
	return nil
}

// SavePOAM inserts or replaces a POA&M in a system's collection.
func (s *Store) SavePOAM(ctx context.Context, systemID string, poam model.POAM) error {
	return s.savePayload(ctx, "save poam",
		`INSERT OR REPLACE INTO poams (id, system_id, payload) VALUES (?, ?, ?)`,
		poam, poam.ID, systemID)
}

// ListPOAMs returns a system's POA&Ms.
func (s *Store) ListPOAMs(ctx context.Context, systemID string) ([]model.POAM, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM poams WHERE system_id = ? ORDER BY id`, systemID)
	if err != nil {
		return nil, &StorageError{Op: "list poams", Err: err}
	}
	defer rows.Close()
	return scanPayloads[model.POAM](rows, "list poams")
}

// SaveNote inserts or replaces a note.
func (s *Store) SaveNote(ctx context.Context, systemID string, note model.Note) error {
	payload, err := json.Marshal(note)
	if err != nil {
		return &StorageError{Op: "save note", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO notes (id, system_id, folder, payload) VALUES (?, ?, ?, ?)`,
		note.ID, systemID, note.Folder, string(payload))
	if err != nil {
		return &StorageError{Op: "save note", Err: err}
	}
	return nil
}

// ListNotes returns a system's notes.
func (s *Store) ListNotes(ctx context.Context, systemID string) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM notes WHERE system_id = ? ORDER BY id`, systemID)
	if err != nil {
		return nil, &StorageError{Op: "list notes", Err: err}
	}
	defer rows.Close()
	return scanPayloads[model.Note](rows, "list notes")
}

// ListNoteFolders returns the distinct folder names used by a system's
// notes. The folder list lives here, not in process-wide state.
func (s *Store) ListNoteFolders(ctx context.Context, systemID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT folder FROM notes WHERE system_id = ? AND folder IS NOT NULL AND folder != '' ORDER BY folder`,
		systemID)
	if err != nil {
		return nil, &StorageError{Op: "list note folders", Err: err}
	}
	defer rows.Close()

	var folders []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, &StorageError{Op: "list note folders", Err: err}
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// SaveMapping inserts or replaces a stored mapping.
func (s *Store) SaveMapping(ctx context.Context, systemID string, mapping model.StoredMapping) error {
	payload, err := json.Marshal(mapping)
	if err != nil {
		return &StorageError{Op: "save mapping", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO stig_mappings (id, system_id, name, payload, created_date) VALUES (?, ?, ?, ?, ?)`,
		mapping.ID, systemID, mapping.Name, string(payload), mapping.CreatedDate.Format(time.RFC3339))
	if err != nil {
		return &StorageError{Op: "save mapping", Err: err}
	}
	return nil
}

// GetMapping fetches one stored mapping. Returns ErrNotFound when absent.
func (s *Store) GetMapping(ctx context.Context, systemID, id string) (model.StoredMapping, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM stig_mappings WHERE system_id = ? AND id = ?`, systemID, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StoredMapping{}, ErrNotFound
	}
	if err != nil {
		return model.StoredMapping{}, &StorageError{Op: "get mapping", Err: err}
	}

	var mapping model.StoredMapping
	if err := json.Unmarshal([]byte(payload), &mapping); err != nil {
		return model.StoredMapping{}, &StorageError{Op: "get mapping", Err: err}
	}
	return mapping, nil
}

// ListMappings returns a system's stored mappings, newest first.
func (s *Store) ListMappings(ctx context.Context, systemID string) ([]model.StoredMapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM stig_mappings WHERE system_id = ? ORDER BY created_date DESC`, systemID)
	if err != nil {
		return nil, &StorageError{Op: "list mappings", Err: err}
	}
	defer rows.Close()
	return scanPayloads[model.StoredMapping](rows, "list mappings")
}

// DeleteMapping removes one stored mapping.
func (s *Store) DeleteMapping(ctx context.Context, systemID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM stig_mappings WHERE system_id = ? AND id = ?`, systemID, id)
	if err != nil {
		return &StorageError{Op: "delete mapping", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SavePrepList inserts or replaces a prep list.
func (s *Store) SavePrepList(ctx context.Context, systemID string, prep model.PrepList) error {
	return s.savePayload(ctx, "save prep list",
		`INSERT OR REPLACE INTO stp_prep_lists (id, system_id, name, payload) VALUES (?, ?, ?, ?)`,
		prep, prep.ID, systemID, prep.Name)
}

// ListPrepLists returns a system's prep lists.
func (s *Store) ListPrepLists(ctx context.Context, systemID string) ([]model.PrepList, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM stp_prep_lists WHERE system_id = ? ORDER BY name`, systemID)
	if err != nil {
		return nil, &StorageError{Op: "list prep lists", Err: err}
	}
	defer rows.Close()
	return scanPayloads[model.PrepList](rows, "list prep lists")
}

// DeletePrepList removes one prep list.
func (s *Store) DeletePrepList(ctx context.Context, systemID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM stp_prep_lists WHERE system_id = ? AND id = ?`, systemID, id)
	if err != nil {
		return &StorageError{Op: "delete prep list", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveTestPlan inserts or replaces a security test plan.
func (s *Store) SaveTestPlan(ctx context.Context, systemID string, plan model.TestPlan) error {
	return s.savePayload(ctx, "save test plan",
		`INSERT OR REPLACE INTO security_test_plans (id, system_id, name, payload) VALUES (?, ?, ?, ?)`,
		plan, plan.ID, systemID, plan.Name)
}

// ListTestPlans returns a system's security test plans.
func (s *Store) ListTestPlans(ctx context.Context, systemID string) ([]model.TestPlan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM security_test_plans WHERE system_id = ? ORDER BY name`, systemID)
	if err != nil {
		return nil, &StorageError{Op: "list test plans", Err: err}
	}
	defer rows.Close()
	return scanPayloads[model.TestPlan](rows, "list test plans")
}

// savePayload marshals a record and executes an insert whose payload is
// the final bound parameter after the provided key columns.
func (s *Store) savePayload(ctx context.Context, op, query string, record any, keys ...any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	args := append(keys, string(payload))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

func scanPayloads[T any](rows *sql.Rows, op string) ([]T, error) {
	var out []T
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, &StorageError{Op: op, Err: err}
		}
		var record T
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			return nil, &StorageError{Op: op, Err: err}
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	return out, nil
}

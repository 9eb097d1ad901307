package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/adjudilane/verdict/pkg/chain"
)

// SQL dialects supported by SQLStore.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore persists chains as canonical JSON rows keyed by graph id.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// Open connects a database by driver name and DSN.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", driver, err)
	}
	return db, nil
}

func NewSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
		return &SQLStore{db: db, driver: driver}, nil
	}
	return nil, fmt.Errorf("store: unsupported driver %q", driver)
}

// Init creates the chains table if it does not exist.
func (s *SQLStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS verdict_chains (
			graph_id TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			saved_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("store: creating table: %w", err)
	}
	return nil
}

func (s *SQLStore) Save(ctx context.Context, ch *chain.Chain) error {
	data, err := ch.CanonicalJSON()
	if err != nil {
		return fmt.Errorf("store: encoding chain %s: %w", ch.GraphID(), err)
	}

	query := `
		INSERT INTO verdict_chains (graph_id, body, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT (graph_id) DO UPDATE SET
			body = excluded.body,
			saved_at = excluded.saved_at`
	if s.driver == DriverPostgres {
		query = `
		INSERT INTO verdict_chains (graph_id, body, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (graph_id) DO UPDATE SET
			body = EXCLUDED.body,
			saved_at = EXCLUDED.saved_at`
	}

	if _, err := s.db.ExecContext(ctx, query, ch.GraphID(), string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("store: saving chain %s: %w", ch.GraphID(), err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context, graphID string) (*chain.Chain, error) {
	query := `SELECT body FROM verdict_chains WHERE graph_id = ?`
	if s.driver == DriverPostgres {
		query = `SELECT body FROM verdict_chains WHERE graph_id = $1`
	}

	var body string
	err := s.db.QueryRowContext(ctx, query, graphID).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: chain %s not found", graphID)
	}
	if err != nil {
		return nil, fmt.Errorf("store: loading chain %s: %w", graphID, err)
	}

	var ch chain.Chain
	if err := json.Unmarshal([]byte(body), &ch); err != nil {
		return nil, fmt.Errorf("store: decoding chain %s: %w", graphID, err)
	}
	return &ch, nil
}

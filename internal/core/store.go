package core

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/3cpo-dev/towerctl/pkg/api"
)

// Store is a SQLite-backed delivery journal.
type Store struct {
	db *sql.DB

	mu  sync.Mutex
	seq int64
}

//go:embed migrations/*.sql
var migrationFS embed.FS

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.QueryRow(`SELECT COALESCE(MAX(seq), 0) FROM deliveries`).Scan(&s.seq); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("read sequence: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema, err := migrationFS.ReadFile("migrations/0001_init.sql")
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// Record appends a delivery to the journal.
func (s *Store) Record(ctx context.Context, d api.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deliveries (id, flight, kind, requested, suggested, at_unix_ns, seq) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Flight, string(d.Kind), d.Requested, d.Suggested, d.At.UnixNano(), s.seq)
	if err != nil {
		s.seq--
		return fmt.Errorf("insert delivery %s: %w", d.ID, err)
	}
	return nil
}

// List returns deliveries in the order they were recorded. An empty flight
// lists every flight.
func (s *Store) List(ctx context.Context, flight string) ([]api.Delivery, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, flight, kind, requested, suggested, at_unix_ns FROM deliveries WHERE ? = '' OR flight = ? ORDER BY seq`,
		flight, flight)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	var out []api.Delivery
	for rows.Next() {
		var d api.Delivery
		var kind string
		var at int64
		if err := rows.Scan(&d.ID, &d.Flight, &kind, &d.Requested, &d.Suggested, &at); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		d.Kind = api.Kind(kind)
		d.At = time.Unix(0, at).UTC()
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("db not initialized")
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

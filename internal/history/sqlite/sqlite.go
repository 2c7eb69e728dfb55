package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/trucklab/ets2ctl/internal/history"
)

// Sink writes supervisor events to a SQLite database, the default local
// audit trail.
type Sink struct {
	db *sql.DB
}

// New creates a new SQLite history sink.
// DSN format:
//   - "sqlite:///path/to/file.db"
//   - "sqlite://:memory:"
//   - "/path/to/file.db" (without prefix)
//   - ":memory:" (in-memory database)
func New(dsn string) (*Sink, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("empty SQLite DSN")
	}
	if strings.HasPrefix(strings.ToLower(dsn), "sqlite://") {
		dsn = strings.TrimPrefix(dsn, "sqlite://")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	sink := &Sink{db: db}
	if err := sink.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sink, nil
}

func (s *Sink) ensureSchema(ctx context.Context) error {
	// Append-only audit table, no primary key.
	stmt := `CREATE TABLE IF NOT EXISTS server_history(
		timestamp TIMESTAMP NOT NULL DEFAULT (CURRENT_TIMESTAMP),
		name TEXT NOT NULL,
		op TEXT NOT NULL,
		ok INTEGER NOT NULL,
		pid INTEGER NOT NULL,
		detail TEXT
	);`
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

func (s *Sink) Send(ctx context.Context, e history.Event) error {
	ok := 0
	if e.OK {
		ok = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO server_history(timestamp, name, op, ok, pid, detail)
		VALUES(?, ?, ?, ?, ?, ?);`,
		e.OccurredAt.UTC(), e.Name, e.Op, ok, e.PID, e.Detail)
	return err
}

func (s *Sink) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

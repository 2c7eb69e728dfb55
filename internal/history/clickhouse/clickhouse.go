package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/trucklab/ets2ctl/internal/history"
)

// Sink sends supervisor events to ClickHouse using the official Go client.
type Sink struct {
	conn  driver.Conn
	table string
}

func New(addr, database, username, password, table string) (*Sink, error) {
	if database == "" {
		database = "default"
	}
	if username == "" {
		username = "default"
	}
	if table == "" {
		table = "server_history"
	}
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	s := &Sink{conn: conn, table: table}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) ensureSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		timestamp DateTime,
		name String,
		op String,
		ok UInt8,
		pid Int32,
		detail String
	) ENGINE = MergeTree() ORDER BY timestamp`, s.table)
	return s.conn.Exec(ctx, stmt)
}

func (s *Sink) Send(ctx context.Context, e history.Event) error {
	ok := uint8(0)
	if e.OK {
		ok = 1
	}
	query := fmt.Sprintf(`INSERT INTO %s (timestamp, name, op, ok, pid, detail) VALUES (?, ?, ?, ?, ?, ?)`, s.table)
	if err := s.conn.Exec(ctx, query, e.OccurredAt.UTC(), e.Name, e.Op, ok, int32(e.PID), e.Detail); err != nil {
		return fmt.Errorf("failed to insert event into ClickHouse: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

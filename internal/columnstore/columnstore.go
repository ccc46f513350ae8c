// Package columnstore wraps the ClickHouse driver as the gateway's
// column-store Writer, and answers the one read query the service needs
// (the latest step recorded for a run).
package columnstore

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"
)

// Store holds the native ClickHouse connection used both for batch inserts
// (via ingest.Writer) and the step lookup.
type Store struct {
	conn   driver.Conn
	logger *zap.Logger
}

// Open dials ClickHouse at addr using the given credentials.
func Open(addr, user, password string, logger *zap.Logger) (*Store, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Username: user,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("columnstore: open: %w", err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("columnstore: ping: %w", err)
	}
	return &Store{conn: conn, logger: logger}, nil
}

// WriteBatch implements ingest.Writer. When async is true it flips on
// ClickHouse's async_insert setting and does not wait for the insert to be
// acknowledged on disk, trading a sliver of durability for throughput on
// the common case of small, frequent batches.
func (s *Store) WriteBatch(ctx context.Context, table string, rows []any, async bool) error {
	if len(rows) == 0 {
		return nil
	}

	if async {
		ctx = clickhouse.Context(ctx, clickhouse.WithSettings(clickhouse.Settings{
			"async_insert":          1,
			"wait_for_async_insert": 0,
		}))
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("columnstore: prepare batch for %s: %w", table, err)
	}

	for _, row := range rows {
		if err := batch.AppendStruct(row); err != nil {
			return fmt.Errorf("columnstore: append row to %s: %w", table, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("columnstore: send batch to %s: %w", table, err)
	}
	return nil
}

// MaxStep returns the highest step recorded for a run. hasRows is false
// when no metric rows exist for the given (tenant, project, run) tuple, so
// callers can distinguish "no data yet" from a legitimate step of 0.
func (s *Store) MaxStep(ctx context.Context, table, tenantID, projectName string, runID uint64) (step uint64, hasRows bool, err error) {
	const query = `SELECT max(step) AS step, count(*) AS cnt FROM ? WHERE tenantId = ? AND projectName = ? AND runId = ?`

	row := s.conn.QueryRow(ctx, query, clickhouse.Identifier(table), tenantID, projectName, runID)

	var cnt uint64
	if scanErr := row.Scan(&step, &cnt); scanErr != nil {
		return 0, false, fmt.Errorf("columnstore: max step query: %w", scanErr)
	}
	return step, cnt > 0, nil
}

// Ping checks connectivity, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

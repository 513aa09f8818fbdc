// Package store copies exported subsets into Postgres.
//
// Each export becomes one batch of (country, year, value) rows sharing an
// export_id, written with a single COPY so a batch is never half-published.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/emissions/internal/core"
)

// TableName is the Postgres table exports are copied into.
const TableName = "emission_subsets"

var columns = []string{"export_id", "country", "year", "value", "exported_at"}

const schemaSQL = `CREATE TABLE IF NOT EXISTS emission_subsets (
	export_id   uuid             NOT NULL,
	country     text             NOT NULL,
	year        integer          NOT NULL,
	value       double precision NOT NULL,
	exported_at timestamptz      NOT NULL,
	PRIMARY KEY (export_id, country, year)
)`

// DBTX is the subset of a pgx connection, pool or transaction the publisher needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Publisher implements core.SubsetPublisher on Postgres.
type Publisher struct {
	db  DBTX
	now func() time.Time
}

// NewPublisher creates a Publisher writing through db.
func NewPublisher(db DBTX) *Publisher {
	return &Publisher{db: db, now: time.Now}
}

// EnsureSchema creates the subsets table if it does not exist.
func (p *Publisher) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Publish copies every (country, year, value) of subset under a new export ID
// and returns that ID.
func (p *Publisher) Publish(ctx context.Context, subset core.Series) (string, error) {
	id := uuid.New()
	exportedAt := p.now().UTC()

	rows := make([][]any, 0, len(subset.Lines)*len(subset.Years))
	for _, line := range subset.Lines {
		if len(line.Values) != len(subset.Years) {
			return "", fmt.Errorf("publish subset %s: %d values for %d years: %w",
				line.Label, len(line.Values), len(subset.Years), core.ErrMalformedTable)
		}
		for i, year := range subset.Years {
			rows = append(rows, []any{id, line.Label, year, line.Values[i], exportedAt})
		}
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("publish subset: %w", core.ErrEmptyInput)
	}

	n, err := p.db.CopyFrom(ctx, pgx.Identifier{TableName}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return "", fmt.Errorf("publish subset: %w", err)
	}
	if n != int64(len(rows)) {
		return "", fmt.Errorf("publish subset: copied %d of %d rows", n, len(rows))
	}
	return id.String(), nil
}

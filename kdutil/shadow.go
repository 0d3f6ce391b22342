package kdutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viant/neighbourhood/vector"
)

// Querier is the subset of *sql.DB, *sql.Conn and *sql.Tx used by this
// package.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func upsertStatement(shadowTable string) string {
	return fmt.Sprintf(`
INSERT INTO %s(dataset_id, id, coords)
VALUES (?, ?, ?)
ON CONFLICT(dataset_id, id) DO UPDATE SET
  coords = excluded.coords`, shadowTable)
}

// UpsertShadowPoint inserts or updates a point row in a kd shadow table.
//
// Table names are interpolated into SQL; callers should ensure that
// shadowTable is trusted and not derived from untrusted input.
func UpsertShadowPoint(ctx context.Context, q Querier, shadowTable, datasetID, id string, coords []float32) error {
	if q == nil {
		return fmt.Errorf("kdutil: querier is nil")
	}
	blob, err := vector.EncodePoint(coords)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, upsertStatement(shadowTable), datasetID, id, blob)
	return err
}

package kdutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viant/neighbourhood/kd"
	"github.com/viant/neighbourhood/vector"
)

// Index is a handle on one dataset of a kd virtual table.
type Index struct {
	DB *sql.DB
	// Conn, when set, runs every statement instead of DB. Modules are
	// installed per connection, so callers holding the connection the kd
	// module lives on pin it here.
	Conn        Querier
	VirtualName string
	ShadowName  string
	// Column is the visible id column declared with USING kd(<column>).
	Column    string
	DatasetID string
}

// Match is a single query hit.
type Match struct {
	ID       string
	Distance float64
}

// NewIndex returns an Index over datasetID of virtualTable and makes sure the
// shadow table exists. The virtual table must have been created with the
// default id column.
func NewIndex(ctx context.Context, db *sql.DB, virtualTable, datasetID string) (*Index, error) {
	if db == nil {
		return nil, fmt.Errorf("kdutil: db is nil")
	}
	if datasetID == "" {
		return nil, fmt.Errorf("kdutil: datasetID is empty")
	}
	if err := kd.EnsureShadow(ctx, db, virtualTable); err != nil {
		return nil, err
	}
	return &Index{
		DB:          db,
		VirtualName: virtualTable,
		ShadowName:  kd.ShadowTable(virtualTable),
		Column:      "id",
		DatasetID:   datasetID,
	}, nil
}

// UpsertPoints writes points into the shadow table in one transaction.
// Triggers installed by the kd module invalidate the cached index, which is
// rebuilt on the next query.
func (ix *Index) UpsertPoints(ctx context.Context, points []vector.Point) error {
	if len(points) == 0 {
		return nil
	}
	q, err := ix.querier()
	if err != nil {
		return err
	}
	for _, p := range points {
		if p.ID == "" {
			return fmt.Errorf("kdutil: point ID is empty")
		}
	}
	beginner, ok := q.(interface {
		BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	})
	if !ok {
		return ix.upsert(ctx, q, points)
	}
	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := ix.upsert(ctx, tx, points); err != nil {
		return err
	}
	return tx.Commit()
}

func (ix *Index) upsert(ctx context.Context, q Querier, points []vector.Point) error {
	for _, p := range points {
		if err := UpsertShadowPoint(ctx, q, ix.ShadowName, ix.DatasetID, p.ID, p.Coords); err != nil {
			return err
		}
	}
	return nil
}

// DeletePoints removes points with the given ids from the shadow table.
func (ix *Index) DeletePoints(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q, err := ix.querier()
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE dataset_id = ? AND id = ?", ix.ShadowName)
	for _, id := range ids {
		if _, err := q.ExecContext(ctx, stmt, ix.DatasetID, id); err != nil {
			return err
		}
	}
	return nil
}

// Within returns the points within radius of query, nearest first.
func (ix *Index) Within(ctx context.Context, query []float32, radius float64) ([]Match, error) {
	q := fmt.Sprintf("SELECT %s, distance FROM %s WHERE dataset_id = ? AND %s MATCH ? AND radius = ?", ix.Column, ix.VirtualName, ix.Column)
	return ix.matches(ctx, q, query, radius)
}

// Nearest returns the k points nearest to query, nearest first.
func (ix *Index) Nearest(ctx context.Context, query []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	q := fmt.Sprintf("SELECT %s, distance FROM %s WHERE dataset_id = ? AND %s MATCH ? AND k = ?", ix.Column, ix.VirtualName, ix.Column)
	return ix.matches(ctx, q, query, k)
}

// Count returns the number of points within radius of query. The kd table
// counts without computing distances or ordering matches.
func (ix *Index) Count(ctx context.Context, query []float32, radius float64) (int, error) {
	db, err := ix.querier()
	if err != nil {
		return 0, err
	}
	blob, err := vector.EncodePoint(query)
	if err != nil {
		return 0, err
	}
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE dataset_id = ? AND %s MATCH ? AND radius = ?", ix.VirtualName, ix.Column)
	var n int
	if err := db.QueryRowContext(ctx, q, ix.DatasetID, blob, radius).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (ix *Index) matches(ctx context.Context, q string, query []float32, arg interface{}) ([]Match, error) {
	db, err := ix.querier()
	if err != nil {
		return nil, err
	}
	blob, err := vector.EncodePoint(query)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, q, ix.DatasetID, blob, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Distance); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (ix *Index) querier() (Querier, error) {
	if ix.Conn != nil {
		return ix.Conn, nil
	}
	if ix.DB == nil {
		return nil, fmt.Errorf("kdutil: DB is nil on Index")
	}
	return ix.DB, nil
}

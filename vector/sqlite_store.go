package vector

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteStore is a Store backed by the points table of a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the points
// schema exists in the provided database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// AddPoints upserts points in a single transaction. Every point needs an ID.
func (s *SQLiteStore) AddPoints(ctx context.Context, points []Point) ([]string, error) {
	if len(points) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO points(id, coords) VALUES(?, ?)
		ON CONFLICT(id) DO UPDATE SET coords = excluded.coords`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(points))
	for _, p := range points {
		if p.ID == "" {
			return nil, fmt.Errorf("vector: Point.ID must be set in AddPoints")
		}
		blob, err := EncodePoint(p.Coords)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx, p.ID, blob); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Points loads all points in rowid order, skipping rows without coordinates.
func (s *SQLiteStore) Points(ctx context.Context) ([]Point, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, coords FROM points WHERE coords IS NOT NULL ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Point
	for rows.Next() {
		var (
			p    Point
			blob []byte
		)
		if err := rows.Scan(&p.ID, &blob); err != nil {
			return nil, err
		}
		if p.Coords, err = DecodePoint(blob); err != nil {
			return nil, fmt.Errorf("vector: point %q: %w", p.ID, err)
		}
		if len(p.Coords) == 0 {
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes a point by ID.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("vector: Remove called with empty id")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM points WHERE id = ?`, id)
	return err
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)

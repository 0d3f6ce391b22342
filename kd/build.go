package kd

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/viant/neighbourhood/index"
	"github.com/viant/neighbourhood/index/bruteforce"
	"github.com/viant/neighbourhood/index/kdtree"
	"github.com/viant/neighbourhood/vector"
)

// dataset is a built index over the points of one dataset of a shadow table.
// Index positions refer to ids and rowids.
type dataset struct {
	ids    []string
	rowids []int64
	index  index.Index[float32]
}

// ensureIndex returns the cached index of dataset, building it when missing.
// Concurrent callers share a single build.
func (t *Table) ensureIndex(ctx context.Context, name string) (*dataset, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("kd: dataset_id is required")
	}
	if err := t.ensureShadow(ctx); err != nil {
		return nil, err
	}

	key := cacheKey(t.cachedDbPath(ctx), t.tableName, name)
	entry := getCacheEntry(key)
	for {
		if built := entry.get(); built != nil {
			return built, nil
		}
		version, ok := entry.startBuild()
		if !ok {
			if built := entry.waitForBuild(); built != nil {
				return built, nil
			}
			continue
		}
		built, err := t.build(ctx, name)
		entry.finishBuild(built, version)
		return built, err
	}
}

func (t *Table) build(ctx context.Context, name string) (*dataset, error) {
	started := time.Now()
	q := fmt.Sprintf("SELECT rowid, id, coords FROM %s WHERE dataset_id = ? AND coords IS NOT NULL ORDER BY rowid", t.qualifiedShadow())
	rows, err := t.db.QueryContext(ctx, q, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	built := &dataset{}
	var points [][]float32
	for rows.Next() {
		var (
			rowid int64
			id    string
			blob  []byte
		)
		if err := rows.Scan(&rowid, &id, &blob); err != nil {
			return nil, err
		}
		if len(blob) == 0 {
			continue
		}
		point, err := vector.DecodePoint(blob)
		if err != nil {
			return nil, fmt.Errorf("kd: point %q: %w", id, err)
		}
		built.ids = append(built.ids, id)
		built.rowids = append(built.rowids, rowid)
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	kind := t.opts.resolveKind(len(points))
	switch kind {
	case "kd":
		var opts []kdtree.Option
		if t.opts.haveBruteForce {
			opts = append(opts, kdtree.WithBruteForceSize(t.opts.bruteForce))
		}
		opts = append(opts, kdtree.WithLogger(log()))
		tree, err := kdtree.NewIndexTree(points, opts...)
		if err != nil {
			return nil, fmt.Errorf("kd: dataset %q: %w", name, err)
		}
		built.index = tree
	default:
		brute, err := bruteforce.New(points)
		if err != nil {
			return nil, fmt.Errorf("kd: dataset %q: %w", name, err)
		}
		built.index = brute
	}
	log().Debug("kd: index built",
		"table", t.tableName,
		"dataset", name,
		"kind", kind,
		"points", len(points),
		"elapsed", time.Since(started))
	return built, nil
}

// registry maps virtual table names to their most recent instance so that
// helpers outside a query (Reindex, EnsureShadow) honour the table options.
var registry sync.Map

func register(t *Table) { registry.Store(strings.ToLower(t.tableName), t) }

func lookupTable(db *sql.DB, tableName string) *Table {
	if v, ok := registry.Load(strings.ToLower(tableName)); ok {
		if t := v.(*Table); t.db == db {
			return t
		}
	}
	return &Table{db: db, dbName: "main", tableName: tableName, opts: parseIndexOptions(nil)}
}

// EnsureShadow creates the shadow table and triggers of a kd virtual table.
func EnsureShadow(ctx context.Context, db *sql.DB, tableName string) error {
	if db == nil {
		return fmt.Errorf("kd: db is nil")
	}
	return lookupTable(db, tableName).ensureShadow(ctx)
}

// TableName resolves a kd virtual table name from either the table name or
// its shadow table name.
func TableName(name string) string {
	name = strings.TrimSpace(name)
	if table := tableNameFromShadow(name); table != "" {
		return table
	}
	return name
}

// ShadowTable returns the qualified shadow table name of a kd virtual table.
func ShadowTable(tableName string) string {
	return "main." + shadowPrefix + tableName
}

// Reindex drops the cached indexes of a kd virtual table, rebuilds one per
// dataset and returns the total number of indexed points.
func Reindex(ctx context.Context, db *sql.DB, tableName string) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("kd: db is nil")
	}
	t := lookupTable(db, tableName)
	if err := t.ensureShadow(ctx); err != nil {
		return 0, err
	}
	InvalidateCache(t.qualifiedShadow(), "")

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT DISTINCT dataset_id FROM %s ORDER BY dataset_id", t.qualifiedShadow()))
	if err != nil {
		return 0, err
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return 0, err
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	total := 0
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		built, err := t.ensureIndex(ctx, name)
		if err != nil {
			return total, err
		}
		total += built.index.Len()
	}
	return total, nil
}

package kd

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/viant/neighbourhood/vector"
	sqlite "modernc.org/sqlite"
	"modernc.org/sqlite/vtab"
)

// Module implements vtab.Module for the kd virtual table. It creates a
// per-table shadow store and supports MATCH-based neighbourhood scans.
type Module struct {
	db *sql.DB
}

// Table represents a single kd virtual table instance.
type Table struct {
	db        *sql.DB
	dbName    string
	tableName string

	dbPathOnce sync.Once
	dbPath     string

	opts indexOptions
}

const (
	colDataset = iota
	colID
	colDistance
	colRadius
	colK
)

const (
	idxDatasetScan = iota
	idxWithin
	idxNearest
	idxNearestWithin
)

type match struct {
	rowid    int64
	id       string
	distance float64
}

// Cursor scans results from a kd table.
type Cursor struct {
	table   *Table
	rows    []match
	pos     int
	dataset string
	scored  bool
	radius  *float64
	k       *int

	// A within plan only counts its matches until a column or rowid is
	// read, so COUNT(*) never computes distances or sorts.
	pending *dataset
	query   []float32
	total   int
}

// Register registers the kd virtual table module with the provided *sql.DB.
func Register(db *sql.DB) error {
	// Register kd_invalidate globally before any connection fires a shadow trigger; idempotent.
	registerInvalidateOnce.Do(func() { _ = sqlite.RegisterDeterministicScalarFunction("kd_invalidate", 2, invalidateFunc) })
	mod := &Module{db: db}
	if err := vtab.RegisterModule(db, "kd", mod); err != nil {
		if !strings.Contains(err.Error(), "already registered") {
			return err
		}
	}
	return nil
}

// Create initializes a kd table instance.
func (m *Module) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args, "CREATE")
}

// Connect attaches to an existing kd table instance.
func (m *Module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args, "CONNECT")
}

func (m *Module) connect(ctx vtab.Context, args []string, op string) (vtab.Table, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("kd: %s expects at least 3 args, got %d", op, len(args))
	}
	if err := ctx.EnableConstraintSupport(); err != nil {
		return nil, fmt.Errorf("kd: EnableConstraintSupport failed: %w", err)
	}
	// Determine declared column name from args (e.g. USING kd(point_id)).
	col := "id"
	optStart := 3
	if len(args) > 3 {
		a := strings.TrimSpace(args[3])
		if a != "" && !strings.Contains(a, "=") {
			col = a
			optStart = 4
		}
	}
	decl := fmt.Sprintf("CREATE TABLE %s(dataset_id TEXT, %s TEXT, distance REAL HIDDEN, radius REAL HIDDEN, k INTEGER HIDDEN)", args[2], col)
	if err := ctx.Declare(decl); err != nil {
		return nil, err
	}
	t := &Table{db: m.db, dbName: args[1], tableName: args[2], opts: parseIndexOptions(args[optStart:])}
	if t.opts.cacheEntries > 0 {
		SetCacheSize(t.opts.cacheEntries)
	}
	register(t)
	// Shadow creation is deferred until first use to avoid cross-connection DDL here.
	return t, nil
}

// BestIndex requires dataset_id and chooses a plan from the MATCH, radius and
// k constraints.
func (t *Table) BestIndex(info *vtab.IndexInfo) error {
	var (
		datasetConstraint *vtab.Constraint
		matchConstraint   *vtab.Constraint
		radiusConstraint  *vtab.Constraint
		kConstraint       *vtab.Constraint
		nextArg           int
	)

	for i := range info.Constraints {
		c := &info.Constraints[i]
		if !c.Usable {
			continue
		}
		switch {
		case c.Column == colDataset && c.Op == vtab.OpEQ:
			datasetConstraint = c
		case c.Column == colID && c.Op == vtab.OpMATCH:
			matchConstraint = c
		case c.Column == colRadius && c.Op == vtab.OpEQ:
			radiusConstraint = c
		case c.Column == colK && c.Op == vtab.OpEQ:
			kConstraint = c
		}
	}

	if datasetConstraint == nil {
		return fmt.Errorf("kd: dataset_id constraint required")
	}
	use := func(c *vtab.Constraint) {
		c.ArgIndex = nextArg
		c.Omit = true
		nextArg++
	}
	use(datasetConstraint)
	if matchConstraint == nil {
		info.IdxNum = idxDatasetScan
		return nil
	}
	use(matchConstraint)
	switch {
	case radiusConstraint != nil && kConstraint != nil:
		use(radiusConstraint)
		use(kConstraint)
		info.IdxNum = idxNearestWithin
	case radiusConstraint != nil:
		use(radiusConstraint)
		info.IdxNum = idxWithin
	case kConstraint != nil:
		use(kConstraint)
		info.IdxNum = idxNearest
	default:
		return fmt.Errorf("kd: radius or k constraint is required with MATCH")
	}
	return nil
}

// Open allocates a new cursor.
func (t *Table) Open() (vtab.Cursor, error) { return &Cursor{table: t}, nil }

// Disconnect cleans up per-connection resources.
func (t *Table) Disconnect() error { return nil }

// Destroy drops cached indexes; the shadow table persists.
func (t *Table) Destroy() error {
	InvalidateCache(t.qualifiedShadow(), "")
	return nil
}

// Filter computes the result set based on idxNum/vals.
func (c *Cursor) Filter(idxNum int, idxStr string, vals []vtab.Value) error {
	_ = idxStr
	c.rows, c.pos = nil, 0
	c.dataset, c.scored, c.radius, c.k = "", false, nil, nil
	c.pending, c.query, c.total = nil, nil, 0
	if c.table == nil || c.table.db == nil {
		return nil
	}
	ctx := context.Background()

	if len(vals) == 0 || vals[0] == nil {
		return fmt.Errorf("kd: dataset_id argument is required")
	}
	dataset, err := asString(vals[0])
	if err != nil {
		return err
	}
	c.dataset = dataset
	if idxNum == idxDatasetScan {
		return c.scan(ctx)
	}

	if len(vals) < 3 || vals[1] == nil || vals[2] == nil {
		return fmt.Errorf("kd: MATCH arguments are incomplete")
	}
	query, err := decodeMatchArg(vals[1])
	if err != nil {
		return err
	}
	switch idxNum {
	case idxWithin:
		r, err := asFloat(vals[2])
		if err != nil {
			return err
		}
		c.radius = &r
	case idxNearest:
		k, err := asInt(vals[2])
		if err != nil {
			return err
		}
		c.k = &k
	case idxNearestWithin:
		if len(vals) < 4 || vals[3] == nil {
			return fmt.Errorf("kd: MATCH arguments are incomplete")
		}
		r, err := asFloat(vals[2])
		if err != nil {
			return err
		}
		k, err := asInt(vals[3])
		if err != nil {
			return err
		}
		c.radius, c.k = &r, &k
	default:
		return fmt.Errorf("kd: unsupported query plan")
	}

	built, err := c.table.ensureIndex(ctx, c.dataset)
	if err != nil {
		return err
	}
	if built.index.IsEmpty() {
		return nil
	}
	if dims := built.index.Dims(); len(query) != dims {
		return fmt.Errorf("kd: MATCH point has %d coordinates, dataset %q has %d", len(query), c.dataset, dims)
	}
	c.scored = true
	if c.k != nil {
		c.nearest(built, query)
		return nil
	}
	c.within(built, query)
	return nil
}

func (c *Cursor) scan(ctx context.Context) error {
	if err := c.table.ensureShadow(ctx); err != nil {
		return err
	}
	q := fmt.Sprintf("SELECT rowid, id FROM %s WHERE dataset_id = ? ORDER BY rowid", c.table.qualifiedShadow())
	rows, err := c.table.db.QueryContext(ctx, q, c.dataset)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var m match
		if err := rows.Scan(&m.rowid, &m.id); err != nil {
			return err
		}
		c.rows = append(c.rows, m)
	}
	return rows.Err()
}

func (c *Cursor) within(built *dataset, query []float32) {
	c.pending, c.query = built, query
	c.total = built.index.CountNeighbourhood(query, float32(*c.radius))
}

// materialize turns a pending within plan into distance-ordered rows.
func (c *Cursor) materialize() {
	if c.pending == nil {
		return
	}
	built, query := c.pending, c.query
	c.pending, c.query = nil, nil
	radius := float32(*c.radius)
	ids := built.index.NeighbourhoodByIndex(query, radius)
	c.rows = make([]match, 0, len(ids))
	for _, i := range ids {
		c.rows = append(c.rows, match{
			rowid:    built.rowids[i],
			id:       built.ids[i],
			distance: float64(vector.Distance(query, built.index.Data()[i])),
		})
	}
	sort.SliceStable(c.rows, func(a, b int) bool {
		if c.rows[a].distance != c.rows[b].distance {
			return c.rows[a].distance < c.rows[b].distance
		}
		return c.rows[a].rowid < c.rows[b].rowid
	})
}

func (c *Cursor) nearest(built *dataset, query []float32) {
	neighbors := built.index.KNN(query, *c.k)
	c.rows = make([]match, 0, len(neighbors))
	for _, n := range neighbors {
		if c.radius != nil && float64(n.Distance) > *c.radius {
			break
		}
		c.rows = append(c.rows, match{
			rowid:    built.rowids[n.Index],
			id:       built.ids[n.Index],
			distance: float64(n.Distance),
		})
	}
}

// Next advances the cursor.
func (c *Cursor) Next() error {
	if c.pos < c.size() {
		c.pos++
	}
	return nil
}

// Eof reports end-of-rows.
func (c *Cursor) Eof() bool { return c.pos >= c.size() }

func (c *Cursor) size() int {
	if c.pending != nil {
		return c.total
	}
	return len(c.rows)
}

// Column returns the value of a column in the current row.
func (c *Cursor) Column(col int) (vtab.Value, error) {
	c.materialize()
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, fmt.Errorf("kd: Column out of range (pos=%d,len=%d)", c.pos, len(c.rows))
	}
	switch col {
	case colDataset:
		return c.dataset, nil
	case colID:
		return c.rows[c.pos].id, nil
	case colDistance:
		if !c.scored {
			return nil, nil
		}
		return c.rows[c.pos].distance, nil
	case colRadius:
		if c.radius == nil {
			return nil, nil
		}
		return *c.radius, nil
	case colK:
		if c.k == nil {
			return nil, nil
		}
		return int64(*c.k), nil
	}
	return nil, fmt.Errorf("kd: unsupported column %d", col)
}

// Rowid returns the current rowid.
func (c *Cursor) Rowid() (int64, error) {
	c.materialize()
	if c.pos < 0 || c.pos >= len(c.rows) {
		return 0, fmt.Errorf("kd: Rowid out of range (pos=%d,len=%d)", c.pos, len(c.rows))
	}
	return c.rows[c.pos].rowid, nil
}

// Close releases resources.
func (c *Cursor) Close() error {
	c.rows, c.pos = nil, 0
	c.pending, c.query = nil, nil
	return nil
}

package kdutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/neighbourhood/engine"
	"github.com/viant/neighbourhood/kd"
	"github.com/viant/neighbourhood/vector"
)

// The kd module is installed only on the first connection the process
// opens, so the tests share it.
var (
	testDB   *sql.DB
	testConn *sql.Conn
)

func TestMain(m *testing.M) {
	os.Exit(runWithDatabase(m))
}

func runWithDatabase(m *testing.M) int {
	dir, err := os.MkdirTemp("", "kdutil-test")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer os.RemoveAll(dir)
	db, err := engine.Open("file:" + filepath.Join(dir, "kdutil.sqlite") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	if err := kd.Register(db); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	conn, err := db.Conn(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()
	db.SetMaxOpenConns(2)
	testDB, testConn = db, conn
	return m.Run()
}

func skipWithoutModule(t *testing.T, err error) {
	t.Helper()
	if err != nil && strings.Contains(err.Error(), "no such module") {
		t.Skipf("skipping: kd vtab not available (%v)", err)
	}
}

func TestNewIndex_ShadowName(t *testing.T) {
	ctx := context.Background()
	_, err := testConn.ExecContext(ctx, `CREATE VIRTUAL TABLE named USING kd(id)`)
	skipWithoutModule(t, err)
	require.NoError(t, err)
	ix, err := NewIndex(ctx, testDB, "named", "x")
	require.NoError(t, err)
	assert.Equal(t, "main._kd_named", ix.ShadowName)
	assert.Equal(t, "id", ix.Column)
}

func TestIndex_Lifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := testConn.ExecContext(ctx, `CREATE VIRTUAL TABLE places USING kd(id)`)
	skipWithoutModule(t, err)
	require.NoError(t, err)

	ix, err := NewIndex(ctx, testDB, "places", "city")
	require.NoError(t, err)
	ix.Conn = testConn
	require.NoError(t, ix.UpsertPoints(ctx, []vector.Point{
		{ID: "home", Coords: []float32{0, 0}},
		{ID: "park", Coords: []float32{3, 4}},
		{ID: "shop", Coords: []float32{1, 1}},
	}))
	require.NoError(t, UpsertShadowPoint(ctx, testConn, ix.ShadowName, "city", "shop", []float32{0, 1}))

	within, err := ix.Within(ctx, []float32{0, 0}, 1.5)
	skipWithoutModule(t, err)
	require.NoError(t, err)
	require.Len(t, within, 2)
	assert.Equal(t, Match{ID: "home", Distance: 0}, within[0])
	assert.Equal(t, "shop", within[1].ID)
	assert.InDelta(t, 1.0, within[1].Distance, 1e-6)

	nearest, err := ix.Nearest(ctx, []float32{3, 3}, 1)
	require.NoError(t, err)
	require.Len(t, nearest, 1)
	assert.Equal(t, "park", nearest[0].ID)

	n, err := ix.Count(ctx, []float32{0, 0}, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = ix.Count(ctx, []float32{0, 0}, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, ix.DeletePoints(ctx, []string{"home"}))
	within, err = ix.Within(ctx, []float32{0, 0}, 1.5)
	require.NoError(t, err)
	require.Len(t, within, 1)
	assert.Equal(t, "shop", within[0].ID)

	empty, err := ix.Nearest(ctx, []float32{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIndex_UpsertValidation(t *testing.T) {
	ix := &Index{DB: testDB, ShadowName: "main._kd_unused", DatasetID: "x"}
	assert.Error(t, ix.UpsertPoints(context.Background(), []vector.Point{{Coords: []float32{1}}}))
	assert.NoError(t, ix.UpsertPoints(context.Background(), nil))
	assert.Error(t, (&Index{}).DeletePoints(context.Background(), []string{"a"}))
}

func TestNewIndex_Validation(t *testing.T) {
	_, err := NewIndex(context.Background(), nil, "places", "x")
	assert.Error(t, err)
	_, err = NewIndex(context.Background(), testDB, "places", "")
	assert.Error(t, err)
}

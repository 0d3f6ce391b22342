package kdadmin

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

// Both modules must be registered before the first connection opens; vtab
// statements then run on that connection.
var (
	testDB   *sql.DB
	testConn *sql.Conn
)

func TestMain(m *testing.M) {
	os.Exit(runWithDatabase(m))
}

func runWithDatabase(m *testing.M) int {
	dir, err := os.MkdirTemp("", "kdadmin-test")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer os.RemoveAll(dir)
	db, err := engine.Open("file:" + filepath.Join(dir, "kd_admin.sqlite") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	for _, register := range []func(*sql.DB) error{kd.Register, Register} {
		if err := register(db); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
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
		t.Skipf("skipping: vtab not available (%v)", err)
	}
}

func TestKDAdminReindex(t *testing.T) {
	ctx := context.Background()
	for _, stmt := range []string{
		`CREATE VIRTUAL TABLE kd_admin USING kd_admin(op)`,
		`CREATE VIRTUAL TABLE near USING kd(id, index=kd)`,
	} {
		_, err := testConn.ExecContext(ctx, stmt)
		skipWithoutModule(t, err)
		require.NoError(t, err)
	}
	require.NoError(t, kd.EnsureShadow(ctx, testDB, "near"))

	for i, p := range [][]float32{{1, 0}, {0, 1}, {1, 1}} {
		blob, err := vector.EncodePoint(p)
		require.NoError(t, err)
		ds := "a"
		if i == 2 {
			ds = "b"
		}
		_, err = testConn.ExecContext(ctx, `INSERT INTO _kd_near(dataset_id, id, coords) VALUES(?, ?, ?)`, ds, fmt.Sprintf("p%d", i), blob)
		require.NoError(t, err)
	}

	for _, target := range []string{"near", "main._kd_near"} {
		qctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		var op string
		err := testConn.QueryRowContext(qctx, `SELECT op FROM kd_admin WHERE op MATCH ?`, target).Scan(&op)
		cancel()
		skipWithoutModule(t, err)
		require.NoError(t, err)
		assert.Equal(t, "reindexed:3", op)
	}
}

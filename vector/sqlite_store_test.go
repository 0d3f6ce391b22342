package vector_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/neighbourhood/engine"
	"github.com/viant/neighbourhood/vector"
)

func TestEnsureSchema(t *testing.T) {
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, vector.EnsureSchema(db))
	require.NoError(t, vector.EnsureSchema(db))
	_, err = db.Exec(`INSERT INTO points(id, coords) VALUES('1', X'')`)
	require.NoError(t, err)
}

func TestSQLiteStore_AddPointsRemove(t *testing.T) {
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	store, err := vector.NewSQLiteStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	ids, err := store.AddPoints(ctx, []vector.Point{
		{ID: "a", Coords: []float32{0, 0}},
		{ID: "b", Coords: []float32{1, 1}},
		{ID: "c", Coords: []float32{2, 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	// Upsert keeps the original row position.
	_, err = store.AddPoints(ctx, []vector.Point{{ID: "a", Coords: []float32{5, 5}}})
	require.NoError(t, err)

	points, err := store.Points(ctx)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "a", points[0].ID)
	assert.Equal(t, []float32{5, 5}, points[0].Coords)

	require.NoError(t, store.Remove(ctx, "b"))
	points, err = store.Points(ctx)
	require.NoError(t, err)
	require.Len(t, points, 2)
	for _, p := range points {
		assert.NotEqual(t, "b", p.ID)
	}

	assert.Error(t, store.Remove(ctx, ""))
	_, err = store.AddPoints(ctx, []vector.Point{{Coords: []float32{1}}})
	assert.Error(t, err)
}

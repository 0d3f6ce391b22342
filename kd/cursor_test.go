package kd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/neighbourhood/index/kdtree"
	"github.com/viant/neighbourhood/internal/testutil"
)

func gridDataset(t *testing.T) *dataset {
	t.Helper()
	grid := testutil.Grid[float32](3, -2, 2)
	tree, err := kdtree.NewIndexTree(grid)
	require.NoError(t, err)
	built := &dataset{index: tree}
	for i := range grid {
		built.ids = append(built.ids, fmt.Sprintf("p%d", i))
		built.rowids = append(built.rowids, int64(i+1))
	}
	return built
}

func TestCursor_WithinCountsWithoutRows(t *testing.T) {
	built := gridDataset(t)
	radius := 1.2
	c := &Cursor{radius: &radius, scored: true}
	c.within(built, []float32{0, 0, 0})
	assert.Nil(t, c.rows)

	n := 0
	for ; !c.Eof(); require.NoError(t, c.Next()) {
		n++
	}
	assert.Equal(t, 7, n)
	assert.Nil(t, c.rows)
}

func TestCursor_WithinMaterializesOnRead(t *testing.T) {
	built := gridDataset(t)
	radius := 1.2
	c := &Cursor{radius: &radius, scored: true}
	c.within(built, []float32{0, 0, 0})

	var ids []string
	var distances []float64
	for ; !c.Eof(); require.NoError(t, c.Next()) {
		id, err := c.Column(colID)
		require.NoError(t, err)
		d, err := c.Column(colDistance)
		require.NoError(t, err)
		ids = append(ids, id.(string))
		distances = append(distances, d.(float64))
	}
	require.Len(t, ids, 7)
	assert.Equal(t, "p62", ids[0])
	assert.Equal(t, 0.0, distances[0])
	assert.ElementsMatch(t, []string{"p62", "p37", "p87", "p57", "p67", "p61", "p63"}, ids)
	for i := 1; i < len(distances); i++ {
		assert.LessOrEqual(t, distances[i-1], distances[i])
	}

	rowid, err := (&Cursor{radius: &radius, pending: built, query: []float32{0, 0, 0}, total: 7}).Rowid()
	require.NoError(t, err)
	assert.Equal(t, int64(63), rowid)
}

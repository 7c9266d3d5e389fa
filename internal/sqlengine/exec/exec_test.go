package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myco/internal/world"
)

func buildTestWorld() *world.World {
	w := world.New(20, 20)
	albumID := w.AddTable("albums")
	trackID := w.AddTable("tracks")

	w.AddPayload(&world.Payload{ID: 1, TableID: albumID, Fields: []world.Field{{Name: "title", Value: "Rumours"}}})
	w.AddPayload(&world.Payload{ID: 2, TableID: albumID, Fields: []world.Field{{Name: "title", Value: "Tapestry"}}})

	w.AddPayload(&world.Payload{ID: 1, TableID: trackID, Fields: []world.Field{
		{Name: "name", Value: "Dreams"}, {Name: "album_id", Value: "1"}, {Name: "length", Value: "254"},
	}})
	w.AddPayload(&world.Payload{ID: 2, TableID: trackID, Fields: []world.Field{
		{Name: "name", Value: "Go Your Own Way"}, {Name: "album_id", Value: "1"}, {Name: "length", Value: "218"},
	}})
	w.AddPayload(&world.Payload{ID: 3, TableID: trackID, Fields: []world.Field{
		{Name: "name", Value: "It's Too Late"}, {Name: "album_id", Value: "2"}, {Name: "length", Value: "232"},
	}})

	for i := range w.Payloads {
		w.Place(i, i+1, i+1)
	}
	return w
}

func colIndex(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}

func TestExecuteSimpleWhere(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT name FROM tracks WHERE album_id = 1`, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, rs.Columns)
	assert.Len(t, rs.Rows, 2)
}

func TestExecuteSelectStar(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT * FROM albums WHERE id = 1`, nil)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	idx := colIndex(rs.Columns, "title")
	require.GreaterOrEqual(t, idx, 0)
	cell, ok := rs.Rows[0].get("title")
	require.True(t, ok)
	assert.Equal(t, "Rumours", cell.Text)
}

func TestExecuteInnerJoin(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT tracks.name, albums.title FROM tracks JOIN albums ON tracks.album_id = albums.id`, nil)
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 3)
}

func TestExecuteLeftJoinNoUnmatchedWhenEveryAlbumHasTracks(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT albums.title FROM albums LEFT JOIN tracks ON albums.id = tracks.album_id WHERE tracks.name IS NULL`, nil)
	require.NoError(t, err)
	assert.Empty(t, rs.Rows)
}

func TestExecuteGroupByHavingCount(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT album_id, COUNT(*) FROM tracks GROUP BY album_id HAVING COUNT(*) > 1`, nil)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	c, ok := rs.Rows[0].get("album_id")
	require.True(t, ok)
	assert.Equal(t, "1", c.Text)
}

func TestExecuteOrderByLimitOffset(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT name FROM tracks ORDER BY name ASC LIMIT 1 OFFSET 1`, nil)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
}

func TestExecuteDistinct(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT DISTINCT album_id FROM tracks`, nil)
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 2)
}

func TestExecuteUnionDedups(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT album_id FROM tracks WHERE album_id = 1 UNION SELECT album_id FROM tracks WHERE album_id = 1`, nil)
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 1)
}

func TestExecuteUnionAllKeepsDuplicates(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT album_id FROM tracks WHERE album_id = 1 UNION ALL SELECT album_id FROM tracks WHERE album_id = 1`, nil)
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 4)
}

func TestExecuteSubqueryInWhere(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT title FROM albums WHERE id IN (SELECT album_id FROM tracks WHERE length > 230)`, nil)
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 2)
}

func TestExecuteLikePattern(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT name FROM tracks WHERE name LIKE 'Go%'`, nil)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
}

func TestExecuteLikePatternCaseInsensitive(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT name FROM tracks WHERE name LIKE 'go%'`, nil)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
}

func TestExecuteRegexpCaseInsensitive(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT name FROM tracks WHERE name REGEXP 'dream'`, nil)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
}

func TestExecuteFocusRestrictsRows(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `SELECT name FROM tracks`, &Focus{X: 4, Y: 4, Radius: 1})
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 1)
}

func TestExecuteUnknownTableErrors(t *testing.T) {
	w := buildTestWorld()
	_, err := Execute(w, `SELECT * FROM nope`, nil)
	assert.Error(t, err)
}

func TestExecuteCTE(t *testing.T) {
	w := buildTestWorld()
	rs, err := Execute(w, `WITH long_tracks AS (SELECT name FROM tracks WHERE length > 230) SELECT name FROM long_tracks`, nil)
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 2)
}

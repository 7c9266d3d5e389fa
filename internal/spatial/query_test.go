package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myco/internal/world"
)

func TestParseBasic(t *testing.T) {
	q, err := Parse(`SELECT * FROM Track WHERE AlbumId=2`)
	require.NoError(t, err)
	assert.Equal(t, "Track", q.Table)
	assert.Equal(t, "AlbumId", q.Column)
	assert.Equal(t, "2", q.Value)
}

func TestParseQuotedValue(t *testing.T) {
	q, err := Parse(`select name from Artist where Name = "AC/DC"`)
	require.NoError(t, err)
	assert.Equal(t, "AC/DC", q.Value)
}

func TestParseRejectsNonMatchingText(t *testing.T) {
	_, err := Parse(`DELETE FROM Track WHERE Id=1`)
	assert.Error(t, err)
}

func TestClassifyFKQuery(t *testing.T) {
	w := world.New(10, 10)
	albumID := w.AddTable("Album")
	w.AddTable("Track")

	kind, refTableID, targetID, isInt := classify(w, Query{Table: "Track", Column: "AlbumId", Value: "2"})
	assert.Equal(t, FKQuery, kind)
	assert.Equal(t, albumID, refTableID)
	assert.Equal(t, 2, targetID)
	assert.True(t, isInt)
}

func TestClassifyPKQueryByLiteralID(t *testing.T) {
	w := world.New(10, 10)
	w.AddTable("Track")

	kind, _, targetID, isInt := classify(w, Query{Table: "Track", Column: "id", Value: "5"})
	assert.Equal(t, PKQuery, kind)
	assert.Equal(t, 5, targetID)
	assert.True(t, isInt)
}

func TestClassifyPKQueryBySelfReferencingColumn(t *testing.T) {
	w := world.New(10, 10)
	w.AddTable("Track")

	kind, _, _, _ := classify(w, Query{Table: "Track", Column: "TrackId", Value: "5"})
	assert.Equal(t, PKQuery, kind)
}

func TestClassifyFieldQuery(t *testing.T) {
	w := world.New(10, 10)
	w.AddTable("Track")

	kind, _, _, _ := classify(w, Query{Table: "Track", Column: "Name", Value: "Angie"})
	assert.Equal(t, FieldQuery, kind)
}

func TestExecuteQueryUnknownTableIsEmpty(t *testing.T) {
	w := world.New(10, 10)
	hits := ExecuteQuery(w, Query{Table: "Nope", Column: "id", Value: "1"}, 3)
	assert.Empty(t, hits)
}

func TestExecuteQueryFKSpatialHit(t *testing.T) {
	w := world.New(10, 10)
	albumID := w.AddTable("Album")
	trackID := w.AddTable("Track")

	album := &world.Payload{ID: 1, TableID: albumID}
	w.AddPayload(album)
	w.Place(0, 5, 5)

	track := &world.Payload{
		ID:          1,
		TableID:     trackID,
		Fields:      []world.Field{{Name: "AlbumId", Value: "1"}},
		ForeignKeys: []world.ForeignKey{{Column: "AlbumId", RefTableID: albumID, RefID: 1}},
	}
	w.AddPayload(track)
	w.Place(1, 6, 5)

	hits := ExecuteQuery(w, Query{Table: "Track", Column: "AlbumId", Value: "1"}, 3)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].ID)
}

func TestExecuteQueryFallsBackToFieldScan(t *testing.T) {
	w := world.New(10, 10)
	trackID := w.AddTable("Track")

	track := &world.Payload{
		ID:      1,
		TableID: trackID,
		Fields:  []world.Field{{Name: "Name", Value: "Angie"}},
	}
	w.AddPayload(track)
	w.Place(0, 0, 0)

	hits := ExecuteQuery(w, Query{Table: "Track", Column: "Name", Value: "Angie"}, 3)
	require.Len(t, hits, 1)
	assert.Equal(t, "Angie", hits[0].Fields[0].Value)
}

func TestExecuteQueryFocusIsSubsetOfExecuteQuery(t *testing.T) {
	w := world.New(20, 20)
	trackID := w.AddTable("Track")

	for i := 1; i <= 3; i++ {
		p := &world.Payload{ID: i, TableID: trackID, Fields: []world.Field{{Name: "Name", Value: "Angie"}}}
		w.AddPayload(p)
	}
	w.Place(0, 1, 1)
	w.Place(1, 15, 15)
	w.Place(2, 16, 16)

	q := Query{Table: "Track", Column: "Name", Value: "Angie"}
	full := ExecuteQuery(w, q, 20)
	focus := ExecuteQueryFocus(w, q, 15, 15, 2)

	fullIDs := make(map[int]bool)
	for _, p := range full {
		fullIDs[p.ID] = true
	}
	for _, p := range focus {
		assert.True(t, fullIDs[p.ID], "focus result %d must appear in the unrestricted query", p.ID)
	}
	assert.NotEmpty(t, focus)
}

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myco/internal/sqlengine/ast"
)

func TestParseSimpleSelect(t *testing.T) {
	stmt, err := Parse(`SELECT name, age FROM users WHERE age >= 18`)
	require.NoError(t, err)
	require.Len(t, stmt.Select.Core.Items, 2)
	assert.Equal(t, "users", stmt.Select.Core.From.Table)
	require.NotNil(t, stmt.Select.Core.Where)
}

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM users`)
	require.NoError(t, err)
	require.Len(t, stmt.Select.Core.Items, 1)
	assert.True(t, stmt.Select.Core.Items[0].Star)
}

func TestParseJoinWithOn(t *testing.T) {
	stmt, err := Parse(`SELECT a.id FROM albums a JOIN tracks t ON a.id = t.album_id`)
	require.NoError(t, err)
	require.Len(t, stmt.Select.Core.Joins, 1)
	j := stmt.Select.Core.Joins[0]
	assert.Equal(t, ast.InnerJoin, j.Kind)
	assert.Equal(t, "tracks", j.Table)
	assert.True(t, j.HasOn)
}

func TestParseLeftJoinAndCrossJoin(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM a LEFT JOIN b ON a.id = b.a_id CROSS JOIN c`)
	require.NoError(t, err)
	require.Len(t, stmt.Select.Core.Joins, 2)
	assert.Equal(t, ast.LeftJoin, stmt.Select.Core.Joins[0].Kind)
	assert.Equal(t, ast.CrossJoin, stmt.Select.Core.Joins[1].Kind)
	assert.False(t, stmt.Select.Core.Joins[1].HasOn)
}

func TestParseGroupByHavingOrderByLimitOffset(t *testing.T) {
	stmt, err := Parse(`SELECT city, COUNT(*) FROM users GROUP BY city HAVING COUNT(*) > 1 ORDER BY 2 DESC LIMIT 10 OFFSET 5`)
	require.NoError(t, err)
	core := stmt.Select.Core
	assert.Equal(t, []string{"city"}, core.GroupBy)
	require.NotNil(t, core.Having)
	require.Len(t, core.OrderBy, 1)
	assert.Equal(t, 2, core.OrderBy[0].Pos)
	assert.True(t, core.OrderBy[0].Desc)
	assert.Equal(t, 10, core.Limit)
	assert.Equal(t, 5, core.Offset)
}

func TestParseUnionAll(t *testing.T) {
	stmt, err := Parse(`SELECT id FROM a UNION ALL SELECT id FROM b`)
	require.NoError(t, err)
	require.Len(t, stmt.Select.Parts, 1)
	assert.True(t, stmt.Select.Parts[0].All)
}

func TestParseWithClause(t *testing.T) {
	stmt, err := Parse(`WITH recent AS (SELECT id FROM orders) SELECT id FROM recent`)
	require.NoError(t, err)
	require.Len(t, stmt.CTEs, 1)
	assert.Equal(t, "recent", stmt.CTEs[0].Name)
}

func TestParseBetweenInLikeRegexpNotForms(t *testing.T) {
	stmt, err := Parse(`SELECT id FROM t WHERE age NOT BETWEEN 1 AND 5 AND name NOT IN ('a','b') AND label NOT LIKE '%x%' AND code NOT REGEXP '^y'`)
	require.NoError(t, err)
	require.NotNil(t, stmt.Select.Core.Where)
}

func TestParseSubqueryInFrom(t *testing.T) {
	stmt, err := Parse(`SELECT x.id FROM (SELECT id FROM t) x`)
	require.NoError(t, err)
	require.NotNil(t, stmt.Select.Core.From.Sub)
	assert.Equal(t, "x", stmt.Select.Core.From.Alias)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := Parse(`SELECT id FROM t WHERE )`)
	assert.Error(t, err)
}

func TestParseStopsAtSemicolon(t *testing.T) {
	stmt, err := Parse(`SELECT id FROM t;`)
	require.NoError(t, err)
	assert.Equal(t, "t", stmt.Select.Core.From.Table)
}

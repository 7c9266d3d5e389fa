package ingest

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"myco/internal/mycoerr"
	"myco/internal/world"
)

// IngestMySQL populates w by connecting to a live MySQL/MariaDB/TiDB
// instance at dsn and pulling every base table's schema and rows,
// instead of reading a static SQL dump (ParseSQL's input). Table
// discovery and column ordering are read from information_schema, the
// same source internal/introspect/mysql's (unwired) Introspect used to
// build a core.Database; here the result is built directly as
// world.Tables/Payloads since myco has no separate schema-object model.
func IngestMySQL(ctx context.Context, w *world.World, dsn string) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return mycoerr.Wrap(mycoerr.KindIO, "ingest: open mysql source", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return mycoerr.Wrap(mycoerr.KindIO, "ingest: connect to mysql source", err)
	}

	tables, err := listBaseTables(ctx, db)
	if err != nil {
		return mycoerr.Wrap(mycoerr.KindIO, "ingest: list tables", err)
	}
	if len(tables) == 0 {
		return mycoerr.New(mycoerr.KindParse, "ingest: mysql source has no base tables")
	}

	sawRow := false
	for _, name := range tables {
		n, err := ingestTableRows(ctx, db, w, name)
		if err != nil {
			return mycoerr.Wrap(mycoerr.KindIO, fmt.Sprintf("ingest: reading table %q", name), err)
		}
		if n > 0 {
			sawRow = true
		}
	}
	if !sawRow {
		return mycoerr.New(mycoerr.KindParse, "ingest: mysql source tables are all empty")
	}
	return nil
}

// listBaseTables mirrors internal/introspect/mysql/tables.go's table
// discovery query, dropping the table-comment/engine/collation columns
// that core.Table tracks and myco's flat model has no use for.
func listBaseTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ingestTableRows reads every row of table `name` and adds it to w as a
// payload, the same way processInsert does for a parsed INSERT
// statement: column order comes from the driver's own result metadata,
// and NULL values are normalised to the "NULL" sentinel text
// (cellFromFieldValue's and valueExprText's convention) rather than a Go
// nil.
func ingestTableRows(ctx context.Context, db *sql.DB, w *world.World, name string) (int, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM `%s`", name))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	tableID := w.AddTable(name)
	if t := w.Table(tableID); t != nil && len(t.Columns) == 0 {
		t.Columns = cols
	}

	count := 0
	for rows.Next() {
		vals := make([]sql.RawBytes, len(cols))
		scanArgs := make([]any, len(cols))
		for i := range vals {
			scanArgs[i] = &vals[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return count, err
		}

		fields := make([]world.Field, len(cols))
		for i, c := range cols {
			fields[i] = world.Field{Name: c, Value: rawBytesToText(vals[i])}
		}
		addPayload(w, tableID, fields)
		count++
	}
	return count, rows.Err()
}

func rawBytesToText(b sql.RawBytes) string {
	if b == nil {
		return "NULL"
	}
	return string(b)
}

package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"myco/internal/apply"
	"myco/internal/mycoerr"
)

// Exporter connects to a MySQL instance and replays a sequence of
// statements against it inside one transaction, following the original
// migration tool's Connect/Close/applyWithTransaction idiom adapted to
// mirror's simpler one-shot export: no confirmation prompt, since
// mirror is a debug aid run non-interactively, but every batch is still
// preflight-analyzed (see reportPreflight) before it runs.
type Exporter struct {
	db  *sql.DB
	dsn string
	out io.Writer
}

// NewExporter returns an Exporter targeting dsn. Output defaults to
// io.Discard when out is nil.
func NewExporter(dsn string, out io.Writer) *Exporter {
	if out == nil {
		out = io.Discard
	}
	return &Exporter{dsn: dsn, out: out}
}

// Connect opens and pings the MySQL connection.
func (e *Exporter) Connect(ctx context.Context) error {
	db, err := sql.Open("mysql", e.dsn)
	if err != nil {
		return mycoerr.Wrap(mycoerr.KindIO, "mirror: failed to open database connection", err)
	}
	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			return mycoerr.Wrap(mycoerr.KindIO, "mirror: failed to ping database, and failed to close connection", closeErr)
		}
		return mycoerr.Wrap(mycoerr.KindIO, "mirror: failed to ping database", pingErr)
	}
	e.db = db
	return nil
}

// Close closes the connection, if open.
func (e *Exporter) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// Run executes statements in a single transaction, rolling back on the
// first failure. When dryRun is true, statements are printed to the
// Exporter's output writer without touching the database.
//
// Before running anything, statements are preflight-analyzed with
// internal/apply's TiDB-AST-based StatementAnalyzer (the same analyzer
// the original migration applier uses): mirror only ever emits CREATE
// TABLE/INSERT, so this should never surface a destructive warning, but
// it still catches the case where a caller hand-edits the statement list
// before passing it in.
func (e *Exporter) Run(ctx context.Context, statements []string, dryRun bool) error {
	e.reportPreflight(statements)

	if dryRun {
		fmt.Fprintln(e.out, "=== DRY RUN: mirror export ===")
		for i, stmt := range statements {
			fmt.Fprintf(e.out, "  %d. %s\n", i+1, stmt)
		}
		return nil
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return mycoerr.Wrap(mycoerr.KindIO, "mirror: failed to begin transaction", err)
	}

	total := len(statements)
	for i, stmt := range statements {
		start := time.Now()
		if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return mycoerr.Wrap(mycoerr.KindIO, fmt.Sprintf("mirror: statement %d/%d failed and rollback also failed", i+1, total), rbErr)
			}
			return mycoerr.Wrap(mycoerr.KindIO, fmt.Sprintf("mirror: statement %d/%d failed (rolled back)", i+1, total), execErr)
		}
		fmt.Fprintf(e.out, "  [%d/%d] OK (%.2fs)\n", i+1, total, time.Since(start).Seconds())
	}

	if err := tx.Commit(); err != nil {
		return mycoerr.Wrap(mycoerr.KindIO, "mirror: failed to commit transaction", err)
	}
	fmt.Fprintln(e.out, "mirror export complete")
	return nil
}

// reportPreflight prints any DANGER/CAUTION warnings apply.StatementAnalyzer
// raises for statements, unsafeAllowed is true since mirror never asks for
// a confirmation prompt (it's a debug aid, not an interactive migration
// tool).
func (e *Exporter) reportPreflight(statements []string) {
	analyzer := apply.NewStatementAnalyzer()
	result := analyzer.AnalyzeStatements(statements, true)
	for _, w := range result.Warnings {
		fmt.Fprintf(e.out, "preflight [%s]: %s (%s)\n", w.Level, w.Message, w.SQL)
	}
}

// Package apply carries the preflight risk check the original
// migration tool ran before applying DDL/DML: classify a statement as
// destructive or transaction-unsafe before replaying it.
// internal/mirror's Exporter runs this over every batch it's about to
// replay (its own Connect/Run loop took over the original package's
// Applier role, so only the analyzer survives here). mirror.Statements
// only ever emits CREATE TABLE and INSERT, so those are the two shapes
// this package resolves through the AST; anything else is reachable
// only if a caller hand-edits mirror's statement list before calling
// Run, and is classified with a keyword scan instead.
package apply

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
)

// PreflightResult contains a list of warnings and transactionality info
// about a batch of statements.
type PreflightResult struct {
	Warnings        []Warning
	IsTransactional bool
	NonTxReasons    []string
}

// Warning carries a risk Level, a human-readable Message, and the SQL
// text (truncated) it was raised for.
type Warning struct {
	Level   WarningLevel
	Message string
	SQL     string
}

// WarningLevel distinguishes a merely-blocking operation from a
// destructive one.
type WarningLevel string

const (
	WarnCaution WarningLevel = "CAUTION"
	WarnDanger  WarningLevel = "DANGER"
)

// HasDestructiveOperations reports whether preflight raised any DANGER
// warning.
func HasDestructiveOperations(preflight *PreflightResult) bool {
	for _, w := range preflight.Warnings {
		if w.Level == WarnDanger {
			return true
		}
	}
	return false
}

func truncateSQL(stmt string, maxLen int) string {
	stmt = strings.TrimSpace(stmt)
	if maxLen <= 0 {
		maxLen = 60
	}
	if len(stmt) > maxLen {
		return stmt[:maxLen-3] + "..."
	}
	return stmt
}

// StatementAnalysis contains the results of analyzing a SQL statement.
type StatementAnalysis struct {
	IsBlocking        bool
	BlockingReasons   []string
	IsDestructive     bool
	DestructiveReason string
	IsTransactionSafe bool
	TxUnsafeReason    string
	StatementType     string
}

// StatementAnalyzer uses TiDB's AST parser for reliable SQL analysis
type StatementAnalyzer struct {
	parser *parser.Parser
}

// NewStatementAnalyzer creates a new AST-based statement analyzer.
func NewStatementAnalyzer() *StatementAnalyzer {
	return &StatementAnalyzer{
		parser: parser.New(),
	}
}

// AnalyzeStatement parses a single SQL statement and returns analysis results.
func (a *StatementAnalyzer) AnalyzeStatement(sql string) (*StatementAnalysis, error) {
	stmtNodes, _, err := a.parser.Parse(sql, "", "")
	if err != nil {
		return a.fallbackAnalysis(sql), nil
	}

	if len(stmtNodes) == 0 {
		return &StatementAnalysis{}, nil
	}

	return a.analyzeNode(stmtNodes[0], sql), nil
}

// AnalyzeStatements analyzes multiple SQL statements and returns a PreflightResult.
func (a *StatementAnalyzer) AnalyzeStatements(statements []string, unsafeAllowed bool) *PreflightResult {
	result := &PreflightResult{
		IsTransactional: true,
	}

	for _, stmt := range statements {
		analysis, _ := a.AnalyzeStatement(stmt)
		if analysis == nil {
			continue
		}

		if analysis.IsBlocking {
			for _, reason := range analysis.BlockingReasons {
				result.Warnings = append(result.Warnings, Warning{
					Level:   WarnCaution,
					Message: fmt.Sprintf("Potentially blocking DDL: %s", reason),
					SQL:     truncateSQL(stmt, 60),
				})
			}
		}

		if analysis.IsDestructive {
			msg := analysis.DestructiveReason
			if !unsafeAllowed {
				msg = fmt.Sprintf("%s (requires --unsafe flag)", msg)
			}
			result.Warnings = append(result.Warnings, Warning{
				Level:   WarnDanger,
				Message: msg,
				SQL:     truncateSQL(stmt, 60),
			})
		}

		if !analysis.IsTransactionSafe {
			result.IsTransactional = false
			reason := analysis.TxUnsafeReason
			if reason != "" {
				reason = fmt.Sprintf("%s: %s", reason, truncateSQL(stmt, 60))
			} else {
				reason = fmt.Sprintf("DDL statement causes implicit commit: %s", truncateSQL(stmt, 60))
			}
			result.NonTxReasons = append(result.NonTxReasons, reason)
		}
	}

	return result
}

// analyzeNode classifies the two statement shapes mirror.Statements
// actually generates; everything else falls to analyzeUnrecognized.
func (a *StatementAnalyzer) analyzeNode(node ast.StmtNode, originalSQL string) *StatementAnalysis {
	analysis := &StatementAnalysis{
		IsTransactionSafe: true,
	}

	switch node.(type) {
	case *ast.CreateTableStmt:
		analysis.StatementType = "CREATE TABLE"
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "CREATE TABLE causes an implicit commit in MySQL"

	case *ast.InsertStmt:
		analysis.StatementType = "INSERT"

	default:
		a.analyzeUnrecognized(originalSQL, analysis)
	}

	return analysis
}

// analyzeUnrecognized keyword-scans a statement mirror itself never
// produces — reachable only when a caller passes Run a hand-edited
// statement list — and flags the handful of destructive/blocking DDL
// shapes worth warning about before they run unattended.
func (a *StatementAnalyzer) analyzeUnrecognized(sql string, analysis *StatementAnalysis) {
	upper := strings.ToUpper(strings.TrimSpace(sql))

	switch {
	case strings.HasPrefix(upper, "DROP TABLE"):
		analysis.StatementType = "DROP TABLE"
		analysis.IsDestructive = true
		analysis.DestructiveReason = "DROP TABLE will permanently delete the table and all its data"
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "DROP TABLE causes an implicit commit in MySQL"

	case strings.HasPrefix(upper, "DROP DATABASE"):
		analysis.StatementType = "DROP DATABASE"
		analysis.IsDestructive = true
		analysis.DestructiveReason = "DROP DATABASE will permanently delete the entire database"
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "DROP DATABASE causes an implicit commit in MySQL"

	case strings.HasPrefix(upper, "TRUNCATE"):
		analysis.StatementType = "TRUNCATE TABLE"
		analysis.IsDestructive = true
		analysis.DestructiveReason = "TRUNCATE TABLE will delete all rows from the table"
		analysis.IsBlocking = true
		analysis.BlockingReasons = append(analysis.BlockingReasons,
			"TRUNCATE TABLE acquires an exclusive lock and removes all data instantly")
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "TRUNCATE TABLE causes an implicit commit in MySQL"

	case strings.HasPrefix(upper, "DELETE "):
		analysis.StatementType = "DELETE"
		analysis.IsDestructive = true
		analysis.DestructiveReason = "DELETE will remove rows from the table"

	case strings.HasPrefix(upper, "ALTER TABLE"):
		analysis.StatementType = "ALTER TABLE"
		analysis.IsBlocking = true
		analysis.BlockingReasons = append(analysis.BlockingReasons, "ALTER TABLE may lock or rebuild the table")
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = "ALTER TABLE causes an implicit commit in MySQL"

	default:
		analysis.StatementType = "OTHER"
	}
}

func (a *StatementAnalyzer) fallbackAnalysis(sql string) *StatementAnalysis {
	analysis := &StatementAnalysis{IsTransactionSafe: true}
	a.analyzeUnrecognized(sql, analysis)
	if analysis.StatementType == "OTHER" {
		analysis.StatementType = "UNPARSEABLE"
	}
	return analysis
}

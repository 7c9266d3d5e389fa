package apply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analyzeStatementTests = []struct {
	name              string
	sql               string
	wantDestructive   bool
	wantBlocking      bool
	wantTxSafe        bool
	wantStatementType string
}{
	{
		name:              "CREATE TABLE is non-transactional",
		sql:               "CREATE TABLE tracks (id INT PRIMARY KEY, name TEXT);",
		wantDestructive:   false,
		wantBlocking:      false,
		wantTxSafe:        false,
		wantStatementType: "CREATE TABLE",
	},
	{
		name:              "INSERT is transaction-safe",
		sql:               "INSERT INTO tracks (id, name) VALUES (1, 'Dreams');",
		wantDestructive:   false,
		wantBlocking:      false,
		wantTxSafe:        true,
		wantStatementType: "INSERT",
	},
	{
		name:              "DROP TABLE is destructive and non-transactional",
		sql:               "DROP TABLE tracks;",
		wantDestructive:   true,
		wantBlocking:      false,
		wantTxSafe:        false,
		wantStatementType: "DROP TABLE",
	},
	{
		name:              "DROP DATABASE is destructive and non-transactional",
		sql:               "DROP DATABASE myco;",
		wantDestructive:   true,
		wantBlocking:      false,
		wantTxSafe:        false,
		wantStatementType: "DROP DATABASE",
	},
	{
		name:              "TRUNCATE TABLE is destructive and blocking",
		sql:               "TRUNCATE TABLE tracks;",
		wantDestructive:   true,
		wantBlocking:      true,
		wantTxSafe:        false,
		wantStatementType: "TRUNCATE TABLE",
	},
	{
		name:              "DELETE is destructive but transactional",
		sql:               "DELETE FROM tracks WHERE id = 1;",
		wantDestructive:   true,
		wantBlocking:      false,
		wantTxSafe:        true,
		wantStatementType: "DELETE",
	},
	{
		name:              "ALTER TABLE is blocking and non-transactional",
		sql:               "ALTER TABLE tracks ADD COLUMN album_id INT;",
		wantDestructive:   false,
		wantBlocking:      true,
		wantTxSafe:        false,
		wantStatementType: "ALTER TABLE",
	},
}

func TestStatementAnalyzerAnalyzeStatement(t *testing.T) {
	analyzer := NewStatementAnalyzer()
	for _, tt := range analyzeStatementTests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := analyzer.AnalyzeStatement(tt.sql)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDestructive, analysis.IsDestructive, "IsDestructive mismatch")
			assert.Equal(t, tt.wantBlocking, analysis.IsBlocking, "IsBlocking mismatch")
			assert.Equal(t, tt.wantTxSafe, analysis.IsTransactionSafe, "IsTransactionSafe mismatch")
			if tt.wantStatementType != "" {
				assert.Equal(t, tt.wantStatementType, analysis.StatementType, "StatementType mismatch")
			}
		})
	}
}

func TestStatementAnalyzerPreflightResult(t *testing.T) {
	analyzer := NewStatementAnalyzer()

	statements := []string{
		"CREATE TABLE users (id INT PRIMARY KEY);",
		"ALTER TABLE users ADD COLUMN email VARCHAR(255);",
		"DROP TABLE old_users;",
	}

	result := analyzer.AnalyzeStatements(statements, false)

	assert.False(t, result.IsTransactional, "expected IsTransactional to be false for DDL statements")
	assert.NotEmpty(t, result.NonTxReasons, "expected NonTxReasons to be populated")
	assert.NotEmpty(t, result.Warnings, "expected Warnings to be populated")

	hasDanger := false
	for _, w := range result.Warnings {
		if w.Level == WarnDanger {
			hasDanger = true
			break
		}
	}
	assert.True(t, hasDanger, "expected at least one DANGER warning for DROP TABLE")
}

func TestStatementAnalyzerFalsePositiveAvoidance(t *testing.T) {
	analyzer := NewStatementAnalyzer()

	tests := []struct {
		name            string
		sql             string
		wantDestructive bool
	}{
		{
			name:            "String containing DROP TABLE should not be flagged",
			sql:             "INSERT INTO tracks (name) VALUES ('User tried to DROP TABLE');",
			wantDestructive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := analyzer.AnalyzeStatement(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDestructive, analysis.IsDestructive, "false positive detected")
		})
	}
}

package ingest

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"myco/internal/world"
)

func setupMySQLSource(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("root"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err, "failed to get connection string")

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, "CREATE TABLE tracks (id INT, name VARCHAR(255), album_id INT)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO tracks (id, name, album_id) VALUES (1, 'Dreams', 2), (2, NULL, 2)")
	require.NoError(t, err)

	return dsn
}

func TestIngestMySQLIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dsn := setupMySQLSource(t)
	ctx := context.Background()

	w := world.New(64, 64)
	require.NoError(t, IngestMySQL(ctx, w, dsn))

	tableID, ok := w.FindTable("tracks")
	require.True(t, ok)
	require.Len(t, w.Payloads, 2)
	require.Equal(t, tableID, w.Payloads[0].TableID)

	found := false
	for _, p := range w.Payloads {
		for _, f := range p.Fields {
			if f.Name == "name" && f.Value == "Dreams" {
				found = true
			}
		}
	}
	require.True(t, found, "expected row with name=Dreams")

	for _, f := range w.Payloads[1].Fields {
		if f.Name == "name" {
			require.Equal(t, "NULL", f.Value)
		}
	}
}

func TestIngestMySQLInvalidDSN(t *testing.T) {
	w := world.New(8, 8)
	err := IngestMySQL(context.Background(), w, "invalid:user@tcp(127.0.0.1:1)/nope")
	require.Error(t, err)
}

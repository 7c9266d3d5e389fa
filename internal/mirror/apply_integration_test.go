package mirror

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"myco/internal/world"
)

type testMySQLContainer struct {
	container *mysql.MySQLContainer
	dsn       string
}

func setupMySQL(t *testing.T) *testMySQLContainer {
	t.Helper()
	ctx := context.Background()

	mysqlContainer, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("root"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(mysqlContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := mysqlContainer.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err, "failed to get connection string")

	return &testMySQLContainer{container: mysqlContainer, dsn: dsn}
}

func TestExporterRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tc := setupMySQL(t)
	ctx := context.Background()

	w := world.New(10, 10)
	tableID := w.AddTable("tracks")
	w.Table(tableID).Columns = []string{"id", "name"}
	w.AddPayload(&world.Payload{
		ID:      1,
		TableID: tableID,
		Fields:  []world.Field{{Name: "id", Value: "1"}, {Name: "name", Value: "Dreams"}},
	})

	exp := NewExporter(tc.dsn, nil)
	require.NoError(t, exp.Connect(ctx))
	defer exp.Close()

	require.NoError(t, exp.Run(ctx, Statements(w), false))

	db, err := sql.Open("mysql", tc.dsn)
	require.NoError(t, err)
	defer db.Close()

	var name string
	require.NoError(t, db.QueryRowContext(ctx, "SELECT name FROM tracks WHERE id = '1'").Scan(&name))
	assert.Equal(t, "Dreams", name)
}

func TestExporterConnectInvalidDSN(t *testing.T) {
	exp := NewExporter("invalid:user@tcp(127.0.0.1:1)/nope", nil)
	err := exp.Connect(context.Background())
	assert.Error(t, err)
	assert.NoError(t, exp.Close())
}

func TestExporterDryRunDoesNotConnect(t *testing.T) {
	exp := NewExporter("unused", nil)
	err := exp.Run(context.Background(), []string{"CREATE TABLE x (id TEXT);"}, true)
	assert.NoError(t, err)
}

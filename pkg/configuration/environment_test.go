package configuration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfiguration_Defaults(t *testing.T) {
	c := &Configuration{}
	require.NoError(t, c.load(nil))

	require.Equal(t, "timesheet", c.Database.Name)
	require.Equal(t, 1, c.Import.BlockToleranceDays)
	require.Equal(t, 4, c.Import.ValidationWorkers)
	require.Equal(t, ":3200", c.SocketAddress)
	require.NotNil(t, c.Logger())
}

func TestConfiguration_InvalidImportOptions(t *testing.T) {
	t.Setenv("IMPORT_VALIDATION_WORKERS", "0")

	c := &Configuration{}
	err := c.load(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "import configuration")
}

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	d := DatabaseOptions{Name: "ts", Host: "db", Port: "5433", User: "u", Password: "p"}
	require.Equal(t, "host=db port=5433 user=u dbname=ts password=p sslmode=disable", d.ConnectionString())
}

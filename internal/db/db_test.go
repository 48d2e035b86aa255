package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDB(t *testing.T) {
	DB, err := Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = DB.Close() })

	require.NoError(t, InitializeDB(DB))
	// Running it twice must be harmless.
	require.NoError(t, InitializeDB(DB))

	var tables []string
	require.NoError(t, DB.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'kv') ORDER BY name`))
	assert.Equal(t, []string{"kv", "users"}, tables)
}

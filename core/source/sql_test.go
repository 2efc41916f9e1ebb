package source

import (
	"context"
	"path/filepath"
	"testing"

	"recon-manager/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sqliteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: filepath.Join(t.TempDir(), "recon.db")})
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE accounts (id INTEGER, code TEXT, balance REAL)").Error)
	require.NoError(t, db.Exec("INSERT INTO accounts (id, code, balance) VALUES (1, 'A', 10.5), (2, NULL, 0), (2, 'B', 3)").Error)
	return db
}

func TestLoadTable(t *testing.T) {
	ctx := context.Background()

	t.Run("Rows", func(t *testing.T) {
		db := sqliteDB(t)

		ds, err := LoadTable(ctx, db, "accounts")
		require.NoError(t, err)
		assert.Equal(t, "db://accounts", ds.Name())
		assert.Equal(t, []string{"id", "code", "balance"}, ds.Columns())
		require.Equal(t, 3, ds.Len())

		code, err := ds.Value(0, "code")
		require.NoError(t, err)
		assert.Equal(t, "A", code)

		missing, err := ds.Value(1, "code")
		require.NoError(t, err)
		assert.Nil(t, missing)

		key, ok, err := ds.Key(2, "id")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2", key)
	})

	t.Run("UnknownTable", func(t *testing.T) {
		db := sqliteDB(t)

		_, err := LoadTable(ctx, db, "ledger")
		assert.ErrorIs(t, err, ErrUnknownTable)
	})

	t.Run("NoDatabase", func(t *testing.T) {
		_, err := LoadTable(ctx, nil, "accounts")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: filepath.Join(t.TempDir(), "recon.db")})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT, description TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(context.Background(), db, "test_items")
	require.NoError(t, err)
	assert.Equal(t, []ColumnInfo{
		{Field: "id", Type: "integer"},
		{Field: "name", Type: "text"},
		{Field: "description", Type: "text"},
	}, columns)

	cols, err := GetTableColumns(context.Background(), db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "INT(11)", "NO", "PRI", nil, "auto_increment").
		AddRow("name", "varchar(70)", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `accounts`").WillReturnRows(rows)

	columns, err := GetTableColumns(context.Background(), db, "accounts")
	require.NoError(t, err)
	assert.Equal(t, []ColumnInfo{{Field: "id", Type: "int(11)"}, {Field: "name", Type: "varchar(70)"}}, columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

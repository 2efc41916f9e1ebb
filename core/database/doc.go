// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either a MySQL server or a SQLite file, which the
// source package reads tables from when a dataset is given as db://table.
//
// # Inspection
//
// GetTableColumns returns a table's columns in declaration order. The source
// loader uses it to reject unknown tables before querying them.
package database

// Package source loads datasets from files, object storage and databases.
//
// A source is addressed by a URI:
//
//	data/left.xlsx        local file, format from the extension
//	s3://bucket/key.csv   object in MinIO/S3 (empty bucket uses the default)
//	db://table            table in the configured database
//
// Tabular files are CSV, XLSX (one sheet, first row is the header) or JSON
// (an array of objects, or an object with "columns" and "rows"). Header names
// are made unique: blanks become "Unnamed: N" and repeats get a ".N" suffix.
package source

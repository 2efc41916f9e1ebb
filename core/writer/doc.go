// Package writer renders reconciliation views to workbooks, text and JSON,
// and uploads rendered output to object storage.
//
// An XLSX workbook gets one sheet per view, named after the view. The text
// form prints each view as an aligned table under a title line. JSON output is
// an array of {name, columns, rows} objects.
package writer

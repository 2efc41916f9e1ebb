// Package recon exposes reconciliation over HTTP.
//
// # Endpoints
//
//   - POST /recon: reconcile two datasets given inline as columns and rows.
//   - POST /recon/sources: reconcile two s3:// or db:// sources. Engines are
//     cached per sources, sheets and keys for the configured TTL, and the
//     selected views can be uploaded as a workbook.
//   - GET /recon/sources: list readable objects in the default bucket.
//
// Responses carry the summary (counts, relationships, plan) and the selected
// views as {name, columns, rows} tables. Key and suffix errors answer 400, a
// failed relationship assertion 422.
//
// Local file paths are refused by /recon/sources so the API cannot read the
// server's filesystem.
package recon

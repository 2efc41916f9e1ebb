package recon

import (
	"recon-manager/core/report"
	"recon-manager/core/writer"
)

// DatasetInput is an inline dataset.
type DatasetInput struct {
	// Name labels the dataset in summaries.
	Name string `json:"name" example:"ledger"`
	// Columns are the column names in order.
	Columns []string `json:"columns"`
	// Rows hold values aligned with Columns.
	Rows [][]any `json:"rows"`
}

// Params are the settings shared by both request kinds.
type Params struct {
	// LeftOn is the key column of the left dataset.
	LeftOn string `json:"left_on" example:"id"`
	// RightOn is the key column of the right dataset.
	RightOn string `json:"right_on" example:"account_id"`
	// Suffixes are the left and right suffixes for colliding columns.
	Suffixes []string `json:"suffixes,omitempty"`
	// Views selects the views to return. Empty returns the all view.
	Views []string `json:"views,omitempty"`
	// Relationship, when set, is asserted against the observed relationship.
	Relationship string `json:"relationship,omitempty" example:"1:1"`
	// Verify runs the reconstruction checks before answering.
	Verify bool `json:"verify,omitempty"`
}

// Request reconciles two inline datasets.
type Request struct {
	Params
	Left  DatasetInput `json:"left"`
	Right DatasetInput `json:"right"`
}

// SourceRequest reconciles two datasets loaded server-side.
type SourceRequest struct {
	Params
	// Left is an s3:// or db:// source.
	Left string `json:"left" example:"s3://recon/ledger.xlsx"`
	// Right is an s3:// or db:// source.
	Right string `json:"right" example:"db://accounts"`
	// LeftSheet is the workbook sheet of an XLSX left source.
	LeftSheet string `json:"left_sheet,omitempty"`
	// RightSheet is the workbook sheet of an XLSX right source.
	RightSheet string `json:"right_sheet,omitempty"`
	// Output, when set, uploads the selected views to this key of the default bucket.
	Output string `json:"output,omitempty" example:"runs/ledger.xlsx"`
}

// Response is the outcome of a reconciliation.
type Response struct {
	// ID identifies the run in logs.
	ID      string         `json:"id"`
	Summary report.Summary `json:"summary"`
	Views   []writer.Table `json:"views"`
	// Verified is true when the reconstruction checks ran and passed.
	Verified bool `json:"verified"`
	// Cached is true when the engine came from the cache.
	Cached bool `json:"cached"`
	// Output is the uploaded object, if any.
	Output string `json:"output,omitempty"`
}

// ObjectList lists readable sources in the default bucket.
type ObjectList struct {
	Bucket  string   `json:"bucket"`
	Objects []string `json:"objects"`
}

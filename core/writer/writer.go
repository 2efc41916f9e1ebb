package writer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"text/tabwriter"

	"recon-manager/core/reconcile"
	"recon-manager/core/storage"
	"recon-manager/core/utils"

	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for output names with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format is an output format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ContentType returns the MIME type used when uploading.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// DetectFormat picks a format from the output file extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	case ".txt", ".log":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// Write renders views in the given format.
func Write(w io.Writer, format Format, views []*reconcile.View) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, views)
	case FormatJSON:
		return WriteJSON(w, views)
	case FormatText:
		return WriteText(w, views)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// WriteFile renders views to a local file chosen by extension.
func WriteFile(name string, views []*reconcile.View) error {
	format, err := DetectFormat(name)
	if err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := Write(f, format, views); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Upload renders views and stores them under bucket/key.
func Upload(ctx context.Context, client storage.Client, bucket, key string, views []*reconcile.View) (minio.UploadInfo, error) {
	format, err := DetectFormat(key)
	if err != nil {
		return minio.UploadInfo{}, err
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, views); err != nil {
		return minio.UploadInfo{}, err
	}

	if err := storage.EnsureBucket(ctx, client, bucket, ""); err != nil {
		return minio.UploadInfo{}, err
	}

	info, err := client.PutObject(ctx, bucket, key, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: format.ContentType(),
	})
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}
	return info, nil
}

// WriteXLSX writes one sheet per view.
func WriteXLSX(w io.Writer, views []*reconcile.View) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, v := range views {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), v.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", v.Name, err)
			}
		} else if _, err := f.NewSheet(v.Name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", v.Name, err)
		}

		sw, err := f.NewStreamWriter(v.Name)
		if err != nil {
			return fmt.Errorf("failed to open sheet %s: %w", v.Name, err)
		}
		if err := sw.SetRow("A1", toRow(v.Header())); err != nil {
			return fmt.Errorf("failed to write header of %s: %w", v.Name, err)
		}
		for r := 0; r < v.Len(); r++ {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := sw.SetRow(cell, cellValues(v.Cells(r))); err != nil {
				return fmt.Errorf("failed to write row %d of %s: %w", r, v.Name, err)
			}
		}
		if err := sw.Flush(); err != nil {
			return fmt.Errorf("failed to flush sheet %s: %w", v.Name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func toRow(header []string) []any {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}

// cellValues converts values excelize cannot store natively.
func cellValues(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case json.Number:
			if n, err := val.Int64(); err == nil {
				out[i] = n
			} else if f, err := val.Float64(); err == nil {
				out[i] = f
			} else {
				out[i] = val.String()
			}
		case []int, map[string]any, []any:
			if str := utils.ToString(val); str != "" {
				out[i] = str
			}
		default:
			out[i] = val
		}
	}
	return out
}

// WriteText writes every view as an aligned table.
func WriteText(w io.Writer, views []*reconcile.View) error {
	for i, v := range views {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "== %s (%d rows) ==\n", v.Name, v.Len()); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(v.Header(), "\t"))
		for r := 0; r < v.Len(); r++ {
			cells := v.Cells(r)
			parts := make([]string, len(cells))
			for c, cell := range cells {
				parts[c] = utils.ToString(cell)
			}
			fmt.Fprintln(tw, strings.Join(parts, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Table is the JSON form of a view.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Tables converts views into their JSON form.
func Tables(views []*reconcile.View) []Table {
	tables := make([]Table, len(views))
	for i, v := range views {
		rows := make([][]any, v.Len())
		for r := range rows {
			rows[r] = v.Cells(r)
		}
		tables[i] = Table{Name: v.Name, Columns: v.Header(), Rows: rows}
	}
	return tables
}

// WriteJSON writes views as an indented JSON array.
func WriteJSON(w io.Writer, views []*reconcile.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Tables(views))
}

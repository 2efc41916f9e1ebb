package source

import (
	"fmt"
	"io"

	"recon-manager/core/dataset"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads one sheet of a workbook whose first row is the header.
// Cells are read as their formatted text.
func ReadXLSX(name string, r io.Reader, opts ReadOptions) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheet := opts.sheet()
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheet, name)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, name, err)
	}
	if len(rows) == 0 {
		return dataset.New(name, nil, nil)
	}

	header := uniqueHeader(rows[0])
	data := make([][]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		data = append(data, cells(row, len(header)))
	}
	return dataset.New(name, header, data)
}

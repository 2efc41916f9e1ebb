package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"recon-manager/core/dataset"
)

// ReadCSV reads a comma separated file whose first row is the header.
func ReadCSV(name string, r io.Reader) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	raw, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return dataset.New(name, nil, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header of %s: %w", name, err)
	}
	if len(raw) > 0 {
		raw[0] = strings.TrimPrefix(raw[0], string(utf8BOM))
	}
	header := uniqueHeader(raw)

	var rows [][]any
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv %s: %w", name, err)
		}
		rows = append(rows, cells(rec, len(header)))
	}

	return dataset.New(name, header, rows)
}

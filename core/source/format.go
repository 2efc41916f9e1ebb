package source

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrSheetNotFound is returned when a workbook lacks the requested sheet.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrInvalidURI is returned for malformed source URIs.
	ErrInvalidURI = errors.New("invalid source uri")
	// ErrUnavailable is returned when a source needs a backend that is not configured.
	ErrUnavailable = errors.New("source backend unavailable")
	// ErrUnknownTable is returned for db:// sources naming a missing table.
	ErrUnknownTable = errors.New("unknown table")
)

// Format is a tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DefaultSheet is read when no sheet is given.
const DefaultSheet = "Sheet1"

// ReadOptions tune how a file is parsed.
type ReadOptions struct {
	// Sheet is the workbook sheet for XLSX sources.
	Sheet string
}

func (o ReadOptions) sheet() string {
	if o.Sheet == "" {
		return DefaultSheet
	}
	return o.Sheet
}

// DetectFormat picks a format from the file extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// uniqueHeader names blank columns and suffixes repeated ones.
func uniqueHeader(raw []string) []string {
	header := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = name + "." + strconv.Itoa(n)
		}
		seen[candidate] = true
		header[i] = candidate
	}
	return header
}

// cells converts string cells to values, empty cells becoming nil.
func cells(raw []string, width int) []any {
	if len(raw) > width {
		// Trailing blanks beyond the header are dropped
		for len(raw) > width && strings.TrimSpace(raw[len(raw)-1]) == "" {
			raw = raw[:len(raw)-1]
		}
	}
	row := make([]any, len(raw))
	for i, v := range raw {
		if v != "" {
			row[i] = v
		}
	}
	return row
}

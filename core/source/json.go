package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"recon-manager/core/dataset"
)

// Table is the columnar JSON form of a dataset.
type Table struct {
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Dataset converts the table, using fallback when it carries no name.
func (t Table) Dataset(fallback string) (*dataset.Dataset, error) {
	name := t.Name
	if name == "" {
		name = fallback
	}
	return dataset.New(name, t.Columns, t.Rows)
}

// ReadJSON reads either an array of objects or a Table object.
// For arrays, columns appear in first-seen key order. Numbers keep their
// literal text so large identifiers survive.
func ReadJSON(name string, r io.Reader) (*dataset.Dataset, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return dataset.New(name, nil, nil)
		}
		return nil, fmt.Errorf("failed to read json %s: %w", name, err)
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	switch first {
	case '{':
		var t Table
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("failed to decode json table %s: %w", name, err)
		}
		return t.Dataset(name)
	case '[':
		return readRecords(name, dec)
	}
	return nil, fmt.Errorf("%w: %s is not a json array or object", ErrUnsupportedFormat, name)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(3)
	}
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

func readRecords(name string, dec *json.Decoder) (*dataset.Dataset, error) {
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode json %s: %w", name, err)
	}

	var columns []string
	lookup := make(map[string]int)
	var rows [][]any

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode json %s: %w", name, err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("%w: %s record %d is not an object", ErrUnsupportedFormat, name, len(rows))
		}

		row := make([]any, len(columns))
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("failed to decode json %s: %w", name, err)
			}
			key := keyTok.(string)

			var val any
			if err := dec.Decode(&val); err != nil {
				return nil, fmt.Errorf("failed to decode json %s: %w", name, err)
			}

			idx, ok := lookup[key]
			if !ok {
				idx = len(columns)
				lookup[key] = idx
				columns = append(columns, key)
			}
			for len(row) <= idx {
				row = append(row, nil)
			}
			row[idx] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("failed to decode json %s: %w", name, err)
		}
		rows = append(rows, row)
	}

	return dataset.New(name, columns, rows)
}

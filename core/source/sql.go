package source

import (
	"context"
	"fmt"

	"recon-manager/core/database"
	"recon-manager/core/dataset"

	"gorm.io/gorm"
)

// LoadTable reads every row of a table, in storage order.
// Byte values are returned as strings.
func LoadTable(ctx context.Context, db *gorm.DB, table string) (*dataset.Dataset, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: no database configured for table %s", ErrUnavailable, table)
	}

	info, err := database.GetTableColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	rows, err := db.WithContext(ctx).Table(table).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	var data [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", table, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate table %s: %w", table, err)
	}

	return dataset.New("db://"+table, columns, data)
}

package frame

import (
	"context"
	"database/sql"
	"fmt"
)

// Queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// ReadSQL runs query and collects the result set into a DataFrame.
// Column dtypes are inferred from the returned values; SQL NULL becomes null.
func ReadSQL(ctx context.Context, db Queryer, query string, args ...interface{}) (*DataFrame, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	values := make([][]interface{}, len(names))
	scan := make([]interface{}, len(names))
	ptrs := make([]interface{}, len(names))
	for i := range scan {
		ptrs[i] = &scan[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range scan {
			if b, ok := v.([]byte); ok {
				// Drivers may reuse the buffer between rows
				v = string(b)
			}
			values[i] = append(values[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	columns := make([]*Series, len(names))
	for i, name := range names {
		if len(values[i]) == 0 {
			columns[i] = NewSeriesNull(name, Null, 0)
			continue
		}
		dtype, err := inferValuesType(values[i])
		if err != nil {
			// Mixed affinities (possible in SQLite) fall back to text
			dtype = String
		}
		if dtype == Null {
			columns[i] = NewSeriesNull(name, Null, len(values[i]))
			continue
		}
		col, err := NewSeriesOf(name, dtype, values[i])
		if err != nil {
			return nil, fmt.Errorf("failed to build column '%s': %w", name, err)
		}
		columns[i] = col
	}

	return NewDataFrame(columns...)
}

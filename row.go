// Copyright (c) 2021-2025 CascadeDB Inc. All rights reserved.

package gocascade

import (
	"bytes"
	"errors"
	"fmt"
	"time"
)

// Row is one decoded result row: an ordered list of column values with lookup
// by column name. Columns keep the order the row type declares. When two
// columns share a name, lookup by that name finds the later one; earlier ones
// remain reachable through ValueAt.
type Row struct {
	names  []string
	index  map[string]int
	values []any
}

func newRow(fields []*FieldType, values []any) *Row {
	names := make([]string, len(fields))
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		index[f.Name] = i
	}
	return &Row{names: names, index: index, values: values}
}

// Size returns the number of columns in the row.
func (row *Row) Size() int {
	return len(row.values)
}

// ColumnNames returns the column names in declaration order.
func (row *Row) ColumnNames() []string {
	return append([]string(nil), row.names...)
}

// ColumnIndex returns the position of the named column.
func (row *Row) ColumnIndex(name string) (int, bool) {
	i, ok := row.index[name]
	return i, ok
}

// Value returns the decoded value of the named column. NULL columns are nil.
func (row *Row) Value(name string) (any, error) {
	i, ok := row.index[name]
	if !ok {
		return nil, errors.New("column " + name + " does not exist")
	}
	return row.values[i], nil
}

// ValueAt returns the decoded value of the column at position i.
func (row *Row) ValueAt(i int) (any, error) {
	if i < 0 || i >= len(row.values) {
		return nil, fmt.Errorf("column index %v out of range, row has %v columns", i, len(row.values))
	}
	return row.values[i], nil
}

// ToMap returns the row as a name to value map. Duplicate column names keep
// the later column's value.
func (row *Row) ToMap() map[string]any {
	m := make(map[string]any, len(row.names))
	for i, name := range row.names {
		m[name] = row.values[i]
	}
	return m
}

func getColumn[T any](row *Row, name string, emptyValue T) (T, bool, error) {
	i, ok := row.index[name]
	if !ok {
		return emptyValue, false, errors.New("column " + name + " does not exist")
	}
	v := row.values[i]
	if v == nil {
		return emptyValue, true, nil
	}
	tv, ok := v.(T)
	if !ok {
		return emptyValue, false, fmt.Errorf("cannot convert column %v to %T", name, emptyValue)
	}
	return tv, false, nil
}

// GetString returns a STRING column by name.
func (row *Row) GetString(name string) (string, error) {
	v, wasNull, err := getColumn(row, name, "")
	if err != nil {
		return "", err
	}
	if wasNull {
		return "", fmt.Errorf("nil value for %v, use Value instead", name)
	}
	return v, nil
}

// GetInt64 returns an INT64 column by name.
func (row *Row) GetInt64(name string) (int64, error) {
	v, wasNull, err := getColumn(row, name, int64(0))
	if err != nil {
		return 0, err
	}
	if wasNull {
		return 0, fmt.Errorf("nil value for %v, use Value instead", name)
	}
	return v, nil
}

// GetFloat64 returns a FLOAT64 column by name.
func (row *Row) GetFloat64(name string) (float64, error) {
	v, wasNull, err := getColumn(row, name, float64(0))
	if err != nil {
		return 0, err
	}
	if wasNull {
		return 0, fmt.Errorf("nil value for %v, use Value instead", name)
	}
	return v, nil
}

// GetBool returns a BOOL column by name.
func (row *Row) GetBool(name string) (bool, error) {
	v, wasNull, err := getColumn(row, name, false)
	if err != nil {
		return false, err
	}
	if wasNull {
		return false, fmt.Errorf("nil value for %v, use Value instead", name)
	}
	return v, nil
}

// GetTime returns a TIMESTAMP or DATE column by name.
func (row *Row) GetTime(name string) (time.Time, error) {
	v, wasNull, err := getColumn(row, name, time.Time{})
	if err != nil {
		return time.Time{}, err
	}
	if wasNull {
		return time.Time{}, fmt.Errorf("nil value for %v, use Value instead", name)
	}
	return v, nil
}

// GetBytes returns a BYTES column by name as a seekable reader.
func (row *Row) GetBytes(name string) (*bytes.Reader, error) {
	v, wasNull, err := getColumn(row, name, (*bytes.Reader)(nil))
	if err != nil {
		return nil, err
	}
	if wasNull {
		return nil, fmt.Errorf("nil value for %v, use Value instead", name)
	}
	return v, nil
}

// GetList returns an ARRAY column by name. NULL elements are nil entries.
func (row *Row) GetList(name string) ([]any, error) {
	v, wasNull, err := getColumn(row, name, []any(nil))
	if err != nil {
		return nil, err
	}
	if wasNull {
		return nil, fmt.Errorf("nil value for %v, use Value instead", name)
	}
	return v, nil
}

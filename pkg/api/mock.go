package api

import (
	"context"

	"orderdash/pkg/sheets"
)

type mockSource struct {
	Table     *sheets.Table
	Err       error
	FetchRefs []sheets.Ref
}

func (m *mockSource) FetchRows(_ context.Context, ref sheets.Ref) (*sheets.Table, error) {
	m.FetchRefs = append(m.FetchRefs, ref)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Table, nil
}

type rowWrite struct {
	RowNumber int
	Row       []interface{}
}

type mockSheetWriter struct {
	Writes []rowWrite
	Err    error
}

func (m *mockSheetWriter) WriteRow(_ context.Context, _ sheets.Ref, rowNumber int, headers []string, row sheets.RawRow) error {
	if m.Err != nil {
		return m.Err
	}
	m.Writes = append(m.Writes, rowWrite{RowNumber: rowNumber, Row: row.Values(headers)})
	return nil
}

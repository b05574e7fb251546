package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"orderdash/pkg/sheets"
)

type writeCall struct {
	Ref       sheets.Ref
	RowNumber int
	Headers   []string
	Row       sheets.RawRow
}

type mockWriter struct {
	Calls []writeCall
	Err   error
	// OnWrite runs while a write is in flight.
	OnWrite func()
}

func (m *mockWriter) WriteRow(_ context.Context, ref sheets.Ref, rowNumber int, headers []string, row sheets.RawRow) error {
	m.Calls = append(m.Calls, writeCall{Ref: ref, RowNumber: rowNumber, Headers: headers, Row: row})
	if hook := m.OnWrite; hook != nil {
		m.OnWrite = nil
		hook()
	}
	return m.Err
}

type mockFetcher struct {
	Table *sheets.Table
	Err   error
	Refs  []sheets.Ref
}

func (m *mockFetcher) FetchRows(_ context.Context, ref sheets.Ref) (*sheets.Table, error) {
	m.Refs = append(m.Refs, ref)
	return m.Table, m.Err
}

type mockObserver struct {
	Writes   []bool
	Rejected []string
	Ingests  []string
	Missing  []string
}

func (m *mockObserver) ObserveWrite(ok bool, _ time.Duration) { m.Writes = append(m.Writes, ok) }
func (m *mockObserver) ObserveRejected(reason string)         { m.Rejected = append(m.Rejected, reason) }
func (m *mockObserver) ObserveIngest(method string, ok bool, _ int, missing []string) {
	if ok {
		m.Ingests = append(m.Ingests, method)
	}
	m.Missing = append(m.Missing, missing...)
}

const sampleCSV = "Product Name,Product Price,Product Quantity,Address 1,First Name,Phone,Created Date\n" +
	"Widget,1234.56,2,\"12 Rue A, Douala\",Jane,699000000,2024-01-01\n" +
	"Lamp,\"9 900 FCFA\",,\"Bastos, Yaoundé\",Paul,677000000,??\n" +
	"Chair,25000,3,\"Quartier X, Ville inconnue\",Ann,655000000,2024-01-02T14:30:00Z\n"

func mustTable(t *testing.T, csv string) *sheets.Table {
	t.Helper()
	table, err := sheets.ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return table
}

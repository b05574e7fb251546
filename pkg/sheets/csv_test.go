package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersCSV = "Product Name,Product Price,Product Quantity,Address 1,First Name,Phone,Created Date\n" +
	"Widget,1234.56,2,\"12 Rue A, Douala\",Jane,699000000,2024-01-01\n" +
	"\"Say \"\"hi\"\"\", 9 900 ,,Akwa,Paul,677000000,\n" +
	",,,,,,\n" +
	"Lamp,5000,1,Bastos,Ann\n" +
	",,,,,,\n"

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("\ufeff" + ordersCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"Product Name", "Product Price", "Product Quantity", "Address 1", "First Name", "Phone", "Created Date"}, table.Headers)
	require.Len(t, table.Rows, 4, "interior blank rows are kept, trailing ones dropped")

	assert.Equal(t, "12 Rue A, Douala", table.Rows[0]["Address 1"])
	assert.Equal(t, `Say "hi"`, table.Rows[1]["Product Name"])
	assert.Equal(t, "9 900", table.Rows[1]["Product Price"])
	assert.Equal(t, "", table.Rows[2]["Product Name"])
	assert.Equal(t, "", table.Rows[3]["Phone"], "short rows are padded")
}

func TestParseCSVBlankAndRepeatedHeaders(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("Product Name,,Product Price,,Phone,Phone\nWidget,note-a,100,note-b,699,677\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Product Name", "#B", "Product Price", "#D", "Phone", "Phone #F"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []interface{}{"Widget", "note-a", "100", "note-b", "699", "677"}, table.Rows[0].Values(table.Headers),
		"every column keeps its own cell")
}

func TestParseCSVEmpty(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestCSVClientFetchRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.csv":
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(ordersCSV))
		case "/login":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html>sign in</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewCSVClient(srv.Client())

	table, err := c.FetchRows(context.Background(), Ref{SheetID: "abc", CSVURL: srv.URL + "/ok.csv"})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 4)

	_, err = c.FetchRows(context.Background(), Ref{SheetID: "abc", CSVURL: srv.URL + "/missing"})
	var se *SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindNotFound, se.Kind)

	_, err = c.FetchRows(context.Background(), Ref{SheetID: "abc", CSVURL: srv.URL + "/login"})
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindPermission, se.Kind)

	assert.ErrorIs(t, c.WriteRow(context.Background(), Ref{}, 2, nil, nil), ErrReadOnly)
}

func TestExportURL(t *testing.T) {
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/export?format=csv", ExportURL("abc", ""))
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/export?format=csv&gid=42", ExportURL("abc", "42"))
}

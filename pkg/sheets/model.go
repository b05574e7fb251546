package sheets

import (
	"context"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Method says how a sheet is reached. Only service-account sheets are writable.
type Method string

const (
	MethodPublicCSV      Method = "public-csv"
	MethodServiceAccount Method = "service-account"
)

// ParseMethod maps a query value to a Method, defaulting to service-account.
func ParseMethod(s string) (Method, bool) {
	switch Method(s) {
	case "":
		return MethodServiceAccount, true
	case MethodPublicCSV, MethodServiceAccount:
		return Method(s), true
	}
	return "", false
}

// RawRow maps a column key to the cell text of one data row. Keys are the
// Table headers, which are unique per column.
type RawRow map[string]string

// Table is a header row plus data rows. Rows[i] is spreadsheet row i+2.
type Table struct {
	Headers []string
	Rows    []RawRow
	// Range is the range actually read, after tab resolution.
	Range string
}

// Ref identifies the sheet a fetch or write targets.
type Ref struct {
	SheetID string
	Range   string
	GID     string
	CSVURL  string
}

// Fetcher supplies the raw rows of a sheet.
type Fetcher interface {
	FetchRows(ctx context.Context, ref Ref) (*Table, error)
}

// RowWriter overwrites one row of a sheet. Values are written in headers order.
type RowWriter interface {
	WriteRow(ctx context.Context, ref Ref, rowNumber int, headers []string, row RawRow) error
}

// TabLister enumerates the tab titles of a spreadsheet.
type TabLister interface {
	ListTabs(ctx context.Context, sheetID string) ([]string, error)
}

// Values returns the row cells ordered by headers, "" for absent cells.
func (r RawRow) Values(headers []string) []interface{} {
	out := make([]interface{}, len(headers))
	for i, h := range headers {
		out[i] = r[h]
	}
	return out
}

// Clone returns a copy of r.
func (r RawRow) Clone() RawRow {
	out := make(RawRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func tableFromValues(values [][]string) *Table {
	t := &Table{}
	if len(values) == 0 {
		return t
	}
	t.Headers = columnKeys(values[0])
	body := trimTrailingBlank(values[1:])
	t.Rows = make([]RawRow, 0, len(body))
	for _, cells := range body {
		row := make(RawRow, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(cells) {
				row[h] = strings.TrimSpace(cells[i])
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// columnKeys trims the header row and makes every entry unique. A blank header
// becomes "#B", a repeated one "Phone #E", after its column letter, so each
// column keeps its own cell.
func columnKeys(header []string) []string {
	keys := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				col = strconv.Itoa(i + 1)
			}
			if h == "" {
				h = "#" + col
			} else {
				h += " #" + col
			}
		}
		seen[h] = true
		keys[i] = h
	}
	return keys
}

// Interior blank rows are kept so row positions still match spreadsheet rows.
func trimTrailingBlank(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isBlank(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

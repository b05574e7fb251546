package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const exportURLFormat = "https://docs.google.com/spreadsheets/d/%s/export?format=csv"

// ExportURL is the public CSV export address of a sheet tab.
func ExportURL(sheetID, gid string) string {
	u := fmt.Sprintf(exportURLFormat, url.PathEscape(sheetID))
	if gid != "" {
		u += "&gid=" + url.QueryEscape(gid)
	}
	return u
}

// CSVClient reads published sheets through their CSV export. It cannot write.
type CSVClient struct {
	httpClient *http.Client
}

// NewCSVClient returns a CSVClient; a nil httpClient gets a 20s timeout client.
func NewCSVClient(httpClient *http.Client) *CSVClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &CSVClient{httpClient: httpClient}
}

// FetchRows downloads and parses the CSV export of ref.
func (c *CSVClient) FetchRows(ctx context.Context, ref Ref) (*Table, error) {
	target := ref.CSVURL
	if target == "" {
		target = ExportURL(ref.SheetID, ref.GID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SourceError{Kind: KindUpstream, Message: "could not download the CSV export", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &SourceError{Kind: KindNotFound, Message: "spreadsheet not found, check the sheet ID"}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &SourceError{Kind: KindPermission, Message: "the sheet is not published, publish it to the web as CSV"}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &SourceError{Kind: KindUpstream, Message: fmt.Sprintf("CSV export answered %s", resp.Status)}
	}
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/html") {
		// Private sheets redirect to a sign-in page instead of failing.
		return nil, &SourceError{Kind: KindPermission, Message: "the sheet is not published, publish it to the web as CSV"}
	}

	t, err := ParseCSV(io.LimitReader(resp.Body, 25<<20))
	if err != nil {
		return nil, &SourceError{Kind: KindUpstream, Message: "unreadable CSV export", Err: err}
	}
	log.WithFields(log.Fields{"sheet": ref.SheetID, "rows": len(t.Rows)}).Info("Read CSV export")
	return t, nil
}

// WriteRow always fails: a CSV export cannot be written back.
func (c *CSVClient) WriteRow(context.Context, Ref, int, []string, RawRow) error {
	return ErrReadOnly
}

// ParseCSV reads comma separated text with a header row. Quoted fields use ""
// for an embedded quote; cells are trimmed and short rows padded.
func ParseCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read all error: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return tableFromValues(records), nil
}

package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Credentials for the service account. CredentialsFile wins over the inline key.
type Credentials struct {
	CredentialsFile string
	ClientEmail     string
	PrivateKey      string
}

// FallbackRecorder is told about every range that had to fall back to the first tab.
type FallbackRecorder interface {
	RangeFallback()
}

// Client reads and writes spreadsheets through the Sheets API with a service account.
type Client struct {
	service    *sheets.Service
	maxRetries int
	maxBackoff time.Duration
	sleep      func(context.Context, time.Duration) error
	fallbacks  FallbackRecorder
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMaxRetries bounds the retries on rate-limit responses.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) { c.maxRetries = n }
}

// WithFallbackRecorder registers a recorder for range fallbacks.
func WithFallbackRecorder(r FallbackRecorder) ClientOption {
	return func(c *Client) { c.fallbacks = r }
}

// NewClient builds a Client from service account credentials.
func NewClient(ctx context.Context, creds Credentials, opts ...ClientOption) (*Client, error) {
	var authOpt option.ClientOption
	switch {
	case creds.CredentialsFile != "":
		authOpt = option.WithCredentialsFile(creds.CredentialsFile)
	case creds.ClientEmail != "" && creds.PrivateKey != "":
		b, err := json.Marshal(map[string]string{
			"type":         "service_account",
			"client_email": creds.ClientEmail,
			"private_key":  creds.PrivateKey,
			"token_uri":    "https://oauth2.googleapis.com/token",
		})
		if err != nil {
			return nil, err
		}
		authOpt = option.WithCredentialsJSON(b)
	default:
		return nil, &SourceError{Kind: KindCredentials, Message: "missing Google service account credentials"}
	}
	return NewClientWithOptions(ctx, []option.ClientOption{authOpt, option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
}

// NewClientWithOptions builds a Client from raw API options, e.g. a test endpoint.
func NewClientWithOptions(ctx context.Context, apiOpts []option.ClientOption, opts ...ClientOption) (*Client, error) {
	srv, err := sheets.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}
	c := &Client{
		service:    srv,
		maxRetries: 5,
		maxBackoff: 60 * time.Second,
		sleep:      sleepContext,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// retry runs call again while the API answers 429.
func (c *Client) retry(ctx context.Context, what string, call func() error) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err = call()
		if err == nil {
			return nil
		}
		var gErr *googleapi.Error
		if !errors.As(err, &gErr) || gErr.Code != http.StatusTooManyRequests || attempt == c.maxRetries {
			return err
		}
		backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
		log.Debugf("Rate limited by Google Sheets API on %s, retrying in %v...", what, backoff)
		if err := c.sleep(ctx, backoff); err != nil {
			return err
		}
	}
	return err
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ListTabs returns the tab titles of a spreadsheet in display order.
func (c *Client) ListTabs(ctx context.Context, sheetID string) ([]string, error) {
	var ss *sheets.Spreadsheet
	err := c.retry(ctx, "get spreadsheet", func() error {
		var err error
		ss, err = c.service.Spreadsheets.Get(sheetID).Fields("sheets.properties.title").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, translateError(err, "")
	}
	tabs := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title != "" {
			tabs = append(tabs, sh.Properties.Title)
		}
	}
	log.WithField("sheet", sheetID).Debugf("Tabs found: %v", tabs)
	return tabs, nil
}

func (c *Client) resolve(ctx context.Context, ref Ref) (ResolvedRange, error) {
	res, err := NormalizeRange(ctx, c, ref.SheetID, ref.Range)
	if err != nil {
		return res, err
	}
	if res.FellBack && c.fallbacks != nil {
		c.fallbacks.RangeFallback()
	}
	return res, nil
}

// FetchRows reads the resolved range; the first row holds the headers.
func (c *Client) FetchRows(ctx context.Context, ref Ref) (*Table, error) {
	res, err := c.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	var resp *sheets.ValueRange
	err = c.retry(ctx, "read values", func() error {
		var err error
		resp, err = c.service.Spreadsheets.Values.Get(ref.SheetID, res.FinalRange).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, translateError(err, res.FinalRange)
	}

	values := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		values[i] = make([]string, len(row))
		for j, cell := range row {
			values[i][j] = fmt.Sprint(cell)
		}
	}
	t := tableFromValues(values)
	t.Range = res.FinalRange
	log.WithFields(log.Fields{
		"sheet": ref.SheetID,
		"range": res.FinalRange,
		"rows":  len(t.Rows),
	}).Info("Read sheet values")
	return t, nil
}

// WriteRow overwrites spreadsheet row rowNumber across the header span.
func (c *Client) WriteRow(ctx context.Context, ref Ref, rowNumber int, headers []string, row RawRow) error {
	if rowNumber < 2 {
		return fmt.Errorf("row %d is not a data row", rowNumber)
	}
	res, err := c.resolve(ctx, ref)
	if err != nil {
		return err
	}
	target, err := rowSpan(res.Tab, rowNumber, len(headers))
	if err != nil {
		return err
	}

	err = c.retry(ctx, "update row", func() error {
		_, err := c.service.Spreadsheets.Values.Update(
			ref.SheetID,
			target,
			&sheets.ValueRange{Values: [][]interface{}{row.Values(headers)}},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		return err
	})
	if err != nil {
		return translateError(err, target)
	}
	log.WithFields(log.Fields{"sheet": ref.SheetID, "range": target}).Info("Updated sheet row")
	return nil
}

// rowSpan is "Tab!A5:G5" for a 7 column row 5.
func rowSpan(tab string, rowNumber, columns int) (string, error) {
	if columns < 1 {
		columns = 1
	}
	last, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return "", err
	}
	return JoinRange(tab, fmt.Sprintf("A%d:%s%d", rowNumber, last, rowNumber)), nil
}

// Unavailable stands in for a Client that could not be built. Every call fails with Err.
type Unavailable struct {
	Err error
}

func (u Unavailable) FetchRows(context.Context, Ref) (*Table, error) { return nil, u.Err }

func (u Unavailable) WriteRow(context.Context, Ref, int, []string, RawRow) error { return u.Err }

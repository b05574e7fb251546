package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"orderdash/pkg/normalize"
	"orderdash/pkg/sheets"
)

// IngestObserver is told about every sheet fetch.
type IngestObserver interface {
	ObserveIngest(method string, ok bool, orders int, missing []string)
}

// LoadRequest names the sheet to fetch and how.
type LoadRequest struct {
	SheetID   string
	SheetName string
	Range     string
	GID       string
	CSVURL    string
	Method    sheets.Method
	Overrides map[Field]string
}

// Loader fetches a sheet, parses it and replaces its cache entry.
type Loader struct {
	Cache        *Cache
	Sources      map[sheets.Method]sheets.Fetcher
	DefaultRange string
	Cities       []string
	Observer     IngestObserver
}

// Load runs a full ingestion and stores the result.
func (l *Loader) Load(ctx context.Context, req LoadRequest) (*Entry, error) {
	if req.SheetID == "" {
		return nil, &InputError{Message: "sheetId is required"}
	}
	if req.Method == "" {
		req.Method = sheets.MethodServiceAccount
	}
	src, ok := l.Sources[req.Method]
	if !ok {
		return nil, &InputError{Message: fmt.Sprintf("unsupported method %q", req.Method)}
	}
	if req.Range == "" && req.Method == sheets.MethodServiceAccount {
		req.Range = l.DefaultRange
	}

	table, err := src.FetchRows(ctx, sheets.Ref{
		SheetID: req.SheetID,
		Range:   req.Range,
		GID:     req.GID,
		CSVURL:  req.CSVURL,
	})
	if err != nil {
		l.observe(req.Method, false, 0, nil)
		return nil, err
	}

	res := ParseRows(table.Headers, table.Rows, ParseOptions{
		Overrides:   req.Overrides,
		DefaultDate: normalize.CurrentDateAsUTCMidnight(),
		Cities:      l.Cities,
	})

	resolved := table.Range
	if resolved == "" {
		resolved = req.Range
	}
	entry := &Entry{
		Orders:  res.Orders,
		RawRows: res.RawRows,
		Meta: SheetMeta{
			SheetID:        req.SheetID,
			SheetName:      req.SheetName,
			SheetRange:     resolved,
			GID:            req.GID,
			CSVURL:         req.CSVURL,
			Method:         req.Method,
			Mapping:        res.Mapping,
			Headers:        res.Headers,
			MissingHeaders: res.Missing,
			Generation:     uuid.NewString(),
		},
	}
	if entry.Meta.MissingHeaders == nil {
		entry.Meta.MissingHeaders = []Field{}
	}
	l.Cache.Set(req.SheetID, entry)

	missing := make([]string, len(res.Missing))
	for i, f := range res.Missing {
		missing[i] = string(f)
	}
	l.observe(req.Method, true, len(res.Orders), missing)
	log.WithFields(log.Fields{
		"sheet":   req.SheetID,
		"method":  req.Method,
		"range":   resolved,
		"orders":  len(res.Orders),
		"missing": missing,
	}).Info("Orders loaded")
	return entry, nil
}

func (l *Loader) observe(method sheets.Method, ok bool, n int, missing []string) {
	if l.Observer != nil {
		l.Observer.ObserveIngest(string(method), ok, n, missing)
	}
}

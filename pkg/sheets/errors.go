package sheets

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrNoTabs is returned when a spreadsheet has no tab to fall back to.
var ErrNoTabs = errors.New("no tab found in the spreadsheet")

// ErrReadOnly is returned by sources that cannot write rows.
var ErrReadOnly = errors.New("sheet source is read-only")

// ErrorKind classifies upstream failures for the HTTP boundary.
type ErrorKind string

const (
	KindPermission  ErrorKind = "permission"
	KindNotFound    ErrorKind = "not_found"
	KindBadRange    ErrorKind = "bad_range"
	KindCredentials ErrorKind = "credentials"
	KindUpstream    ErrorKind = "upstream"
)

// SourceError is an upstream failure with a message fit for the user.
type SourceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }

// translateError turns a Sheets API failure into a SourceError.
func translateError(err error, rng string) error {
	if err == nil {
		return nil
	}
	var se *SourceError
	if errors.As(err, &se) || errors.Is(err, ErrNoTabs) {
		return err
	}

	msg := err.Error()
	code := 0
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		code = gErr.Code
		if gErr.Message != "" {
			msg = gErr.Message
		}
	}

	switch {
	case strings.Contains(msg, "Unable to parse range"):
		return &SourceError{
			Kind:    KindBadRange,
			Message: fmt.Sprintf("invalid range %q, check the tab name (e.g. \"Sheet1!A:Z\")", rng),
			Err:     err,
		}
	case code == http.StatusForbidden || strings.Contains(msg, "does not have permission"):
		return &SourceError{
			Kind:    KindPermission,
			Message: "permission denied, share the spreadsheet with the service account",
			Err:     err,
		}
	case code == http.StatusNotFound || strings.Contains(msg, "Requested entity was not found"):
		return &SourceError{
			Kind:    KindNotFound,
			Message: "spreadsheet not found, check the sheet ID",
			Err:     err,
		}
	case strings.Contains(msg, "Invalid JSON payload") || strings.Contains(msg, "private key"):
		return &SourceError{
			Kind:    KindCredentials,
			Message: "malformed service account key, check GOOGLE_PRIVATE_KEY",
			Err:     err,
		}
	}
	return &SourceError{Kind: KindUpstream, Message: "google sheets error", Err: err}
}

package orders

import "errors"

var (
	// ErrNotCached means the sheet must be fetched before it can be queried or updated.
	ErrNotCached = errors.New("no cached data for this sheet, reload the orders first")
	// ErrReadOnly rejects updates on sheets read through their public CSV export.
	ErrReadOnly = errors.New("this sheet is read-only, configure a service account to enable updates")
	// ErrOrderNotFound means no order has the requested ID.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidRowID means the order ID is not a data row number.
	ErrInvalidRowID = errors.New("invalid row identifier")
	// ErrStaleGeneration means the caller edited data from an older fetch.
	ErrStaleGeneration = errors.New("the sheet was reloaded since this order was read, reload the orders first")
	// ErrWriteFailed wraps a failed write to the sheet.
	ErrWriteFailed = errors.New("could not write the row to the sheet")
)

// InputError is a malformed request value.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// Phase is a step of an order update.
type Phase string

const (
	PhaseValidating Phase = "validating"
	PhaseMutating   Phase = "mutating"
	PhasePersisting Phase = "persisting"
)

// UpdateError reports the phase in which an update failed.
type UpdateError struct {
	Phase Phase
	Err   error
}

func (e *UpdateError) Error() string { return string(e.Phase) + ": " + e.Err.Error() }

func (e *UpdateError) Unwrap() error { return e.Err }

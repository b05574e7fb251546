package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"orderdash/pkg/normalize"
	"orderdash/pkg/sheets"
)

// Changes is a partial order edit keyed by canonical field. Values are the
// decoded JSON values: strings, numbers or nil.
type Changes map[Field]any

// ParseChanges keeps the canonical fields of a decoded JSON body. Derived or
// positional keys such as id, city or subtotal are dropped.
func ParseChanges(body map[string]json.RawMessage) (Changes, error) {
	changes := make(Changes, len(body))
	for k, raw := range body {
		f := Field(k)
		if _, ok := fieldRules[f]; !ok {
			log.WithField("key", k).Debug("Ignoring non-editable key in order update")
			continue
		}
		var v any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, &InputError{Message: fmt.Sprintf("invalid value for %s", k)}
		}
		changes[f] = v
	}
	return changes, nil
}

// fieldRule is how one canonical field is edited. validate coerces the raw
// value and may discard it; apply stores it; derive recomputes dependent fields.
type fieldRule struct {
	validate func(v any) (any, bool)
	apply    func(o *Order, v any)
	derive   func(o *Order, prev Order, cities []string)
}

var fieldRules = map[Field]fieldRule{
	FieldProductName: textRule(func(o *Order, s string) { o.ProductName = s }),
	FieldFirstName:   textRule(func(o *Order, s string) { o.FirstName = s }),
	FieldPhone:       textRule(func(o *Order, s string) { o.Phone = s }),
	FieldProductLink: textRule(func(o *Order, s string) { o.ProductLink = s }),
	FieldAddress1: {
		validate: asText,
		apply:    func(o *Order, v any) { o.Address1 = v.(string) },
		derive: func(o *Order, prev Order, cities []string) {
			if city, ok := normalize.ExtractCity(o.Address1, cities); ok {
				o.City = city
			} else {
				o.City = prev.City
			}
		},
	},
	FieldCreatedDate: {
		validate: func(v any) (any, bool) {
			s, _ := asText(v)
			return normalize.ParseFlexibleDate(s.(string))
		},
		apply: func(o *Order, v any) {
			o.CreatedDate = v.(string)
			o.DerivedDate = false
		},
	},
	FieldProductPrice: {
		validate: asNumber,
		apply:    func(o *Order, v any) { o.ProductPrice = v.(float64) },
		derive:   deriveSubtotal,
	},
	FieldProductQuantity: {
		validate: asNumber,
		apply:    func(o *Order, v any) { o.ProductQuantity = v.(float64) },
		derive:   deriveSubtotal,
	},
}

func textRule(set func(o *Order, s string)) fieldRule {
	return fieldRule{
		validate: asText,
		apply:    func(o *Order, v any) { set(o, v.(string)) },
	}
}

func asText(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return fmt.Sprint(v), true
}

func asNumber(v any) (any, bool) {
	return normalize.NormalizeNumber(v), true
}

func deriveSubtotal(o *Order, _ Order, _ []string) {
	o.Subtotal = normalize.ComputeSubtotal(o.ProductPrice, o.ProductQuantity)
}

// fieldText is the cell text written back for a canonical field.
func fieldText(o Order, f Field) string {
	switch f {
	case FieldProductName:
		return o.ProductName
	case FieldProductPrice:
		return strconv.FormatFloat(o.ProductPrice, 'f', -1, 64)
	case FieldProductQuantity:
		return strconv.FormatFloat(o.ProductQuantity, 'f', -1, 64)
	case FieldAddress1:
		return o.Address1
	case FieldFirstName:
		return o.FirstName
	case FieldPhone:
		return o.Phone
	case FieldProductLink:
		return o.ProductLink
	case FieldCreatedDate:
		return o.CreatedDate
	}
	return ""
}

// Mutate applies changes to prev and re-derives city and subtotal. It returns
// the new order and the fields whose change was kept, in canonical order.
func Mutate(prev Order, changes Changes, cities []string) (Order, []Field) {
	next := prev
	var applied []Field
	for _, f := range Fields {
		raw, ok := changes[f]
		if !ok {
			continue
		}
		rule := fieldRules[f]
		v, ok := rule.validate(raw)
		if !ok {
			log.WithFields(log.Fields{"order": prev.ID, "field": f}).Debug("Discarding unreadable value")
			continue
		}
		rule.apply(&next, v)
		applied = append(applied, f)
	}
	for _, f := range applied {
		if d := fieldRules[f].derive; d != nil {
			d(&next, prev, cities)
		}
	}
	return next, applied
}

// WriteObserver is told about every row write attempt.
type WriteObserver interface {
	ObserveWrite(ok bool, took time.Duration)
	ObserveRejected(reason string)
}

// Reconciler applies order edits to the sheet and then to the cache.
type Reconciler struct {
	cache    *Cache
	writer   sheets.RowWriter
	cities   []string
	observer WriteObserver
}

func NewReconciler(cache *Cache, writer sheets.RowWriter, cities []string, observer WriteObserver) *Reconciler {
	return &Reconciler{cache: cache, writer: writer, cities: cities, observer: observer}
}

// UpdateRequest is one order edit. Generation, when set, must match the
// cached ingestion.
type UpdateRequest struct {
	SheetID    string
	OrderID    string
	Generation string
	Changes    Changes
}

// Update validates the request against the cache, computes the new order,
// writes its row to the sheet and only then commits it to the cache. A failed
// write leaves the cache as it was.
func (r *Reconciler) Update(ctx context.Context, req UpdateRequest) (Order, error) {
	entry, idx, prev, err := r.validate(req)
	if err != nil {
		reason := "invalid"
		if ue, ok := err.(*UpdateError); ok {
			reason = reasonOf(ue.Err)
		}
		r.rejected(reason)
		return Order{}, err
	}

	log.WithFields(log.Fields{"order": req.OrderID, "phase": PhaseMutating}).Debug("Computing order update")
	next, applied := Mutate(prev, req.Changes, r.cities)
	if len(applied) == 0 {
		return prev, nil
	}

	rowNumber := idx + 2
	var raw sheets.RawRow
	if idx < len(entry.RawRows) {
		raw = entry.RawRows[idx]
	}
	patch := patchRawRow(raw, entry.Meta.Mapping, next, applied)

	log.WithFields(log.Fields{"order": req.OrderID, "phase": PhasePersisting}).Debug("Writing order row")
	start := time.Now()
	err = r.writer.WriteRow(ctx, entry.Meta.Ref(), rowNumber, entry.Meta.Headers, patch)
	if r.observer != nil {
		r.observer.ObserveWrite(err == nil, time.Since(start))
	}
	if err != nil {
		log.WithFields(log.Fields{
			"sheet": req.SheetID,
			"order": req.OrderID,
		}).WithError(err).Error("Sheet write failed, cache left unchanged")
		return Order{}, &UpdateError{Phase: PhasePersisting, Err: fmt.Errorf("%w: %w", ErrWriteFailed, err)}
	}

	if !r.cache.UpdatePoint(req.SheetID, entry.Meta.Generation, req.OrderID, next, applied) {
		// A fetch replaced the entry while writing; it is newer than this edit
		// and the sheet already has the change.
		log.WithFields(log.Fields{
			"sheet":      req.SheetID,
			"order":      req.OrderID,
			"generation": entry.Meta.Generation,
		}).Warn("Cache was reloaded during the write, edit not applied to the cache")
	}
	log.WithFields(log.Fields{
		"sheet":  req.SheetID,
		"order":  req.OrderID,
		"fields": applied,
	}).Info("Order updated")
	return next, nil
}

func (r *Reconciler) validate(req UpdateRequest) (*Entry, int, Order, error) {
	fail := func(err error) (*Entry, int, Order, error) {
		return nil, 0, Order{}, &UpdateError{Phase: PhaseValidating, Err: err}
	}
	entry, ok := r.cache.Get(req.SheetID)
	if !ok {
		return fail(ErrNotCached)
	}
	if entry.Meta.Method == sheets.MethodPublicCSV {
		return fail(ErrReadOnly)
	}
	if _, ok := RowIndex(req.OrderID); !ok {
		return fail(ErrInvalidRowID)
	}
	if req.Generation != "" && req.Generation != entry.Meta.Generation {
		return fail(ErrStaleGeneration)
	}
	idx, prev, ok := entry.Find(req.OrderID)
	if !ok {
		return fail(ErrOrderNotFound)
	}
	return entry, idx, prev, nil
}

func (r *Reconciler) rejected(reason string) {
	if r.observer != nil {
		r.observer.ObserveRejected(reason)
	}
}

func reasonOf(err error) string {
	switch err {
	case ErrNotCached:
		return "not_cached"
	case ErrReadOnly:
		return "read_only"
	case ErrInvalidRowID:
		return "invalid_row"
	case ErrStaleGeneration:
		return "stale"
	case ErrOrderNotFound:
		return "not_found"
	}
	return "invalid"
}

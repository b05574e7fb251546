package orders

import (
	"strconv"
	"strings"

	"orderdash/pkg/normalize"
	"orderdash/pkg/sheets"
)

// ParseOptions tune ParseRows.
type ParseOptions struct {
	Overrides map[Field]string
	// DefaultDate is used, and DerivedDate set, when a row has no readable date.
	DefaultDate string
	// Cities are the known cities for city extraction; nil means the defaults.
	Cities []string
}

// ParseResult is the outcome of ParseRows. RawRows is index aligned with Orders.
type ParseResult struct {
	Orders  []Order
	Mapping HeaderMapping
	Missing []Field
	Headers []string
	RawRows []sheets.RawRow
}

// ParseRows turns raw sheet rows into orders, in source order.
func ParseRows(headers []string, rows []sheets.RawRow, opts ParseOptions) *ParseResult {
	mapping, missing := DetectHeaders(headers, opts.Overrides)
	res := &ParseResult{
		Orders:  make([]Order, len(rows)),
		Mapping: mapping,
		Missing: missing,
		Headers: headers,
		RawRows: rows,
	}
	for i, row := range rows {
		res.Orders[i] = parseRow(strconv.Itoa(i+2), row, mapping, opts)
	}
	return res
}

func parseRow(id string, row sheets.RawRow, mapping HeaderMapping, opts ParseOptions) Order {
	cell := func(f Field) (string, bool) {
		h, ok := mapping[f]
		if !ok {
			return "", false
		}
		v, ok := row[h]
		return v, ok
	}

	o := Order{ID: id}
	o.ProductName, _ = cell(FieldProductName)
	price, _ := cell(FieldProductPrice)
	o.ProductPrice = normalize.NormalizeNumber(price)
	qty, _ := cell(FieldProductQuantity)
	if strings.TrimSpace(qty) == "" {
		qty = "1"
	}
	o.ProductQuantity = normalize.NormalizeNumber(qty)
	o.Address1, _ = cell(FieldAddress1)
	o.FirstName, _ = cell(FieldFirstName)
	o.Phone, _ = cell(FieldPhone)
	o.ProductLink, _ = cell(FieldProductLink)

	if raw, ok := cell(FieldCreatedDate); ok {
		o.CreatedDate, _ = normalize.ParseFlexibleDate(raw)
	}
	if o.CreatedDate == "" && opts.DefaultDate != "" {
		o.CreatedDate = opts.DefaultDate
		o.DerivedDate = true
	}

	o.City, _ = normalize.ExtractCity(o.Address1, opts.Cities)
	o.Subtotal = normalize.ComputeSubtotal(o.ProductPrice, o.ProductQuantity)
	return o
}

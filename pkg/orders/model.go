package orders

import (
	"strconv"

	"orderdash/pkg/sheets"
)

// Field is a canonical order column.
type Field string

const (
	FieldProductName     Field = "productName"
	FieldProductPrice    Field = "productPrice"
	FieldProductQuantity Field = "productQuantity"
	FieldAddress1        Field = "address1"
	FieldFirstName       Field = "firstName"
	FieldPhone           Field = "phone"
	FieldProductLink     Field = "productLink"
	FieldCreatedDate     Field = "createdDate"
)

// Fields lists the canonical columns in detection order.
var Fields = []Field{
	FieldProductName,
	FieldProductPrice,
	FieldProductQuantity,
	FieldAddress1,
	FieldFirstName,
	FieldPhone,
	FieldProductLink,
	FieldCreatedDate,
}

// Order is one normalized spreadsheet row. ID is the spreadsheet row number
// and is only meaningful within the ingestion that produced it.
type Order struct {
	ID              string  `json:"id"`
	ProductName     string  `json:"productName"`
	ProductPrice    float64 `json:"productPrice"`
	ProductQuantity float64 `json:"productQuantity"`
	Address1        string  `json:"address1"`
	City            string  `json:"city,omitempty"`
	FirstName       string  `json:"firstName"`
	Phone           string  `json:"phone"`
	ProductLink     string  `json:"productLink,omitempty"`
	CreatedDate     string  `json:"createdDate,omitempty"`
	Subtotal        float64 `json:"subtotal"`
	DerivedDate     bool    `json:"derivedDate"`
}

// HeaderMapping maps a canonical field to the raw sheet header holding it.
type HeaderMapping map[Field]string

// SheetMeta describes one ingestion.
type SheetMeta struct {
	SheetID        string        `json:"sheetId"`
	SheetName      string        `json:"sheetName,omitempty"`
	SheetRange     string        `json:"sheetRange,omitempty"`
	GID            string        `json:"gid,omitempty"`
	CSVURL         string        `json:"csvUrl,omitempty"`
	Method         sheets.Method `json:"method"`
	Mapping        HeaderMapping `json:"mapping"`
	Headers        []string      `json:"headers"`
	MissingHeaders []Field       `json:"missingHeaders"`
	Generation     string        `json:"generation"`
}

// Ref is the sheet address used for write-back.
func (m SheetMeta) Ref() sheets.Ref {
	return sheets.Ref{SheetID: m.SheetID, Range: m.SheetRange, GID: m.GID, CSVURL: m.CSVURL}
}

// Entry is the cached result of one ingestion. RawRows[i] is the source of
// Orders[i]. An Entry is never modified once stored in a Cache.
type Entry struct {
	Orders  []Order
	RawRows []sheets.RawRow
	Meta    SheetMeta
}

// RowIndex converts an order ID to its position in Orders and RawRows.
func RowIndex(orderID string) (int, bool) {
	n, err := strconv.Atoi(orderID)
	if err != nil || n < 2 {
		return 0, false
	}
	return n - 2, true
}

// Find returns the position and value of the order with the given ID.
func (e *Entry) Find(orderID string) (int, Order, bool) {
	idx, ok := RowIndex(orderID)
	if !ok || idx >= len(e.Orders) || e.Orders[idx].ID != orderID {
		return 0, Order{}, false
	}
	return idx, e.Orders[idx], true
}

package orders

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"ID",
	"Product Name",
	"Product Price",
	"Product Quantity",
	"Subtotal",
	"First Name",
	"Phone",
	"Address 1",
	"City",
	"Created Date",
	"Product Link",
}

func exportRow(o Order) []string {
	return []string{
		o.ID,
		o.ProductName,
		strconv.FormatFloat(o.ProductPrice, 'f', -1, 64),
		strconv.FormatFloat(o.ProductQuantity, 'f', -1, 64),
		strconv.FormatFloat(o.Subtotal, 'f', -1, 64),
		o.FirstName,
		o.Phone,
		o.Address1,
		o.City,
		o.CreatedDate,
		o.ProductLink,
	}
}

// WriteCSV writes orders as CSV with a header row.
func WriteCSV(w io.Writer, orders []Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write(exportRow(o)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const exportSheet = "Orders"

// WriteXLSX writes orders as a single-sheet workbook. Amounts are stored as numbers.
func WriteXLSX(w io.Writer, orders []Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
	}
	for r, o := range orders {
		values := []interface{}{
			o.ID,
			o.ProductName,
			o.ProductPrice,
			o.ProductQuantity,
			o.Subtotal,
			o.FirstName,
			o.Phone,
			o.Address1,
			o.City,
			o.CreatedDate,
			o.ProductLink,
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

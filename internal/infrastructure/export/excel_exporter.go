// Package export renders invoices as xlsx workbooks for the finance team.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	appbilling "github.com/krlogis/wms-backoffice/internal/application/billing"
)

// ExcelExporter implements billing.InvoiceExcelExporter with excelize.
type ExcelExporter struct{}

// NewExcelExporter builds the exporter.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// ExportInvoice writes the invoice header and its lines to one sheet.
func (e *ExcelExporter) ExportInvoice(detail *appbilling.InvoiceDetail) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Invoice"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	inv := detail.Invoice
	clientName := ""
	if detail.Client != nil {
		clientName = detail.Client.Name
	}

	// Header block
	f.SetCellValue(sheet, "A1", "Invoice No")
	f.SetCellValue(sheet, "B1", inv.InvoiceNo)
	f.SetCellValue(sheet, "A2", "Client")
	f.SetCellValue(sheet, "B2", clientName)
	f.SetCellValue(sheet, "A3", "Billing Month")
	f.SetCellValue(sheet, "B3", inv.InvoiceMonth)
	f.SetCellValue(sheet, "A4", "Issue Date")
	f.SetCellValue(sheet, "B4", inv.IssueDate.Format("2006-01-02"))
	f.SetCellValue(sheet, "A5", "FX Rate THB->KRW")
	f.SetCellValue(sheet, "B5", inv.FxRateTHBKRW.String())
	f.SetCellValue(sheet, "A6", "Status")
	f.SetCellValue(sheet, "B6", inv.Status)

	// Item table
	f.SetCellValue(sheet, "A8", "Service Code")
	f.SetCellValue(sheet, "B8", "Description")
	f.SetCellValue(sheet, "C8", "Qty")
	f.SetCellValue(sheet, "D8", "Unit Price (KRW)")
	f.SetCellValue(sheet, "E8", "Amount (KRW)")

	rowNo := 9
	for _, item := range detail.Items {
		f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), item.ServiceCode)
		f.SetCellValue(sheet, "B"+fmt.Sprint(rowNo), item.Description)
		f.SetCellValue(sheet, "C"+fmt.Sprint(rowNo), item.Qty.String())
		f.SetCellValue(sheet, "D"+fmt.Sprint(rowNo), item.UnitPriceKRW.String())
		f.SetCellValue(sheet, "E"+fmt.Sprint(rowNo), item.AmountKRW.String())
		rowNo++
	}

	// Totals
	rowNo++
	f.SetCellValue(sheet, "D"+fmt.Sprint(rowNo), "Subtotal")
	f.SetCellValue(sheet, "E"+fmt.Sprint(rowNo), inv.SubtotalKRW.String())
	rowNo++
	f.SetCellValue(sheet, "D"+fmt.Sprint(rowNo), "VAT 7%")
	f.SetCellValue(sheet, "E"+fmt.Sprint(rowNo), inv.VatKRW.String())
	rowNo++
	f.SetCellValue(sheet, "D"+fmt.Sprint(rowNo), "Total")
	f.SetCellValue(sheet, "E"+fmt.Sprint(rowNo), inv.TotalKRW.String())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

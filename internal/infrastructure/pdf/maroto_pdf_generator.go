// Package pdf renders the monthly KRW invoice as an A4 document.
//
// Page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: client name + code  │  invoice no + issue date     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILLING MONTH + frozen THB→KRW rate                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Qty | Service | Unit price | Amount (KRW)           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: subtotal / VAT 7% / TOTAL KRW                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/krlogis/wms-backoffice/internal/application/billing"
	"github.com/krlogis/wms-backoffice/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 18, Green: 58, Blue: 112}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// krwPrinter formats KRW amounts with thousands separators (1,234,500).
var krwPrinter = message.NewPrinter(language.Korean)

// MarotoPDFGenerator implements billing.InvoicePDFGenerator with Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF renders the invoice and returns the PDF bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, detail *appbilling.InvoiceDetail) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Monthly Invoice "+detail.Invoice.InvoiceNo, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(detail.Invoice, detail.Client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billingInfoRow(detail.Invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(detail.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(detail.Invoice))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: client (left) and invoice number + issue date (right).
func headerRow(inv *entity.Invoice, client *entity.Client) core.Row {
	name := "—"
	code := ""
	if client != nil {
		name = client.Name
		code = client.Code
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Client code: "+code, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("MONTHLY WAREHOUSE INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.InvoiceNo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Issue date: "+inv.IssueDate.Format("2006-01-02"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// billingInfoRow: billing month and the frozen conversion rate.
func billingInfoRow(inv *entity.Invoice) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("Billing month: "+inv.InvoiceMonth, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 1,
			}),
			text.New("THB→KRW rate applied: "+inv.FxRateTHBKRW.String(), props.Text{
				Size: 8, Top: 6, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Service", 6, align.Left),
		h("Unit price (KRW)", 2, align.Right),
		h("Amount (KRW)", 3, align.Right),
	)
}

func tableItemRows(items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				item.Qty.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				item.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatKRW(item.UnitPriceKRW.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				formatKRW(item.AmountKRW.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: right-aligned totals block.
func totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Subtotal:"),
			label("VAT 7%:"),
			grandLabel("TOTAL KRW:"),
		),
		col.New(3).Add(
			value(formatKRW(inv.SubtotalKRW.StringFixed(0))),
			value(formatKRW(inv.VatKRW.StringFixed(0))),
			grandValue(formatKRW(inv.TotalKRW.StringFixed(0))),
		),
		col.New(3),
	)
}

// formatKRW adds thousands separators to a plain numeric string.
func formatKRW(s string) string {
	var n int64
	if _, err := fmt.Sscan(s, &n); err != nil {
		return s
	}
	return krwPrinter.Sprintf("%d", n)
}

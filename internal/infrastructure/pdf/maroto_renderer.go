// Package pdf renders a local graphical representation of the aggregated tax
// document with Maroto. It substitutes for the remote Gen-PDF API in dev
// environments; the layout is a plain A4 summary, not the official template.
package pdf

import (
	"context"
	"encoding/base64"
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

	"github.com/jhoicas/etax-pipeline/internal/domain"
	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
	"github.com/jhoicas/etax-pipeline/internal/domain/etax"
	pketax "github.com/jhoicas/etax-pipeline/pkg/etax"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoRenderer renders the invoice locally and returns base64, matching
// the Gen-PDF API's output shape.
type MarotoRenderer struct{}

// NewMarotoRenderer builds the renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// RenderInvoice produces the base64-encoded PDF for one aggregated invoice.
func (g *MarotoRenderer) RenderInvoice(_ context.Context, inv *entity.Invoice) (string, error) {
	hdr := inv.Header()
	if hdr == nil {
		return "", fmt.Errorf("%w: missing header", domain.ErrEmptyInvoice)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(hdr))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sellerRow(hdr))
	m.AddRows(buyerRow(hdr))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(inv.Dtl) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(hdr))

	doc, err := m.Generate()
	if err != nil {
		return "", fmt.Errorf("pdf: generate document: %w", err)
	}
	return base64.StdEncoding.EncodeToString(doc.GetBytes()), nil
}

// headerRow: document type name + number (left), issue date (right).
func headerRow(hdr *entity.InvoiceHeader) core.Row {
	dt := pketax.DocTypeFor(hdr.PrintFormTmpl)

	return row.New(18).Add(
		col.New(7).Add(
			text.New(dt.NameTH, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("เลขที่ "+hdr.DocNumber, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("วันที่ "+etax.FormatDisplayDate(hdr.DocDate), props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func sellerRow(hdr *entity.InvoiceHeader) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ผู้ขาย", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(hdr.ComNameLocal, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("เลขประจำตัวผู้เสียภาษี %s   |   %s",
				hdr.ComTaxID, hdr.ComAddress1,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func buyerRow(hdr *entity.InvoiceHeader) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ผู้ซื้อ", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(hdr.BillName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("เลขประจำตัวผู้เสียภาษี %s   |   %s   |   %s",
				hdr.TaxID, hdr.CVShortName, hdr.BillAddress1,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
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
		h("ลำดับ", 1, align.Center),
		h("รายการ", 6, align.Left),
		h("ปริมาณ", 2, align.Right),
		h("จำนวนเงิน", 3, align.Right),
	)
}

func tableDetailRows(details []entity.InvoiceLine) []core.Row {
	result := make([]core.Row, 0, len(details))
	for _, d := range details {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", d.ExtNumber),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				d.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				d.CostPriceQty.StringFixed(3),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				d.TotalNetProduct.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(hdr *entity.InvoiceHeader) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("มูลค่าสินค้า:"),
			label("ภาษีมูลค่าเพิ่ม 7%:"),
			grand("จำนวนเงินรวมทั้งสิ้น:"),
		),
		col.New(4).Add(
			value(hdr.TotalNett.StringFixed(2)),
			value(hdr.TaxAmt.StringFixed(2)),
			grand(hdr.NettAmt.StringFixed(2)),
		),
	)
}

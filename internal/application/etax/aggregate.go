package etax

import (
	"strings"

	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
	dometax "github.com/jhoicas/etax-pipeline/internal/domain/etax"
	pketax "github.com/jhoicas/etax-pipeline/pkg/etax"
)

// AggregateInvoices folds each reconciled group into one ET_INVOICE document:
// a single header carrying the accumulated totals plus one detail line per
// row. Groups without a document number are dropped.
//
// The header's monetary semantics are the rendering API's contract:
// TOTAL_NETT carries the pre-tax basis while NETT_AMT and GROSS_AMT both
// carry the tax-inclusive grand total.
func AggregateInvoices(groups []InvoiceGroup) []*entity.Invoice {
	invoices := make([]*entity.Invoice, 0, len(groups))
	for _, g := range groups {
		if strings.TrimSpace(g.Key) == "" || len(g.Rows) == 0 {
			continue
		}
		invoices = append(invoices, aggregateGroup(g))
	}
	return invoices
}

func aggregateGroup(g InvoiceGroup) *entity.Invoice {
	docNumber := strings.TrimSpace(g.Key)
	hdr := buildHeader(docNumber, g.Rows[0])

	inv := &entity.Invoice{Hdr: []entity.InvoiceHeader{hdr}}
	for i, row := range g.Rows {
		inv.Hdr[0].NettAmt.Decimal = inv.Hdr[0].NettAmt.Add(row.Gross).Round(2)
		inv.Hdr[0].TaxAmt.Decimal = inv.Hdr[0].TaxAmt.Add(row.VAT).Round(2)
		inv.Hdr[0].TotalNett.Decimal = inv.Hdr[0].TotalNett.Add(row.Basis).Round(2)
		inv.Hdr[0].GrossAmt.Decimal = inv.Hdr[0].GrossAmt.Add(row.Gross).Round(2)

		inv.Dtl = append(inv.Dtl, entity.InvoiceLine{
			Company:         truncate(row.CompanyCode, 6),
			DocNumber:       truncate(docNumber, 20),
			ExtNumber:       i + 1,
			ProductName:     itemDescription(row.TransactionRow),
			CostPriceQty:    entity.NewAmount(dometax.ParseAmount(row.Quantity).Round(2)),
			GrossProduct:    entity.NewAmount(dometax.ParseAmount(row.UnitPrice).Round(2)),
			TotalNetProduct: entity.NewAmount(row.Gross.Round(2)),
		})
	}
	return inv
}

// buildHeader maps the first row of a group onto the header fields, applying
// the wire format's length limits and paddings.
func buildHeader(docNumber string, first entity.EnrichedRow) entity.InvoiceHeader {
	name := first.CustomerName
	if first.MatchStatus == entity.MatchCustomerMissing || first.MatchStatus == entity.MatchBothMissing {
		name = missingCustomerName
	}

	hdr := entity.InvoiceHeader{
		Company:       truncate(first.CompanyCode, 6),
		OperationCode: first.CompanyBranchText,
		ComTaxID:      dometax.PadTaxID(first.CompanyTaxID),
		DocNumber:     truncate(docNumber, 20),
		DocDate:       dometax.FormatCompactDate(first.InvoiceDate),
		CVCode:        truncate(first.LookupCustomerCode, 20),
		BillName:      name,
		CVShortName:   first.BranchName,
		TaxID:         dometax.PadTaxID(first.CustomerTaxID),
		CVSeq:         cvSeq(first.BranchCode),
		BillAddress1:  first.CustomerAddress,
		ComNameLocal:  first.CompanyName,
		ComAddress1:   first.CompanyAddress,

		RemarkText1: truncate(docNumber, 1024),

		RefDocNumber: truncate(strings.TrimSpace(first.RefInvoiceNo), 20),
		RefDocDate:   truncate(dometax.FormatCompactDate(first.RefInvoiceDate), 10),
		TrnName:      truncate(strings.TrimSpace(first.Reason), 250),
		RefDocAmt:    entity.NewAmount(dometax.ParseAmount(first.RefAmount).Round(2)),
		RightAmt:     entity.NewAmount(dometax.ParseAmount(first.CorrectAmount).Round(2)),

		TaxRegisterType: "01",
		ETaxParticipate: "Y",
	}

	tmpl, ok := templateFor(docNumber)
	if !ok {
		// Unknown classifier codes keep the raw document number so the
		// mis-series is visible downstream; the marker lets the transformer
		// and handlers treat it explicitly instead of silently guessing.
		tmpl = docNumber
		hdr.Unclassified = true
	}
	hdr.PrintFormTmpl = tmpl

	return hdr
}

// templateFor classifies a document number by its series code, characters 5
// and 6: "61" is a tax invoice, "64" a credit note, "66" a debit note.
func templateFor(docNumber string) (string, bool) {
	r := []rune(docNumber)
	if len(r) < 6 {
		return "", false
	}
	switch string(r[4:6]) {
	case "61":
		return pketax.TemplateTaxInvoice, true
	case "64":
		return pketax.TemplateCreditNote, true
	case "66":
		return pketax.TemplateDebitNote, true
	}
	return "", false
}

// cvSeq normalizes the buyer branch code to the 5-digit wire form. A float
// artifact suffix is dropped first.
func cvSeq(branchCode string) string {
	s := strings.TrimSpace(branchCode)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return dometax.ZeroPad(s, pketax.BranchCodeLength)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Package etax is the application core of the pipeline: it turns a raw
// accounting export plus the reference masters into the processed report and
// the aggregated per-invoice documents, and orchestrates rendering and
// gateway submission.
package etax

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/etax-pipeline/internal/application/dto"
	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
	dometax "github.com/jhoicas/etax-pipeline/internal/domain/etax"
	"github.com/jhoicas/etax-pipeline/internal/infrastructure/tabular"
	"github.com/jhoicas/etax-pipeline/pkg/logger"
)

// missingCustomerName marks rows whose customer lookup missed; the
// accounting team filters the report on this literal.
const missingCustomerName = "Missing Master Data"

// InvoiceGroup is one invoice's rows in input order, keyed by the grouping
// document number.
type InvoiceGroup struct {
	Key  string
	Rows []entity.EnrichedRow
}

// ProcessResult carries everything one processing run produces.
type ProcessResult struct {
	Rows     []dto.ProcessedRow
	Groups   []InvoiceGroup
	Invoices []*entity.Invoice
	Statuses map[string]int
}

// ProcessUseCase runs the enrichment and reconciliation stages over a loaded
// transaction table.
type ProcessUseCase struct {
	log *logger.Logger
}

// NewProcessUseCase builds the use case.
func NewProcessUseCase(log *logger.Logger) *ProcessUseCase {
	return &ProcessUseCase{log: log}
}

// transaction export column contracts. The invoice number and gross amount
// are mandatory; every other column degrades to empty cells when absent.
type transactionColumns struct {
	invoice  int
	invoice2 int
	customer int
	company  int
	product  int
	license  int
	quantity int
	price    int
	amount   int
	date     int

	refNo    int
	refDate  int
	reason   int
	refAmt   int
	rightAmt int
}

func resolveTransactionColumns(t *tabular.Table) (transactionColumns, error) {
	cols := transactionColumns{
		invoice:  t.ResolveColumn("เลขที่ใบแจ้งหนี้"),
		invoice2: t.ResolveColumn("เลขที่ใบแจ้งหนี้2"),
		customer: t.ResolveColumn("รหัสลูกค้า"),
		company:  t.ResolveColumn("รหัสบริษัท"),
		product:  t.ResolveColumn("ชื่อสินค้า"),
		license:  t.ResolveColumn("ทะเบียนรถ"),
		quantity: t.ResolveColumn("ปริมาณ"),
		price:    t.ResolveColumn("ราคาต่อหน่วย", "ราคา/หน่วย"),
		amount:   t.ResolveColumn("จำนวนเงิน"),
		date:     t.ResolveColumn("วันที่ใบแจ้งหนี้"),
		refNo:    t.ResolveColumn("อ้างอิงใบกำกับภาษีเลขที่"),
		refDate:  t.ResolveColumn("วันที่เอกสารอ้างอิง"),
		reason:   t.ResolveColumn("สาเหตุ"),
		refAmt:   t.ResolveColumn("มูลค่าตามใบกำกับภาษีเดิม"),
		rightAmt: t.ResolveColumn("มูลค่าที่ถูกต้อง"),
	}
	if cols.invoice < 0 {
		return cols, tabular.MissingColumnError("เลขที่ใบแจ้งหนี้")
	}
	if cols.amount < 0 {
		return cols, tabular.MissingColumnError("จำนวนเงิน")
	}
	return cols, nil
}

// Process enriches, groups, and reconciles the transaction table against the
// reference masters and builds both the processed report and the aggregated
// invoices.
func (uc *ProcessUseCase) Process(t *tabular.Table, refs *tabular.ReferenceSet) (*ProcessResult, error) {
	cols, err := resolveTransactionColumns(t)
	if err != nil {
		return nil, err
	}

	enriched := make([]entity.EnrichedRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := entity.TransactionRow{
			InvoiceNo:      dometax.CleanCode(t.Value(r, cols.invoice)),
			InvoiceNo2:     dometax.CleanCode(t.Value(r, cols.invoice2)),
			CustomerCode:   dometax.CleanCode(t.Value(r, cols.customer)),
			CompanyCode:    dometax.CleanCode(t.Value(r, cols.company)),
			ProductName:    t.Value(r, cols.product),
			LicensePlate:   t.Value(r, cols.license),
			Quantity:       t.Value(r, cols.quantity),
			UnitPrice:      t.Value(r, cols.price),
			GrossAmount:    t.Value(r, cols.amount),
			InvoiceDate:    t.Value(r, cols.date),
			RefInvoiceNo:   t.Value(r, cols.refNo),
			RefInvoiceDate: t.Value(r, cols.refDate),
			Reason:         t.Value(r, cols.reason),
			RefAmount:      t.Value(r, cols.refAmt),
			CorrectAmount:  t.Value(r, cols.rightAmt),
		}
		enriched = append(enriched, uc.enrich(row, refs))
	}

	// Group by เลขที่ใบแจ้งหนี้2 when that column exists, otherwise by
	// เลขที่ใบแจ้งหนี้. Group order is first appearance; row order within a
	// group is input order, which also decides the drift line.
	useInvoice2 := cols.invoice2 >= 0
	groupIdx := make(map[string]int)
	var groups []InvoiceGroup
	type rowRef struct{ gi, ri int }
	order := make([]rowRef, 0, len(enriched))
	for _, row := range enriched {
		key := row.InvoiceNo
		if useInvoice2 {
			key = row.InvoiceNo2
		}
		gi, ok := groupIdx[key]
		if !ok {
			gi = len(groups)
			groupIdx[key] = gi
			groups = append(groups, InvoiceGroup{Key: key})
		}
		row.Sheet = len(groups[gi].Rows) + 1
		order = append(order, rowRef{gi: gi, ri: len(groups[gi].Rows)})
		groups[gi].Rows = append(groups[gi].Rows, row)
	}

	for gi := range groups {
		reconcileGroup(&groups[gi])
	}

	result := &ProcessResult{
		Groups:   groups,
		Statuses: make(map[string]int),
	}
	// The report keeps input order even when invoices interleave.
	for _, ref := range order {
		row := groups[ref.gi].Rows[ref.ri]
		result.Rows = append(result.Rows, toProcessedRow(row))
		result.Statuses[row.MatchStatus]++
	}

	result.Invoices = AggregateInvoices(groups)

	uc.log.Info().
		Int("rows", len(result.Rows)).
		Int("invoices", len(result.Invoices)).
		Int("unmatched", len(result.Rows)-result.Statuses[entity.MatchFull]).
		Msg("transaction batch processed")

	return result, nil
}

// enrich resolves the reference masters for one row and records how the
// lookups went.
func (uc *ProcessUseCase) enrich(row entity.TransactionRow, refs *tabular.ReferenceSet) entity.EnrichedRow {
	e := entity.EnrichedRow{TransactionRow: row}

	e.LookupCustomerCode = refs.ResolveCustomerCode(row.CustomerCode)
	cust, custOK := refs.Customer(e.LookupCustomerCode)
	comp, compOK := refs.Company(row.CompanyCode)

	if custOK {
		e.CustomerName = cust.Name
		e.CustomerTaxID = cust.TaxID
		e.CustomerAddress = cust.FullAddress()
		e.BranchCode = cust.BranchCode
		e.BranchName = cust.BranchName
	}
	if compOK {
		e.CompanyName = comp.Name
		e.CompanyAddress = comp.Address
		e.CompanyATAddress = comp.ATAddress
		e.CompanyTaxID = comp.TaxID
		e.CompanyBranchText = comp.BranchText
	}

	switch {
	case custOK && compOK:
		e.MatchStatus = entity.MatchFull
	case !custOK && !compOK:
		e.MatchStatus = entity.MatchBothMissing
	case !custOK:
		e.MatchStatus = entity.MatchCustomerMissing
	default:
		e.MatchStatus = entity.MatchSellerMissing
	}
	return e
}

// reconcileGroup splits each row's gross into basis and VAT with the group's
// rounding drift on the first row.
func reconcileGroup(g *InvoiceGroup) {
	amounts := make([]decimal.Decimal, len(g.Rows))
	for i, row := range g.Rows {
		amounts[i] = dometax.ParseAmount(row.GrossAmount)
	}
	lines := dometax.ReconcileInvoice(amounts)
	for i := range g.Rows {
		g.Rows[i].Gross = lines[i].Gross
		g.Rows[i].VAT = lines[i].VAT
		g.Rows[i].Basis = lines[i].Basis
	}
}

func toProcessedRow(row entity.EnrichedRow) dto.ProcessedRow {
	name := row.CustomerName
	if row.MatchStatus == entity.MatchCustomerMissing || row.MatchStatus == entity.MatchBothMissing {
		name = missingCustomerName
	}
	return dto.ProcessedRow{
		CustomerCode:    row.LookupCustomerCode,
		CustomerName:    name,
		CustomerAddress: row.CustomerAddress,
		CustomerTaxID:   row.CustomerTaxID,
		BranchCode:      row.BranchCode,
		BranchName:      row.BranchName,
		CompanyCode:     row.CompanyCode,
		CompanyName:     row.CompanyName,
		CompanyAddress:  row.CompanyAddress,
		CompanyATAddr:   row.CompanyATAddress,
		CompanyTaxID:    row.CompanyTaxID,
		CompanyBranch:   row.CompanyBranchText,
		InvoiceDate:     dometax.FormatDisplayDate(row.InvoiceDate),
		InvoiceNo2:      row.InvoiceNo2,
		Sheet:           strconv.Itoa(row.Sheet),
		ItemDescription: itemDescription(row.TransactionRow),
		Quantity:        row.Quantity,
		UnitPrice:       dometax.FormatDisplayAmount(row.UnitPrice, 3),
		Amount:          dometax.FormatAmount(row.Basis, 2),
		VAT:             dometax.FormatAmount(row.VAT, 2),
		NetAmount:       dometax.FormatAmount(row.Gross, 2),
		MatchStatus:     row.MatchStatus,
	}
}

// itemDescription concatenates the invoice number, product, and license plate
// into the report's combined item field.
func itemDescription(row entity.TransactionRow) string {
	return row.InvoiceNo + "_" + row.ProductName + "_" + row.LicensePlate
}

package etax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/etax-pipeline/internal/domain"
	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
	"github.com/jhoicas/etax-pipeline/internal/infrastructure/tabular"
	"github.com/jhoicas/etax-pipeline/pkg/logger"
)

func testRefs(t *testing.T) *tabular.ReferenceSet {
	t.Helper()
	vendor := &tabular.Table{
		Headers: []string{"Vendor", "AT : Customer Code"},
		Rows:    [][]string{{"V001", "C100"}},
	}
	customer := &tabular.Table{
		Headers: []string{"Customer Code", "Name", "เลขประจำตัวผู้เสียภาษี", "Address", "Address 1", "Address 2", "สาขาที่", "ชื่อสาขา"},
		Rows: [][]string{
			{"C100", "ลูกค้าหนึ่ง จำกัด", "1234567890123", "", "99 หมู่ 1", "ต.บางรัก", "0", "สำนักงานใหญ่"},
		},
	}
	atAddress := &tabular.Table{
		Headers: []string{"รหัสบริษัท", "ชื่อบริษัท", "ที่อยู่", "ที่อยู่AT", "เลขประจำตัวผู้เสียภาษ๊", "สาขาที่"},
		Rows: [][]string{
			{"1000", "บริษัทผู้ขาย จำกัด", "1 ถ.สุขุมวิท", "1 ถ.สุขุมวิท กทม.", "9876543210987", "สาขาที่ 00003"},
		},
	}
	refs, err := tabular.BuildReferenceSet(vendor, customer, atAddress)
	require.NoError(t, err)
	return refs
}

func testTransactions() *tabular.Table {
	// Invoice B interleaves between A's rows so input-order preservation is
	// exercised. "ราคา/หน่วย" is the alternate unit-price spelling.
	return &tabular.Table{
		Headers: []string{
			"เลขที่ใบแจ้งหนี้", "เลขที่ใบแจ้งหนี้2", "รหัสลูกค้า", "รหัสบริษัท",
			"ชื่อสินค้า", "ทะเบียนรถ", "ปริมาณ", "ราคา/หน่วย", "จำนวนเงิน", "วันที่ใบแจ้งหนี้",
			"อ้างอิงใบกำกับภาษีเลขที่", "วันที่เอกสารอ้างอิง", "สาเหตุ", "มูลค่าตามใบกำกับภาษีเดิม", "มูลค่าที่ถูกต้อง",
		},
		Rows: [][]string{
			{"TX001", "AB12610001", "V001", "1000", "ดีเซล", "1กข1234", "10.5", "9.53", "100.05", "15/01/2025", "", "", "", "", ""},
			{"TX002", "AB12640001", "V002", "9999", "เบนซิน", "2ขค5678", "250", "10.82", "2705.70", "16/01/2025", "AB12610001", "10/01/2025", "สินค้าชำรุด", "3000", "2705.70"},
			{"TX001", "AB12610001", "V001", "1000", "ดีเซล", "1กข1234", "10.5", "9.53", "100.05", "15/01/2025", "", "", "", "", ""},
			{"TX001", "AB12610001", "V001", "1000", "ดีเซล", "1กข1234", "10.5", "9.53", "100.05", "15/01/2025", "", "", "", "", ""},
		},
	}
}

func newTestProcessUseCase() *ProcessUseCase {
	return NewProcessUseCase(logger.New(logger.Config{Env: "test", Level: "error"}))
}

func TestProcessEnrichesAndReconciles(t *testing.T) {
	uc := newTestProcessUseCase()

	result, err := uc.Process(testTransactions(), testRefs(t))
	require.NoError(t, err)
	require.Len(t, result.Rows, 4)

	// Row 0: first line of invoice A absorbs the group's -0.01 drift.
	// Per-line VAT of 100.05 is 6.55; the group total 300.15 yields 19.64.
	r0 := result.Rows[0]
	assert.Equal(t, "C100", r0.CustomerCode)
	assert.Equal(t, "ลูกค้าหนึ่ง จำกัด", r0.CustomerName)
	assert.Equal(t, "99 หมู่ 1 ต.บางรัก", r0.CustomerAddress)
	assert.Equal(t, "1234567890123", r0.CustomerTaxID)
	assert.Equal(t, "บริษัทผู้ขาย จำกัด", r0.CompanyName)
	assert.Equal(t, "9876543210987", r0.CompanyTaxID)
	assert.Equal(t, "สาขาที่ 00003", r0.CompanyBranch)
	assert.Equal(t, "15/01/2025", r0.InvoiceDate)
	assert.Equal(t, "TX001_ดีเซล_1กข1234", r0.ItemDescription)
	assert.Equal(t, "10.5", r0.Quantity)
	assert.Equal(t, "9.530", r0.UnitPrice)
	assert.Equal(t, "6.54", r0.VAT)
	assert.Equal(t, "93.51", r0.Amount)
	assert.Equal(t, "100.05", r0.NetAmount)
	assert.Equal(t, "1", r0.Sheet)
	assert.Equal(t, entity.MatchFull, r0.MatchStatus)

	// Rows 2 and 3 carry the unadjusted per-line VAT.
	assert.Equal(t, "6.55", result.Rows[2].VAT)
	assert.Equal(t, "93.50", result.Rows[2].Amount)
	assert.Equal(t, "2", result.Rows[2].Sheet)
	assert.Equal(t, "3", result.Rows[3].Sheet)

	// Row 1: both lookups missed.
	r1 := result.Rows[1]
	assert.Equal(t, "V002", r1.CustomerCode)
	assert.Equal(t, "Missing Master Data", r1.CustomerName)
	assert.Equal(t, "", r1.CompanyName)
	assert.Equal(t, "1", r1.Sheet)
	assert.Equal(t, entity.MatchBothMissing, r1.MatchStatus)
	assert.Equal(t, "177.01", r1.VAT)
	assert.Equal(t, "2528.69", r1.Amount)

	assert.Equal(t, map[string]int{
		entity.MatchFull:        3,
		entity.MatchBothMissing: 1,
	}, result.Statuses)
}

func TestProcessAggregatesInvoices(t *testing.T) {
	uc := newTestProcessUseCase()

	result, err := uc.Process(testTransactions(), testRefs(t))
	require.NoError(t, err)
	require.Len(t, result.Invoices, 2)

	// Invoice A: tax invoice series ("61"), three lines, accumulated totals
	// with the swapped header semantics (TOTAL_NETT = basis, NETT_AMT =
	// GROSS_AMT = tax-inclusive total).
	a := result.Invoices[0]
	hdr := a.Header()
	require.NotNil(t, hdr)
	assert.Equal(t, "AB12610001", hdr.DocNumber)
	assert.Equal(t, "1", hdr.PrintFormTmpl)
	assert.False(t, hdr.Unclassified)
	assert.Equal(t, "1000", hdr.Company)
	assert.Equal(t, "สาขาที่ 00003", hdr.OperationCode)
	assert.Equal(t, "9876543210987", hdr.ComTaxID)
	assert.Equal(t, "15012025", hdr.DocDate)
	assert.Equal(t, "C100", hdr.CVCode)
	assert.Equal(t, "ลูกค้าหนึ่ง จำกัด", hdr.BillName)
	assert.Equal(t, "สำนักงานใหญ่", hdr.CVShortName)
	assert.Equal(t, "1234567890123", hdr.TaxID)
	assert.Equal(t, "00000", hdr.CVSeq)
	assert.Equal(t, "AB12610001", hdr.RemarkText1)
	assert.Equal(t, "01", hdr.TaxRegisterType)
	assert.Equal(t, "Y", hdr.ETaxParticipate)

	assert.Equal(t, "300.15", hdr.NettAmt.StringFixed(2))
	assert.Equal(t, "19.64", hdr.TaxAmt.StringFixed(2))
	assert.Equal(t, "280.51", hdr.TotalNett.StringFixed(2))
	assert.Equal(t, "300.15", hdr.GrossAmt.StringFixed(2))

	require.Len(t, a.Dtl, 3)
	for i, d := range a.Dtl {
		assert.Equal(t, i+1, d.ExtNumber)
		assert.Equal(t, "1000", d.Company)
		assert.Equal(t, "AB12610001", d.DocNumber)
		assert.Equal(t, "TX001_ดีเซล_1กข1234", d.ProductName)
		assert.Equal(t, "10.50", d.CostPriceQty.StringFixed(2))
		assert.Equal(t, "9.53", d.GrossProduct.StringFixed(2))
		assert.Equal(t, "100.05", d.TotalNetProduct.StringFixed(2))
	}

	// Invoice B: credit note series ("64") with reference fields.
	b := result.Invoices[1]
	bh := b.Header()
	require.NotNil(t, bh)
	assert.Equal(t, "2", bh.PrintFormTmpl)
	assert.Equal(t, "AB12610001", bh.RefDocNumber)
	assert.Equal(t, "10012025", bh.RefDocDate)
	assert.Equal(t, "สินค้าชำรุด", bh.TrnName)
	assert.Equal(t, "3000.00", bh.RefDocAmt.StringFixed(2))
	assert.Equal(t, "2705.70", bh.RightAmt.StringFixed(2))
	assert.Equal(t, "2705.70", bh.NettAmt.StringFixed(2))
	assert.Equal(t, "177.01", bh.TaxAmt.StringFixed(2))
	assert.Equal(t, "2528.69", bh.TotalNett.StringFixed(2))
}

func TestProcessUnclassifiedSeries(t *testing.T) {
	uc := newTestProcessUseCase()

	table := &tabular.Table{
		Headers: []string{"เลขที่ใบแจ้งหนี้", "เลขที่ใบแจ้งหนี้2", "รหัสลูกค้า", "รหัสบริษัท", "จำนวนเงิน"},
		Rows: [][]string{
			{"TX009", "XX99Z90001", "V001", "1000", "107.00"},
		},
	}
	result, err := uc.Process(table, testRefs(t))
	require.NoError(t, err)
	require.Len(t, result.Invoices, 1)

	hdr := result.Invoices[0].Header()
	assert.True(t, hdr.Unclassified)
	// The raw document number stays visible instead of a silent guess.
	assert.Equal(t, "XX99Z90001", hdr.PrintFormTmpl)
}

func TestProcessMissingMandatoryColumn(t *testing.T) {
	uc := newTestProcessUseCase()

	table := &tabular.Table{
		Headers: []string{"เลขที่ใบแจ้งหนี้", "ปริมาณ"},
		Rows:    [][]string{{"TX001", "1"}},
	}
	_, err := uc.Process(table, testRefs(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrColumnMissing)
	assert.Contains(t, err.Error(), "จำนวนเงิน")
}

func TestProcessIsDeterministic(t *testing.T) {
	uc := newTestProcessUseCase()

	first, err := uc.Process(testTransactions(), testRefs(t))
	require.NoError(t, err)
	second, err := uc.Process(testTransactions(), testRefs(t))
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Statuses, second.Statuses)
	require.Equal(t, len(first.Invoices), len(second.Invoices))
	for i := range first.Invoices {
		assert.Equal(t, first.Invoices[i].Header().DocNumber, second.Invoices[i].Header().DocNumber)
		assert.Equal(t, first.Invoices[i].Header().TaxAmt.StringFixed(2), second.Invoices[i].Header().TaxAmt.StringFixed(2))
	}
}

func TestProcessGroupsFallBackToInvoiceNo(t *testing.T) {
	uc := newTestProcessUseCase()

	// No เลขที่ใบแจ้งหนี้2 column: grouping falls back to เลขที่ใบแจ้งหนี้.
	table := &tabular.Table{
		Headers: []string{"เลขที่ใบแจ้งหนี้", "รหัสลูกค้า", "รหัสบริษัท", "จำนวนเงิน"},
		Rows: [][]string{
			{"AB12610001", "V001", "1000", "107.00"},
			{"AB12610001", "V001", "1000", "214.00"},
			{"AB12610002", "V001", "1000", "53.50"},
		},
	}
	result, err := uc.Process(table, testRefs(t))
	require.NoError(t, err)
	require.Len(t, result.Groups, 2)
	assert.Equal(t, "AB12610001", result.Groups[0].Key)
	assert.Len(t, result.Groups[0].Rows, 2)
	assert.Equal(t, "AB12610002", result.Groups[1].Key)
}

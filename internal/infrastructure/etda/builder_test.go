package etda

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/etax-pipeline/internal/domain"
	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
)

func amount(t *testing.T, s string) entity.Amount {
	t.Helper()
	var a entity.Amount
	require.NoError(t, a.UnmarshalJSON([]byte(s)))
	return a
}

func sampleInvoice(t *testing.T) *entity.Invoice {
	t.Helper()
	return &entity.Invoice{
		Hdr: []entity.InvoiceHeader{{
			Company:       "1000",
			OperationCode: "สาขาที่ 00003",
			ComTaxID:      "0994000123456",
			DocNumber:     "INV25610001",
			DocDate:       "16122025",
			CVCode:        "C001",
			BillName:      "บจก. ลูกค้าหนึ่ง",
			CVShortName:   "สำนักงานใหญ่",
			TaxID:         "105551234567",
			CVSeq:         "0",
			BillAddress1:  "99 แขวงสีลม เขตบางรัก 10500",
			ComNameLocal:  "บจก. ผู้ขาย",
			ComAddress1:   "61/2 ม.2 จ.นนทบุรี 11000",
			NettAmt:       amount(t, "2705.70"),
			TaxAmt:        amount(t, "177.01"),
			TotalNett:     amount(t, "2528.69"),
			GrossAmt:      amount(t, "2705.70"),
			PrintFormTmpl: "1",
		}},
		Dtl: []entity.InvoiceLine{
			{Company: "1000", DocNumber: "INV25610001", ExtNumber: 1,
				ProductName:     "INV25610001_ดีเซล_กข1234",
				CostPriceQty:    amount(t, "50.5"),
				GrossProduct:    amount(t, "33.44"),
				TotalNetProduct: amount(t, "1500.00")},
			{Company: "1000", DocNumber: "INV25610001", ExtNumber: 2,
				ProductName:     "INV25610001_เบนซิน_กข1234",
				CostPriceQty:    amount(t, "30"),
				GrossProduct:    amount(t, "34.29"),
				TotalNetProduct: amount(t, "1028.69")},
		},
	}
}

func testBuilder() *Builder {
	b := NewBuilder(BuilderConfig{
		SellerTaxID:     "0994000123456",
		SellerName:      "บจก. ผู้ขาย",
		NotifyEmail:     "etax@example.co.th",
		CCACode:         "CCA01",
		CCAName:         "AT",
		InternalDocType: "123",
	})
	b.now = func() time.Time {
		return time.Date(2025, 12, 17, 3, 30, 0, 0, time.UTC)
	}
	return b
}

func TestBuildTaxInvoiceTotals(t *testing.T) {
	doc, channel, err := testBuilder().Build(sampleInvoice(t), "BASE64PDF")
	require.NoError(t, err)
	assert.Equal(t, "taxinvoice", channel)

	// TOTAL_NETT feeds the basis fields, NETT_AMT the grand total.
	sum := doc.SupplyChainTradeTransaction.ApplicableHeaderTradeSettlement.SpecifiedTradeSettlementHeaderMonetarySummation
	assert.Equal(t, "2528.69", sum.TaxBasisTotalAmount[0].Value)
	assert.Equal(t, "2528.69", sum.LineTotalAmount[0].Value)
	assert.Equal(t, "177.01", sum.TaxTotalAmount[0].Value)
	assert.Equal(t, "2705.70", sum.GrandTotalAmount[0].Value)

	tax := doc.SupplyChainTradeTransaction.ApplicableHeaderTradeSettlement.ApplicableTradeTax[0]
	assert.Equal(t, "VAT", tax.TypeCode)
	assert.Equal(t, "7", tax.CalculatedRate)
	assert.Equal(t, "2528.69", tax.BasisAmount[0])

	assert.Equal(t, "BASE64PDF", doc.Payload)
	assert.Equal(t, "388", doc.ExchangedDocument.TypeCode)
	assert.Equal(t, "ใบกำกับภาษี", doc.ExchangedDocument.Name[0])
	assert.Equal(t, "2025-12-16T00:00:00.000Z", doc.ExchangedDocument.IssueDateTime)
	// Creation is stamped in UTC+7 wall time with a literal Z.
	assert.Equal(t, "2025-12-17T10:30:00.000Z", doc.ExchangedDocument.CreationDateTime[0])
	assert.Nil(t, doc.ExchangedDocument.Purpose)
	assert.Nil(t, doc.SupplyChainTradeTransaction.ApplicableHeaderTradeAgreement.AdditionalReferencedDocument)
}

func TestBuildCompositeTaxIDs(t *testing.T) {
	doc, _, err := testBuilder().Build(sampleInvoice(t), "")
	require.NoError(t, err)

	agreement := doc.SupplyChainTradeTransaction.ApplicableHeaderTradeAgreement
	// Seller: 13-digit tax ID + branch from the free-text operation code.
	assert.Equal(t, "099400012345600003", agreement.SellerTradeParty.SpecifiedTaxRegistration.ID.Value)
	assert.Equal(t, "00003", doc.Branch)
	// Buyer: zero-padded tax ID + zero-padded CV_SEQ.
	assert.Equal(t, "010555123456700000", agreement.BuyerTradeParty.SpecifiedTaxRegistration.ID.Value)
}

func TestBuildLineProportionalTax(t *testing.T) {
	doc, _, err := testBuilder().Build(sampleInvoice(t), "")
	require.NoError(t, err)

	lines := doc.SupplyChainTradeTransaction.IncludedSupplyChainTradeLineItem
	require.Len(t, lines, 2)

	// line 1: 1500.00 * 177.01 / 2528.69 = 105.00 (rounded)
	l1 := lines[0].SpecifiedLineTradeSettlement
	assert.Equal(t, "1500.00", l1.SpecifiedTradeSettlementLineMonetarySummation.NetLineTotalAmount[0].Value)
	assert.Equal(t, "105.00", l1.SpecifiedTradeSettlementLineMonetarySummation.TaxTotalAmount[0].Value)
	assert.Equal(t, "1605.00", l1.SpecifiedTradeSettlementLineMonetarySummation.NetIncludingTaxesLineTotalAmount[0].Value)
	assert.Equal(t, "VAT", l1.ApplicableTradeTax[0].TypeCode)

	assert.Equal(t, "1", lines[0].AssociatedDocumentLineDocument.LineID)
	assert.Equal(t, "2", lines[1].AssociatedDocumentLineDocument.LineID)
	assert.Equal(t, "50.500", lines[0].SpecifiedLineTradeDelivery.BilledQuantity.Value)
	assert.Equal(t, "AU", lines[0].SpecifiedLineTradeDelivery.BilledQuantity.UnitCode)
}

func TestBuildCreditNoteReference(t *testing.T) {
	inv := sampleInvoice(t)
	inv.Hdr[0].PrintFormTmpl = "2"
	inv.Hdr[0].TrnName = "คำนวณราคาผิด"
	inv.Hdr[0].RefDocNumber = "INV25610000"
	inv.Hdr[0].RefDocDate = "01122025"

	doc, channel, err := testBuilder().Build(inv, "")
	require.NoError(t, err)

	assert.Equal(t, "creditnote", channel)
	assert.Equal(t, "81", doc.ExchangedDocument.TypeCode)
	assert.Equal(t, "ใบลดหนี้", doc.ExchangedDocument.Name[0])
	require.NotNil(t, doc.ExchangedDocument.Purpose)
	assert.Equal(t, "คำนวณราคาผิด", *doc.ExchangedDocument.Purpose)

	refs := doc.SupplyChainTradeTransaction.ApplicableHeaderTradeAgreement.AdditionalReferencedDocument
	require.Len(t, refs, 1)
	assert.Equal(t, "INV25610000", refs[0].IssuerAssignedID)
	require.NotNil(t, refs[0].IssueDateTime)
	assert.Equal(t, "2025-12-01T00:00:00.000Z", *refs[0].IssueDateTime)
}

func TestBuildUnclassifiedTemplateDefaultsToTaxInvoice(t *testing.T) {
	inv := sampleInvoice(t)
	inv.Hdr[0].PrintFormTmpl = "INV25990001"
	inv.Hdr[0].Unclassified = true

	doc, channel, err := testBuilder().Build(inv, "")
	require.NoError(t, err)
	assert.Equal(t, "taxinvoice", channel)
	assert.Equal(t, "388", doc.ExchangedDocument.TypeCode)
}

func TestBuildEmptyInvoiceFails(t *testing.T) {
	_, _, err := testBuilder().Build(&entity.Invoice{}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyInvoice)

	inv := sampleInvoice(t)
	inv.Dtl = nil
	_, _, err = testBuilder().Build(inv, "")
	assert.ErrorIs(t, err, domain.ErrEmptyInvoice)
}

func TestDocumentWireFormat(t *testing.T) {
	doc, _, err := testBuilder().Build(sampleInvoice(t), "PDF")
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	body := string(raw)

	// Seller block lowercase, buyer block uppercase.
	assert.Contains(t, body, `"postalTradeAddress"`)
	assert.Contains(t, body, `"PostalTradeAddress"`)
	assert.Contains(t, body, `"definedTradeContact":null`)
	assert.Contains(t, body, `"DefinedTradeContact"`)
	// Header tax lowercase typeCode, line tax uppercase TypeCode.
	assert.Contains(t, body, `"typeCode":"VAT"`)
	assert.Contains(t, body, `"TypeCode":"VAT"`)
	// Nulls are emitted, never omitted.
	assert.Contains(t, body, `"Purpose":null`)
	assert.Contains(t, body, `"payerTradeParty":null`)
	assert.Contains(t, body, `"ApplicableHeaderTradeDelivery":null`)
	assert.Contains(t, body, `"Document":"PDF"`)
	assert.Contains(t, body, `"value":"ER3-2560"`)
}

func TestIssueDateAlreadyISOPassesThrough(t *testing.T) {
	inv := sampleInvoice(t)
	inv.Hdr[0].DocDate = "2025-12-16T00:00:00.000Z"
	doc, _, err := testBuilder().Build(inv, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-16T00:00:00.000Z", doc.ExchangedDocument.IssueDateTime)
}

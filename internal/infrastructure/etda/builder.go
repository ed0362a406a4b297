package etda

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/etax-pipeline/internal/domain"
	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
	"github.com/jhoicas/etax-pipeline/internal/domain/etax"
	pketax "github.com/jhoicas/etax-pipeline/pkg/etax"
)

// BuilderConfig carries the seller identity and TSP delivery options stamped
// on every document.
type BuilderConfig struct {
	// SellerTaxID is the fallback 13-digit tax ID when the aggregated header
	// carries none.
	SellerTaxID string
	// SellerName is the fallback legal name.
	SellerName string
	// NotifyEmail receives the TSP delivery mail.
	NotifyEmail string

	CCACode string
	CCAName string
	// InternalDocType is the LineOA document type code agreed with the TSP.
	InternalDocType string
}

// Builder transforms an aggregated invoice into an ETDA v2.0 document.
type Builder struct {
	cfg BuilderConfig
	now func() time.Time
}

// NewBuilder constructs a Builder. The clock is injectable for tests.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{cfg: cfg, now: time.Now}
}

// Creation timestamps are stamped in the filer's local time (UTC+7); the
// gateway expects the wall time with a literal Z suffix.
var bangkok = time.FixedZone("UTC+7", 7*60*60)

// Build maps one aggregated invoice plus its rendered PDF into the final
// document, returning the document and the submission channel. A missing
// header or empty line list is a hard error for this invoice only.
func (b *Builder) Build(inv *entity.Invoice, renderedPDF string) (*Document, string, error) {
	hdr := inv.Header()
	if hdr == nil {
		return nil, "", fmt.Errorf("%w: missing header", domain.ErrEmptyInvoice)
	}
	if len(inv.Dtl) == 0 {
		return nil, "", fmt.Errorf("%w: document %s has no lines", domain.ErrEmptyInvoice, hdr.DocNumber)
	}

	dt := pketax.DocTypeFor(hdr.PrintFormTmpl)
	isNote := hdr.PrintFormTmpl == pketax.TemplateCreditNote || hdr.PrintFormTmpl == pketax.TemplateDebitNote

	issueDate := etax.FormatDateISO(hdr.DocDate)
	creation := b.now().In(bangkok).Format("2006-01-02T15:04:05") + ".000Z"

	// Composite 18-character registration IDs: 13-digit tax ID + 5-digit
	// branch, both left-zero-padded.
	comTaxID := strings.TrimSpace(hdr.ComTaxID)
	if comTaxID == "" {
		comTaxID = strings.TrimSpace(b.cfg.SellerTaxID)
	}
	comTaxID = etax.ZeroPad(comTaxID, pketax.TaxIDLength)
	sellerBranch := etax.ExtractBranchCode(hdr.OperationCode)
	sellerTax18 := comTaxID + sellerBranch

	buyerTaxID := etax.ZeroPad(strings.TrimSpace(hdr.TaxID), pketax.TaxIDLength)
	buyerBranch := etax.ZeroPad(strings.TrimSpace(hdr.CVSeq), pketax.BranchCodeLength)
	buyerTax18 := buyerTaxID + buyerBranch

	// TOTAL_NETT is the pre-tax basis and NETT_AMT the tax-inclusive grand
	// total; the field names lie. Downstream validation re-derives the tax
	// from basis x 7%, so reading the wrong field fails the submission.
	taxBasis := hdr.TotalNett.StringFixed(2)
	grandTotal := hdr.NettAmt.StringFixed(2)
	taxTotal := hdr.TaxAmt.StringFixed(2)

	docNumber := strings.TrimSpace(hdr.DocNumber)

	exchanged := ExchangedDocument{
		ID:               docNumber,
		Name:             []string{dt.NameTH},
		TypeCode:         dt.TypeCode,
		IssueDateTime:    issueDate,
		GlobalID:         pketax.DocumentGlobalID,
		CreationDateTime: []string{creation},
	}
	if isNote {
		if purpose := strings.TrimSpace(hdr.TrnName); purpose != "" {
			exchanged.Purpose = strPtr(purpose)
		}
	}

	var additionalRef []ReferencedDocument
	if isNote {
		if refNo := strings.TrimSpace(hdr.RefDocNumber); refNo != "" {
			ref := ReferencedDocument{
				IssuerAssignedID:  refNo,
				ReferenceTypeCode: pketax.ReferenceTypeON,
			}
			if refDate := etax.FormatDateISO(hdr.RefDocDate); refDate != "" {
				ref.IssueDateTime = strPtr(refDate)
			}
			additionalRef = append(additionalRef, ref)
		}
	}

	agreement := HeaderTradeAgreement{
		SellerTradeParty: b.sellerParty(hdr, comTaxID, sellerTax18),
		BuyerTradeParty:  b.buyerParty(hdr, buyerTax18),
		BuyerOrderReferencedDocument: ReferencedDocument{
			IssuerAssignedID:  docNumber,
			ReferenceTypeCode: pketax.ReferenceTypeON,
		},
		AdditionalReferencedDocument: additionalRef,
	}

	settlement := HeaderTradeSettlement{
		InvoiceCurrencyCode: CurrencyCode{ListID: pketax.CurrencyListID, Value: pketax.CurrencyTHB},
		ApplicableTradeTax: []HeaderTradeTax{{
			TypeCode:         "VAT",
			CalculatedRate:   pketax.VATRatePercent,
			BasisAmount:      []string{taxBasis},
			CalculatedAmount: []string{taxTotal},
		}},
		SpecifiedTradePaymentTerms: []PaymentTerms{{Description: []*string{nil}}},
		SpecifiedTradeSettlementHeaderMonetarySummation: MonetarySummation{
			GrandTotalAmount:     amt(grandTotal),
			LineTotalAmount:      amt(taxBasis),
			AllowanceTotalAmount: amt("0.00"),
			ChargeTotalAmount:    amt("0.00"),
			TaxBasisTotalAmount:  amt(taxBasis),
			TaxTotalAmount:       amt(taxTotal),
		},
	}

	doc := &Document{
		RequestSendMail:   "X",
		InternalDocNo:     strings.TrimSpace(hdr.CVCode),
		Email:             b.cfg.NotifyEmail,
		Branch:            sellerBranch,
		RequestSendLineOA: "X",
		RequestSendSFTP:   "X",
		CCA:               CCA{CCACode: b.cfg.CCACode, CCAName: b.cfg.CCAName},
		LineOA: LineOA{
			InternalDocType: b.cfg.InternalDocType,
			CompanyCode:     strings.TrimSpace(hdr.Company),
			SODocNumber:     docNumber,
			RefDocNumber:    docNumber,
		},
		ExchangedDocumentContext: DocumentContext{
			GuidelineSpecifiedDocumentContextParameter: []GuidelineParameter{{
				ID: SchemeID{SchemeVersionID: pketax.GuidelineVersionID, Value: pketax.GuidelineValue},
			}},
		},
		ExchangedDocument: exchanged,
		SupplyChainTradeTransaction: SupplyChainTradeTransaction{
			ApplicableHeaderTradeAgreement:   agreement,
			ApplicableHeaderTradeSettlement:  settlement,
			IncludedSupplyChainTradeLineItem: b.lineItems(hdr, inv.Dtl),
		},
		Payload: renderedPDF,
	}

	return doc, dt.Channel, nil
}

func (b *Builder) sellerParty(hdr *entity.InvoiceHeader, comTaxID, sellerTax18 string) SellerTradeParty {
	name := strings.TrimSpace(hdr.ComNameLocal)
	if name == "" {
		name = b.cfg.SellerName
	}
	addr := etax.ParseAddress(strings.TrimSpace(hdr.ComAddress1))

	return SellerTradeParty{
		PostalTradeAddress: PostalTradeAddress{
			PostcodeCode:         addr.Postcode,
			BuildingName:         strPtr(""),
			LineOne:              addr.LineOne,
			LineTwo:              strPtr(""),
			CityName:             pketax.DefaultCityName,
			CitySubDivisionName:  pketax.DefaultCitySubDivision,
			CountryID:            CountryID{SchemeID: pketax.CountrySchemeID, Value: pketax.CountryTH},
			CountrySubDivisionID: pketax.DefaultCountrySubDiv,
			BuildingNumber:       addr.BuildingNumber,
		},
		ID:   []string{comTaxID},
		Name: name,
		SpecifiedTaxRegistration: TaxRegistration{
			ID: TaxRegistrationID{Value: sellerTax18, SchemeID: pketax.TaxSchemeID},
		},
	}
}

func (b *Builder) buyerParty(hdr *entity.InvoiceHeader, buyerTax18 string) BuyerTradeParty {
	name := strings.TrimSpace(hdr.BillName)
	addr := etax.ParseAddress(strings.TrimSpace(hdr.BillAddress1))
	branchName := strings.TrimSpace(hdr.CVShortName)
	if branchName == "" {
		branchName = pketax.HeadOfficeNameTH
	}

	postcode := addr.Postcode
	if postcode == "" {
		postcode = pketax.DefaultBuyerPostcode
	}
	building := addr.BuildingNumber
	if building == "" {
		building = "1"
	}

	return BuyerTradeParty{
		ID:   []string{strings.TrimSpace(hdr.CVCode)},
		Name: name,
		PostalTradeAddress: PostalTradeAddress{
			PostcodeCode:         postcode,
			LineOne:              addr.LineOne,
			LineTwo:              strPtr(""),
			CityName:             pketax.DefaultCityName,
			CitySubDivisionName:  pketax.DefaultCitySubDivision,
			CountryID:            CountryID{SchemeID: pketax.CountrySchemeID, Value: pketax.CountryTH},
			CountrySubDivisionID: pketax.DefaultCountrySubDiv,
			BuildingNumber:       building,
		},
		SpecifiedTaxRegistration: TaxRegistration{
			ID: TaxRegistrationID{Value: buyerTax18, SchemeID: pketax.TaxSchemeID},
		},
		DefinedTradeContact: []TradeContact{{
			PersonName:     name,
			DepartmentName: branchName,
		}},
	}
}

// lineItems maps the detail lines. The per-line tax shown on the document is
// a proportional allocation of the header tax over the header basis; the
// authoritative reconciled totals live in the header and are not recomputed
// here.
func (b *Builder) lineItems(hdr *entity.InvoiceHeader, dtl []entity.InvoiceLine) []LineItem {
	basisTotal := hdr.TotalNett.Decimal
	taxTotal := hdr.TaxAmt.Decimal

	items := make([]LineItem, 0, len(dtl))
	for _, d := range dtl {
		lineTotal := d.TotalNetProduct.Decimal

		lineTax := decimal.Zero
		if basisTotal.IsPositive() {
			lineTax = lineTotal.Mul(taxTotal).Div(basisTotal).Round(2)
		}
		lineInclTax := lineTotal.Add(lineTax).Round(2)

		productName := strings.TrimSpace(d.ProductName)
		lineTotalStr := lineTotal.StringFixed(2)

		items = append(items, LineItem{
			AssociatedDocumentLineDocument: LineDocument{LineID: fmt.Sprintf("%d", d.ExtNumber)},
			SpecifiedTradeProduct: TradeProduct{
				Name: []string{productName},
				InformationNote: []InformationNote{
					{Content: []string{"0.00"}, Subject: "ProductRemark7"},
					{Content: []string{"0.00"}, Subject: "ProductRemark8"},
				},
				Description: []string{productName},
			},
			SpecifiedLineTradeAgreement: LineTradeAgreement{
				GrossPriceProductTradePrice: GrossPrice{ChargeAmount: amt(lineTotalStr)},
			},
			SpecifiedLineTradeDelivery: LineTradeDelivery{
				BilledQuantity: BilledQuantity{
					UnitCode: pketax.QuantityUnitCode,
					Value:    d.CostPriceQty.StringFixed(3),
				},
			},
			SpecifiedLineTradeSettlement: LineTradeSettlement{
				SpecifiedTradeSettlementLineMonetarySummation: LineMonetarySummation{
					NetLineTotalAmount:               amt(lineTotalStr),
					NetIncludingTaxesLineTotalAmount: amt(lineInclTax.StringFixed(2)),
					TaxTotalAmount:                   amt(lineTax.StringFixed(2)),
				},
				ApplicableTradeTax: []LineTradeTax{{
					TypeCode:         "VAT",
					CalculatedRate:   pketax.VATRatePercent,
					BasisAmount:      []string{lineTotalStr},
					CalculatedAmount: []string{lineTax.StringFixed(2)},
				}},
				SpecifiedTradeAllowanceCharge: []LineAllowanceCharge{{
					ActualAmount: []string{"0.00"},
				}},
			},
		})
	}
	return items
}

func amt(v string) []CurrencyAmount {
	return []CurrencyAmount{{CurrencyID: pketax.CurrencyTHB, Value: v}}
}

func strPtr(s string) *string { return &s }

// Package etax contains catalogs and constants for Thai electronic tax
// documents under the ETDA e-Tax Invoice scheme (ขบ.3-2560 / ER3-2560 v2.0)
// as accepted by the AXONS TSP gateway.
package etax

// =============================================================================
// Document types — PRINT_FORM_TEMPLATE → (TypeCode, Thai name, channel)
// =============================================================================

// Template codes carried in ET_INVOICE_HDR.PRINT_FORM_TEMPLATE.
const (
	TemplateTaxInvoice = "1"
	TemplateCreditNote = "2"
	TemplateDebitNote  = "3"
)

// ETDA document type codes (ExchangedDocument.TypeCode).
const (
	TypeCodeTaxInvoice = "388"
	TypeCodeCreditNote = "81"
	TypeCodeDebitNote  = "80"
)

// Submission channels; each has its own gateway endpoint.
const (
	ChannelTaxInvoice = "taxinvoice"
	ChannelCreditNote = "creditnote"
	ChannelDebitNote  = "debitnote"
)

// DocType describes one document-type variant.
type DocType struct {
	TypeCode string // ETDA TypeCode
	NameTH   string // Thai display name (ExchangedDocument.Name)
	Channel  string // submission channel
}

// DocTypes maps PRINT_FORM_TEMPLATE to its document-type variant.
var DocTypes = map[string]DocType{
	TemplateTaxInvoice: {TypeCode: TypeCodeTaxInvoice, NameTH: "ใบกำกับภาษี", Channel: ChannelTaxInvoice},
	TemplateCreditNote: {TypeCode: TypeCodeCreditNote, NameTH: "ใบลดหนี้", Channel: ChannelCreditNote},
	TemplateDebitNote:  {TypeCode: TypeCodeDebitNote, NameTH: "ใบเพิ่มหนี้", Channel: ChannelDebitNote},
}

// DocTypeFor resolves a template code; unknown codes fall back to tax invoice.
func DocTypeFor(template string) DocType {
	if dt, ok := DocTypes[template]; ok {
		return dt
	}
	return DocTypes[TemplateTaxInvoice]
}

// PDFDocTypes maps PRINT_FORM_TEMPLATE to the Gen-PDF API DOC_TYPE field.
var PDFDocTypes = map[string]string{
	TemplateTaxInvoice: "01",
	TemplateCreditNote: "04",
	TemplateDebitNote:  "05",
}

// =============================================================================
// Gateway endpoints (relative to the TSP base URL)
// =============================================================================

// SubmitEndpoints maps a channel to its submission path.
var SubmitEndpoints = map[string]string{
	ChannelTaxInvoice: "/api/v1/submit/taxinvoice",
	ChannelCreditNote: "/api/v1/submit/creditnote",
	ChannelDebitNote:  "/api/v1/submit/debitnote",
}

const (
	StatusEndpoint = "/api/v1/document/status"
	CancelEndpoint = "/api/v1/document/cancel"
)

// =============================================================================
// Tax and currency
// =============================================================================

const (
	// VATRatePercent is the Thai standard VAT rate applied to fuel invoices.
	VATRatePercent = "7"
	// CurrencyTHB per ISO 4217.
	CurrencyTHB     = "THB"
	CurrencyListID  = "ISO 4217 3A"
	CountryTH       = "TH"
	CountrySchemeID = "3166-1 alpha-2"
)

// =============================================================================
// Schema identifiers (ETDA v2.0, ER3-2560)
// =============================================================================

const (
	GuidelineValue     = "ER3-2560"
	GuidelineVersionID = "v2.0"
	// DocumentGlobalID is the OID prefix ETDA assigns to e-tax documents.
	DocumentGlobalID = "2.16.764.1.1.2.1.X.X.X"
	TaxSchemeID      = "TXID"
	// QuantityUnitCode "AU" (administrative unit) is what the gateway accepts
	// for fuel line quantities.
	QuantityUnitCode = "AU"
	ReferenceTypeON  = "ON"
)

// =============================================================================
// Fallback party values
// =============================================================================

const (
	// HeadOfficeBranch is the 5-digit branch code of a head office.
	HeadOfficeBranch = "00000"
	// HeadOfficeNameTH is the default branch display name.
	HeadOfficeNameTH = "สำนักงานใหญ่"
	// DefaultProvinceTH is used when an address string carries no province marker.
	DefaultProvinceTH = "กรุงเทพมหานคร"

	// UAT geography defaults required by the gateway when the source address
	// cannot be resolved to official codes (Bangkok / Bang Rak).
	DefaultCityName        = "1026"
	DefaultCitySubDivision = "102601"
	DefaultCountrySubDiv   = "10"
	DefaultBuyerPostcode   = "10500"
)

// TaxIDLength is the number of digits in a Thai taxpayer identification number.
const TaxIDLength = 13

// BranchCodeLength is the number of digits in a branch suffix; tax ID + branch
// form the 18-character composite registration ID.
const BranchCodeLength = 5

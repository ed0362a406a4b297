package entity

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value that marshals as a bare JSON number. The
// rendering API rejects quoted amounts, so the shopspring default (quoted
// string) cannot be used on the wire.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromFloat builds an Amount from a float64.
func AmountFromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

// MarshalJSON emits the value as an unquoted number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted numeric strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	a.Decimal = d
	return nil
}

// InvoiceHeader is the aggregated invoice header in the rendering API's wire
// format. Field names are the API contract and must not change. Note the
// swapped semantics: TOTAL_NETT carries the pre-tax basis while NETT_AMT and
// GROSS_AMT carry the tax-inclusive grand total.
type InvoiceHeader struct {
	Company         string `json:"COMPANY"`
	OperationCode   string `json:"OPERATION_CODE"`
	ComTaxID        string `json:"COM_TAX_ID"`
	DocNumber       string `json:"DOC_NUMBER"`
	DocDate         string `json:"DOC_DATE"`
	CVCode          string `json:"CV_CODE"`
	BillName        string `json:"BILL_NAME"`
	CVShortName     string `json:"CV_SHORT_NAME"`
	TaxID           string `json:"TAX_ID"`
	CVSeq           string `json:"CV_SEQ"`
	BillAddress1    string `json:"BILL_ADDRESS1"`
	ComNameLocal    string `json:"COM_NAME_LOCAL"`
	ComAddress1     string `json:"COM_ADDRESS1"`
	NettAmt         Amount `json:"NETT_AMT"`
	TaxAmt          Amount `json:"TAX_AMT"`
	TotalNett       Amount `json:"TOTAL_NETT"`
	GrossAmt        Amount `json:"GROSS_AMT"`
	RemarkText1     string `json:"REMARK_TEXT1"`
	PrintFormTmpl   string `json:"PRINT_FORM_TEMPLATE"`
	RefDocNumber    string `json:"REF_DOC_NUMBER"`
	RefDocDate      string `json:"REF_DOC_DATE"`
	TrnName         string `json:"TRN_NAME"`
	RefDocAmt       Amount `json:"REF_DOC_AMT"`
	RightAmt        Amount `json:"RIGHT_AMT"`
	TaxRegisterType string `json:"TAX_REGISTER_TYPE"`
	ETaxParticipate string `json:"E_TAX_PARTICIPATE"`
	DocType         string `json:"DOC_TYPE"`
	CVCodeSAP       string `json:"CV_CODE_SAP"`
	ReferenceNumber string `json:"REFERENCE_NUMBER"`

	// Unclassified is set when the doc-number classifier code was not one of
	// the known values. Not part of the wire format.
	Unclassified bool `json:"-"`
}

// InvoiceLine is one detail line in the rendering API's wire format.
type InvoiceLine struct {
	Company         string `json:"COMPANY"`
	DocNumber       string `json:"DOC_NUMBER"`
	ExtNumber       int    `json:"EXT_NUMBER"`
	ProductName     string `json:"PRODUCT_NAME"`
	CostPriceQty    Amount `json:"COSTPRICE_QTY"`
	GrossProduct    Amount `json:"GROSS_PRODUCT"`
	TotalNetProduct Amount `json:"TOTAL_NET_PRODUCT"`
}

// Invoice is the aggregated document handed to the renderer and the
// transformer. The header array always holds exactly one element; the array
// shape is the wire contract.
type Invoice struct {
	Hdr []InvoiceHeader `json:"ET_INVOICE_HDR"`
	Dtl []InvoiceLine   `json:"ET_INVOICE_DTL"`
}

// Header returns the single header, or nil when absent.
func (i *Invoice) Header() *InvoiceHeader {
	if len(i.Hdr) == 0 {
		return nil
	}
	return &i.Hdr[0]
}

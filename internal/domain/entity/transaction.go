package entity

import "github.com/shopspring/decimal"

// TransactionRow is one raw accounting export record. All fields are kept as
// strings exactly as loaded so leading zeros and locale formatting survive
// until normalization.
type TransactionRow struct {
	InvoiceNo    string // เลขที่ใบแจ้งหนี้
	InvoiceNo2   string // เลขที่ใบแจ้งหนี้2 (canonical grouping key when present)
	CustomerCode string // รหัสลูกค้า
	CompanyCode  string // รหัสบริษัท
	ProductName  string // ชื่อสินค้า
	LicensePlate string // ทะเบียนรถ
	Quantity     string // ปริมาณ
	UnitPrice    string // ราคาต่อหน่วย
	GrossAmount  string // จำนวนเงิน (tax inclusive)
	InvoiceDate  string // วันที่ใบแจ้งหนี้

	// Credit/debit note reference fields, empty for plain tax invoices.
	RefInvoiceNo   string // อ้างอิงใบกำกับภาษีเลขที่
	RefInvoiceDate string // วันที่เอกสารอ้างอิง
	Reason         string // สาเหตุ
	RefAmount      string // มูลค่าตามใบกำกับภาษีเดิม
	CorrectAmount  string // มูลค่าที่ถูกต้อง
}

// Match statuses describe how a row resolved against the reference masters.
const (
	MatchFull            = "Full Match"
	MatchCustomerMissing = "Customer Missing"
	MatchSellerMissing   = "Seller Missing"
	MatchBothMissing     = "Both Missing"
)

// EnrichedRow is a TransactionRow augmented with resolved reference data and
// the reconciled VAT split. Immutable once built except for the VAT fields,
// which the reconciliation engine sets.
type EnrichedRow struct {
	TransactionRow

	// Effective customer lookup key after the vendor crosswalk substitution.
	LookupCustomerCode string

	// Customer registry fields, empty when the lookup missed.
	CustomerName    string
	CustomerTaxID   string
	CustomerAddress string
	BranchCode      string // สาขาที่
	BranchName      string // ชื่อสาขา

	// Company registry fields, empty when the lookup missed.
	CompanyName       string
	CompanyAddress    string
	CompanyTaxID      string
	CompanyATAddress  string // ที่อยู่AT
	CompanyBranchText string // ชื่อสาขา_บริษัท (free text, branch code embedded)

	MatchStatus string

	// Sheet is the 1-based running page number within the invoice group.
	Sheet int

	// Reconciled monetary split. Gross = Basis + VAT to the cent.
	Gross decimal.Decimal
	VAT   decimal.Decimal
	Basis decimal.Decimal
}

package dto

// ProcessedRow is one line of the processed report. The JSON keys mirror the
// Thai column headers of the accounting template the report is imported into,
// so a CSV export of these rows drops straight into the existing workflow.
type ProcessedRow struct {
	CustomerCode    string `json:"รหัสลูกค้า"`
	CustomerName    string `json:"ชื่อลูกค้า"`
	CustomerAddress string `json:"ที่อยู่ลูกค้า"`
	CustomerTaxID   string `json:"เลขประจำตัวผู้เสียภาษีของลูกค้า"`
	BranchCode      string `json:"สาขาที่"`
	BranchName      string `json:"ชื่อสาขา"`
	CompanyCode     string `json:"รหัสบริษัท"`
	CompanyName     string `json:"ชื่อบริษัท"`
	CompanyAddress  string `json:"ที่อยู่บริษัท"`
	CompanyATAddr   string `json:"ที่อยู่AT"`
	CompanyTaxID    string `json:"เลขประจำตัวผู้เสียภาษีของบริษัท"`
	CompanyBranch   string `json:"ชื่อสาขา_บริษัท"`
	InvoiceDate     string `json:"วันที่ใบแจ้งหนี้"`
	InvoiceNo2      string `json:"เลขที่ใบแจ้งหนี้2"`
	Sheet           string `json:"แผ่นที่"`
	ItemDescription string `json:"เลขที่ใบแจ้งหนี้_ชื่อสินค้า_ทะเบียนรถ"`
	Quantity        string `json:"ปริมาณ"`
	UnitPrice       string `json:"ราคาต่อหน่วย"`
	Amount          string `json:"จำนวนเงิน"`       // pre-tax basis
	VAT             string `json:"VAT"`            // reconciled line VAT
	NetAmount       string `json:"จำนวนเงินสุทธิ"` // tax-inclusive gross
	MatchStatus     string `json:"สถานะการจับคู่"`
}

// ProcessResponse is the body of POST /api/etax/process.
type ProcessResponse struct {
	Rows     []ProcessedRow `json:"rows"`
	Invoices int            `json:"invoices"`
	// Statuses counts rows per reference match status.
	Statuses map[string]int `json:"statuses"`
}

// SubmitRequest selects invoices for submission from a processed batch.
type SubmitRequest struct {
	// DocNumbers limits the submission; empty means all.
	DocNumbers []string `json:"doc_numbers,omitempty"`
	// DryRun renders and builds documents without posting to the gateway.
	DryRun bool `json:"dry_run,omitempty"`
}

// SubmitItemResult is the per-document outcome of a batch submission.
type SubmitItemResult struct {
	DocNumber  string `json:"doc_number"`
	Channel    string `json:"channel"`
	Status     string `json:"status"`
	HTTPStatus int    `json:"http_status,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SubmitResponse summarizes a batch submission.
type SubmitResponse struct {
	Submitted int                `json:"submitted"`
	Rejected  int                `json:"rejected"`
	Failed    int                `json:"failed"`
	Results   []SubmitItemResult `json:"results"`
}

// StatusRequest is the body of POST /api/etax/status.
type StatusRequest struct {
	DocNumber     string `json:"doc_number"`
	DocDate       string `json:"doc_date"`
	InternalDocNo string `json:"internal_doc_no,omitempty"`
	DocType       string `json:"doc_type,omitempty"`
}

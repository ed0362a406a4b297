package entity

// CustomerInfo is one customer registry record (Customer_Tax ID master).
type CustomerInfo struct {
	Code       string
	Name       string
	TaxID      string
	Address    string // combined address, may be empty
	Address1   string
	Address2   string
	BranchCode string // สาขาที่, e.g. "00000"
	BranchName string // ชื่อสาขา, e.g. "สำนักงานใหญ่"
}

// FullAddress returns Address when present, else Address1 + " " + Address2.
func (c CustomerInfo) FullAddress() string {
	if c.Address != "" {
		return c.Address
	}
	return c.Address1 + " " + c.Address2
}

// CompanyBranch is one seller registry record (AT Address master).
type CompanyBranch struct {
	Code       string // รหัสบริษัท
	Name       string // ชื่อบริษัท
	Address    string // ที่อยู่
	ATAddress  string // ที่อยู่AT
	TaxID      string // เลขประจำตัวผู้เสียภาษี
	BranchText string // สาขาที่ free text, e.g. "สาขาที่ 00003"
}

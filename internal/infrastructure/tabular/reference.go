package tabular

import (
	"fmt"

	"github.com/jhoicas/etax-pipeline/internal/domain"
	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
	"github.com/jhoicas/etax-pipeline/internal/domain/etax"
)

// ReferenceSet is the three reference masters loaded into memory and
// de-duplicated on their keys (first occurrence wins). It is immutable after
// construction and safe to share across workers.
type ReferenceSet struct {
	crosswalk map[string]string // vendor code -> canonical customer code
	customers map[string]entity.CustomerInfo
	companies map[string]entity.CompanyBranch
}

// BuildReferenceSet resolves the column contracts of the three masters and
// indexes them. The key column of each table is mandatory; descriptive
// columns degrade to empty when absent.
func BuildReferenceSet(vendor, customer, atAddress *Table) (*ReferenceSet, error) {
	rs := &ReferenceSet{
		crosswalk: make(map[string]string),
		customers: make(map[string]entity.CustomerInfo),
		companies: make(map[string]entity.CompanyBranch),
	}

	// Vendor crosswalk: Vendor -> AT : Customer Code.
	vVendor := vendor.ResolveColumn("Vendor")
	vTarget := vendor.ResolveColumn("AT : Customer Code")
	if vVendor < 0 || vTarget < 0 {
		return nil, fmt.Errorf("%w: vendor crosswalk needs Vendor and AT : Customer Code", domain.ErrColumnMissing)
	}
	for _, row := range vendor.Rows {
		key := etax.CleanCode(vendor.Value(row, vVendor))
		target := etax.CleanCode(vendor.Value(row, vTarget))
		if key == "" || target == "" {
			continue
		}
		if _, ok := rs.crosswalk[key]; !ok {
			rs.crosswalk[key] = target
		}
	}

	// Customer registry.
	cCode := customer.ResolveColumn("Customer Code")
	if cCode < 0 {
		return nil, fmt.Errorf("%w: customer registry needs Customer Code", domain.ErrColumnMissing)
	}
	cName := customer.ResolveColumn("Name")
	cTaxID := customer.ResolveColumn("เลขประจำตัวผู้เสียภาษี")
	cAddr := customer.ResolveColumn("Address")
	cAddr1 := customer.ResolveColumn("Address 1")
	cAddr2 := customer.ResolveColumn("Address 2")
	cBranchCode := customer.ResolveColumn("สาขาที่", "Branch Code")
	cBranchName := customer.ResolveColumn("ชื่อสาขา", "Branch Name")
	for _, row := range customer.Rows {
		key := etax.CleanCode(customer.Value(row, cCode))
		if key == "" {
			continue
		}
		if _, ok := rs.customers[key]; ok {
			continue
		}
		rs.customers[key] = entity.CustomerInfo{
			Code:       key,
			Name:       customer.Value(row, cName),
			TaxID:      customer.Value(row, cTaxID),
			Address:    customer.Value(row, cAddr),
			Address1:   customer.Value(row, cAddr1),
			Address2:   customer.Value(row, cAddr2),
			BranchCode: customer.Value(row, cBranchCode),
			BranchName: customer.Value(row, cBranchName),
		}
	}

	// Company/branch registry. The tax ID header is misspelled in some
	// exports (ภาษ๊ for ภาษี), so resolution leans on the substring pass.
	aCode := atAddress.ResolveColumn("รหัสบริษัท")
	if aCode < 0 {
		return nil, fmt.Errorf("%w: company registry needs รหัสบริษัท", domain.ErrColumnMissing)
	}
	aName := atAddress.ResolveColumn("ชื่อบริษัท")
	aAddr := atAddress.ResolveColumn("ที่อยู่")
	aATAddr := atAddress.ResolveColumn("ที่อยู่AT")
	aTaxID := atAddress.ResolveColumn("เลขประจำตัวผู้เสียภาษี", "เลขประจำตัวผู้เสียภาษ")
	aBranch := atAddress.ResolveColumn("สาขาที่")
	for _, row := range atAddress.Rows {
		key := etax.CleanCode(atAddress.Value(row, aCode))
		if key == "" {
			continue
		}
		if _, ok := rs.companies[key]; ok {
			continue
		}
		rs.companies[key] = entity.CompanyBranch{
			Code:       key,
			Name:       atAddress.Value(row, aName),
			Address:    atAddress.Value(row, aAddr),
			ATAddress:  atAddress.Value(row, aATAddr),
			TaxID:      atAddress.Value(row, aTaxID),
			BranchText: atAddress.Value(row, aBranch),
		}
	}

	return rs, nil
}

// ResolveCustomerCode applies the vendor crosswalk: the crosswalk target when
// the vendor code is mapped, the original code otherwise.
func (rs *ReferenceSet) ResolveCustomerCode(code string) string {
	if target, ok := rs.crosswalk[code]; ok {
		return target
	}
	return code
}

// Customer looks up a customer registry record by canonical code.
func (rs *ReferenceSet) Customer(code string) (entity.CustomerInfo, bool) {
	c, ok := rs.customers[code]
	return c, ok
}

// Company looks up a seller registry record by company code.
func (rs *ReferenceSet) Company(code string) (entity.CompanyBranch, bool) {
	c, ok := rs.companies[code]
	return c, ok
}

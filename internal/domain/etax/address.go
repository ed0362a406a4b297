package etax

import (
	"regexp"
	"strings"

	pketax "github.com/jhoicas/etax-pipeline/pkg/etax"
)

// Address is the heuristic decomposition of a Thai free-text address line.
// Fields the heuristics cannot find stay empty; LineOne always carries the
// original string.
type Address struct {
	Postcode       string
	Province       string
	District       string
	Subdistrict    string
	BuildingNumber string
	LineOne        string
}

var (
	postcodeRe    = regexp.MustCompile(`(\d{5})`)
	provinceRe    = regexp.MustCompile(`(?:จ\.|จังหวัด)\s*(\S+)`)
	districtRe    = regexp.MustCompile(`(?:อ\.|อำเภอ|เขต)\s*(\S+)`)
	subdistrictRe = regexp.MustCompile(`(?:ต\.|ตำบล|แขวง)\s*(\S+)`)
	buildingRe    = regexp.MustCompile(`^([\d/]+)`)
)

// ParseAddress extracts postcode, province, district, subdistrict, and a
// leading building number from a free-text address. This is regex best-effort,
// not a grammar; a non-matching field degrades without failing the row.
func ParseAddress(s string) Address {
	if s == "" {
		return Address{Province: pketax.DefaultProvinceTH}
	}

	addr := Address{LineOne: s, Province: pketax.DefaultProvinceTH}

	if m := postcodeRe.FindStringSubmatch(s); m != nil {
		addr.Postcode = m[1]
	}
	if m := provinceRe.FindStringSubmatch(s); m != nil {
		addr.Province = m[1]
	}
	if m := districtRe.FindStringSubmatch(s); m != nil {
		addr.District = m[1]
	}
	if m := subdistrictRe.FindStringSubmatch(s); m != nil {
		addr.Subdistrict = m[1]
	}

	trimmed := strings.TrimSpace(s)
	if m := buildingRe.FindStringSubmatch(trimmed); m != nil {
		addr.BuildingNumber = m[1]
	} else {
		addr.BuildingNumber = "1"
	}

	return addr
}

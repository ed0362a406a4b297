// Package etax holds the pure domain algorithms of the pipeline: scalar
// normalization, address heuristics, and VAT reconciliation. Nothing here
// performs I/O.
package etax

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pketax "github.com/jhoicas/etax-pipeline/pkg/etax"
)

// ParseAmount parses a raw cell into a decimal. Thousands separators are
// stripped; empty or unparsable input degrades to zero so one bad cell never
// halts a batch.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CleanCode restores an identifier that a spreadsheet exported as a float.
// "6.81181E+11" becomes "681181000000", "12345.0" becomes "12345"; anything
// else passes through trimmed.
func CleanCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "Ee") {
		// int64 conversion is undefined outside its range, so absurdly large
		// exponents pass through untouched.
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < math.MinInt64 || f >= math.MaxInt64 {
			return s
		}
		return strconv.FormatInt(int64(f), 10)
	}
	if strings.HasSuffix(s, ".0") {
		return s[:len(s)-2]
	}
	return s
}

// FormatDisplayDate normalizes a date to DD/MM/YYYY for the processed report.
// Accepts YYYY-MM-DD, DD-MM-YYYY, YYYY/MM/DD, and already-correct DD/MM/YYYY,
// distinguished by which positional group has four digits. Anything after the
// first space is dropped before shape detection, so a trailing time component
// never survives; what remains of an unrecognized shape passes through.
func FormatDisplayDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}

	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		if len(parts) == 3 {
			if len(parts[0]) == 4 {
				return parts[2] + "/" + parts[1] + "/" + parts[0]
			}
			if len(parts[2]) == 4 {
				return parts[0] + "/" + parts[1] + "/" + parts[2]
			}
		}
	}

	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) == 3 {
			if len(parts[2]) == 4 {
				return s
			}
			if len(parts[0]) == 4 {
				return parts[2] + "/" + parts[1] + "/" + parts[0]
			}
		}
	}

	return s
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// FormatCompactDate normalizes a date to DDMMYYYY for the aggregated header.
// Buddhist-era years (> 2400) are converted to the Gregorian calendar.
// Unparsable input degrades to the separator-stripped string.
func FormatCompactDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	clean := strings.ReplaceAll(strings.ReplaceAll(s, "/", ""), "-", "")
	clean = strings.TrimSpace(clean)

	if len(clean) == 8 && digitsOnly.MatchString(clean) {
		year, _ := strconv.Atoi(clean[4:8])
		if year > 2400 {
			year -= 543
		}
		return fmt.Sprintf("%s%d", clean[0:4], year)
	}

	if dt, ok := parseDayFirst(s); ok {
		year := dt.Year()
		if year > 2400 {
			year -= 543
		}
		return fmt.Sprintf("%02d%02d%d", dt.Day(), int(dt.Month()), year)
	}

	return clean
}

// FormatDateISO normalizes a date to "YYYY-MM-DDT00:00:00.000Z" as the
// submission schema requires. Input already carrying a "T" passes through.
// Accepts DDMMYYYY, YYYY-MM-DD, and DD/MM/YYYY; anything else is returned
// unchanged.
func FormatDateISO(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "nan" || s == "NaT" {
		return ""
	}
	if strings.Contains(s, "T") {
		return s
	}

	var dt time.Time
	var err error
	switch {
	case len(s) == 8 && digitsOnly.MatchString(s):
		dt, err = time.Parse("02012006", s)
	case len(s) == 10 && s[4] == '-':
		dt, err = time.Parse("2006-01-02", s)
	case len(s) == 10 && s[2] == '/':
		dt, err = time.Parse("02/01/2006", s)
	default:
		return s
	}
	if err != nil {
		return s
	}
	return dt.Format("2006-01-02") + "T00:00:00.000Z"
}

// parseDayFirst tries common day-first and ISO layouts.
func parseDayFirst(s string) (time.Time, bool) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	layouts := []string{
		"02/01/2006", "2/1/2006",
		"02-01-2006", "2-1-2006",
		"2006-01-02", "2006/01/02",
	}
	for _, layout := range layouts {
		if dt, err := time.Parse(layout, s); err == nil {
			return dt, true
		}
	}
	return time.Time{}, false
}

// FormatAmount renders a decimal with a fixed number of decimal places for
// submission payloads.
func FormatAmount(d decimal.Decimal, decimals int32) string {
	return d.StringFixed(decimals)
}

// FormatAmountString renders a raw cell with a fixed number of decimals for
// submission payloads; empty or unparsable input renders as zero ("0.00",
// "0.000", ...).
func FormatAmountString(s string, decimals int32) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "nan" {
		return decimal.Zero.StringFixed(decimals)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero.StringFixed(decimals)
	}
	return d.StringFixed(decimals)
}

// FormatDisplayAmount renders a raw cell for the processed report. Unlike
// FormatAmountString, empty input stays empty and unparsable input passes
// through unchanged. The asymmetry between report and submission formatting
// is a contract, not an accident.
func FormatDisplayAmount(s string, decimals int32) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	clean := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return s
	}
	return d.StringFixed(decimals)
}

var (
	fiveDigitRun = regexp.MustCompile(`(\d{5})`)
	anyDigitRun  = regexp.MustCompile(`\d+`)
)

// ExtractBranchCode pulls a 5-digit branch code out of free text like
// "สาขาที่ 00003". A shorter digit run is zero-padded; no digits at all means
// head office.
func ExtractBranchCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "nan" {
		return pketax.HeadOfficeBranch
	}
	if m := fiveDigitRun.FindString(s); m != "" {
		return m
	}
	runs := anyDigitRun.FindAllString(s, -1)
	if len(runs) > 0 {
		return ZeroPad(runs[len(runs)-1], pketax.BranchCodeLength)
	}
	return pketax.HeadOfficeBranch
}

// PadTaxID normalizes a taxpayer ID to exactly 13 digits: a float artifact
// suffix is dropped, short values are left-zero-padded, long values truncated.
// Empty stays empty.
func PadTaxID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	s = ZeroPad(s, pketax.TaxIDLength)
	if len(s) > pketax.TaxIDLength {
		s = s[:pketax.TaxIDLength]
	}
	return s
}

// ZeroPad left-pads s with zeros to at least n characters.
func ZeroPad(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}

package etax

import "github.com/shopspring/decimal"

var (
	vatNumerator   = decimal.NewFromInt(7)
	vatDenominator = decimal.NewFromInt(107)
)

// VATFromGross computes the VAT share of a tax-inclusive amount, rounded to
// the cent: gross * 7 / 107.
func VATFromGross(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(vatNumerator).Div(vatDenominator).Round(2)
}

// ReconciledLine is one line's monetary split after reconciliation.
// Gross = Basis + VAT holds exactly.
type ReconciledLine struct {
	Gross decimal.Decimal
	VAT   decimal.Decimal
	Basis decimal.Decimal
}

// ReconcileInvoice splits the tax-inclusive gross amounts of one invoice
// group into basis and VAT such that the group's VAT sum equals the VAT
// recomputed from the group's gross total.
//
// Per-line rounding of gross*7/107 does not generally sum to the rounding of
// the total; the cent-level drift is applied in full to the first line of the
// group. The drift is computed up front, then applied while building the
// result slice, so the input order alone decides which line absorbs it.
func ReconcileInvoice(gross []decimal.Decimal) []ReconciledLine {
	if len(gross) == 0 {
		return nil
	}

	total := decimal.Zero
	lineVAT := make([]decimal.Decimal, len(gross))
	vatSum := decimal.Zero
	for i, g := range gross {
		total = total.Add(g)
		lineVAT[i] = VATFromGross(g)
		vatSum = vatSum.Add(lineVAT[i])
	}

	drift := VATFromGross(total).Sub(vatSum)

	lines := make([]ReconciledLine, len(gross))
	for i, g := range gross {
		vat := lineVAT[i]
		if i == 0 {
			vat = vat.Add(drift)
		}
		lines[i] = ReconciledLine{
			Gross: g,
			VAT:   vat,
			Basis: g.Sub(vat),
		}
	}
	return lines
}

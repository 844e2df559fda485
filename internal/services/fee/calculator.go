// Package fee computes platform fees and revenue splits. All arithmetic
// happens in integer cents; decimal currency values exist only at the API
// boundary.
package fee

import (
	"math"

	"pixgate/internal/models"
)

// ToCents converts a decimal currency value to integer cents.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts integer cents back to a decimal currency value.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Fee returns the platform fee for a charge: the greater of the
// percentage-derived amount and the fixed floor, never the sum.
func Fee(amountCents int64, pct float64, minFixedCents int64) int64 {
	pctFee := int64(math.Round(float64(amountCents) * pct / 100))
	if pctFee > minFixedCents {
		return pctFee
	}
	return minFixedCents
}

// Options controls split-line filtering. The authenticated merchant charge
// flow drops a line whose value reaches the charge total; the public and
// partner flows keep it. Both behaviors exist upstream, so the choice is a
// flag rather than a silent pick.
type Options struct {
	DropAtOrAboveTotal bool
}

// Split is one computed split line. Destination is always the partner's
// PIX key: partners without a subaccount still receive splits.
type Split struct {
	PixKey string
	Value  int64
}

// Splits computes split lines for the active partners, preserving partner
// order. Lines with value <= 0 are dropped. No validation that the sum of
// splits stays under the amount is done here; the provider rejects
// over-allocation.
func Splits(partners []models.SplitPartner, amountCents int64, opts Options) []Split {
	var out []Split
	for _, p := range partners {
		if p.Status != models.PartnerStatusActive {
			continue
		}
		value := splitValue(p, amountCents)
		if value <= 0 {
			continue
		}
		if opts.DropAtOrAboveTotal && value >= amountCents {
			continue
		}
		out = append(out, Split{PixKey: p.PixKey, Value: value})
	}
	return out
}

// PartnerCommission returns the partner's cut of a transaction's net
// amount. The balance engine recomputes this on read; it is never stored.
func PartnerCommission(p models.SplitPartner, netAmountCents int64) int64 {
	v := splitValue(p, netAmountCents)
	if v < 0 {
		return 0
	}
	return v
}

func splitValue(p models.SplitPartner, amountCents int64) int64 {
	switch p.SplitType {
	case models.SplitTypePercentage:
		return int64(math.Round(float64(amountCents) * p.SplitValue / 100))
	case models.SplitTypeFixed:
		return int64(math.Round(p.SplitValue * 100))
	default:
		return 0
	}
}

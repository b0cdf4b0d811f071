// Package zakat computes the yearly wealth levy on net assets above the Nisab.
package zakat

import "math"

const (
	// NisabThreshold is the minimum net assets, in PKR, at which zakat becomes due.
	NisabThreshold = 180_000.0
	// Rate is the share of net assets due once the threshold is met.
	Rate = 0.025
)

type Input struct {
	Cash           float64
	BankBalance    float64
	Gold           float64
	Silver         float64
	Investments    float64
	BusinessAssets float64
	Loans          float64
}

// TotalAssets sums every asset field. Loans are not part of it.
func (in Input) TotalAssets() float64 {
	return in.Cash + in.BankBalance + in.Gold + in.Silver + in.Investments + in.BusinessAssets
}

type Result struct {
	TotalAssets    float64
	Loans          float64
	NetAssets      float64
	NisabThreshold float64
	ZakatDue       float64
	IsEligible     bool
}

// Finite reports whether every amount in r is a real number. Inputs near the
// float64 limit overflow to infinity when summed.
func (r Result) Finite() bool {
	for _, v := range []float64{r.TotalAssets, r.Loans, r.NetAssets, r.ZakatDue} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Calculate never fails. Net assets are not floored, so loans larger than
// assets give a negative NetAssets and no zakat.
func Calculate(in Input) Result {
	totalAssets := in.TotalAssets()
	netAssets := totalAssets - in.Loans

	result := Result{
		TotalAssets:    totalAssets,
		Loans:          in.Loans,
		NetAssets:      netAssets,
		NisabThreshold: NisabThreshold,
	}

	if netAssets >= NisabThreshold {
		result.IsEligible = true
		result.ZakatDue = netAssets * Rate
	}

	return result
}

// Compute is Calculate with positional arguments.
func Compute(cash, bankBalance, gold, silver, investments, businessAssets, loans float64) Result {
	return Calculate(Input{
		Cash:           cash,
		BankBalance:    bankBalance,
		Gold:           gold,
		Silver:         silver,
		Investments:    investments,
		BusinessAssets: businessAssets,
		Loans:          loans,
	})
}

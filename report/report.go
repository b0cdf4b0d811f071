// Package report renders calculation results as plain text for the terminal.
// Amounts are rounded half away from zero to two decimals.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/AnnaCarter465/zakat-tax/tax"
	"github.com/AnnaCarter465/zakat-tax/zakat"
	"github.com/shopspring/decimal"
)

func amount(v float64) string {
	return "PKR " + decimal.NewFromFloat(v).StringFixed(2)
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

func Zakat(w io.Writer, r zakat.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "========== ZAKAT CALCULATION ==========")
	fmt.Fprintf(tw, "Total Assets:\t%s\n", amount(r.TotalAssets))
	fmt.Fprintf(tw, "Loans:\t%s\n", amount(r.Loans))
	fmt.Fprintf(tw, "Net Assets:\t%s\n", amount(r.NetAssets))
	fmt.Fprintf(tw, "Nisab Threshold:\t%s\n", amount(r.NisabThreshold))
	fmt.Fprintln(tw, "---------------------------------------")

	if r.IsEligible {
		fmt.Fprintf(tw, "Status:\tELIGIBLE\n")
		fmt.Fprintf(tw, "Zakat Due (%s):\t%s\n", percent(zakat.Rate*100), amount(r.ZakatDue))
	} else {
		fmt.Fprintf(tw, "Status:\tNOT ELIGIBLE\n")
		fmt.Fprintf(tw, "Zakat Due:\t%s\n", amount(0))
	}

	return tw.Flush()
}

func Tax(w io.Writer, r tax.Result, statements []tax.TaxStatement) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "========== TAX CALCULATION ==========")
	fmt.Fprintf(tw, "Total Income:\t%s\n", amount(r.TotalIncome))
	fmt.Fprintf(tw, "Tax Due:\t%s\n", amount(r.TaxDue))
	fmt.Fprintf(tw, "Net Income:\t%s\n", amount(r.NetIncome))
	fmt.Fprintf(tw, "Effective Rate:\t%s\n", percent(r.EffectiveRate))

	if len(statements) > 0 {
		fmt.Fprintln(tw, "---------------------------------------")
		fmt.Fprintln(tw, "Slab\tRate\tTaxable\tTax")

		for _, s := range statements {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Rate.Label, percent(s.Rate.Percentage*100), amount(s.Taxable), amount(s.Tax))
		}
	}

	return tw.Flush()
}

func Slabs(w io.Writer, brackets []tax.Bracket) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Slab\tRate\tFixed Tax")

	for _, b := range brackets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Label, percent(b.Percentage*100), amount(b.Base))
	}

	return tw.Flush()
}

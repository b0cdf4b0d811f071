package main

import (
	"errors"
	"fmt"

	"github.com/AnnaCarter465/zakat-tax/calculator"
	"github.com/AnnaCarter465/zakat-tax/report"
	"github.com/AnnaCarter465/zakat-tax/tax"
	"github.com/AnnaCarter465/zakat-tax/zakat"
	"github.com/spf13/cobra"
)

var errAmountOutOfRange = errors.New("amount out of range")

func zakatCmd() *cobra.Command {
	var in zakat.Input

	cmd := &cobra.Command{
		Use:   "zakat",
		Short: "Calculate zakat on net assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result := calculator.New(nil).Zakat(in)
			if !result.Finite() {
				return fmt.Errorf("zakat: %w", errAmountOutOfRange)
			}

			return report.Zakat(cmd.OutOrStdout(), result)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&in.Cash, "cash", 0, "cash in hand (PKR)")
	flags.Float64Var(&in.BankBalance, "bank-balance", 0, "bank balance (PKR)")
	flags.Float64Var(&in.Gold, "gold", 0, "value of gold (PKR)")
	flags.Float64Var(&in.Silver, "silver", 0, "value of silver (PKR)")
	flags.Float64Var(&in.Investments, "investments", 0, "investments (PKR)")
	flags.Float64Var(&in.BusinessAssets, "business-assets", 0, "business assets (PKR)")
	flags.Float64Var(&in.Loans, "loans", 0, "outstanding loans (PKR)")

	return cmd
}

func taxCmd() *cobra.Command {
	var in tax.Input

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Calculate income tax for 2024-25",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc := calculator.New(nil)
			result := calc.Tax(in)
			if !result.Finite() {
				return fmt.Errorf("tax: %w", errAmountOutOfRange)
			}

			return report.Tax(cmd.OutOrStdout(), result, calc.TaxStatements(result.TotalIncome))
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&in.Salary, "salary", 0, "salary income (PKR)")
	flags.Float64Var(&in.Business, "business", 0, "business income (PKR)")
	flags.Float64Var(&in.CapitalGains, "capital-gains", 0, "capital gains (PKR)")
	flags.Float64Var(&in.Property, "property", 0, "property income (PKR)")
	flags.Float64Var(&in.Other, "other", 0, "other income (PKR)")

	return cmd
}

func slabsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slabs",
		Short: "List the income tax slabs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report.Slabs(cmd.OutOrStdout(), calculator.New(nil).Brackets())
		},
	}
}

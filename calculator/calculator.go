// Package calculator puts the zakat and income tax formulas behind one
// interface so hosts and tests can swap the implementation.
package calculator

import (
	"github.com/AnnaCarter465/zakat-tax/tax"
	"github.com/AnnaCarter465/zakat-tax/zakat"
)

type Calculator interface {
	Zakat(in zakat.Input) zakat.Result
	Tax(in tax.Input) tax.Result
	TaxStatements(income float64) []tax.TaxStatement
	Brackets() []tax.Bracket
}

// Engine is the Calculator used by every host. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	schedule *tax.Schedule
}

var _ Calculator = (*Engine)(nil)

// New uses the 2024-25 schedule when schedule is nil.
func New(schedule *tax.Schedule) *Engine {
	if schedule == nil {
		schedule = tax.Default()
	}

	return &Engine{schedule: schedule}
}

func (e *Engine) Zakat(in zakat.Input) zakat.Result {
	return zakat.Calculate(in)
}

func (e *Engine) Tax(in tax.Input) tax.Result {
	return e.schedule.Calculate(in)
}

func (e *Engine) TaxStatements(income float64) []tax.TaxStatement {
	return e.schedule.Statements(income)
}

func (e *Engine) Brackets() []tax.Bracket {
	return e.schedule.Brackets()
}

package handler

import (
	"github.com/AnnaCarter465/zakat-tax/tax"
	"github.com/AnnaCarter465/zakat-tax/zakat"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
)

type CalculatorMock struct {
	mock.Mock
}

func (o *CalculatorMock) Zakat(in zakat.Input) zakat.Result {
	args := o.Called(in)
	return args.Get(0).(zakat.Result)
}

func (o *CalculatorMock) Tax(in tax.Input) tax.Result {
	args := o.Called(in)
	return args.Get(0).(tax.Result)
}

func (o *CalculatorMock) TaxStatements(income float64) []tax.TaxStatement {
	args := o.Called(income)
	return args.Get(0).([]tax.TaxStatement)
}

func (o *CalculatorMock) Brackets() []tax.Bracket {
	args := o.Called()
	return args.Get(0).([]tax.Bracket)
}

type MockSetting struct {
	Args    []interface{}
	Returns []interface{}
}

func nullLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

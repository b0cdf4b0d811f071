package handler

import (
	"encoding/csv"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/AnnaCarter465/zakat-tax/calculator"
	"github.com/AnnaCarter465/zakat-tax/metrics"
	"github.com/AnnaCarter465/zakat-tax/tax"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// TaxRequest fields left out of the body count as zero.
type TaxRequest struct {
	SalaryIncome   float64 `json:"salaryIncome" validate:"number,gte=0"`
	BusinessIncome float64 `json:"businessIncome" validate:"number,gte=0"`
	CapitalGains   float64 `json:"capitalGains" validate:"number,gte=0"`
	PropertyIncome float64 `json:"propertyIncome" validate:"number,gte=0"`
	OtherIncome    float64 `json:"otherIncome" validate:"number,gte=0"`
}

type TaxResponse struct {
	TotalIncome   float64    `json:"totalIncome"`
	TaxDue        float64    `json:"taxDue"`
	NetIncome     float64    `json:"netIncome"`
	EffectiveRate float64    `json:"effectiveRate"`
	TaxLevel      []TaxLevel `json:"taxLevel"`
}

type TaxLevel struct {
	Level string  `json:"level"`
	Rate  float64 `json:"rate"`
	Tax   float64 `json:"tax"`
}

type TaxCSV struct {
	TotalIncome   float64 `json:"totalIncome"`
	TaxDue        float64 `json:"taxDue"`
	NetIncome     float64 `json:"netIncome"`
	EffectiveRate float64 `json:"effectiveRate"`
}

type TaxCSVResponse struct {
	Taxes []TaxCSV `json:"taxes"`
}

type Slab struct {
	Level string   `json:"level"`
	Rate  float64  `json:"rate"`
	Lower float64  `json:"lower"`
	Max   *float64 `json:"max"`
	Base  float64  `json:"base"`
}

type SlabsResponse struct {
	Slabs []Slab `json:"slabs"`
}

var csvHeader = []string{"salaryIncome", "businessIncome", "capitalGains", "propertyIncome", "otherIncome"}

type TaxHandler struct {
	vl   *validator.Validate
	calc calculator.Calculator
	log  logrus.FieldLogger
}

func NewTaxHandler(vl *validator.Validate, calc calculator.Calculator, log logrus.FieldLogger) *TaxHandler {
	return &TaxHandler{vl, calc, log}
}

// compute reports false when the amounts overflow and cannot be encoded.
func (t *TaxHandler) compute(in tax.Input) (tax.Result, bool) {
	result := t.calc.Tax(in)
	if !result.Finite() {
		t.log.Warn("Tax amounts overflowed")
		return result, false
	}

	metrics.ObserveTax(t.calc.Brackets(), result)

	return result, true
}

func (t *TaxHandler) CalculateTax(c echo.Context) error {
	var req TaxRequest

	if err := c.Bind(&req); err != nil {
		t.log.WithError(err).Warn("Failed to bind tax request")
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := t.vl.Struct(req); err != nil {
		t.log.WithError(err).Warn("Invalid tax request")
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	result, ok := t.compute(tax.Input{
		Salary:       req.SalaryIncome,
		Business:     req.BusinessIncome,
		CapitalGains: req.CapitalGains,
		Property:     req.PropertyIncome,
		Other:        req.OtherIncome,
	})
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Amount too large",
		})
	}

	var levels []TaxLevel

	for _, s := range t.calc.TaxStatements(result.TotalIncome) {
		levels = append(levels, TaxLevel{
			Level: s.Rate.Label,
			Rate:  s.Rate.Percentage * 100,
			Tax:   s.Tax,
		})
	}

	t.log.WithFields(logrus.Fields{
		"totalIncome": result.TotalIncome,
		"taxDue":      result.TaxDue,
	}).Debug("Calculated tax")

	return c.JSON(http.StatusOK, &TaxResponse{
		TotalIncome:   result.TotalIncome,
		TaxDue:        result.TaxDue,
		NetIncome:     result.NetIncome,
		EffectiveRate: result.EffectiveRate,
		TaxLevel:      levels,
	})
}

// parseAmount reads a blank cell as zero.
func parseAmount(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, true
	}

	amount, err := strconv.ParseFloat(cell, 64)
	if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}

	return amount, true
}

func (t *TaxHandler) CalculateTaxWithCSV(c echo.Context) error {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), "text/csv") {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Unacceptable content, require CSV content",
		})
	}

	rows, err := csv.NewReader(c.Request().Body).ReadAll()
	if err != nil {
		t.log.WithError(err).Warn("Failed to read csv")
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request, might not be csv format",
		})
	}

	if len(rows) == 0 {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Wrong csv content, no content",
		})
	}

	if len(rows) == 1 {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Wrong csv content, should have more than 1 row due to it is header",
		})
	}

	var inputs []tax.Input

	for i, row := range rows {
		if len(row) != len(csvHeader) {
			return c.JSON(http.StatusBadRequest, ResponseMsg{
				Message: "Wrong csv column length",
			})
		}

		if i == 0 {
			for j, name := range csvHeader {
				if strings.TrimSpace(row[j]) != name {
					return c.JSON(http.StatusBadRequest, ResponseMsg{
						Message: "Wrong csv header",
					})
				}
			}

			continue
		}

		var amounts [5]float64

		for j := range amounts {
			amount, ok := parseAmount(row[j])
			if !ok {
				return c.JSON(http.StatusBadRequest, ResponseMsg{
					Message: "Invalid " + csvHeader[j] + " amount at row " + strconv.Itoa(i),
				})
			}

			amounts[j] = amount
		}

		inputs = append(inputs, tax.Input{
			Salary:       amounts[0],
			Business:     amounts[1],
			CapitalGains: amounts[2],
			Property:     amounts[3],
			Other:        amounts[4],
		})
	}

	taxes := make([]TaxCSV, 0, len(inputs))

	for i, in := range inputs {
		result, ok := t.compute(in)
		if !ok {
			return c.JSON(http.StatusBadRequest, ResponseMsg{
				Message: "Amount too large at row " + strconv.Itoa(i+1),
			})
		}

		taxes = append(taxes, TaxCSV{
			TotalIncome:   result.TotalIncome,
			TaxDue:        result.TaxDue,
			NetIncome:     result.NetIncome,
			EffectiveRate: result.EffectiveRate,
		})
	}

	return c.JSON(http.StatusOK, &TaxCSVResponse{
		Taxes: taxes,
	})
}

func (t *TaxHandler) ListSlabs(c echo.Context) error {
	var slabs []Slab

	for _, b := range t.calc.Brackets() {
		slab := Slab{
			Level: b.Label,
			Rate:  b.Percentage * 100,
			Lower: b.Lower,
			Base:  b.Base,
		}

		if b.Max != tax.Unbounded {
			maxAmount := b.Max
			slab.Max = &maxAmount
		}

		slabs = append(slabs, slab)
	}

	return c.JSON(http.StatusOK, &SlabsResponse{
		Slabs: slabs,
	})
}

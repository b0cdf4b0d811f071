package handler

import (
	"net/http"

	"github.com/AnnaCarter465/zakat-tax/calculator"
	"github.com/AnnaCarter465/zakat-tax/metrics"
	"github.com/AnnaCarter465/zakat-tax/zakat"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ZakatRequest fields left out of the body count as zero.
type ZakatRequest struct {
	Cash           float64 `json:"cash" validate:"number,gte=0"`
	BankBalance    float64 `json:"bankBalance" validate:"number,gte=0"`
	Gold           float64 `json:"gold" validate:"number,gte=0"`
	Silver         float64 `json:"silver" validate:"number,gte=0"`
	Investments    float64 `json:"investments" validate:"number,gte=0"`
	BusinessAssets float64 `json:"businessAssets" validate:"number,gte=0"`
	Loans          float64 `json:"loans" validate:"number,gte=0"`
}

type ZakatResponse struct {
	TotalAssets    float64 `json:"totalAssets"`
	Loans          float64 `json:"loans"`
	NetAssets      float64 `json:"netAssets"`
	NisabThreshold float64 `json:"nisabThreshold"`
	ZakatDue       float64 `json:"zakatDue"`
	IsEligible     bool    `json:"isEligible"`
}

type ZakatHandler struct {
	vl   *validator.Validate
	calc calculator.Calculator
	log  logrus.FieldLogger
}

func NewZakatHandler(vl *validator.Validate, calc calculator.Calculator, log logrus.FieldLogger) *ZakatHandler {
	return &ZakatHandler{vl, calc, log}
}

func (z *ZakatHandler) CalculateZakat(c echo.Context) error {
	var req ZakatRequest

	if err := c.Bind(&req); err != nil {
		z.log.WithError(err).Warn("Failed to bind zakat request")
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := z.vl.Struct(req); err != nil {
		z.log.WithError(err).Warn("Invalid zakat request")
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	result := z.calc.Zakat(zakat.Input{
		Cash:           req.Cash,
		BankBalance:    req.BankBalance,
		Gold:           req.Gold,
		Silver:         req.Silver,
		Investments:    req.Investments,
		BusinessAssets: req.BusinessAssets,
		Loans:          req.Loans,
	})

	if !result.Finite() {
		z.log.Warn("Zakat amounts overflowed")
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Amount too large",
		})
	}

	metrics.ObserveZakat(result)

	z.log.WithFields(logrus.Fields{
		"netAssets":  result.NetAssets,
		"isEligible": result.IsEligible,
	}).Debug("Calculated zakat")

	return c.JSON(http.StatusOK, &ZakatResponse{
		TotalAssets:    result.TotalAssets,
		Loans:          result.Loans,
		NetAssets:      result.NetAssets,
		NisabThreshold: result.NisabThreshold,
		ZakatDue:       result.ZakatDue,
		IsEligible:     result.IsEligible,
	})
}

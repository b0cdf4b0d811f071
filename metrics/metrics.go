package metrics

import (
	"strconv"
	"time"

	"github.com/AnnaCarter465/zakat-tax/tax"
	"github.com/AnnaCarter465/zakat-tax/zakat"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zakat_tax_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zakat_tax_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})

	zakatCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zakat_calculations_total",
		Help: "Zakat calculations, labeled by eligibility",
	}, []string{"eligible"})

	taxCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tax_calculations_total",
		Help: "Income tax calculations, labeled by the slab the total income fell in",
	}, []string{"slab"})
)

func ObserveZakat(r zakat.Result) {
	zakatCalculations.WithLabelValues(strconv.FormatBool(r.IsEligible)).Inc()
}

// ObserveTax counts r under the label of the slab its total income falls in.
func ObserveTax(brackets []tax.Bracket, r tax.Result) {
	taxCalculations.WithLabelValues(SlabLabel(brackets, r.TotalIncome)).Inc()
}

func SlabLabel(brackets []tax.Bracket, income float64) string {
	b, ok := tax.Find(brackets, income)
	if !ok {
		return "unknown"
	}

	return b.Label
}

// Middleware records request count and latency, labeled by route path.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			method := c.Request().Method
			endpoint := c.Path()

			httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(c.Response().Status)).Inc()

			return nil
		}
	}
}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

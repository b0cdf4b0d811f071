package tax

import (
	"errors"
	"fmt"
	"math"
)

// Unbounded is the Max of the top rate.
const Unbounded = -1

var ErrInvalidSchedule = errors.New("invalid tax schedule")

type Rate struct {
	Percentage float64
	Max        float64
	Label      string
}

// Pakistan2024 is the salaried income tax slab table for tax year 2024-25.
var Pakistan2024 = []Rate{
	{Percentage: 0, Max: 600_000, Label: "Up to PKR 600,000"},
	{Percentage: 0.05, Max: 1_200_000, Label: "PKR 600,001 - 1,200,000"},
	{Percentage: 0.15, Max: 2_400_000, Label: "PKR 1,200,001 - 2,400,000"},
	{Percentage: 0.25, Max: 3_600_000, Label: "PKR 2,400,001 - 3,600,000"},
	{Percentage: 0.30, Max: 6_000_000, Label: "PKR 3,600,001 - 6,000,000"},
	{Percentage: 0.35, Max: Unbounded, Label: "Above PKR 6,000,000"},
}

type Bracket struct {
	Rate
	Lower float64
	// Base is the tax owed on the whole of every lower bracket.
	Base float64
}

func (b Bracket) unbounded() bool {
	return b.Max == Unbounded
}

type Schedule struct {
	brackets []Bracket
}

func NewSchedule(rates []Rate) (*Schedule, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: no rates", ErrInvalidSchedule)
	}

	brackets := make([]Bracket, 0, len(rates))

	var lower, base float64

	for i, rate := range rates {
		if rate.Percentage < 0 || rate.Percentage > 1 {
			return nil, fmt.Errorf("%w: rate %d has percentage %v", ErrInvalidSchedule, i, rate.Percentage)
		}

		last := i == len(rates)-1

		if rate.Max == Unbounded {
			if !last {
				return nil, fmt.Errorf("%w: unbounded rate %d is not the last one", ErrInvalidSchedule, i)
			}
		} else {
			if last {
				return nil, fmt.Errorf("%w: last rate must be unbounded", ErrInvalidSchedule)
			}

			if rate.Max <= lower {
				return nil, fmt.Errorf("%w: rate %d max %v is not above %v", ErrInvalidSchedule, i, rate.Max, lower)
			}
		}

		brackets = append(brackets, Bracket{
			Rate:  rate,
			Lower: lower,
			Base:  base,
		})

		if !last {
			base += (rate.Max - lower) * rate.Percentage
			lower = rate.Max
		}
	}

	return &Schedule{brackets: brackets}, nil
}

// MustSchedule is NewSchedule for tables known to be valid.
func MustSchedule(rates []Rate) *Schedule {
	s, err := NewSchedule(rates)
	if err != nil {
		panic(err)
	}

	return s
}

var defaultSchedule = MustSchedule(Pakistan2024)

func Default() *Schedule {
	return defaultSchedule
}

func (s *Schedule) Brackets() []Bracket {
	out := make([]Bracket, len(s.brackets))
	copy(out, s.brackets)

	return out
}

// Find returns the first bracket, in ascending order, whose Max is not below
// income. It reports false only when brackets has no unbounded top.
func Find(brackets []Bracket, income float64) (Bracket, bool) {
	for _, b := range brackets {
		if b.unbounded() || income <= b.Max {
			return b, true
		}
	}

	return Bracket{}, false
}

func (s *Schedule) TaxDue(income float64) float64 {
	b, _ := Find(s.brackets, income)

	return b.Base + (income-b.Lower)*b.Percentage
}

type TaxStatement struct {
	Rate    Rate
	Taxable float64
	Tax     float64
}

// Statements splits income across every bracket. For non-negative income
// the taxes add up to TaxDue.
func (s *Schedule) Statements(income float64) []TaxStatement {
	ts := make([]TaxStatement, 0, len(s.brackets))

	for _, b := range s.brackets {
		taxable := income - b.Lower

		if !b.unbounded() && taxable > b.Max-b.Lower {
			taxable = b.Max - b.Lower
		}

		if taxable < 0 {
			taxable = 0
		}

		ts = append(ts, TaxStatement{
			Rate:    b.Rate,
			Taxable: taxable,
			Tax:     taxable * b.Percentage,
		})
	}

	return ts
}

type Input struct {
	Salary       float64
	Business     float64
	CapitalGains float64
	Property     float64
	Other        float64
}

func (in Input) Total() float64 {
	return in.Salary + in.Business + in.CapitalGains + in.Property + in.Other
}

type Result struct {
	TotalIncome   float64
	TaxDue        float64
	NetIncome     float64
	EffectiveRate float64
}

func (r Result) Finite() bool {
	for _, v := range []float64{r.TotalIncome, r.TaxDue, r.NetIncome, r.EffectiveRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Calculate has no guard on negative income; it returns whatever the
// bracket formula yields.
func (s *Schedule) Calculate(in Input) Result {
	total := in.Total()
	taxDue := s.TaxDue(total)

	var effectiveRate float64
	if total > 0 {
		effectiveRate = taxDue / total * 100
	}

	return Result{
		TotalIncome:   total,
		TaxDue:        taxDue,
		NetIncome:     total - taxDue,
		EffectiveRate: effectiveRate,
	}
}

// Compute calculates with the 2024-25 schedule.
func Compute(salary, business, capitalGains, property, other float64) Result {
	return defaultSchedule.Calculate(Input{
		Salary:       salary,
		Business:     business,
		CapitalGains: capitalGains,
		Property:     property,
		Other:        other,
	})
}

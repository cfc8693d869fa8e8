// Package roi turns a practice's weekly administrative load into the hours and
// money an AI assistant is expected to save.
package roi

import (
	"math"

	"github.com/AtRiskMedia/praxis/internal/domain/profession"
)

// Contract constants; changing them changes every published estimate.
const (
	WeeksPerMonth = 4.33
	HourlyRate    = 35.0
)

// Input is what the visitor enters in the calculator.
type Input struct {
	Profession       string  `json:"profession"`
	ClientCount      int     `json:"clients"`
	WeeklyAdminHours float64 `json:"weeklyHours"`
}

// Result is the raw, unrounded output of ComputeSavings.
type Result struct {
	HoursSavedPerWeek float64 `json:"hoursSavedPerWeek"`
	MonthlySavings    float64 `json:"monthlySavings"`
}

// Allocation is the share of saved hours attributed to one area.
type Allocation struct {
	Area  string  `json:"area"`
	Hours float64 `json:"hours"`
}

// Estimate bundles a result with its display strings and breakdown.
type Estimate struct {
	Input        Input        `json:"input"`
	Result       Result       `json:"result"`
	HoursLabel   string       `json:"hoursLabel"`
	SavingsLabel string       `json:"savingsLabel"`
	Breakdown    []Allocation `json:"breakdown"`
}

// Calculator resolves multipliers through a profession registry.
type Calculator struct {
	registry *profession.Registry
}

// NewCalculator creates a calculator over registry.
func NewCalculator(registry *profession.Registry) *Calculator {
	return &Calculator{registry: registry}
}

// ComputeSavings is pure: inputs are not validated and unknown professions use
// profession.DefaultMultiplier.
func (c *Calculator) ComputeSavings(slug string, weeklyAdminHours float64) Result {
	hoursSaved := weeklyAdminHours * c.registry.MultiplierFor(slug)
	return Result{
		HoursSavedPerWeek: hoursSaved,
		MonthlySavings:    hoursSaved * WeeksPerMonth * HourlyRate,
	}
}

// Breakdown splits hoursSaved across the profession's areas, each rounded to 0.1.
func (c *Calculator) Breakdown(slug string, hoursSaved float64) []Allocation {
	weights := c.registry.BreakdownFor(slug)
	out := make([]Allocation, 0, len(weights))
	for _, w := range weights {
		out = append(out, Allocation{Area: w.Area, Hours: RoundHalfUp(hoursSaved*w.Weight, 1)})
	}
	return out
}

// Estimate computes, formats and allocates in one call.
func (c *Calculator) Estimate(in Input, locale string) Estimate {
	res := c.ComputeSavings(in.Profession, in.WeeklyAdminHours)
	return Estimate{
		Input:        in,
		Result:       res,
		HoursLabel:   FormatHours(res.HoursSavedPerWeek, locale),
		SavingsLabel: FormatCurrency(res.MonthlySavings, locale),
		Breakdown:    c.Breakdown(in.Profession, res.HoursSavedPerWeek),
	}
}

// RoundHalfUp rounds x to the given number of decimals, ties away from -inf.
func RoundHalfUp(x float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Floor(x*scale+0.5) / scale
}

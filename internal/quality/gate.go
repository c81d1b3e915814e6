// Package quality decides whether a price series is fit to publish.
package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"StockVault/internal/model"
)

// Rule identifies one quality check.
type Rule string

const (
	RuleCompleteness  Rule = "completeness"
	RuleZeroVolume    Rule = "zero_volume"
	RuleNegativePrice Rule = "negative_price"
	RuleOutlier       Rule = "outlier"
	RuleLowAboveHigh  Rule = "low_above_high"
	RuleCloseInRange  Rule = "close_in_range"
	RuleOpenInRange   Rule = "open_in_range"
)

// outlierFactor multiplies the 99th percentile to form the outlier threshold.
// A crude guard against decimal-shift bugs in the upstream feed, not a
// statistical model.
const outlierFactor = 10

// Failure reports the first violated rule and every date that tripped it.
type Failure struct {
	Rule  Rule
	Field string // set for negative_price and outlier failures
	Dates []string
}

func (f *Failure) Error() string {
	if f.Field != "" {
		return fmt.Sprintf("quality check %s failed for %s on dates: %s",
			f.Rule, f.Field, strings.Join(f.Dates, ", "))
	}
	return fmt.Sprintf("quality check %s failed on dates: %s",
		f.Rule, strings.Join(f.Dates, ", "))
}

// Check runs all quality rules against the series in a fixed order and
// returns the first failure, or nil for a clean series. Each rule scans the
// whole series and reports every offending date; evaluation stops at the
// first rule that fails.
func Check(series *model.PriceSeries) *Failure {
	checks := []func(*model.PriceSeries) *Failure{
		checkCompleteness,
		checkZeroVolume,
		checkNegativePrices,
		checkOutliers,
		checkLowAboveHigh,
		checkCloseInRange,
		checkOpenInRange,
	}
	for _, c := range checks {
		if f := c(series); f != nil {
			return f
		}
	}
	return nil
}

func collectDates(series *model.PriceSeries, bad func(model.PricePoint) bool) []string {
	var dates []string
	for _, p := range series.Points {
		if bad(p) {
			dates = append(dates, p.DateString())
		}
	}
	return dates
}

func checkCompleteness(series *model.PriceSeries) *Failure {
	dates := collectDates(series, func(p model.PricePoint) bool { return len(p.Missing) > 0 })
	if dates == nil {
		return nil
	}
	return &Failure{Rule: RuleCompleteness, Dates: dates}
}

func checkZeroVolume(series *model.PriceSeries) *Failure {
	dates := collectDates(series, func(p model.PricePoint) bool { return p.Volume == 0 })
	if dates == nil {
		return nil
	}
	return &Failure{Rule: RuleZeroVolume, Dates: dates}
}

// priceFields enumerates the four price fields in check order.
var priceFields = []struct {
	name string
	get  func(model.PricePoint) float64
}{
	{"open", func(p model.PricePoint) float64 { return p.Open }},
	{"high", func(p model.PricePoint) float64 { return p.High }},
	{"low", func(p model.PricePoint) float64 { return p.Low }},
	{"close", func(p model.PricePoint) float64 { return p.Close }},
}

func checkNegativePrices(series *model.PriceSeries) *Failure {
	dates := collectDates(series, func(p model.PricePoint) bool {
		return p.Open < 0 || p.High < 0 || p.Low < 0 || p.Close < 0
	})
	if dates == nil {
		return nil
	}
	return &Failure{Rule: RuleNegativePrice, Dates: dates}
}

// checkOutliers flags values above 10x the 99th percentile of their own
// field. Fields are checked independently; the first field with outliers
// fails the series.
func checkOutliers(series *model.PriceSeries) *Failure {
	for _, field := range priceFields {
		values := make([]float64, 0, len(series.Points))
		for _, p := range series.Points {
			values = append(values, field.get(p))
		}
		threshold := percentile(values, 0.99) * outlierFactor
		dates := collectDates(series, func(p model.PricePoint) bool {
			return field.get(p) > threshold
		})
		if dates != nil {
			return &Failure{Rule: RuleOutlier, Field: field.name, Dates: dates}
		}
	}
	return nil
}

func checkLowAboveHigh(series *model.PriceSeries) *Failure {
	dates := collectDates(series, func(p model.PricePoint) bool { return p.Low > p.High })
	if dates == nil {
		return nil
	}
	return &Failure{Rule: RuleLowAboveHigh, Dates: dates}
}

func checkCloseInRange(series *model.PriceSeries) *Failure {
	dates := collectDates(series, func(p model.PricePoint) bool {
		return p.Close > p.High || p.Close < p.Low
	})
	if dates == nil {
		return nil
	}
	return &Failure{Rule: RuleCloseInRange, Dates: dates}
}

func checkOpenInRange(series *model.PriceSeries) *Failure {
	dates := collectDates(series, func(p model.PricePoint) bool {
		return p.Open > p.High || p.Open < p.Low
	})
	if dates == nil {
		return nil
	}
	return &Failure{Rule: RuleOpenInRange, Dates: dates}
}

// percentile computes the q-th percentile (0..1) with linear interpolation
// between the two nearest ranks.
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := q * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

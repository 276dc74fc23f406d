// Package ruleone implements the investing calculations from Phil Town's Rule #1:
// compound growth rates, sticker and margin of safety prices, ROIC and payback time.
//
// Every function is pure. Results that cannot be computed from the inputs are
// reported with ok == false rather than a zero value.
package ruleone

import "math"

const (
	// DefaultHorizonYears is the projection horizon used for EPS and sticker price
	DefaultHorizonYears = 10
	// DefaultRequiredReturn is the minimum acceptable annual rate of return
	DefaultRequiredReturn = 0.15
	// DefaultSafetyFraction is the discount applied to the sticker price
	DefaultSafetyFraction = 0.5
	// MaxPaybackYears caps PaybackTime for inputs that never converge
	MaxPaybackYears = 100
	// PaybackNever is returned by PaybackTime when the investment is never paid back
	PaybackNever = -1
)

// CompoundAnnualGrowthRate returns (end/start)^(1/years) - 1 as a percentage
// rounded to 2 decimals. It is missing when start or years is zero or either
// balance is not a finite number.
//
// When start and end have opposite signs there is no real growth rate. The
// function then falls back to an approximation so that something can be shown:
// a negative start uses (end - 2*start) / -start, a negative end uses
// (start - end) / start. The result is negated whenever end is negative. Treat
// such values as a rough indicator, not as a growth rate.
func CompoundAnnualGrowthRate(start, end float64, years int) (float64, bool) {
	if !finite(start) || !finite(end) {
		return 0, false
	}
	if start == 0 || years == 0 {
		return 0, false
	}

	exponent := 1.0 / float64(years)
	ratio := end / start
	if ratio <= 0 {
		if start < end {
			ratio = (end - 2*start) / -start
		} else {
			ratio = (start - end) / start
		}
	}

	result := Round((math.Pow(ratio, exponent) - 1) * 100)
	if end < 0 {
		result = -result
	}
	return result, true
}

// GrowthRates computes the 1-year, 3-year, 5-year and max-period growth rates
// of a yearly series ordered oldest to newest. Horizons the series is too short
// for are left out, as are rates that cannot be computed. A series with fewer
// than two points has no growth rates.
func GrowthRates(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}
	last := series[n-1]

	var rates []float64
	add := func(start float64, years int) {
		if v, ok := CompoundAnnualGrowthRate(start, last, years); ok {
			rates = append(rates, v)
		}
	}

	add(series[n-2], 1)
	if n >= 4 {
		add(series[n-4], 3)
	}
	if n >= 6 {
		add(series[n-6], 5)
	}
	if n >= 7 {
		add(series[0], n-1)
	}
	return rates
}

// Averages returns the latest value and the 3-year, 5-year and full-period
// averages of a yearly series ordered oldest to newest, rounded to 2 decimals.
func Averages(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}

	out := []float64{Round(series[n-1])}
	if n >= 3 {
		out = append(out, mean(series[n-3:]))
	}
	if n >= 5 {
		out = append(out, mean(series[n-5:]))
	}
	if n >= 6 {
		out = append(out, mean(series))
	}
	return out
}

// FutureEPS projects currentEPS forward by years at growthRate (a fraction).
// This is the Excel FV formula: C * (1 + r)^n.
func FutureEPS(currentEPS, growthRate float64, years int) float64 {
	return currentEPS * math.Pow(1+growthRate, float64(years))
}

// FuturePE returns the conservative future PE: the smaller of the historical
// average PE and twice the growth rate expressed as a percentage.
func FuturePE(growthRate, peLow, peHigh float64) float64 {
	average := (peLow + peHigh) / 2
	doubled := 2 * (growthRate * 100)
	return math.Min(average, doubled)
}

// EstimatedFuturePrice is the projected share price at the end of the horizon.
func EstimatedFuturePrice(futureEPS, futurePE float64) float64 {
	return futureEPS * futurePE
}

// StickerPrice discounts futurePrice back over years at requiredReturn.
// This is the Excel PV formula: FV / (1 + r)^n.
func StickerPrice(futurePrice float64, years int, requiredReturn float64) float64 {
	return futurePrice / math.Pow(1+requiredReturn, float64(years))
}

// MarginOfSafety discounts stickerPrice by safetyFraction.
func MarginOfSafety(stickerPrice, safetyFraction float64) float64 {
	return stickerPrice * (1 - safetyFraction)
}

// MarginOfSafetyPrice chains the Rule #1 formulas with the default horizon,
// required return and safety fraction. It returns the margin of safety price
// and the sticker price, or ok == false when any input is zero or not finite.
func MarginOfSafetyPrice(currentEPS, growthRate, peLow, peHigh float64) (mos, sticker float64, ok bool) {
	for _, v := range []float64{currentEPS, growthRate, peLow, peHigh} {
		if v == 0 || !finite(v) {
			return 0, 0, false
		}
	}

	futureEPS := FutureEPS(currentEPS, growthRate, DefaultHorizonYears)
	futurePE := FuturePE(growthRate, peLow, peHigh)
	futurePrice := EstimatedFuturePrice(futureEPS, futurePE)
	if futurePrice == 0 {
		return 0, 0, false
	}

	sticker = StickerPrice(futurePrice, DefaultHorizonYears, DefaultRequiredReturn)
	return MarginOfSafety(sticker, DefaultSafetyFraction), sticker, true
}

// ROIC is net income over invested capital (equity + long-term debt - cash),
// as a percentage. Zero inputs count as missing.
func ROIC(netIncome, cash, longTermDebt, equity float64) (float64, bool) {
	for _, v := range []float64{netIncome, cash, longTermDebt, equity} {
		if v == 0 || !finite(v) {
			return 0, false
		}
	}

	invested := equity + longTermDebt - cash
	if invested == 0 {
		return 0, false
	}
	return netIncome / invested * 100, true
}

// PaybackTime returns how many years of growing net income it takes to add up
// to marketCap, i.e. to earn back the price of buying the whole company.
// Each year the income grows by growthRate (a fraction) before being added to
// the running total. It returns PaybackNever when income or growth is not
// positive or when MaxPaybackYears pass without paying back.
func PaybackTime(marketCap, netIncome, growthRate float64) int {
	income := netIncome
	total := 0.0
	years := 0

	for total < marketCap {
		if income <= 0 || growthRate <= 0 || years >= MaxPaybackYears {
			return PaybackNever
		}
		income += income * growthRate
		total += income
		years++
	}
	return years
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return Round(sum / float64(len(values)))
}

// Round rounds v to 2 decimals
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

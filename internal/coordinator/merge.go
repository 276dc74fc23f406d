package coordinator

import (
	"fmt"
	"math"

	"stockgood/internal/fetcher"
	"stockgood/internal/providers/msnmoney"
	"stockgood/internal/providers/stockrow"
	"stockgood/internal/providers/yahooanalysis"
	"stockgood/internal/providers/yahooquote"
	"stockgood/internal/report"
	"stockgood/internal/ruleone"
)

// sources holds the record of every provider that answered. A nil field means
// the provider failed or is not configured.
type sources struct {
	msn      *msnmoney.Data
	stockrow *stockrow.Data
	analysis *yahooanalysis.Data
	quote    *yahooquote.Data
}

func collect(results []fetcher.Result) sources {
	var s sources
	for _, res := range results {
		if res.Failed() {
			continue
		}
		switch data := res.Data.(type) {
		case *msnmoney.Data:
			s.msn = data
		case *stockrow.Data:
			s.stockrow = data
		case *yahooanalysis.Data:
			s.analysis = data
		case *yahooquote.Data:
			s.quote = data
		}
	}

	// empty records keep the merge free of nil checks
	if s.msn == nil {
		s.msn = &msnmoney.Data{}
	}
	if s.stockrow == nil {
		s.stockrow = &stockrow.Data{}
	}
	if s.quote == nil {
		s.quote = &yahooquote.Data{}
	}
	return s
}

func merge(symbol string, results []fetcher.Result) *report.Result {
	s := collect(results)
	msn, sr, quote := s.msn, s.stockrow, s.quote

	result := report.New(symbol)

	profile := quote.Profile
	result.Profile = &profile
	result.Address = address(profile)

	result.Name = firstString(msn.DisplayName, quote.LongName)
	result.ShortName = firstString(msn.ShortName, quote.ShortName)
	result.Industry = firstString(msn.Industry, profile.IndustryDisp)

	result.ROIC = report.Bundle(roicAverages(quote.ROICAverage1, quote.ROICAverage3, sr.ROICAverages))
	result.EPS = report.Bundle(sr.EPSGrowthRates)
	result.Sales = report.Bundle(sr.RevenueGrowthRates)
	result.Equity = report.Bundle(sr.EquityGrowthRates)
	result.Cash = report.Bundle(sr.FreeCashFlowGrowthRates)

	result.TotalDebt.Value = sr.TotalDebt
	result.FreeCashFlow.Value = sr.RecentFreeCashFlow
	result.DebtPayoffTime.Value = sr.DebtPayoffTime
	result.DebtEquityRatio.Value = debtEquity(sr.DebtEquityRatio, quote.DebtToEquity)
	result.CurrentPrice.Value = quote.CurrentPrice
	result.AverageVolume.Value = quote.AverageVolume

	growth, ok := growthRate(s.analysis, sr.EquityGrowthRates)
	if !ok {
		return result
	}

	if msn.PELow != nil && msn.PEHigh != nil && quote.TrailingEPS != nil {
		if mos, sticker, ok := ruleone.MarginOfSafetyPrice(*quote.TrailingEPS, growth, *msn.PELow, *msn.PEHigh); ok {
			result.MarginOfSafetyPrice.Value = &mos
			result.StickerPrice.Value = &sticker
		}
	}

	if quote.MarketCap != nil && quote.NetIncome != nil {
		if years := ruleone.PaybackTime(*quote.MarketCap, *quote.NetIncome, growth); years != ruleone.PaybackNever {
			v := float64(years)
			result.PaybackTime.Value = &v
		}
	}

	return result
}

// growthRate is the conservative growth used for valuation: the lesser of the
// analysts' five year estimate and the latest equity growth rate, as a fraction.
func growthRate(analysis *yahooanalysis.Data, equityGrowth []float64) (float64, bool) {
	if analysis == nil || len(equityGrowth) == 0 {
		return 0, false
	}
	rate := math.Min(analysis.FiveYearGrowthRate, equityGrowth[len(equityGrowth)-1])
	return rate / 100, true
}

// roicAverages prefers the 1 and 3 year averages computed from Yahoo statements
// and falls back position by position to StockRow's averages. It stops at the
// first position neither source can fill.
func roicAverages(oneYear, threeYear *float64, fallback []float64) []float64 {
	var out []float64

	for i, primary := range []*float64{oneYear, threeYear} {
		switch {
		case primary != nil:
			out = append(out, *primary)
		case i < len(fallback):
			out = append(out, fallback[i])
		default:
			return out
		}
	}

	for i := 2; i < report.BundleSize && i < len(fallback); i++ {
		out = append(out, fallback[i])
	}
	return out
}

// debtEquity prefers StockRow's ratio and falls back to Yahoo's, which is
// published as a percentage.
func debtEquity(ratio, percent *float64) *float64 {
	if ratio != nil {
		return ratio
	}
	if percent == nil {
		return nil
	}
	v := *percent / 100
	return &v
}

func address(p report.Profile) *string {
	if p.Country == nil || p.City == nil || p.Address1 == nil {
		return nil
	}
	a := fmt.Sprintf("%s %s - %s", *p.Country, *p.City, *p.Address1)
	return &a
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

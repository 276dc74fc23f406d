// Package stockrow fetches yearly fundamentals from StockRow's key stats
// endpoint and derives growth rates, ROIC averages and debt figures from them.
package stockrow

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"

	"stockgood/internal/extract"
	"stockgood/internal/fetcher"
	"stockgood/internal/ruleone"
)

const (
	// Name identifies the provider in results, logs and metrics
	Name = "stockrow"

	DefaultBaseURL = "https://stockrow.com/api/companies"
)

// Row labels as published by StockRow
const (
	labelROIC       = "ROIC"
	labelRevenue    = "Revenue"
	labelEPS        = "Earnings/Sh"
	labelDebtEquity = "Debt to Equity (Q)"
	labelBookValue  = "Book Value/Sh"
	labelFCF        = "FCF"
	labelNetIncome  = "Net Income"
	labelTotalDebt  = "Total Debt"
)

// tickerAliases maps current tickers to the ones StockRow still files them under
var tickerAliases = map[string]string{
	"META": "FB",
}

// Data is the normalized StockRow record. Series are oldest first and growth
// rates are 1, 3, 5 and max year horizons in percent.
type Data struct {
	ROIC         []float64
	ROICAverages []float64

	RevenueGrowthRates []float64
	EPSGrowthRates     []float64

	Equity            []float64
	EquityGrowthRates []float64

	FreeCashFlow            []float64
	FreeCashFlowGrowthRates []float64
	RecentFreeCashFlow      *float64

	DebtEquityRatio   *float64
	TotalDebt         *float64
	DebtPayoffTime    *float64
	LastYearNetIncome *float64
}

// Fetcher fetches key stats for one ticker at a time
type Fetcher struct {
	client *resty.Client
}

// New creates a new StockRow fetcher
func New(baseURL string, opts fetcher.ClientOptions) *Fetcher {
	return &Fetcher{
		client: fetcher.NewHTTPClient(baseURL, opts),
	}
}

// Name implements fetcher.Provider
func (f *Fetcher) Name() string {
	return Name
}

// Fetch implements fetcher.Provider
func (f *Fetcher) Fetch(ctx context.Context, symbol string) fetcher.Result {
	req := f.client.R().SetPathParam("ticker", Ticker(symbol))

	body, ferr := fetcher.Get(ctx, req, "/{ticker}/new_key_stats.json")
	if ferr != nil {
		return fetcher.Failure(Name, ferr)
	}

	doc, ok := extract.Parse(body)
	if !ok || !doc.IsObject() {
		return fetcher.Failure(Name, fetcher.NewProcessingError(fmt.Errorf("key stats for %s are not a JSON object", symbol)))
	}

	return fetcher.Success(Name, parse(doc, symbol))
}

// Ticker returns the symbol StockRow knows a ticker by
func Ticker(symbol string) string {
	if alias, ok := tickerAliases[strings.ToUpper(symbol)]; ok {
		return alias
	}
	return symbol
}

func parse(doc extract.Document, symbol string) *Data {
	rows := extract.Index(doc, "fundamentals.rows", "label")
	for _, path := range []string{"capital_structure.singles", "capital_structure.sparklines"} {
		for label, row := range extract.Index(doc, path, "label") {
			rows[label] = row
		}
	}

	values := func(label string) []float64 {
		row, ok := rows[label]
		if !ok {
			return nil
		}
		return extract.Numbers(row, "values")
	}

	logger := log.With().Str("provider", Name).Str("symbol", symbol).Logger()
	data := &Data{}

	data.ROIC = extract.Percent(values(labelROIC))
	data.ROICAverages = ruleone.Averages(data.ROIC)
	if data.ROICAverages == nil {
		logger.Debug().Msg("no ROIC history")
	}

	data.RevenueGrowthRates = ruleone.GrowthRates(values(labelRevenue))
	data.EPSGrowthRates = ruleone.GrowthRates(values(labelEPS))

	if row, ok := rows[labelDebtEquity]; ok {
		data.DebtEquityRatio = extract.NumberPtr(row, "value")
	}

	data.Equity = values(labelBookValue)
	data.EquityGrowthRates = ruleone.GrowthRates(data.Equity)

	// cash figures are already in USD millions
	data.FreeCashFlow = values(labelFCF)
	data.FreeCashFlowGrowthRates = ruleone.GrowthRates(data.FreeCashFlow)
	data.RecentFreeCashFlow = last(data.FreeCashFlow)

	data.LastYearNetIncome = last(values(labelNetIncome))

	// total debt is only reported alongside the payoff time it feeds
	totalDebt := last(values(labelTotalDebt))
	if totalDebt != nil && data.RecentFreeCashFlow != nil && *data.RecentFreeCashFlow != 0 {
		payoff := *totalDebt / *data.RecentFreeCashFlow
		data.TotalDebt = totalDebt
		data.DebtPayoffTime = &payoff
	} else {
		logger.Debug().Msg("debt payoff time unavailable")
	}

	return data
}

func last(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	return &v
}

// Package yahooquote fetches the company profile, prices and yearly
// statements from the Yahoo Finance quoteSummary API.
package yahooquote

import (
	"context"
	"fmt"
	"strings"

	"resty.dev/v3"

	"stockgood/internal/extract"
	"stockgood/internal/fetcher"
	"stockgood/internal/report"
	"stockgood/internal/ruleone"
)

const (
	// Name identifies the provider in results, logs and metrics
	Name = "yahooquote"

	DefaultBaseURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
)

// Modules are the quoteSummary modules requested for every ticker
var Modules = []string{
	"assetProfile",
	"incomeStatementHistory",
	"balanceSheetHistory",
	"financialData",
	"defaultKeyStatistics",
	"summaryDetail",
	"price",
}

// Data is the normalized quoteSummary record
type Data struct {
	Profile report.Profile

	LongName  *string
	ShortName *string

	CurrentPrice  *float64
	TotalDebt     *float64
	DebtToEquity  *float64 // percent, as published
	TrailingEPS   *float64
	AverageVolume *float64
	MarketCap     *float64

	// NetIncome is the most recent yearly net income
	NetIncome *float64

	// ROICHistory is yearly ROIC in percent, most recent first. It is nil when
	// any year lacks an input.
	ROICHistory  []float64
	ROICAverage1 *float64
	ROICAverage3 *float64
}

// Fetcher reads the quoteSummary of one ticker at a time
type Fetcher struct {
	client *resty.Client
}

// New creates a new quoteSummary fetcher
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
	req := f.client.R().
		SetPathParam("ticker", symbol).
		SetQueryParam("modules", strings.Join(Modules, ","))

	body, ferr := fetcher.Get(ctx, req, "/{ticker}")
	if ferr != nil {
		return fetcher.Failure(Name, ferr)
	}

	doc, ok := extract.Parse(body)
	if !ok {
		return fetcher.Failure(Name, fetcher.NewProcessingError(fmt.Errorf("quote summary for %s is not JSON", symbol)))
	}

	result := doc.Get("quoteSummary.result.0")
	if !result.IsObject() {
		return fetcher.Failure(Name, fetcher.NewNotFoundError("Ticker not found"))
	}

	return fetcher.Success(Name, parse(result))
}

func parse(doc extract.Document) *Data {
	data := &Data{
		Profile: parseProfile(doc.Get("assetProfile")),

		LongName:  extract.StringPtr(doc, "price.longName"),
		ShortName: extract.StringPtr(doc, "price.shortName"),

		CurrentPrice:  extract.NumberPtr(doc, "financialData.currentPrice.raw"),
		TotalDebt:     extract.NumberPtr(doc, "financialData.totalDebt.raw"),
		DebtToEquity:  extract.NumberPtr(doc, "financialData.debtToEquity.raw"),
		TrailingEPS:   extract.NumberPtr(doc, "defaultKeyStatistics.trailingEps.raw"),
		AverageVolume: extract.NumberPtr(doc, "summaryDetail.averageVolume.raw"),
		MarketCap:     extract.NumberPtr(doc, "summaryDetail.marketCap.raw"),
	}
	if data.MarketCap == nil {
		data.MarketCap = extract.NumberPtr(doc, "price.marketCap.raw")
	}

	incomes := doc.Get("incomeStatementHistory.incomeStatementHistory").Array()
	balances := doc.Get("balanceSheetHistory.balanceSheetStatements").Array()

	if len(incomes) > 0 {
		data.NetIncome = extract.NumberPtr(incomes[0], "netIncome.raw")
	}

	data.ROICHistory = roicHistory(incomes, balances)
	data.ROICAverage1 = roicAverage(data.ROICHistory, 1)
	data.ROICAverage3 = roicAverage(data.ROICHistory, 3)

	return data
}

func parseProfile(asset extract.Document) report.Profile {
	p := report.Profile{
		Address1:            extract.StringPtr(asset, "address1"),
		City:                extract.StringPtr(asset, "city"),
		State:               extract.StringPtr(asset, "state"),
		Country:             extract.StringPtr(asset, "country"),
		Website:             extract.StringPtr(asset, "website"),
		IndustryDisp:        extract.StringPtr(asset, "industryDisp"),
		Sector:              extract.StringPtr(asset, "sector"),
		LongBusinessSummary: extract.StringPtr(asset, "longBusinessSummary"),
	}

	if v, ok := extract.Number(asset, "fullTimeEmployees"); ok {
		n := int64(v)
		p.FullTimeEmployees = &n
	}

	for _, officer := range asset.Get("companyOfficers").Array() {
		name, ok := extract.String(officer, "name")
		if !ok {
			continue
		}
		title, _ := extract.String(officer, "title")
		p.CompanyOfficers = append(p.CompanyOfficers, report.Officer{Name: name, Title: title})

		if p.CEO == nil && isCEO(title) {
			p.CEO = &name
		}
	}

	return p
}

func isCEO(title string) bool {
	t := strings.ToLower(title)
	return strings.Contains(t, "ceo") || strings.Contains(t, "chief executive")
}

// roicHistory pairs each income statement with the balance sheet of the same
// year. A year without every input makes the whole history unusable.
func roicHistory(incomes, balances []extract.Document) []float64 {
	if len(incomes) == 0 {
		return nil
	}

	history := make([]float64, 0, len(incomes))
	for i, stmt := range incomes {
		if i >= len(balances) {
			return nil
		}
		netIncome, ok1 := extract.Number(stmt, "netIncome.raw")
		cash, ok2 := extract.Number(balances[i], "cash.raw")
		debt, ok3 := extract.Number(balances[i], "longTermDebt.raw")
		equity, ok4 := extract.Number(balances[i], "totalStockholderEquity.raw")
		if !ok1 || !ok2 || !ok3 || !ok4 {
			return nil
		}

		roic, ok := ruleone.ROIC(netIncome, cash, debt, equity)
		if !ok {
			return nil
		}
		history = append(history, roic)
	}
	return history
}

// roicAverage averages the most recent years of history, rounded to 2 decimals
func roicAverage(history []float64, years int) *float64 {
	if len(history) < years {
		return nil
	}
	sum := 0.0
	for _, v := range history[:years] {
		sum += v
	}
	avg := ruleone.Round(sum / float64(years))
	return &avg
}

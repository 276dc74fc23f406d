// Package msnmoney fetches company names, industry and historical PE ratios
// from the MSN Money finance services.
package msnmoney

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"resty.dev/v3"

	"stockgood/internal/extract"
	"stockgood/internal/fetcher"
)

const (
	// Name identifies the provider in results, logs and metrics
	Name = "msnmoney"

	DefaultLookupURL = "https://services.bingapis.com/contentservices-finance.csautosuggest/api/v1/Query"
	DefaultRatiosURL = "https://services.bingapis.com/contentservices-finance.financedataservice/api/v1/KeyRatios"

	// peYearSpan is how many annual PE ratios must be present to report a range
	peYearSpan = 5
)

// Data is the normalized MSN Money record
type Data struct {
	DisplayName *string
	ShortName   *string
	Industry    *string
	Market      *string
	Symbol      *string
	PELow       *float64
	PEHigh      *float64
}

// Fetcher resolves a ticker to an MSN stock id and then reads its key ratios
type Fetcher struct {
	lookup *resty.Client
	ratios *resty.Client
}

// New creates a new MSN Money fetcher
func New(lookupURL, ratiosURL string, opts fetcher.ClientOptions) *Fetcher {
	return &Fetcher{
		lookup: fetcher.NewHTTPClient(lookupURL, opts),
		ratios: fetcher.NewHTTPClient(ratiosURL, opts),
	}
}

// Name implements fetcher.Provider
func (f *Fetcher) Name() string {
	return Name
}

// Fetch implements fetcher.Provider
func (f *Fetcher) Fetch(ctx context.Context, symbol string) fetcher.Result {
	// Without an id there is nothing to ask the ratios endpoint about
	id, ok := f.stockID(ctx, symbol)
	if !ok {
		return fetcher.Failure(Name, fetcher.NewNotFoundError("Ticker not found"))
	}

	body, ferr := fetcher.Get(ctx, f.ratios.R().SetQueryParam("stockId", id), "")
	if ferr != nil {
		return fetcher.Failure(Name, ferr)
	}

	doc, ok := extract.Parse(body)
	if !ok || !doc.IsObject() {
		return fetcher.Failure(Name, fetcher.NewProcessingError(fmt.Errorf("key ratios for %s are not a JSON object", id)))
	}

	return fetcher.Success(Name, parseRatios(doc))
}

// stockID looks symbol up in the autosuggest service and returns the SecId of
// the stock whose ticker matches exactly.
func (f *Fetcher) stockID(ctx context.Context, symbol string) (string, bool) {
	req := f.lookup.R().SetQueryParams(map[string]string{
		"query":  symbol,
		"market": "en-us",
	})

	body, ferr := fetcher.Get(ctx, req, "")
	if ferr != nil {
		return "", false
	}

	doc, ok := extract.Parse(body)
	if !ok {
		return "", false
	}

	// every suggestion is itself a JSON document encoded as a string
	for _, raw := range doc.Get("data.stocks").Array() {
		if raw.Type != gjson.String {
			continue
		}
		stock, ok := extract.Parse([]byte(raw.Str))
		if !ok {
			continue
		}
		ticker, _ := extract.String(stock, "RT00S")
		if !strings.EqualFold(ticker, symbol) {
			continue
		}
		if id, ok := extract.String(stock, "SecId"); ok {
			return id, true
		}
	}

	return "", false
}

func parseRatios(doc extract.Document) *Data {
	data := &Data{
		DisplayName: extract.StringPtr(doc, "displayName"),
		ShortName:   extract.StringPtr(doc, "shortName"),
		Industry:    extract.StringPtr(doc, "industry"),
		Market:      extract.StringPtr(doc, "market"),
		Symbol:      extract.StringPtr(doc, "symbol"),
	}
	data.PELow, data.PEHigh = peRange(doc)
	return data
}

// peRange returns the lowest and highest of the most recent annual PE ratios.
// Both are missing unless there are at least peYearSpan annual figures.
func peRange(doc extract.Document) (low, high *float64) {
	var ratios []float64
	for _, metric := range doc.Get("companyMetrics").Array() {
		if metric.Get("fiscalPeriodType").String() != "Annual" {
			continue
		}
		if v, ok := extract.Number(metric, "priceToEarningsRatio"); ok {
			ratios = append(ratios, v)
		}
	}

	if len(ratios) < peYearSpan {
		return nil, nil
	}
	recent := ratios[len(ratios)-peYearSpan:]
	lo, hi := slices.Min(recent), slices.Max(recent)
	return &lo, &hi
}

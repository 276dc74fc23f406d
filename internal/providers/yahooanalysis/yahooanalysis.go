// Package yahooanalysis scrapes the analysts' five year growth estimate from
// the Yahoo Finance analysis page.
package yahooanalysis

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"resty.dev/v3"

	"stockgood/internal/extract"
	"stockgood/internal/fetcher"
)

const (
	// Name identifies the provider in results, logs and metrics
	Name = "yahooanalysis"

	DefaultBaseURL = "https://finance.yahoo.com/quote"

	growthHeading = "Next 5 Years (per annum)"
)

// Data is the normalized Yahoo analysis record
type Data struct {
	// FiveYearGrowthRate is the analysts' estimate in percent
	FiveYearGrowthRate float64
}

// Fetcher scrapes one analysis page per ticker
type Fetcher struct {
	client *resty.Client
}

// New creates a new Yahoo analysis fetcher
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
		SetQueryParam("p", symbol).
		SetHeader("Accept", "text/html")

	body, ferr := fetcher.Get(ctx, req, "/{ticker}/analysis")
	if ferr != nil {
		return fetcher.Failure(Name, ferr)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fetcher.Failure(Name, fetcher.NewProcessingError(fmt.Errorf("parse analysis page: %w", err)))
	}

	rate, ok := FiveYearGrowthRate(doc)
	if !ok {
		return fetcher.Failure(Name, fetcher.NewNotFoundError("Could not parse five year growth rate"))
	}

	return fetcher.Success(Name, &Data{FiveYearGrowthRate: rate})
}

// FiveYearGrowthRate walks the page in document order. Once an element whose
// own text is the growth heading is seen, the first later element whose own
// text is a percentage holds the estimate.
func FiveYearGrowthRate(doc *goquery.Document) (float64, bool) {
	var (
		found   bool
		rate    float64
		heading bool
	)

	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := ownText(s.Get(0))
		if !heading {
			heading = text == growthHeading
			return true
		}
		if v, ok := extract.PercentText(text); ok {
			rate, found = v, true
			return false
		}
		return true
	})

	return rate, found
}

// ownText returns the text that opens an element, before any child element
func ownText(n *html.Node) string {
	if n == nil || n.FirstChild == nil || n.FirstChild.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

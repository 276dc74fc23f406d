// Package report holds the unified lookup result returned to callers and the
// rules that grade each value with a color.
package report

// BundleSize is the number of horizons in a growth-rate bundle (1, 3, 5 and max years)
const BundleSize = 4

// Property is a graded value.
type Property struct {
	Value *float64 `json:"value"`
	Color Color    `json:"color"`
}

// NewProperty returns an ungraded property for value.
func NewProperty(value *float64) *Property {
	return &Property{Value: value, Color: ColorGrey}
}

// Officer is a company officer as listed in the profile
type Officer struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// Profile describes the company behind a ticker
type Profile struct {
	Address1            *string   `json:"address1"`
	City                *string   `json:"city"`
	State               *string   `json:"state"`
	Country             *string   `json:"country"`
	Website             *string   `json:"website"`
	IndustryDisp        *string   `json:"industryDisp"`
	Sector              *string   `json:"sector"`
	LongBusinessSummary *string   `json:"longBusinessSummary"`
	FullTimeEmployees   *int64    `json:"fullTimeEmployees"`
	CompanyOfficers     []Officer `json:"companyOfficers"`
	CEO                 *string   `json:"ceo"`
}

// Result is the outcome of a ticker lookup. Either Error is set and every other
// field is nil, or Error is nil and the remaining fields carry whatever the
// providers could supply.
type Result struct {
	Ticker    *string  `json:"ticker"`
	Name      *string  `json:"name"`
	ShortName *string  `json:"shortName"`
	Address   *string  `json:"address"`
	Industry  *string  `json:"industry"`
	Profile   *Profile `json:"profile"`

	ROIC   []*Property `json:"roic"`
	EPS    []*Property `json:"eps"`
	Sales  []*Property `json:"sales"`
	Equity []*Property `json:"equity"`
	Cash   []*Property `json:"cash"`

	TotalDebt           *Property `json:"total_debt"`
	FreeCashFlow        *Property `json:"free_cash_flow"`
	DebtPayoffTime      *Property `json:"debt_payoff_time"`
	DebtEquityRatio     *Property `json:"debt_equity_ratio"`
	MarginOfSafetyPrice *Property `json:"margin_of_safety_price"`
	CurrentPrice        *Property `json:"current_price"`
	StickerPrice        *Property `json:"sticker_price"`
	PaybackTime         *Property `json:"payback_time"`
	AverageVolume       *Property `json:"average_volume"`

	Error *string `json:"error"`
}

// New returns a data result for ticker with every value missing.
func New(ticker string) *Result {
	return &Result{
		Ticker:  &ticker,
		Profile: &Profile{},

		ROIC:   Bundle(nil),
		EPS:    Bundle(nil),
		Sales:  Bundle(nil),
		Equity: Bundle(nil),
		Cash:   Bundle(nil),

		TotalDebt:           NewProperty(nil),
		FreeCashFlow:        NewProperty(nil),
		DebtPayoffTime:      NewProperty(nil),
		DebtEquityRatio:     NewProperty(nil),
		MarginOfSafetyPrice: NewProperty(nil),
		CurrentPrice:        NewProperty(nil),
		StickerPrice:        NewProperty(nil),
		PaybackTime:         NewProperty(nil),
		AverageVolume:       NewProperty(nil),
	}
}

// Failed returns an error result carrying only message.
func Failed(message string) *Result {
	return &Result{Error: &message}
}

// Bundle turns growth rates into properties. Without any rates the bundle is
// BundleSize missing entries so every horizon still renders.
func Bundle(rates []float64) []*Property {
	if len(rates) == 0 {
		props := make([]*Property, BundleSize)
		for i := range props {
			props[i] = NewProperty(nil)
		}
		return props
	}

	props := make([]*Property, len(rates))
	for i := range rates {
		v := rates[i]
		props[i] = NewProperty(&v)
	}
	return props
}

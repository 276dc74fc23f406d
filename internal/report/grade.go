package report

var (
	growthBands          = Bands{0, 5, 10}
	debtEquityBands      = Bands{1, 2, 3}
	debtPayoffBands      = Bands{2, 3, 4}
	paybackBands         = Bands{6, 8, 10}
	minVolume            = 500_000.0
	minVolumePennyStock  = 1_000_000.0
	pennyStockPriceLimit = 1.0
)

// Colour grades every value of a data result. It is a no-op on error results.
func (r *Result) Colour() {
	if r.Error != nil {
		return
	}

	for _, bundle := range [][]*Property{r.ROIC, r.EPS, r.Sales, r.Equity, r.Cash} {
		for _, p := range bundle {
			if p != nil {
				p.Color = Range(p.Value, growthBands)
			}
		}
	}

	r.DebtEquityRatio.Color = ZeroBasedRange(r.DebtEquityRatio.Value, debtEquityBands)
	r.DebtPayoffTime.Color = ZeroBasedRange(r.DebtPayoffTime.Value, debtPayoffBands)
	r.PaybackTime.Color = ZeroBasedRange(r.PaybackTime.Value, paybackBands)
	if p := r.PaybackTime.Value; p != nil && *p == 0 {
		r.PaybackTime.Color = ColorGrey
	}

	mos := r.MarginOfSafetyPrice.Value
	if mos == nil || *mos == 0 {
		r.CurrentPrice.Color = ColorGrey
	} else {
		r.CurrentPrice.Color = ZeroBasedRange(r.CurrentPrice.Value, Bands{*mos, *mos * 1.25, *mos * 1.5})
	}

	if fcf := r.FreeCashFlow.Value; fcf != nil && *fcf < 0 {
		r.DebtPayoffTime.Color = ColorRed
	}

	r.AverageVolume.Color = volumeColor(r.AverageVolume.Value, r.CurrentPrice.Value)

	// raw amounts are informational and never graded
	for _, p := range []*Property{r.MarginOfSafetyPrice, r.StickerPrice, r.TotalDebt, r.FreeCashFlow} {
		p.Color = ColorNone
	}
}

// volumeColor checks the average volume is liquid enough to buy in and sell out
// without moving the price. Penny stocks need twice the volume. A volume of
// zero is red once a price is known.
func volumeColor(volume, price *float64) Color {
	if volume == nil || price == nil {
		return ColorGrey
	}

	limit := minVolume
	if *price <= pennyStockPriceLimit {
		limit = minVolumePennyStock
	}
	if *volume >= limit {
		return ColorGreen
	}
	return ColorRed
}

package domain

import "time"

type AssetPrice struct {
	Symbol string
	Price  float64
	Date   time.Time
}

// ReturnSeries is a date-indexed series of daily returns, oldest first.
// Dates and Values always have equal length.
type ReturnSeries struct {
	Symbol string
	Dates  []time.Time
	Values []float64
}

// ReturnsFromPrices converts an ascending price series into daily simple
// returns. The first price only seeds the series and produces no return.
func ReturnsFromPrices(prices []AssetPrice) ReturnSeries {
	series := ReturnSeries{}
	if len(prices) > 0 {
		series.Symbol = prices[0].Symbol
	}
	for i := 1; i < len(prices); i++ {
		if prices[i-1].Price == 0 {
			continue
		}
		series.Dates = append(series.Dates, prices[i].Date)
		series.Values = append(series.Values, (prices[i].Price-prices[i-1].Price)/prices[i-1].Price)
	}
	return series
}

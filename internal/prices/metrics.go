package prices

import (
	"fmt"
	"math"
	"riskfactors/internal/domain"
	"riskfactors/internal/util"
	"time"

	"github.com/montanaflynn/stats"
)

// ReturnMetrics are the price-derived columns of a symbol's daily metric
// row. Pointers are nil when history doesn't reach back far enough.
type ReturnMetrics struct {
	ClosePrice           float64
	Return1d             *float64
	ReturnMtd            *float64
	ReturnYtd            *float64
	Return1m             *float64
	Return3m             *float64
	Return1y             *float64
	AnnualizedVolatility *float64
}

// ComputeReturnMetrics derives trailing returns from an ascending price
// series. Reference prices are the last trade on or before each anchor
// date, so weekends and holidays resolve to the prior session.
func ComputeReturnMetrics(pricesAsc []domain.AssetPrice, date time.Time) (*ReturnMetrics, error) {
	closeIdx := lastIndexOnOrBefore(pricesAsc, date)
	if closeIdx < 0 {
		return nil, fmt.Errorf("no price on or before %s", date.Format(time.DateOnly))
	}
	closePrice := pricesAsc[closeIdx].Price

	out := &ReturnMetrics{ClosePrice: closePrice}

	if closeIdx > 0 {
		out.Return1d = changeFrom(pricesAsc[closeIdx-1].Price, closePrice)
	}

	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(date.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	anchors := []struct {
		cutoff time.Time
		target **float64
	}{
		{monthStart.AddDate(0, 0, -1), &out.ReturnMtd},
		{yearStart.AddDate(0, 0, -1), &out.ReturnYtd},
		{date.AddDate(0, -1, 0), &out.Return1m},
		{date.AddDate(0, -3, 0), &out.Return3m},
		{date.AddDate(-1, 0, 0), &out.Return1y},
	}
	for _, a := range anchors {
		idx := lastIndexOnOrBefore(pricesAsc, a.cutoff)
		if idx < 0 {
			continue
		}
		*a.target = changeFrom(pricesAsc[idx].Price, closePrice)
	}

	yearAgoIdx := lastIndexOnOrBefore(pricesAsc, date.AddDate(-1, 0, 0))
	if yearAgoIdx < 0 {
		yearAgoIdx = 0
	}
	dailyReturns := domain.ReturnsFromPrices(pricesAsc[yearAgoIdx : closeIdx+1])
	if len(dailyReturns.Values) >= 20 {
		stdev, err := stats.StandardDeviationSample(dailyReturns.Values)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate return stdev: %w", err)
		}
		annualized := stdev * math.Sqrt(252)
		out.AnnualizedVolatility = &annualized
	}

	return out, nil
}

func changeFrom(start, end float64) *float64 {
	if start == 0 {
		return nil
	}
	change := (end - start) / start
	return &change
}

func lastIndexOnOrBefore(pricesAsc []domain.AssetPrice, date time.Time) int {
	for i := len(pricesAsc) - 1; i >= 0; i-- {
		if util.DateLte(pricesAsc[i].Date, date) {
			return i
		}
	}
	return -1
}

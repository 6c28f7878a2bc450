package regression

import (
	"time"

	"riskfactors/internal/domain"
)

// Align intersects the date indexes of all series and returns the shared
// dates plus one value row per input series, in input order. Dates where
// any series is missing are dropped.
func Align(series ...domain.ReturnSeries) ([]time.Time, [][]float64) {
	if len(series) == 0 {
		return nil, nil
	}

	type indexed map[string]float64
	lookups := make([]indexed, len(series))
	for i, s := range series {
		lookups[i] = indexed{}
		for j, d := range s.Dates {
			lookups[i][d.Format(time.DateOnly)] = s.Values[j]
		}
	}

	dates := []time.Time{}
	values := make([][]float64, len(series))
	for j, d := range series[0].Dates {
		key := d.Format(time.DateOnly)
		row := make([]float64, len(series))
		row[0] = series[0].Values[j]
		found := true
		for i := 1; i < len(series); i++ {
			v, ok := lookups[i][key]
			if !ok {
				found = false
				break
			}
			row[i] = v
		}
		if !found {
			continue
		}
		dates = append(dates, d)
		for i := range series {
			values[i] = append(values[i], row[i])
		}
	}

	return dates, values
}

// Spread is the daily return difference between two benchmarks, aligned
// to their shared dates.
func Spread(a, b domain.ReturnSeries) domain.ReturnSeries {
	dates, values := Align(a, b)
	out := domain.ReturnSeries{
		Symbol: a.Symbol + "-" + b.Symbol,
		Dates:  dates,
	}
	for i := range dates {
		out.Values = append(out.Values, values[0][i]-values[1][i])
	}
	return out
}

// Tail keeps the most recent n points of a series.
func Tail(s domain.ReturnSeries, n int) domain.ReturnSeries {
	if len(s.Values) <= n {
		return s
	}
	start := len(s.Values) - n
	return domain.ReturnSeries{
		Symbol: s.Symbol,
		Dates:  s.Dates[start:],
		Values: s.Values[start:],
	}
}

// Package signals provides return-series statistics for market data
package signals

import (
	"time"

	"github.com/bobmcallan/stockdeck/internal/models"
)

// MinBetaPoints is the minimum number of aligned daily returns required
// before a beta estimate is produced.
const MinBetaPoints = 10

// Return is a single day-over-day percentage change keyed by calendar day.
type Return struct {
	Date time.Time
	Pct  float64
}

// DailyReturns computes day-over-day percentage changes of the close column.
// The first bar has no prior-day change and is dropped, as is any bar whose
// previous close is zero. Bars must be ascending by date.
func DailyReturns(bars []models.Bar) []Return {
	if len(bars) < 2 {
		return nil
	}

	returns := make([]Return, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, Return{
			Date: bars[i].Day(),
			Pct:  (bars[i].Close - prev) / prev,
		})
	}
	return returns
}

// AlignReturns inner-joins two return series on date, preserving order.
func AlignReturns(stock, market []Return) (s, m []float64) {
	marketByDay := make(map[time.Time]float64, len(market))
	for _, r := range market {
		marketByDay[r.Date] = r.Pct
	}

	for _, r := range stock {
		if mp, ok := marketByDay[r.Date]; ok {
			s = append(s, r.Pct)
			m = append(m, mp)
		}
	}
	return s, m
}

// Beta estimates the single-factor market beta of a stock against a
// benchmark: sample covariance of the aligned daily returns divided by the
// variance of the benchmark returns. Returns false when fewer than
// MinBetaPoints aligned returns exist or the benchmark variance is zero.
func Beta(stock, market []models.Bar) (float64, bool) {
	s, m := AlignReturns(DailyReturns(stock), DailyReturns(market))
	if len(s) < MinBetaPoints {
		return 0, false
	}

	cov := sampleCovariance(s, m)
	variance := populationVariance(m)
	if variance == 0 {
		return 0, false
	}
	return cov / variance, true
}

// sampleCovariance uses the n-1 denominator.
func sampleCovariance(x, y []float64) float64 {
	n := len(x)
	if n < 2 {
		return 0
	}

	mx := mean(x)
	my := mean(y)
	sum := 0.0
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(n-1)
}

// populationVariance uses the n denominator.
func populationVariance(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	mx := mean(x)
	sum := 0.0
	for _, v := range x {
		d := v - mx
		sum += d * d
	}
	return sum / float64(n)
}

func mean(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

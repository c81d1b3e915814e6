package fetcher

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Mock generates internally-consistent bars for development and testing
// without live credentials. Fixed payloads can be injected per symbol.
type Mock struct {
	Payloads map[string]*RawPayload
	Err      error
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) FetchDaily(_ context.Context, symbol string, size OutputSize) (*RawPayload, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Payloads[symbol]; ok {
		return p, nil
	}
	days := 100
	if size == SizeFull {
		days = 500
	}
	return GeneratePayload(symbol, days, time.Now()), nil
}

// GeneratePayload builds a synthetic daily payload of the given length ending
// at the given day. Every generated bar satisfies the quality gate.
func GeneratePayload(symbol string, days int, end time.Time) *RawPayload {
	rng := rand.New(rand.NewSource(int64(len(symbol)) + end.Unix()))
	series := make(map[string]map[string]string, days)

	price := 100.0
	for i := 0; i < days; i++ {
		date := end.AddDate(0, 0, -i).Format("2006-01-02")
		open := price + rng.Float64()*10 - 5
		if open < 10 {
			open = 10
		}
		high := open * (1 + rng.Float64()*0.05)
		low := open * (1 - rng.Float64()*0.05)
		closing := low + rng.Float64()*(high-low)
		volume := 1000000 + rng.Intn(9000000)
		price = closing

		series[date] = map[string]string{
			"1. open":   fmt.Sprintf("%.4f", open),
			"2. high":   fmt.Sprintf("%.4f", high),
			"3. low":    fmt.Sprintf("%.4f", low),
			"4. close":  fmt.Sprintf("%.4f", closing),
			"5. volume": fmt.Sprintf("%d", volume),
		}
	}

	return &RawPayload{
		MetaData: map[string]string{
			"2. Symbol":         symbol,
			"3. Last Refreshed": end.Format("2006-01-02"),
		},
		TimeSeries: series,
	}
}

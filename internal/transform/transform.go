// Package transform converts raw API payloads into normalized price series
// and serializes series into the published wire formats.
package transform

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"StockVault/internal/fetcher"
	"StockVault/internal/model"
)

// ErrEmptyPayload indicates the response carried no time-series data.
var ErrEmptyPayload = errors.New("empty payload: no time series data")

// BuildSeries converts a raw daily payload into a date-descending series.
// Numeric coercion failures become tracked nulls on the point rather than
// errors, so the quality gate can report them; an unparseable date key is a
// structural error.
func BuildSeries(symbol string, raw *fetcher.RawPayload) (*model.PriceSeries, error) {
	if raw == nil || len(raw.TimeSeries) == 0 {
		return nil, ErrEmptyPayload
	}

	points := make([]model.PricePoint, 0, len(raw.TimeSeries))
	for dateStr, bar := range raw.TimeSeries {
		date, err := time.Parse(model.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse date key %q: %w", dateStr, err)
		}
		p := model.PricePoint{Date: date}
		p.Open = parseFloat(bar["1. open"], "open", &p)
		p.High = parseFloat(bar["2. high"], "high", &p)
		p.Low = parseFloat(bar["3. low"], "low", &p)
		p.Close = parseFloat(bar["4. close"], "close", &p)
		p.Volume = parseInt(bar["5. volume"], "volume", &p)
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.After(points[j].Date) })

	return &model.PriceSeries{Symbol: symbol, Points: points}, nil
}

func parseFloat(s, field string, p *model.PricePoint) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.Missing = append(p.Missing, field)
		return 0
	}
	return v
}

func parseInt(s, field string, p *model.PricePoint) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		p.Missing = append(p.Missing, field)
		return 0
	}
	return v
}

// Records serializes every point of the series, preserving order. The same
// routine backs the latest, full, and daily artifacts so their record shapes
// can never diverge.
func Records(series *model.PriceSeries) []model.Record {
	records := make([]model.Record, len(series.Points))
	for i, p := range series.Points {
		records[i] = model.Record{
			Date:   p.DateString(),
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		}
	}
	return records
}

// FullEnvelope wraps the whole series for the full.json artifact.
func FullEnvelope(series *model.PriceSeries, now time.Time) model.Envelope {
	return model.Envelope{
		Data:        Records(series),
		Symbol:      series.Symbol,
		LastUpdated: now.Format(time.RFC3339),
	}
}

// LatestEnvelope wraps only the most recent point, in the identical shape.
func LatestEnvelope(series *model.PriceSeries, now time.Time) model.Envelope {
	latest := &model.PriceSeries{Symbol: series.Symbol, Points: series.Points[:1]}
	return FullEnvelope(latest, now)
}

// DailyEnvelope wraps the single point at index i, in the identical shape.
func DailyEnvelope(series *model.PriceSeries, i int, now time.Time) model.Envelope {
	day := &model.PriceSeries{Symbol: series.Symbol, Points: series.Points[i : i+1]}
	return FullEnvelope(day, now)
}

// SeriesFromRecords rebuilds a series from its record form. Inverse of
// Records for any series that passed the quality gate.
func SeriesFromRecords(symbol string, records []model.Record) (*model.PriceSeries, error) {
	points := make([]model.PricePoint, len(records))
	for i, r := range records {
		date, err := time.Parse(model.DateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("parse record date %q: %w", r.Date, err)
		}
		points[i] = model.PricePoint{
			Date:   date,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		}
	}
	return &model.PriceSeries{Symbol: symbol, Points: points}, nil
}

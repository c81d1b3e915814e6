package model

import "time"

// DateLayout is the calendar-date format used across storage keys and records.
const DateLayout = "2006-01-02"

// PricePoint represents one trading day's OHLCV bar.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64

	// Missing lists field names that could not be parsed from the raw
	// payload. A point with missing fields never survives the quality gate.
	Missing []string
}

// DateString returns the bar's date in YYYY-MM-DD form.
func (p PricePoint) DateString() string {
	return p.Date.Format(DateLayout)
}

// PriceSeries holds one symbol's bars, ordered by date descending.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// Len returns the number of points in the series.
func (s *PriceSeries) Len() int { return len(s.Points) }

// Latest returns the most recent point. The series must be non-empty.
func (s *PriceSeries) Latest() PricePoint { return s.Points[0] }

// DateRange returns the oldest and newest dates in the series.
func (s *PriceSeries) DateRange() (start, end time.Time) {
	if len(s.Points) == 0 {
		return time.Time{}, time.Time{}
	}
	return s.Points[len(s.Points)-1].Date, s.Points[0].Date
}

package model

import "time"

// Record is the wire shape shared by the latest, full, and daily artifacts.
type Record struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Envelope wraps a record list the way every published JSON artifact is shaped.
type Envelope struct {
	Data        []Record `json:"data"`
	Symbol      string   `json:"symbol"`
	LastUpdated string   `json:"last_updated"`
}

// SeriesMetadata is a redundant, overwritable summary of a published series.
// It is recomputed from the current series on every run and is never the
// source of truth.
type SeriesMetadata struct {
	Symbol      string    `json:"symbol"`
	LastUpdated string    `json:"last_updated"`
	LatestDate  string    `json:"latest_date"`
	DataPoints  int       `json:"data_points"`
	DateRange   DateRange `json:"date_range"`
}

// DateRange bounds a series by calendar date.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewSeriesMetadata derives metadata from a series at the given wall-clock time.
func NewSeriesMetadata(s *PriceSeries, now time.Time) SeriesMetadata {
	start, end := s.DateRange()
	return SeriesMetadata{
		Symbol:      s.Symbol,
		LastUpdated: now.Format(time.RFC3339),
		LatestDate:  end.Format(DateLayout),
		DataPoints:  s.Len(),
		DateRange: DateRange{
			Start: start.Format(DateLayout),
			End:   end.Format(DateLayout),
		},
	}
}

package transform

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"StockVault/internal/fetcher"
	"StockVault/internal/model"
)

func payloadWith(bars map[string]map[string]string) *fetcher.RawPayload {
	return &fetcher.RawPayload{
		MetaData:   map[string]string{"2. Symbol": "NVDA"},
		TimeSeries: bars,
	}
}

func TestBuildSeries_OrdersDateDescending(t *testing.T) {
	raw := payloadWith(map[string]map[string]string{
		"2024-06-03": {"1. open": "100", "2. high": "105", "3. low": "99", "4. close": "104", "5. volume": "1000"},
		"2024-06-05": {"1. open": "104", "2. high": "110", "3. low": "103", "4. close": "108", "5. volume": "2000"},
		"2024-06-04": {"1. open": "102", "2. high": "106", "3. low": "101", "4. close": "105", "5. volume": "1500"},
	})

	series, err := BuildSeries("NVDA", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("expected 3 points, got %d", series.Len())
	}
	want := []string{"2024-06-05", "2024-06-04", "2024-06-03"}
	for i, p := range series.Points {
		if p.DateString() != want[i] {
			t.Errorf("point %d: expected date %s, got %s", i, want[i], p.DateString())
		}
	}
	latest := series.Latest()
	if latest.Close != 108 || latest.Volume != 2000 {
		t.Errorf("unexpected latest point: %+v", latest)
	}
}

func TestBuildSeries_EmptyPayload(t *testing.T) {
	for _, raw := range []*fetcher.RawPayload{
		nil,
		payloadWith(nil),
		payloadWith(map[string]map[string]string{}),
	} {
		if _, err := BuildSeries("NVDA", raw); !errors.Is(err, ErrEmptyPayload) {
			t.Errorf("expected ErrEmptyPayload, got %v", err)
		}
	}
}

func TestBuildSeries_CoercionFailureBecomesNull(t *testing.T) {
	raw := payloadWith(map[string]map[string]string{
		"2024-06-03": {"1. open": "100", "2. high": "not-a-number", "3. low": "99", "4. close": "104", "5. volume": "abc"},
	})

	series, err := BuildSeries("NVDA", raw)
	if err != nil {
		t.Fatalf("coercion failures must not error: %v", err)
	}
	p := series.Points[0]
	if !reflect.DeepEqual(p.Missing, []string{"high", "volume"}) {
		t.Errorf("expected missing fields [high volume], got %v", p.Missing)
	}
	if p.Open != 100 || p.Close != 104 {
		t.Errorf("parseable fields must survive: %+v", p)
	}
}

func TestBuildSeries_BadDateKeyIsStructuralError(t *testing.T) {
	raw := payloadWith(map[string]map[string]string{
		"not-a-date": {"1. open": "100", "2. high": "105", "3. low": "99", "4. close": "104", "5. volume": "1000"},
	})
	if _, err := BuildSeries("NVDA", raw); err == nil {
		t.Fatal("expected error for unparseable date key")
	}
}

func TestRecords_RoundTrip(t *testing.T) {
	raw := payloadWith(map[string]map[string]string{
		"2024-06-03": {"1. open": "100.5", "2. high": "105.25", "3. low": "99.75", "4. close": "104.125", "5. volume": "1000"},
		"2024-06-04": {"1. open": "104.125", "2. high": "110", "3. low": "103", "4. close": "108", "5. volume": "2000"},
	})
	series, err := BuildSeries("NVDA", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	back, err := SeriesFromRecords("NVDA", Records(series))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Symbol != series.Symbol || back.Len() != series.Len() {
		t.Fatalf("round trip changed shape: %+v", back)
	}
	for i := range series.Points {
		got, want := back.Points[i], series.Points[i]
		if !got.Date.Equal(want.Date) || got.Open != want.Open || got.High != want.High ||
			got.Low != want.Low || got.Close != want.Close || got.Volume != want.Volume {
			t.Errorf("point %d changed in round trip: got %+v, want %+v", i, got, want)
		}
	}
}

func TestEnvelopes_ShareRecordShape(t *testing.T) {
	raw := payloadWith(map[string]map[string]string{
		"2024-06-03": {"1. open": "100", "2. high": "105", "3. low": "99", "4. close": "104", "5. volume": "1000"},
		"2024-06-04": {"1. open": "104", "2. high": "110", "3. low": "103", "4. close": "108", "5. volume": "2000"},
	})
	series, _ := BuildSeries("NVDA", raw)
	now := time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)

	full := FullEnvelope(series, now)
	latest := LatestEnvelope(series, now)

	if len(full.Data) != 2 || len(latest.Data) != 1 {
		t.Fatalf("unexpected envelope sizes: full=%d latest=%d", len(full.Data), len(latest.Data))
	}
	// The latest artifact is the head slice of the full artifact.
	if !reflect.DeepEqual(latest.Data[0], full.Data[0]) {
		t.Errorf("latest record diverged from full: %+v vs %+v", latest.Data[0], full.Data[0])
	}
	if full.Symbol != "NVDA" || latest.Symbol != "NVDA" {
		t.Error("envelopes must carry the symbol")
	}
	if full.LastUpdated != now.Format(time.RFC3339) {
		t.Errorf("unexpected last_updated: %s", full.LastUpdated)
	}
}

func TestCSV(t *testing.T) {
	series := &model.PriceSeries{
		Symbol: "NVDA",
		Points: []model.PricePoint{
			{Date: time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), Open: 104, High: 110, Low: 103, Close: 108, Volume: 2000},
			{Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Open: 100.5, High: 105, Low: 99, Close: 104, Volume: 1000},
		},
	}
	text, err := CSV(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "date,open,high,low,close,volume" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[2] != "2024-06-03,100.5,105,99,104,1000" {
		t.Errorf("unexpected row: %s", lines[2])
	}
}

package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestValidatePayload(t *testing.T) {
	good := GeneratePayload("NVDA", 3, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	if err := validatePayload(good); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	tests := []struct {
		name    string
		payload *RawPayload
	}{
		{"missing time series key", &RawPayload{MetaData: map[string]string{}}},
		{"renamed field", &RawPayload{TimeSeries: map[string]map[string]string{
			"2024-06-03": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. adjusted volume": "1"},
		}}},
		{"extra field", &RawPayload{TimeSeries: map[string]map[string]string{
			"2024-06-03": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1", "6. split": "1"},
		}}},
	}
	for _, tt := range tests {
		if err := validatePayload(tt.payload); !errors.Is(err, ErrSchemaChanged) {
			t.Errorf("%s: expected ErrSchemaChanged, got %v", tt.name, err)
		}
	}
}

func TestValidatePayload_EmptySeriesIsNotSchemaError(t *testing.T) {
	// A present-but-empty series is an empty payload, handled downstream.
	p := &RawPayload{TimeSeries: map[string]map[string]string{}}
	if err := validatePayload(p); err != nil {
		t.Errorf("empty series must pass schema validation, got %v", err)
	}
}

func TestFetchDaily(t *testing.T) {
	payload := GeneratePayload("NVDA", 5, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"function":   r.URL.Query().Get("function"),
			"symbol":     r.URL.Query().Get("symbol"),
			"outputsize": r.URL.Query().Get("outputsize"),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := NewAlphaVantage(srv.URL, "test-key", 5*time.Second, 0, zerolog.Nop())
	got, err := client.FetchDaily(context.Background(), "NVDA", SizeCompact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.TimeSeries) != 5 {
		t.Errorf("expected 5 bars, got %d", len(got.TimeSeries))
	}
	if gotQuery["function"] != "TIME_SERIES_DAILY" || gotQuery["symbol"] != "NVDA" || gotQuery["outputsize"] != "compact" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}
}

func TestFetchDaily_SchemaMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Information": "rate limit note"}`))
	}))
	defer srv.Close()

	client := NewAlphaVantage(srv.URL, "test-key", 5*time.Second, 0, zerolog.Nop())
	_, err := client.FetchDaily(context.Background(), "NVDA", SizeCompact)
	if !errors.Is(err, ErrSchemaChanged) {
		t.Fatalf("expected ErrSchemaChanged, got %v", err)
	}
}

func TestFetchDaily_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewAlphaVantage(srv.URL, "test-key", 5*time.Second, 0, zerolog.Nop())
	if _, err := client.FetchDaily(context.Background(), "NVDA", SizeCompact); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestGeneratePayload_IsInternallyConsistent(t *testing.T) {
	p := GeneratePayload("NVDA", 200, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	if len(p.TimeSeries) != 200 {
		t.Fatalf("expected 200 bars, got %d", len(p.TimeSeries))
	}
	for date, bar := range p.TimeSeries {
		for _, field := range expectedFields {
			if bar[field] == "" {
				t.Fatalf("bar %s missing field %s", date, field)
			}
		}
	}
}

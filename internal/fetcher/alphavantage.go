package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrSchemaChanged indicates the API response shape no longer matches the
// expected field set. Never retried: a schema mismatch will not fix itself.
var ErrSchemaChanged = errors.New("api response schema changed")

// expectedFields is the field set every daily bar must carry.
var expectedFields = []string{"1. open", "2. high", "3. low", "4. close", "5. volume"}

// AlphaVantage fetches daily series from the Alpha Vantage REST API with
// exponential backoff for transient failures.
type AlphaVantage struct {
	baseURL string
	apiKey  string
	http    *resty.Client
	log     zerolog.Logger
}

// NewAlphaVantage builds a client with the given request timeout and retry
// budget. Retries apply only to transport errors and 5xx/429 responses.
func NewAlphaVantage(baseURL, apiKey string, timeout time.Duration, maxRetries int, log zerolog.Logger) *AlphaVantage {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(maxRetries).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(30 * time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= http.StatusInternalServerError ||
				r.StatusCode() == http.StatusTooManyRequests
		})

	return &AlphaVantage{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    client,
		log:     log.With().Str("component", "alphavantage").Logger(),
	}
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

// FetchDaily retrieves the daily series for one symbol and validates the
// response shape before handing it downstream.
func (a *AlphaVantage) FetchDaily(ctx context.Context, symbol string, size OutputSize) (*RawPayload, error) {
	var payload RawPayload
	resp, err := a.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   "TIME_SERIES_DAILY",
			"symbol":     symbol,
			"apikey":     a.apiKey,
			"outputsize": string(size),
			"datatype":   "json",
		}).
		SetResult(&payload).
		Get(a.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch %s: status %d, body: %s", symbol, resp.StatusCode(), resp.String())
	}

	if err := validatePayload(&payload); err != nil {
		a.log.Error().Str("symbol", symbol).Err(err).Msg("response validation failed")
		return nil, err
	}
	return &payload, nil
}

// validatePayload checks that the time-series key exists and that a sample
// bar carries exactly the expected field set.
func validatePayload(p *RawPayload) error {
	if p.TimeSeries == nil {
		return fmt.Errorf("%w: daily time series key not found", ErrSchemaChanged)
	}
	for _, bar := range p.TimeSeries {
		if len(bar) != len(expectedFields) {
			return fmt.Errorf("%w: expected %d fields per bar, got %d", ErrSchemaChanged, len(expectedFields), len(bar))
		}
		for _, field := range expectedFields {
			if _, ok := bar[field]; !ok {
				return fmt.Errorf("%w: field %q not found", ErrSchemaChanged, field)
			}
		}
		break // one sample bar is enough
	}
	return nil
}

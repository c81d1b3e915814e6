package fetcher

import "context"

// OutputSize selects how much history a fetch returns.
type OutputSize string

const (
	// SizeCompact returns roughly the latest 100 trading days.
	SizeCompact OutputSize = "compact"
	// SizeFull returns up to ~20 years of history.
	SizeFull OutputSize = "full"
)

// RawPayload is the provider's response shape, parsed at the API boundary.
// Bar fields arrive keyed by numbered field names ("1. open" .. "5. volume")
// with string values; the transform layer converts them to typed points.
type RawPayload struct {
	MetaData   map[string]string            `json:"Meta Data"`
	TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`
}

// Client fetches daily bar series for one symbol. Implementations own their
// retry policy; a returned error means retries are already exhausted.
type Client interface {
	FetchDaily(ctx context.Context, symbol string, size OutputSize) (*RawPayload, error)
	Name() string
}

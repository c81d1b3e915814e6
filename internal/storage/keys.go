package storage

import "fmt"

// Key derivation is pure: the same inputs always yield the same key, which
// is what makes every overwrite idempotent.

// LatestKey returns the key of the single most-recent bar artifact.
func LatestKey(prefix, symbol string) string {
	return fmt.Sprintf("%s/%s/latest.json", prefix, symbol)
}

// FullKey returns the key of the whole-series artifact.
func FullKey(prefix, symbol string) string {
	return fmt.Sprintf("%s/%s/full.json", prefix, symbol)
}

// FullCSVKey returns the key of the whole-series CSV artifact.
func FullCSVKey(prefix, symbol string) string {
	return fmt.Sprintf("%s/%s/full.csv", prefix, symbol)
}

// MetadataKey returns the key of the derived metadata artifact.
func MetadataKey(prefix, symbol string) string {
	return fmt.Sprintf("%s/%s/metadata.json", prefix, symbol)
}

// DailyKey returns the key of one day's artifact. The date must already be
// in YYYY-MM-DD form.
func DailyKey(prefix, symbol, date string) string {
	return fmt.Sprintf("%s/%s/daily/%s.json", prefix, symbol, date)
}

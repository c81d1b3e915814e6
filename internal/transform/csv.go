package transform

import (
	"encoding/csv"
	"strconv"
	"strings"

	"StockVault/internal/model"
)

// CSV renders the series as flat CSV text with a header row, preserving
// series order.
func CSV(series *model.PriceSeries) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"date", "open", "high", "low", "close", "volume"}); err != nil {
		return "", err
	}
	for _, p := range series.Points {
		row := []string{
			p.DateString(),
			strconv.FormatFloat(p.Open, 'f', -1, 64),
			strconv.FormatFloat(p.High, 'f', -1, 64),
			strconv.FormatFloat(p.Low, 'f', -1, 64),
			strconv.FormatFloat(p.Close, 'f', -1, 64),
			strconv.FormatInt(p.Volume, 10),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}

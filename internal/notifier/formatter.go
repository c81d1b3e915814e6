package notifier

import (
	"fmt"
	"strings"

	"StockVault/internal/model"
)

// FormatRunReport renders the aggregate summary that accompanies the single
// end-of-run notification.
func FormatRunReport(summary *model.RunSummary) string {
	success, warning, failure := summary.Counts()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Mode: %s\n", summary.Mode))
	b.WriteString(fmt.Sprintf("Started: %s\n", summary.StartedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Elapsed: %.2fs\n", summary.Elapsed.Seconds()))
	b.WriteString(fmt.Sprintf("Success: %d | Warning: %d | Failure: %d\n\n", success, warning, failure))

	b.WriteString("Results by symbol:\n")
	for _, res := range summary.Results {
		line := fmt.Sprintf("  %s: %s", res.Symbol, res.Outcome)
		if res.Reason != "" {
			line += " (" + res.Reason + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RunMessage returns the notification level and headline for a finished run.
func RunMessage(summary *model.RunSummary) (Level, string) {
	if summary.Failed() {
		_, _, failures := summary.Counts()
		return LevelWarning, fmt.Sprintf("Stock data fetch completed with %d failures", failures)
	}
	return LevelSuccess, "Stock data fetch completed successfully"
}

package recorder

import "StockVault/internal/model"

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(summary *model.RunSummary) error
	Close() error
}

// Noop is used when no run-history database is configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) RecordRun(*model.RunSummary) error { return nil }
func (*Noop) Close() error                      { return nil }

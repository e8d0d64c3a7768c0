package recorder

import "TradeTrends/internal/model"

// DefaultRecentLimit is used when RecentRuns gets a non-positive limit.
const DefaultRecentLimit = 20

// Recorder journals pipeline runs for later inspection.
type Recorder interface {
	RecordRun(rec *model.RunRecord) error
	RecentRuns(limit int) ([]model.RunRecord, error)
	Close() error
}

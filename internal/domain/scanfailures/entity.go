package scanfailures

import "time"

// Stage of the pipeline where the scan degraded
type Stage string

const (
	StageClassify Stage = "classify" // remote call failed
	StageExtract  Stage = "extract"  // reply could not be parsed
)

// Failure is a persisted audit entry for a degraded scan. The scan itself
// still completes; this row only records why its analysis fell back.
type Failure struct {
	ID        int64     `json:"id"`
	ScanID    int64     `json:"scan_id"`
	UserID    string    `json:"user_id"`
	Stage     Stage     `json:"stage"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

package model

import "time"

// ActivityAction identifies what kind of operation a log entry records.
type ActivityAction string

// Activity action constants.
const (
	ActionScan    ActivityAction = "scan"
	ActionRename  ActivityAction = "rename"
	ActionMove    ActivityAction = "move"
	ActionDelete  ActivityAction = "delete"
	ActionConsult ActivityAction = "consult"
	ActionRefine  ActivityAction = "refine"
)

// ActivityStatus indicates the outcome of a logged operation.
type ActivityStatus string

// Activity status constants.
const (
	StatusSuccess ActivityStatus = "success"
	StatusFailed  ActivityStatus = "failed"
	StatusPending ActivityStatus = "pending"
)

// ActivityLogEntry is an immutable, append-only record of one action taken
// by the tool. Entries are retrieved newest-first.
type ActivityLogEntry struct {
	Timestamp time.Time
	ID        string
	Action    ActivityAction
	Details   string
	Status    ActivityStatus
}

// AppStats holds the cumulative counters shown on the dashboard. Loaded once
// at startup, mutated after every completed reorganization cycle, persisted
// on every mutation.
type AppStats struct {
	AIInsights     []DashboardInsight `json:"aiInsights"`
	FilesAnalyzed  int64              `json:"filesAnalyzed"`
	JunkFound      int64              `json:"junkFound"`
	SpaceAnalyzed  int64              `json:"spaceAnalyzed"` // bytes
	FoldersCreated int64              `json:"foldersCreated"`
}

// ExecutionSummary reports the outcome of one reorganization pass.
type ExecutionSummary struct {
	FilesMoved     int
	JunkMoved      int
	FoldersCreated int // distinct non-root target folders touched
	Failed         int
}

package models

import "time"

const (
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusFailed  = "FAILED"
)

// Invocation is one ledger row.
type Invocation struct {
	ID          string     `json:"id"`
	Function    string     `json:"function"`
	Status      string     `json:"status"`
	TriggerName string     `json:"trigger_name,omitempty"`
	Provider    string     `json:"provider,omitempty"`
	Container   string     `json:"container,omitempty"`
	BlobName    string     `json:"blob_name,omitempty"`
	Size        int64      `json:"size"`
	ErrorCode   string     `json:"error_code,omitempty"`
	ErrorText   string     `json:"error_text,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

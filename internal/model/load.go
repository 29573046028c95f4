package model

import "time"

// LoadStatus tracks the outcome of one dataset ingest.
type LoadStatus string

const (
	LoadStatusCompleted LoadStatus = "completed"
	LoadStatusFailed    LoadStatus = "failed"
)

// DatasetLoad is the provenance ledger entry written for each file on every
// ingest run: which file, its fingerprint at load time, how many rows it
// held, and how the integrity check judged them.
type DatasetLoad struct {
	ID          string     `json:"id"`
	File        string     `json:"file"`
	Fingerprint string     `json:"fingerprint"`
	Rows        int        `json:"rows"`
	Errors      int        `json:"errors"`
	Warnings    int        `json:"warnings"`
	Infos       int        `json:"infos"`
	Status      LoadStatus `json:"status"`
	Message     string     `json:"message,omitempty"`
	LoadedAt    time.Time  `json:"loaded_at"`
}

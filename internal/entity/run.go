package entity

import (
	"time"

	"github.com/google/uuid"
)

// Run represents one validation run in the journal.
type Run struct {
	ID           uuid.UUID  `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	State        string     `json:"state"`
	InvoiceFiles int        `json:"invoice_files"`
	InvoiceItems int        `json:"invoice_items"`
	MatchedItems int        `json:"matched_items"`
	Note         *string    `json:"note,omitempty"`
}

// RunStats are the counters stamped on a run when it finishes.
type RunStats struct {
	InvoiceFiles int `json:"invoice_files"`
	InvoiceItems int `json:"invoice_items"`
	MatchedItems int `json:"matched_items"`
}

package submission

import (
	"context"

	"github.com/s0up4200/reviewqueue/airtable"
)

// API defines the review operations served to the UI and CLI
type API interface {
	// List returns all submissions matching the options
	List(ctx context.Context, opts ListOptions) ([]Record, error)

	// Get returns the submission at a position of the configured view
	Get(ctx context.Context, index int) (*Record, error)

	// Next returns the first submission accepted by the next-record filter
	Next(ctx context.Context) (*Record, error)

	// Record returns one submission by ID
	Record(ctx context.Context, id airtable.RecordID) (*Record, error)

	// SetStatus patches the review status of a submission
	SetStatus(ctx context.Context, id airtable.RecordID, status string) (*Record, error)
}

var _ API = (*Service)(nil)

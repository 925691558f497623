package submission

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/reviewqueue/airtable"
	"github.com/s0up4200/reviewqueue/filter"
)

// Options configures a Service
type Options struct {
	Base  string
	Table string
	View  string

	// Typecast is sent with every status patch
	Typecast bool

	// MaxRecords caps every list; 0 means unlimited
	MaxRecords int

	// NextFilter selects the record served by Next; nil accepts every record
	NextFilter filter.CompiledFilter
}

// ListOptions narrows a List call. Zero values fall back to the service defaults.
type ListOptions struct {
	View          string
	Formula       string
	SortField     string
	SortDirection airtable.Direction
	Fields        []string
	MaxRecords    int
}

// Service serves the review queue from an Airtable table. Every call is a
// fresh round trip; nothing is cached between calls.
type Service struct {
	client *airtable.Client
	opts   Options
	logger zerolog.Logger
}

// NewService creates a review service on top of an Airtable client
func NewService(client *airtable.Client, opts Options, logger zerolog.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("airtable client is required")
	}
	if opts.Base == "" {
		return nil, fmt.Errorf("airtable base is required")
	}
	if opts.Table == "" {
		return nil, fmt.Errorf("airtable table is required")
	}
	if opts.MaxRecords < 0 {
		return nil, fmt.Errorf("max records must not be negative: %d", opts.MaxRecords)
	}
	if opts.NextFilter == nil {
		opts.NextFilter = filter.MatchAll()
	}

	return &Service{
		client: client,
		opts:   opts,
		logger: logger.With().Str("component", "submission").Logger(),
	}, nil
}

// query builds the list query for opts on top of the service defaults
func (s *Service) query(opts ListOptions) airtable.ListRecords {
	q := airtable.NewListRecords(s.opts.Base, s.opts.Table)

	view := s.opts.View
	if opts.View != "" {
		view = opts.View
	}
	if view != "" {
		q = q.WithView(view)
	}
	if opts.Formula != "" {
		q = q.WithFilterByFormula(opts.Formula)
	}
	if opts.SortField != "" {
		q = q.WithSort(opts.SortField, opts.SortDirection)
	}
	if len(opts.Fields) > 0 {
		q = q.WithFields(opts.Fields...)
	}

	limit := s.opts.MaxRecords
	if opts.MaxRecords > 0 && (limit == 0 || opts.MaxRecords < limit) {
		limit = opts.MaxRecords
	}
	if limit > 0 {
		q = q.WithMaxRecords(limit)
	}
	return q
}

// List returns all submissions matching opts in server order
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	records, err := airtable.List[Fields](ctx, s.client, s.query(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	s.logger.Debug().Int("count", len(records)).Msg("Listed submissions")
	return records, nil
}

// Get returns the submission at index in view order. Only the records up to
// index are fetched.
func (s *Service) Get(ctx context.Context, index int) (*Record, error) {
	// index+1 becomes the record cap and must not overflow
	if index < 0 || index == math.MaxInt {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	records, err := s.List(ctx, ListOptions{MaxRecords: index + 1})
	if err != nil {
		return nil, err
	}
	if index >= len(records) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(records))
	}
	return &records[index], nil
}

// Next returns the first submission in view order accepted by the
// configured next filter
func (s *Service) Next(ctx context.Context) (*Record, error) {
	records, err := s.List(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}

	i := filter.First(s.opts.NextFilter, subjects(records))
	if i < 0 {
		s.logger.Debug().
			Str("filter", s.opts.NextFilter.Expression()).
			Int("scanned", len(records)).
			Msg("No submission matched the next filter")
		return nil, ErrNoPendingSubmission
	}
	return &records[i], nil
}

// Record returns one submission by ID
func (s *Service) Record(ctx context.Context, id airtable.RecordID) (*Record, error) {
	rec, err := airtable.GetRecord[Fields](ctx, s.client, s.opts.Base, s.opts.Table, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission %s: %w", id, err)
	}
	return rec, nil
}

// SetStatus writes a new review status and returns the updated submission
func (s *Service) SetStatus(ctx context.Context, id airtable.RecordID, status string) (*Record, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrInvalidStatus
	}

	rec, err := airtable.UpdateRecord[Fields](ctx, s.client, s.opts.Base, s.opts.Table, id, statusPatch{Status: status}, s.opts.Typecast)
	if err != nil {
		return nil, fmt.Errorf("failed to set status of submission %s: %w", id, err)
	}

	s.logger.Info().
		Str("record", string(rec.ID)).
		Str("status", rec.Fields.Status).
		Msg("Updated submission status")
	return rec, nil
}

package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reviewqueue/airtable"
	"github.com/s0up4200/reviewqueue/config"
	"github.com/s0up4200/reviewqueue/submission"
)

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			setupLogger(config.LoggingConfig{Level: tt.level, Format: "json"})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestSubmissionRows(t *testing.T) {
	records := []submission.Record{
		{
			ID:          "rec1",
			CreatedTime: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			Fields: submission.Fields{
				Name:         "Space Invaders but it is a very long project name",
				Status:       "2-Approved",
				OS:           "linux",
				Architecture: "x86_64",
				Hours:        7.5,
				RepoURL:      "https://github.com/a/b",
			},
		},
		{ID: "rec2"},
	}

	rows := submissionRows(records, false)
	assert.Equal(t, []string{"id", "name", "status", "os", "hours", "repo", "created"}, rows.Header())
	require.Len(t, rows.Rows(), 2)

	first := rows.Rows()[0]
	assert.Equal(t, "rec1", first[0])
	assert.Len(t, []rune(first[1]), 32)
	assert.Equal(t, "2-Approved", first[2])
	assert.Equal(t, "linux x86_64", first[3])
	assert.Equal(t, "7.5", first[4])
	assert.Equal(t, "2024-05-01", first[6])

	second := rows.Rows()[1]
	assert.Equal(t, "", second[3])
	assert.Equal(t, "", second[4])
}

type lookupAPI struct {
	submission.API
	gotIndex int
	gotID    airtable.RecordID
}

func (l *lookupAPI) Get(_ context.Context, index int) (*submission.Record, error) {
	l.gotIndex = index
	return &submission.Record{ID: "byIndex"}, nil
}

func (l *lookupAPI) Record(_ context.Context, id airtable.RecordID) (*submission.Record, error) {
	l.gotID = id
	if id == "recMissing" {
		return nil, &airtable.APIError{StatusCode: 404}
	}
	return &submission.Record{ID: id}, nil
}

func TestLookup(t *testing.T) {
	api := &lookupAPI{gotIndex: -1}
	ctx := context.Background()

	rec, err := lookup(ctx, api, "3")
	require.NoError(t, err)
	assert.Equal(t, 3, api.gotIndex)
	assert.Equal(t, airtable.RecordID("byIndex"), rec.ID)

	rec, err = lookup(ctx, api, "recXYZ")
	require.NoError(t, err)
	assert.Equal(t, airtable.RecordID("recXYZ"), rec.ID)

	_, err = lookup(ctx, api, "recMissing")
	var apiErr *airtable.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "2024-06-01")
	defer SetVersion("dev", "unknown")

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "reviewqueue 1.2.3 (built 2024-06-01")
}

package bulkimport

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	saved  []map[string]string
	failOn string
	onSave func(saves int)
}

func (s *fakeSink) Save(_ context.Context, fields map[string]string) error {
	if s.failOn != "" && fields["Name"] == s.failOn {
		return errors.New("duplicate product")
	}
	s.saved = append(s.saved, fields)
	if s.onSave != nil {
		s.onSave(len(s.saved))
	}
	return nil
}

func commitLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func processedRows() []ProcessedRow {
	return []ProcessedRow{
		{RowNumber: 2, Status: RowValid, Fields: map[string]string{"Name": "Panadol"}},
		{RowNumber: 3, Status: RowError, Error: "Manufacturer is required"},
		{RowNumber: 4, Status: RowWarning, Fields: map[string]string{"Name": "Brufen"}},
		{RowNumber: 5, Status: RowValid, Fields: map[string]string{"Name": "Rivo"}},
	}
}

func TestCommitSkipsErrorRows(t *testing.T) {
	sink := &fakeSink{}
	committer := NewCommitter(sink, 0, commitLog())

	summary, err := committer.Commit(context.Background(), processedRows(), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Warnings)
	assert.Equal(t, []CommitError{
		{RowNumber: 3, Message: "Manufacturer is required"},
	}, summary.Errors)

	require.Len(t, sink.saved, 3)
	assert.Equal(t, "Panadol", sink.saved[0]["Name"])
}

func TestCommitReportsSinkFailures(t *testing.T) {
	sink := &fakeSink{failOn: "Brufen"}
	committer := NewCommitter(sink, 0, commitLog())

	summary, err := committer.Commit(context.Background(), processedRows(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 0, summary.Warnings, "failed warning rows do not count as warnings")
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, 4, summary.Errors[1].RowNumber)
	assert.Equal(t, "duplicate product", summary.Errors[1].Message)
}

func TestCommitProgressReachesFull(t *testing.T) {
	sink := &fakeSink{}
	committer := NewCommitter(sink, 0, commitLog())

	var reported []float64
	_, err := committer.Commit(context.Background(), processedRows(), func(percent float64) {
		reported = append(reported, percent)
	})
	require.NoError(t, err)

	require.Len(t, reported, 3, "progress fires once per eligible row")
	assert.InDelta(t, 100, reported[len(reported)-1], 0.001)
	for i := 1; i < len(reported); i++ {
		assert.Greater(t, reported[i], reported[i-1])
	}
}

func TestCommitCancelledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	sink := &fakeSink{onSave: func(saves int) {
		if saves == 2 {
			cancel()
		}
	}}
	committer := NewCommitter(sink, 0, commitLog())

	summary, err := committer.Commit(ctx, processedRows(), nil)
	assert.ErrorIs(t, err, context.Canceled)

	// The partial tally covers everything committed before the cancel.
	assert.Equal(t, 2, summary.Successful)
	assert.Len(t, sink.saved, 2)
}

func TestCommitEmptyRows(t *testing.T) {
	committer := NewCommitter(&fakeSink{}, 0, commitLog())

	summary, err := committer.Commit(context.Background(), nil, func(float64) {
		t.Fatal("progress should not fire with no rows")
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

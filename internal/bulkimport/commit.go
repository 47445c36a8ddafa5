package bulkimport

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sink receives committed field maps. Implementations persist them to
// the product store.
type Sink interface {
	Save(ctx context.Context, fields map[string]string) error
}

// ProgressFunc is called after every processed row with the overall
// completion percentage.
type ProgressFunc func(percent float64)

// CommitError keys an error message by its source row number.
type CommitError struct {
	RowNumber int    `json:"row_number"`
	Message   string `json:"message"`
}

// Summary is the final commit tally.
type Summary struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Warnings   int           `json:"warnings"`
	Errors     []CommitError `json:"errors,omitempty"`
}

// Committer writes validated rows to a sink, pacing each step so the
// caller can render progress. The context cancels an abandoned import
// between steps.
type Committer struct {
	sink      Sink
	stepDelay time.Duration
	log       *logrus.Entry
}

// NewCommitter constructs a Committer. stepDelay may be zero to commit
// without pacing.
func NewCommitter(sink Sink, stepDelay time.Duration, log *logrus.Entry) *Committer {
	return &Committer{sink: sink, stepDelay: stepDelay, log: log}
}

// Commit walks the processed rows, persisting every valid and warning
// row and skipping error rows, which are reported back with their row
// number and message. Returns the summary accumulated so far even when
// the context is cancelled mid-run.
func (c *Committer) Commit(ctx context.Context, rows []ProcessedRow, progress ProgressFunc) (Summary, error) {
	summary := Summary{Total: len(rows)}

	eligible := 0
	for _, row := range rows {
		if row.Status != RowError {
			eligible++
		}
	}

	processed := 0
	for _, row := range rows {
		if row.Status == RowError {
			summary.Failed++
			summary.Errors = append(summary.Errors, CommitError{
				RowNumber: row.RowNumber,
				Message:   row.Error,
			})
			continue
		}

		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if err := c.sink.Save(ctx, row.Fields); err != nil {
			c.log.WithError(err).WithField("row", row.RowNumber).Warn("row commit failed")
			summary.Failed++
			summary.Errors = append(summary.Errors, CommitError{
				RowNumber: row.RowNumber,
				Message:   err.Error(),
			})
		} else {
			summary.Successful++
			if row.Status == RowWarning {
				summary.Warnings++
			}
		}

		processed++
		if progress != nil && eligible > 0 {
			progress(float64(processed) / float64(eligible) * 100)
		}

		if c.stepDelay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(c.stepDelay):
			}
		}
	}

	return summary, nil
}

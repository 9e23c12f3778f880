package store

import (
	"context"

	"github.com/nhle/mailwatch/internal/model"
)

// ReportStore persists the report of a single job between runs.
type ReportStore interface {
	// Load returns the previous report, or an empty one when there is none
	// or it cannot be read.
	Load() *model.Report

	// Save replaces the stored report.
	Save(report *model.Report) error
}

// AlertFilter controls filtering and pagination for alert queries.
type AlertFilter struct {
	Job    *string
	Query  *string
	Limit  int
	Offset int
}

// History records completed runs and the important messages they found.
type History interface {
	// RecordRun stores a run and one alert per important message, in a
	// single transaction. It returns the stored run with its ID set.
	RecordRun(ctx context.Context, run model.Run, important []model.Message) (*model.Run, error)

	// GetRuns returns the most recent runs of job, newest first. An empty
	// job matches every job.
	GetRuns(ctx context.Context, job string, limit int) ([]model.Run, error)

	// GetAlerts returns alerts matching filter, newest first.
	GetAlerts(ctx context.Context, filter AlertFilter) ([]model.Alert, error)

	// HasAlert reports whether job already raised an alert for messageID.
	HasAlert(ctx context.Context, job, messageID string) (bool, error)
}

package sync

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/mailwatch/internal/classify"
	"github.com/nhle/mailwatch/internal/model"
	"github.com/nhle/mailwatch/internal/source/email"
	"github.com/nhle/mailwatch/internal/store"
)

// Mailbox is the session surface the runner needs. *email.Session
// implements it.
type Mailbox interface {
	Select(ctx context.Context, folder string) error
	SearchUnseen(ctx context.Context) ([]string, error)
	FetchHeaders(ctx context.Context, id string) ([]byte, error)
	Logout() error
}

// ConnectFunc opens an authenticated mailbox session.
type ConnectFunc func(ctx context.Context) (Mailbox, error)

// Runner executes one job: search the mailbox, classify what is unread and
// persist the report. It holds no state between runs besides what the
// report store keeps.
type Runner struct {
	connect ConnectFunc
	folder  string
	log     *log.Logger

	// History, when set, receives one row per run and per important
	// message. Failures there are logged, never fatal.
	History store.History

	// Out receives the pretty-printed report. Nil disables printing.
	Out io.Writer

	// Clock stamps the report; defaults to time.Now.
	Clock func() time.Time
}

// New creates a runner reading from folder on sessions opened by connect.
func New(connect ConnectFunc, folder string, logger *log.Logger) *Runner {
	return &Runner{
		connect: connect,
		folder:  folder,
		log:     logger,
		Clock:   time.Now,
	}
}

// Run executes job against reports and returns the report it saved.
// Connection, login, select and search failures abort the run; a message
// that cannot be fetched or parsed is logged and skipped.
func (r *Runner) Run(
	ctx context.Context,
	job model.JobConfig,
	reports store.ReportStore,
) (*model.Report, error) {
	cfg := classify.ConfigFromJob(job)
	logger := r.log.With("job", job.Name)

	prior := reports.Load()
	priorSeen := classify.NewSeenSet(prior.SeenIDs...)

	unreadIDs, messages, err := r.collect(ctx, logger, cfg.UnreadWindow)
	if err != nil {
		return nil, err
	}

	result := classify.Classify(messages, priorSeen, cfg)

	report := &model.Report{
		Job:               job.Name,
		CheckedAt:         r.now().UTC(),
		UnreadCount:       len(unreadIDs),
		NewUnreadCount:    len(result.New),
		ImportantNewCount: result.ImportantCount,
		ImportantNew:      result.Important,
		Latest:            result.Latest,
	}
	if result.Seen != nil {
		report.SeenIDs = result.Seen.IDs()
	}

	if err := reports.Save(report); err != nil {
		return nil, fmt.Errorf("saving report for job %s: %w", job.Name, err)
	}

	if r.Out != nil {
		if err := store.Encode(r.Out, report); err != nil {
			return report, fmt.Errorf("printing report: %w", err)
		}
	}

	r.recordHistory(ctx, logger, report, result.Important)

	logger.Info("run complete",
		"unread", report.UnreadCount,
		"fetched", len(messages),
		"new", report.NewUnreadCount,
		"important", report.ImportantNewCount,
	)

	return report, nil
}

// collect opens a session, searches for unread messages and fetches the
// headers of the newest window of them, newest first. The session is
// released on every path.
func (r *Runner) collect(
	ctx context.Context, logger *log.Logger, window int,
) ([]string, []model.Message, error) {
	session, err := r.connect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("opening mailbox: %w", err)
	}
	defer func() {
		if err := session.Logout(); err != nil {
			logger.Warn("logout failed", "error", err)
		}
	}()

	if err := session.Select(ctx, r.folder); err != nil {
		return nil, nil, err
	}

	unreadIDs, err := session.SearchUnseen(ctx)
	if err != nil {
		return nil, nil, err
	}

	ids := classify.Window(unreadIDs, window)
	logger.Debug("searched mailbox", "folder", r.folder, "unread", len(unreadIDs), "window", len(ids))

	messages := make([]model.Message, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		raw, err := session.FetchHeaders(ctx, id)
		if err != nil {
			logger.Warn("skipping message", "id", id, "error", err)
			continue
		}

		msg, err := email.ParseHeaders(id, raw)
		if err != nil {
			logger.Warn("skipping message", "id", id, "error", err)
			continue
		}
		messages = append(messages, msg)
	}

	return unreadIDs, messages, nil
}

// recordHistory stores the run and its important messages when a history
// store is configured.
func (r *Runner) recordHistory(
	ctx context.Context,
	logger *log.Logger,
	report *model.Report,
	important []model.Message,
) {
	if r.History == nil {
		return
	}

	// Jobs without diffing report the same messages on every run; only
	// the first sighting becomes an alert.
	fresh := make([]model.Message, 0, len(important))
	for _, m := range important {
		seen, err := r.History.HasAlert(ctx, report.Job, m.ID)
		if err != nil {
			logger.Warn("checking alert history failed", "id", m.ID, "error", err)
		}
		if !seen {
			fresh = append(fresh, m)
		}
	}

	run := model.Run{
		Job:               report.Job,
		CheckedAt:         report.CheckedAt,
		UnreadCount:       report.UnreadCount,
		NewUnreadCount:    report.NewUnreadCount,
		ImportantNewCount: report.ImportantNewCount,
	}
	if _, err := r.History.RecordRun(ctx, run, fresh); err != nil {
		logger.Warn("recording history failed", "error", err)
	}
}

func (r *Runner) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock()
}

// Package runner generates, writes and records the digest for one week.
package runner

import (
	"context"
	"time"

	"notiondigest/internal/config"
	"notiondigest/internal/digest"
	"notiondigest/internal/history"
	"notiondigest/internal/logger"
	"notiondigest/internal/models"
	"notiondigest/internal/notion"
	"notiondigest/internal/week"
)

// Recorder stores a finished run.
type Recorder interface {
	Record(run history.Run) (history.Run, error)
}

// Outcome describes a finished run.
type Outcome struct {
	Result  models.FetchResult
	Week    string
	Path    string
	RunID   string
	Status  digest.WriteStatus
	Entries int
}

// Runner ties the Notion adapter, the digest writer and the run history together.
type Runner struct {
	adapter  notion.ContentAdapter
	writer   *digest.Writer
	recorder Recorder
	cfg      *config.Config
	log      *logger.Logger
	now      func() time.Time
}

// New creates a runner. recorder may be nil to skip run history.
func New(cfg *config.Config, adapter notion.ContentAdapter, recorder Recorder, log *logger.Logger) *Runner {
	return &Runner{
		adapter:  adapter,
		writer:   digest.NewWriter(cfg.Output.Directory, writeOptions(cfg, false)),
		recorder: recorder,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// WithForce returns a copy of the runner that rewrites unchanged digests.
func (r *Runner) WithForce(force bool) *Runner {
	out := *r
	out.writer = digest.NewWriter(r.cfg.Output.Directory, writeOptions(r.cfg, force))

	return &out
}

func writeOptions(cfg *config.Config, force bool) digest.WriteOptions {
	return digest.WriteOptions{
		Sign:        cfg.Output.Sign,
		FrontMatter: cfg.Output.FrontMatter,
		Force:       force,
	}
}

// Run generates the digest for weekNumber and writes it to the output directory.
// The returned Outcome always carries a FetchResult; err is non-nil when the run failed.
func (r *Runner) Run(ctx context.Context, weekNumber string) (*Outcome, error) {
	started := r.now()

	wk, err := week.Validate(weekNumber)
	if err != nil {
		return r.fail(weekNumber, started, err)
	}

	if err := r.cfg.ValidateForFetch(); err != nil {
		return r.fail(wk, started, err)
	}

	log := r.log.With("week", wk)
	log.Info("Fetching digest", "database_id", r.cfg.Notion.DatabaseID)

	settings := r.cfg.Settings()

	doc, err := digest.Build(ctx, r.adapter, models.FetchParams{
		WeekNumber: wk,
		APIKey:     settings.NotionAPIKey,
		DatabaseID: settings.NotionDatabaseID,
	})
	if err != nil {
		return r.fail(wk, started, err)
	}

	path, status, err := r.writer.Write(doc)
	if err != nil {
		return r.fail(wk, started, err)
	}

	log.Info("Digest written", "path", path, "status", string(status), "entries", doc.Entries)

	out := &Outcome{
		Result:  digest.NewFetchResult(doc, nil),
		Week:    wk,
		Path:    path,
		Status:  status,
		Entries: doc.Entries,
	}

	out.RunID = r.record(history.Run{
		Week:        wk,
		Status:      history.StatusOK,
		Entries:     doc.Entries,
		OutputPath:  path,
		WriteStatus: string(status),
		StartedAt:   started,
		FinishedAt:  r.now(),
	})

	return out, nil
}

func (r *Runner) fail(wk string, started time.Time, err error) (*Outcome, error) {
	r.log.Error("Digest run failed", "week", wk, "error", err)

	out := &Outcome{
		Result: digest.NewFetchResult(nil, err),
		Week:   wk,
	}

	out.RunID = r.record(history.Run{
		Week:       wk,
		Status:     history.StatusError,
		Error:      out.Result.ErrorMessage,
		StartedAt:  started,
		FinishedAt: r.now(),
	})

	return out, err
}

// record stores run and returns its id. History failures are logged, not returned.
func (r *Runner) record(run history.Run) string {
	if r.recorder == nil {
		return ""
	}

	saved, err := r.recorder.Record(run)
	if err != nil {
		r.log.Warn("Failed to record run", "week", run.Week, "error", err)

		return ""
	}

	return saved.ID
}

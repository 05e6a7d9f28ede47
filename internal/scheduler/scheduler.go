// Package scheduler wires the pipeline stages to their cron schedules and
// keeps the probables job's schedule in sync with the day's earliest game.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"mlb_today/pipeline/internal/blobstore"
	"mlb_today/pipeline/internal/config"
	"mlb_today/pipeline/internal/email"
	"mlb_today/pipeline/internal/metrics"
	"mlb_today/pipeline/internal/models"
)

// Blob names used by the pipeline
const (
	BattingBlob       = "batting.json"
	PitchingBlob      = "pitching.json"
	ProbablesBlob     = "probables.json"
	EmailBlob         = "email_data.json"
	ProbablesCronBlob = "probables_cron.txt"
)

// ScheduleFetcher fetches the day's game list
type ScheduleFetcher interface {
	FetchSchedule(ctx context.Context, date string) ([]models.Game, error)
}

// LeadersFetcher fetches a season leaderboard
type LeadersFetcher interface {
	FetchLeaders(ctx context.Context, position, statsType, season, sortDir, sortStat string) (*models.LeaderResponse, error)
}

// Sender dispatches the rendered email
type Sender interface {
	Send(subject, htmlBody string, to, cc []string) error
}

// Scheduler manages the pipeline's cron jobs. The batting, pitching, and
// schedule-refresh jobs run on fixed expressions from configuration; the
// probables job's entry is replaced live whenever a new expression is
// derived from the fetched game list. The email stage has no timer: it
// fires when the email artifact is written.
type Scheduler struct {
	cfg         *config.Config
	scheduleAPI ScheduleFetcher
	statsAPI    LeadersFetcher
	store       blobstore.Store
	composer    *email.Composer
	sender      Sender

	cron           *cron.Cron
	mu             sync.Mutex
	probablesEntry cron.EntryID
	probablesExpr  string
	emailReady     chan struct{}
	stopChan       chan struct{}
}

// New creates a scheduler. The cron runner parses six-field expressions so
// the synthesized "0 m h * * *" schedules are consumed natively.
func New(cfg *config.Config, scheduleAPI ScheduleFetcher, statsAPI LeadersFetcher, store blobstore.Store, composer *email.Composer, sender Sender) *Scheduler {
	return &Scheduler{
		cfg:         cfg,
		scheduleAPI: scheduleAPI,
		statsAPI:    statsAPI,
		store:       store,
		composer:    composer,
		sender:      sender,
		cron:        cron.New(cron.WithSeconds()),
		emailReady:  make(chan struct{}, 1),
		stopChan:    make(chan struct{}),
	}
}

// Start registers all jobs and starts the cron runner
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	jobs := []struct {
		name string
		expr string
		fn   func(context.Context) error
	}{
		{"batting", s.cfg.BattingCron, s.RunBatting},
		{"pitching", s.cfg.PitchingCron, s.RunPitching},
		{"schedule_refresh", s.cfg.ScheduleCron, s.RunScheduleRefresh},
	}

	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.expr, func() {
			s.runJob(ctx, job.name, job.fn)
		}); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.name, err)
		}
		log.Info().Str("job", job.name).Str("schedule", job.expr).Msg("Job scheduled")
	}

	// The probables entry resumes the last derived schedule when one was
	// persisted, otherwise the configured default.
	expr := s.persistedProbablesCron(ctx)
	if err := s.Reschedule(ctx, expr); err != nil {
		log.Warn().Err(err).Str("schedule", expr).Msg("Persisted probables schedule is invalid, using default")
		if err := s.Reschedule(ctx, s.cfg.ProbablesCron); err != nil {
			return fmt.Errorf("failed to schedule probables job: %w", err)
		}
	}

	go s.watchEmailArtifact(ctx)

	s.cron.Start()
	log.Info().Msg("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	s.cron.Stop()
	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// Reschedule replaces the probables job's cron entry with the given
// expression and persists it so a restarting worker resumes the same
// schedule. Invalid expressions leave the current entry untouched.
func (s *Scheduler) Reschedule(ctx context.Context, expr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(expr, func() {
		s.runJob(ctx, "probables", s.RunProbables)
	})
	if err != nil {
		return fmt.Errorf("invalid probables schedule %q: %w", expr, err)
	}

	if s.probablesEntry != 0 {
		s.cron.Remove(s.probablesEntry)
	}
	s.probablesEntry = id
	s.probablesExpr = expr

	if err := s.store.Put(ctx, s.cfg.StatsContainer, ProbablesCronBlob, []byte(expr)); err != nil {
		log.Warn().Err(err).Msg("Failed to persist probables schedule")
	}

	log.Info().Str("schedule", expr).Msg("Probables job scheduled")
	return nil
}

// ProbablesSchedule returns the probables job's current cron expression
func (s *Scheduler) ProbablesSchedule() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probablesExpr
}

// Run executes a single named job once. Used by the manual runner.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	switch name {
	case "batting":
		return s.RunBatting(ctx)
	case "pitching":
		return s.RunPitching(ctx)
	case "probables":
		return s.RunProbables(ctx)
	case "schedule":
		return s.RunScheduleRefresh(ctx)
	case "email":
		return s.RunEmail(ctx)
	default:
		return fmt.Errorf("unknown job %q", name)
	}
}

// persistedProbablesCron reads the last derived schedule from the blob
// store, falling back to the configured default
func (s *Scheduler) persistedProbablesCron(ctx context.Context) string {
	data, err := s.store.Get(ctx, s.cfg.StatsContainer, ProbablesCronBlob)
	if err != nil {
		if !errors.Is(err, blobstore.ErrNotFound) {
			log.Warn().Err(err).Msg("Failed to read persisted probables schedule")
		}
		return s.cfg.ProbablesCron
	}

	expr := string(data)
	if expr == "" {
		return s.cfg.ProbablesCron
	}

	log.Info().Str("schedule", expr).Msg("Resuming persisted probables schedule")
	return expr
}

// watchEmailArtifact triggers the email stage whenever the probables job
// signals a fresh artifact. This stands in for the platform's
// blob-creation trigger.
func (s *Scheduler) watchEmailArtifact(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping email watcher")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping email watcher")
			return
		case <-s.emailReady:
			s.runJob(ctx, "email", s.RunEmail)
		}
	}
}

// notifyEmailReady signals the email watcher without blocking; a pending
// signal already covers the newest artifact.
func (s *Scheduler) notifyEmailReady() {
	select {
	case s.emailReady <- struct{}{}:
	default:
	}
}

// runJob executes a job with logging and metrics. Job failures never stop
// the worker; the next tick re-fetches and overwrites everything it touches.
func (s *Scheduler) runJob(ctx context.Context, name string, fn func(context.Context) error) {
	start := time.Now()
	log.Info().Str("job", name).Msg("Job starting")

	err := fn(ctx)
	elapsed := time.Since(start)
	metrics.JobDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if err != nil {
		metrics.JobRunsTotal.WithLabelValues(name, "error").Inc()
		log.Error().Err(err).Str("job", name).Dur("duration", elapsed).Msg("Job failed")
		return
	}

	metrics.JobRunsTotal.WithLabelValues(name, "ok").Inc()
	log.Info().Str("job", name).Dur("duration", elapsed).Msg("Job complete")
}

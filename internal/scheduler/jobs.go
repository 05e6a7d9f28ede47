package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"mlb_today/pipeline/internal/blobstore"
	"mlb_today/pipeline/internal/client"
	"mlb_today/pipeline/internal/email"
	"mlb_today/pipeline/internal/metrics"
	"mlb_today/pipeline/internal/models"
	"mlb_today/pipeline/internal/probables"
	"mlb_today/pipeline/internal/schedule"
)

// RunBatting fetches the season batting leaderboard sorted by WAR and
// caches it in the stats container
func (s *Scheduler) RunBatting(ctx context.Context) error {
	return s.cacheLeaders(ctx, client.StatsBatting, BattingBlob)
}

// RunPitching fetches the season pitching leaderboard sorted by WAR and
// caches it in the stats container
func (s *Scheduler) RunPitching(ctx context.Context) error {
	return s.cacheLeaders(ctx, client.StatsPitching, PitchingBlob)
}

func (s *Scheduler) cacheLeaders(ctx context.Context, statsType, blobName string) error {
	season := time.Now().Format("2006")

	leaders, err := s.statsAPI.FetchLeaders(ctx, "all", statsType, season, "default", "WAR")
	if err != nil {
		return err
	}

	data, err := json.Marshal(leaders)
	if err != nil {
		return fmt.Errorf("failed to marshal %s leaders: %w", statsType, err)
	}

	if err := s.store.Put(ctx, s.cfg.StatsContainer, blobName, data); err != nil {
		return err
	}

	log.Info().
		Str("blob", blobName).
		Int("records", len(leaders.Data)).
		Msg("Leader cache updated")
	return nil
}

// RunProbables fetches today's schedule, joins the probable pitchers against
// the cached pitching leaders, and writes the email artifact
func (s *Scheduler) RunProbables(ctx context.Context) error {
	date := time.Now().Format("2006-01-02")

	games, err := s.scheduleAPI.FetchSchedule(ctx, date)
	if err != nil {
		return err
	}
	log.Info().Str("date", date).Int("games", len(games)).Msg("Schedule fetched")

	// Cache the raw game list alongside the derived artifact
	if raw, err := json.Marshal(games); err == nil {
		if err := s.store.Put(ctx, s.cfg.StatsContainer, ProbablesBlob, raw); err != nil {
			log.Warn().Err(err).Msg("Failed to cache raw probables")
		}
	}

	pitching := s.loadLeaders(ctx, PitchingBlob)
	if len(pitching) == 0 {
		log.Warn().Msg("Could not load pitching stats, pitcher data will be incomplete")
	}

	matchups := probables.BuildMatchups(games, pitching)
	metrics.MatchupsBuilt.Set(float64(len(matchups)))

	batting := s.loadLeaders(ctx, BattingBlob)

	emailData := models.EmailData{
		Probables: matchups,
		Batting:   probables.TopN(batting, probables.DefaultLeaderboardSize, probables.BattingFields),
		Pitching:  probables.TopN(pitching, probables.DefaultLeaderboardSize, probables.PitchingFields),
	}

	data, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("failed to marshal email data: %w", err)
	}

	if err := s.store.Put(ctx, s.cfg.EmailContainer, EmailBlob, data); err != nil {
		return err
	}

	log.Info().Int("matchups", len(matchups)).Msg("Email artifact written")
	s.notifyEmailReady()
	return nil
}

// RunScheduleRefresh fetches today's games and retunes the probables job to
// run 30 minutes before the earliest first pitch. A day with no games or an
// unparsable timestamp leaves the existing schedule untouched.
func (s *Scheduler) RunScheduleRefresh(ctx context.Context) error {
	date := time.Now().Format("2006-01-02")

	games, err := s.scheduleAPI.FetchSchedule(ctx, date)
	if err != nil {
		return err
	}

	expr, err := schedule.Compute(games)
	if errors.Is(err, schedule.ErrNoGames) {
		log.Info().Str("date", date).Msg("No games today, leaving probables schedule unchanged")
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not compute probables schedule: %w", err)
	}

	return s.Reschedule(ctx, expr)
}

// RunEmail renders the email artifact and dispatches it. Missing delivery
// configuration aborts only this stage; the persisted artifacts stay put.
func (s *Scheduler) RunEmail(ctx context.Context) error {
	if s.sender == nil || !s.cfg.EmailConfigured() {
		log.Warn().Msg("Email delivery not configured, skipping send")
		return nil
	}

	to := email.ParseRecipients(s.cfg.ToEmails)
	if len(to) == 0 {
		log.Warn().Msg("No email recipients configured, skipping send")
		return nil
	}

	data, err := s.store.Get(ctx, s.cfg.EmailContainer, EmailBlob)
	if err != nil {
		return fmt.Errorf("failed to load email artifact: %w", err)
	}

	var emailData models.EmailData
	if err := json.Unmarshal(data, &emailData); err != nil {
		return fmt.Errorf("email artifact is not valid JSON: %w", err)
	}

	htmlBody, err := s.composer.Render(&emailData)
	if err != nil {
		return err
	}

	subject := s.composer.Subject(time.Now())
	cc := email.ParseRecipients(s.cfg.CCEmails)

	return s.sender.Send(subject, htmlBody, to, cc)
}

// loadLeaders reads a cached leader blob, degrading to an empty set when
// the blob is missing, unreadable, or not the expected shape
func (s *Scheduler) loadLeaders(ctx context.Context, blobName string) []models.LeaderRecord {
	data, err := s.store.Get(ctx, s.cfg.StatsContainer, blobName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			log.Warn().Str("blob", blobName).Msg("Leader cache blob not found")
		} else {
			log.Error().Err(err).Str("blob", blobName).Msg("Failed to read leader cache")
		}
		return nil
	}

	var resp models.LeaderResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		log.Error().Err(err).Str("blob", blobName).Msg("Leader cache blob is not valid JSON")
		return nil
	}

	return resp.Data
}

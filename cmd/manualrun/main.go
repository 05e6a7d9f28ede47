// Command manualrun executes a single pipeline stage once and exits.
// Useful for backfilling a stale leader cache or re-sending the day's email
// without waiting for the next scheduled tick.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mlb_today/pipeline/internal/blobstore"
	"mlb_today/pipeline/internal/client"
	"mlb_today/pipeline/internal/config"
	"mlb_today/pipeline/internal/email"
	"mlb_today/pipeline/internal/scheduler"

	"github.com/rs/zerolog/log"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <batting|pitching|probables|schedule|email>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	job := flag.Arg(0)

	ctx := context.Background()
	cfg := config.MustLoad()

	store, err := blobstore.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to blob store")
	}
	defer store.Close()

	// Validate storage connectivity before touching anything
	log.Info().Msg("Validating service health...")
	if err := store.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Blob store health check failed")
	}

	scheduleClient := client.NewScheduleClient(cfg.ScheduleEndpoint, cfg.ScheduleTimeZone, cfg.HTTPTimeout)
	statsClient := client.NewStatsClient(cfg.StatsEndpoint, cfg.HTTPTimeout)

	composer, err := email.NewComposer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse email template")
	}

	var sender scheduler.Sender
	if cfg.EmailConfigured() {
		sender = email.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SenderAddress)
	}

	sched := scheduler.New(cfg, scheduleClient, statsClient, store, composer, sender)

	log.Info().Str("job", job).Msg("Running job")
	if err := sched.Run(ctx, job); err != nil {
		log.Fatal().Err(err).Str("job", job).Msg("Job failed")
	}
	log.Info().Str("job", job).Msg("Job complete")
}

package scheduler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlb_today/pipeline/internal/blobstore"
	"mlb_today/pipeline/internal/config"
	"mlb_today/pipeline/internal/email"
	"mlb_today/pipeline/internal/models"
)

type fakeScheduleAPI struct {
	games []models.Game
	err   error
}

func (f *fakeScheduleAPI) FetchSchedule(_ context.Context, _ string) ([]models.Game, error) {
	return f.games, f.err
}

type fakeStatsAPI struct {
	resp *models.LeaderResponse
	err  error
}

func (f *fakeStatsAPI) FetchLeaders(_ context.Context, _, _, _, _, _ string) (*models.LeaderResponse, error) {
	return f.resp, f.err
}

type fakeSender struct {
	subject string
	html    string
	to      []string
	cc      []string
	calls   int
}

func (f *fakeSender) Send(subject, htmlBody string, to, cc []string) error {
	f.calls++
	f.subject = subject
	f.html = htmlBody
	f.to = to
	f.cc = cc
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		BlobBackend:    "redis",
		StatsContainer: "mlb-stats",
		EmailContainer: "mlb-email",
		BattingCron:    "0 0 10 * * *",
		PitchingCron:   "0 5 10 * * *",
		ProbablesCron:  "0 30 15 * * *",
		ScheduleCron:   "0 0 9 * * *",
	}
}

func intp(v int) *int { return &v }

func testGames() []models.Game {
	return []models.Game{
		{
			GameDate: "2025-07-03T12:10:00-04:00",
			Venue: models.Venue{
				Name:     "Fenway Park",
				Location: models.VenueLocation{City: "Boston", State: "MA"},
			},
			Teams: models.GameTeams{
				Home: models.TeamSide{
					Team:            models.TeamInfo{Abbreviation: "BOS"},
					LeagueRecord:    &models.LeagueRecord{Wins: intp(45), Losses: intp(36)},
					ProbablePitcher: &models.PlayerRef{ID: intp(605483), FullName: "Ace Starter"},
				},
				Away: models.TeamSide{
					Team: models.TeamInfo{Abbreviation: "NYY"},
				},
			},
		},
	}
}

func newTestScheduler(t *testing.T, scheduleAPI ScheduleFetcher, statsAPI LeadersFetcher, sender Sender) (*Scheduler, *blobstore.MemoryStore) {
	t.Helper()

	composer, err := email.NewComposer()
	require.NoError(t, err)

	store := blobstore.NewMemoryStore()
	return New(testConfig(), scheduleAPI, statsAPI, store, composer, sender), store
}

func TestRunBatting_CachesLeaderBlob(t *testing.T) {
	ctx := context.Background()
	statsAPI := &fakeStatsAPI{resp: &models.LeaderResponse{
		Data: []models.LeaderRecord{{"PlayerName": "Top Batter", "WAR": 6.1}},
	}}
	s, store := newTestScheduler(t, &fakeScheduleAPI{}, statsAPI, nil)

	require.NoError(t, s.RunBatting(ctx))

	data, err := store.Get(ctx, "mlb-stats", BattingBlob)
	require.NoError(t, err)

	var cached models.LeaderResponse
	require.NoError(t, json.Unmarshal(data, &cached))
	require.Len(t, cached.Data, 1)
	assert.Equal(t, "Top Batter", cached.Data[0]["PlayerName"])
}

func TestRunProbables_WritesEmailArtifact(t *testing.T) {
	ctx := context.Background()
	s, store := newTestScheduler(t, &fakeScheduleAPI{games: testGames()}, &fakeStatsAPI{}, nil)

	// Seed the pitching cache the way RunPitching would
	pitching := models.LeaderResponse{Data: []models.LeaderRecord{
		{"xMLBAMID": float64(605483), "PlayerName": "Ace Starter",
			"W": float64(11), "L": float64(3), "ERA": 2.31, "xFIP": 2.87, "WAR": 4.2},
	}}
	raw, err := json.Marshal(pitching)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "mlb-stats", PitchingBlob, raw))

	require.NoError(t, s.RunProbables(ctx))

	// Raw game list is cached alongside the derived artifact
	_, err = store.Get(ctx, "mlb-stats", ProbablesBlob)
	assert.NoError(t, err, "Raw probables should be cached")

	data, err := store.Get(ctx, "mlb-email", EmailBlob)
	require.NoError(t, err)

	var artifact models.EmailData
	require.NoError(t, json.Unmarshal(data, &artifact))
	require.Len(t, artifact.Probables, 1)

	home := artifact.Probables[0].Home
	assert.Equal(t, "Ace Starter", home.Pitcher.Name)
	assert.Equal(t, 2.31, home.Pitcher.ERA)
	assert.Equal(t, "N/A", artifact.Probables[0].Away.Record.Wins)

	require.Len(t, artifact.Pitching, 1)
	assert.Equal(t, "Ace Starter", artifact.Pitching[0]["name"])

	// The email watcher was signaled
	select {
	case <-s.emailReady:
	default:
		t.Fatal("Expected an email-ready signal after the artifact write")
	}
}

func TestRunProbables_CorruptLeaderCacheDegrades(t *testing.T) {
	ctx := context.Background()
	s, store := newTestScheduler(t, &fakeScheduleAPI{games: testGames()}, &fakeStatsAPI{}, nil)

	require.NoError(t, store.Put(ctx, "mlb-stats", PitchingBlob, []byte("{not json")))

	require.NoError(t, s.RunProbables(ctx), "A corrupt cache degrades, it does not fail the run")

	data, err := store.Get(ctx, "mlb-email", EmailBlob)
	require.NoError(t, err)

	var artifact models.EmailData
	require.NoError(t, json.Unmarshal(data, &artifact))
	require.Len(t, artifact.Probables, 1)

	// Pitcher resolved from the schedule, stats defaulted
	home := artifact.Probables[0].Home
	assert.Equal(t, "Ace Starter", home.Pitcher.Name)
	assert.Equal(t, 0.0, home.Pitcher.ERA)
	assert.Empty(t, artifact.Pitching)
}

func TestRunScheduleRefresh_ReschedulesProbables(t *testing.T) {
	ctx := context.Background()
	s, store := newTestScheduler(t, &fakeScheduleAPI{games: testGames()}, &fakeStatsAPI{}, nil)

	require.NoError(t, s.RunScheduleRefresh(ctx))
	assert.Equal(t, "0 40 15 * * *", s.ProbablesSchedule())

	// The derived expression is persisted for the next worker start
	data, err := store.Get(ctx, "mlb-stats", ProbablesCronBlob)
	require.NoError(t, err)
	assert.Equal(t, "0 40 15 * * *", string(data))
}

func TestRunScheduleRefresh_NoGamesLeavesScheduleUnchanged(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t, &fakeScheduleAPI{games: nil}, &fakeStatsAPI{}, nil)

	require.NoError(t, s.Reschedule(ctx, "0 30 15 * * *"))
	require.NoError(t, s.RunScheduleRefresh(ctx))
	assert.Equal(t, "0 30 15 * * *", s.ProbablesSchedule())
}

func TestRunScheduleRefresh_MalformedTimestampLeavesScheduleUnchanged(t *testing.T) {
	ctx := context.Background()
	games := []models.Game{{GameDate: "not-a-timestamp"}}
	s, _ := newTestScheduler(t, &fakeScheduleAPI{games: games}, &fakeStatsAPI{}, nil)

	require.NoError(t, s.Reschedule(ctx, "0 30 15 * * *"))
	assert.Error(t, s.RunScheduleRefresh(ctx))
	assert.Equal(t, "0 30 15 * * *", s.ProbablesSchedule(), "A bad timestamp must not clobber the schedule")
}

func TestReschedule_InvalidExpressionRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t, &fakeScheduleAPI{}, &fakeStatsAPI{}, nil)

	require.NoError(t, s.Reschedule(ctx, "0 30 15 * * *"))
	assert.Error(t, s.Reschedule(ctx, "five fields only *"))
	assert.Equal(t, "0 30 15 * * *", s.ProbablesSchedule())
}

func TestRunEmail_SkipsWithoutConfiguration(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	s, _ := newTestScheduler(t, &fakeScheduleAPI{}, &fakeStatsAPI{}, sender)

	require.NoError(t, s.RunEmail(ctx), "Missing email config aborts only the send, not the run")
	assert.Zero(t, sender.calls)
}

func TestRunEmail_SendsRenderedArtifact(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}

	composer, err := email.NewComposer()
	require.NoError(t, err)

	cfg := testConfig()
	cfg.SMTPHost = "smtp.example.com"
	cfg.SenderAddress = "rundown@example.com"
	cfg.ToEmails = "fan@example.com, second@example.com"
	cfg.CCEmails = "coach@example.com"

	store := blobstore.NewMemoryStore()
	s := New(cfg, &fakeScheduleAPI{games: testGames()}, &fakeStatsAPI{}, store, composer, sender)

	require.NoError(t, s.RunProbables(ctx))
	require.NoError(t, s.RunEmail(ctx))

	require.Equal(t, 1, sender.calls)
	assert.Contains(t, sender.subject, "MLB Today for ")
	assert.Contains(t, sender.html, "Ace Starter")
	assert.Equal(t, []string{"fan@example.com", "second@example.com"}, sender.to)
	assert.Equal(t, []string{"coach@example.com"}, sender.cc)
}

func TestStart_ResumesPersistedProbablesSchedule(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	composer, err := email.NewComposer()
	require.NoError(t, err)

	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "mlb-stats", ProbablesCronBlob, []byte("0 10 17 * * *")))

	s := New(testConfig(), &fakeScheduleAPI{}, &fakeStatsAPI{}, store, composer, nil)
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	assert.Equal(t, "0 10 17 * * *", s.ProbablesSchedule())
}

func TestStart_InvalidPersistedScheduleFallsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	composer, err := email.NewComposer()
	require.NoError(t, err)

	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "mlb-stats", ProbablesCronBlob, []byte("garbage")))

	s := New(testConfig(), &fakeScheduleAPI{}, &fakeStatsAPI{}, store, composer, nil)
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	assert.Equal(t, "0 30 15 * * *", s.ProbablesSchedule())
}

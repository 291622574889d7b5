package weathertalk

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"weather-talk/internal/engine"
	"weather-talk/internal/models"
	"weather-talk/internal/rules"
	"weather-talk/shared/config"
	"weather-talk/shared/email"
	"weather-talk/shared/scheduler"
	"weather-talk/shared/storage"
)

// TalkMetrics represents the metrics collected during one run
type TalkMetrics struct {
	RunID        string `json:"run_id"`
	DaysFetched  int    `json:"days_fetched"`
	Phrases      int    `json:"phrases"`
	TopPhrase    string `json:"top_phrase"`
	Fallback     bool   `json:"fallback"`
	RuleFaults   int64  `json:"rule_faults"`
	ReportSaved  bool   `json:"report_saved"`
	EmailSent    bool   `json:"email_sent"`
	TimeOfDay    string `json:"time_of_day"`
	ReportedDate string `json:"reported_date"`
}

// GetSummary implements the scheduler.Metrics interface
func (m TalkMetrics) GetSummary() string {
	summary := fmt.Sprintf("%s %s: %d phrases", m.ReportedDate, m.TimeOfDay, m.Phrases)
	if m.Fallback {
		summary += " (calm day fallback)"
	}
	if m.RuleFaults > 0 {
		summary += fmt.Sprintf(", %d rule faults", m.RuleFaults)
	}
	if m.EmailSent {
		summary += ", email sent"
	}
	return summary
}

// ReportSink persists a finished report.
type ReportSink interface {
	Save(report *models.TalkReport) error
}

// WeatherTalkAgent implements the scheduler.Agent interface
type WeatherTalkAgent struct {
	config   *config.Config
	source   DailySource
	store    ReportSink
	mailer   Mailer
	loc      *time.Location
	now      func() time.Time
	rand     engine.Rand
	talker   engine.Talker
	reporter *Reporter
	flags    rules.Flags

	faults atomic.Int64

	mu   sync.Mutex
	last *models.TalkReport
}

// Option configures a WeatherTalkAgent.
type Option func(*WeatherTalkAgent)

// WithSource replaces the Open-Meteo client, e.g. with a FileSource.
func WithSource(src DailySource) Option {
	return func(a *WeatherTalkAgent) { a.source = src }
}

// WithStore replaces the file report store.
func WithStore(sink ReportSink) Option {
	return func(a *WeatherTalkAgent) { a.store = sink }
}

// WithMailer enables the email digest with the given transport.
func WithMailer(m Mailer) Option {
	return func(a *WeatherTalkAgent) { a.mailer = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *WeatherTalkAgent) { a.now = now }
}

// WithRand fixes the fallback phrase choice.
func WithRand(r engine.Rand) Option {
	return func(a *WeatherTalkAgent) { a.rand = r }
}

func NewWeatherTalkAgent(cfg *config.Config, opts ...Option) *WeatherTalkAgent {
	a := &WeatherTalkAgent{
		config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *WeatherTalkAgent) Name() string {
	return "Weather Talk Agent"
}

func (a *WeatherTalkAgent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	loc, err := a.config.TimeLocation()
	if err != nil {
		return err
	}
	a.loc = loc

	if a.source == nil {
		a.source = NewWeatherClient(&a.config.OpenMeteo, a.config.Location)
		log.Println("Open-Meteo client initialized")
	}

	if a.store == nil {
		store, err := storage.NewReportStore(a.config.Output.Path)
		if err != nil {
			return fmt.Errorf("failed to open report store: %w", err)
		}
		a.store = store
		log.Printf("Report store initialized at %s", a.config.Output.Path)
	}

	if a.mailer == nil && a.config.Email.Enabled {
		a.mailer = email.NewSender(&a.config.Email)
		log.Println("Email digest enabled")
	}

	a.flags = rules.Flags{}
	for name, on := range a.config.Features {
		if !rules.IsKnownFlag(name) {
			log.Printf("Warning: unknown feature flag %q ignored", name)
			continue
		}
		a.flags[name] = on
	}

	catalog := rules.NewCatalog(a.config.Reference)
	evalOpts := []engine.Option{
		engine.WithFaultHandler(func(ruleID string, stage engine.Stage, recovered any) {
			a.faults.Add(1)
			log.Printf("Warning: rule %s failed in %s: %v", ruleID, stage, recovered)
		}),
	}
	if a.rand != nil {
		evalOpts = append(evalOpts, engine.WithRand(a.rand))
	}

	a.talker = engine.Talker{
		Evaluator: engine.NewEvaluator(catalog, evalOpts...),
		Ranker:    engine.NewRanker(a.config.Ranking.TopicOrder, a.config.Ranking.Limits),
	}
	a.reporter = NewReporter(catalog, a.config.Ranking, a.config.Location.Name, loc)

	log.Printf("Configured for %s (%.4f, %.4f, %s)",
		a.config.Location.Name,
		a.config.Location.Latitude,
		a.config.Location.Longitude,
		a.config.Location.Timezone)

	return nil
}

// LastReport returns the report of the most recent successful run.
func (a *WeatherTalkAgent) LastReport() *models.TalkReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

func (a *WeatherTalkAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	a.faults.Store(0)
	metrics := TalkMetrics{RunID: uuid.NewString()}

	critical := func(err error) error {
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(err, time.Since(startTime))
		}
		return err
	}

	log.Println("Fetching weather data...")
	resp, err := a.source.Daily(ctx)
	if err != nil {
		return critical(fmt.Errorf("failed to fetch weather data: %w", err))
	}

	days, err := resp.Days(resp.Location(a.loc))
	if err != nil {
		return critical(fmt.Errorf("failed to read daily series: %w", err))
	}
	metrics.DaysFetched = len(days)

	wctx, err := BuildContext(days, a.config.OpenMeteo.ForecastDays)
	if err != nil {
		return critical(fmt.Errorf("failed to build weather context: %w", err))
	}

	now := a.now()
	tod := TimeOfDayAt(now, a.loc)
	result := a.talker.Talk(wctx, tod, a.flags)
	report := a.reporter.Build(metrics.RunID, now, wctx, tod, result)

	metrics.Phrases = len(result.Flat)
	metrics.Fallback = len(result.Flat) == 1 && result.Flat[0].ID == engine.FallbackID
	metrics.RuleFaults = a.faults.Load()
	metrics.TimeOfDay = string(tod)
	metrics.ReportedDate = report.Date
	if len(result.Flat) > 0 {
		metrics.TopPhrase = result.Flat[0].Text
	}

	log.Printf("Evaluated %s (%s): %d phrases, top=%q", report.Date, tod, metrics.Phrases, metrics.TopPhrase)

	emailErr, err := a.publish(ctx, report)
	if err != nil {
		return critical(fmt.Errorf("failed to save report: %w", err))
	}
	metrics.ReportSaved = true

	if emailErr != nil {
		log.Printf("Warning: Failed to send email digest: %v", emailErr)
		if events != nil && events.OnPartialFailure != nil {
			events.OnPartialFailure(fmt.Errorf("failed to send email digest: %w", emailErr), time.Since(startTime))
		}
	} else if a.mailer != nil {
		metrics.EmailSent = true
	}

	a.mu.Lock()
	a.last = report
	a.mu.Unlock()

	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}

	log.Printf("Weather talk run %s complete: %s", metrics.RunID, metrics.GetSummary())
	return nil
}

// publish saves the report and sends the digest concurrently. A store
// failure fails the run; an email failure is returned separately.
func (a *WeatherTalkAgent) publish(ctx context.Context, report *models.TalkReport) (emailErr error, err error) {
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.store.Save(report)
	})

	if a.mailer != nil {
		g.Go(func() error {
			body, err := RenderDigest(report)
			if err != nil {
				emailErr = err
				return nil
			}
			emailErr = a.mailer.SendHTML(digestSubject(report), body)
			return nil
		})
	}

	err = g.Wait()
	return emailErr, err
}

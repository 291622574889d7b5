package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	weathertalk "weather-talk/agents/weather-talk"
	"weather-talk/shared/config"
	"weather-talk/shared/scheduler"
	"weather-talk/shared/storage"
)

type options struct {
	once       bool
	configFile string
	input      string
	stdout     bool
	at         string
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "weather-talk",
		Short: "Weather small-talk phrase generator",
		Long: `weather-talk fetches recent and forecast daily weather from Open-Meteo,
picks conversational phrases that fit the day and writes them as JSON.
Without --once it keeps running and refreshes on the configured schedule.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	rootCmd.Flags().BoolVar(&opts.once, "once", false, "run a single evaluation and exit")
	rootCmd.Flags().StringVar(&opts.configFile, "config", "", "config file (overrides CONFIG_FILE)")
	rootCmd.Flags().StringVar(&opts.input, "input", "", "read a saved Open-Meteo response instead of calling the API")
	rootCmd.Flags().BoolVar(&opts.stdout, "stdout", false, "also print the report JSON to stdout (with --once)")
	rootCmd.Flags().StringVar(&opts.at, "at", "", "evaluate as if it were this RFC3339 time (with --once)")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("weather-talk: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.configFile != "" {
		os.Setenv("CONFIG_FILE", opts.configFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := storage.NewReportStore(cfg.Output.Path)
	if err != nil {
		return err
	}

	agentOpts := []weathertalk.Option{weathertalk.WithStore(store)}
	if opts.input != "" {
		agentOpts = append(agentOpts, weathertalk.WithSource(weathertalk.FileSource{Path: opts.input}))
	}
	if opts.at != "" {
		at, err := time.Parse(time.RFC3339, opts.at)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		agentOpts = append(agentOpts, weathertalk.WithClock(func() time.Time { return at }))
	}

	agent := weathertalk.NewWeatherTalkAgent(cfg, agentOpts...)
	s, err := scheduler.New(cfg, agent, store)
	if err != nil {
		return err
	}

	if !opts.once {
		log.Println("Starting scheduler...")
		if err := s.Start(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("scheduler failed: %w", err)
		}
		return nil
	}

	log.Println("Running once...")
	if err := agent.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}
	if err := s.RunOnce(ctx); err != nil {
		return err
	}
	log.Printf("Report written to %s", store.Path())

	if opts.stdout {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(agent.LastReport())
	}
	return nil
}

// Package main provides the prop and parlay analysis CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/1ogcotu/s-b-a/internal/analysis"
	"github.com/1ogcotu/s-b-a/internal/catalog"
	"github.com/1ogcotu/s-b-a/internal/config"
	"github.com/1ogcotu/s-b-a/internal/datasource"
	applogger "github.com/1ogcotu/s-b-a/internal/logger"
	"github.com/1ogcotu/s-b-a/internal/metrics"
	"github.com/1ogcotu/s-b-a/internal/models"
	"github.com/1ogcotu/s-b-a/internal/scheduler"
	"github.com/1ogcotu/s-b-a/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile  string
	catalogFile string
	teamFilter  string
	fixtureFile string
	baseStake   float64
	maxParlays  int

	log *logrus.Logger
	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "Optional YAML prop catalog overriding the built-in definitions")
	rootCmd.PersistentFlags().StringVar(&teamFilter, "team", "", "Restrict analysis to one team ID")
	rootCmd.PersistentFlags().StringVar(&fixtureFile, "fixture", "", "JSON fixture of sample series for the static provider")
	rootCmd.PersistentFlags().Float64Var(&baseStake, "base-stake", 10, "Flat stake scaled down by the parlay variance factor")
	rootCmd.PersistentFlags().IntVar(&maxParlays, "max-parlays", 10, "Parlays printed per player")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Score player props and search for positive-EV parlays",
	Long: `Fits a trend-adjusted normal model to historical player statistics,
keeps props clearing their probability cutoff and ranks parlay
combinations by expected value.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		log = applogger.NewLogger(cfg.App.LogLevel)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single analysis pass over the configured league",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pipeline, err := buildPipeline()
		if err != nil {
			return err
		}
		defer pipeline.Close()

		return runAnalysis(ctx, pipeline)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis on the configured cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Schedule.Enabled {
			return fmt.Errorf("schedule.enabled must be true for watch mode")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pipeline, err := buildPipeline()
		if err != nil {
			return err
		}
		defer pipeline.Close()

		startMetricsServer()

		timeout := time.Duration(cfg.Schedule.TimeoutMinutes) * time.Minute
		sched := scheduler.NewScheduler(log, timeout)
		err = sched.ScheduleAnalysis(cfg.Schedule.RefreshCron, "league_analysis", func(jobCtx context.Context) error {
			return runAnalysis(jobCtx, pipeline)
		})
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		log.WithField("next_run", sched.NextRun()).Info("Watch mode started")

		<-ctx.Done()
		return sched.Stop()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("analyzer %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

// pipeline bundles the analyzer with the feed clients it depends on.
type pipeline struct {
	svc        *service.AnalyzerService
	espn       *datasource.ESPNClient
	httpClient *datasource.RateLimitedHTTPClient
}

func (p *pipeline) Close() {
	if p.httpClient != nil {
		_ = p.httpClient.Close()
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(loaded, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(loaded); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded
	return nil
}

func buildPipeline() (*pipeline, error) {
	history, espnClient, httpClient, err := buildHistoryProvider()
	if err != nil {
		return nil, err
	}

	cat := catalog.NewCatalog()
	if catalogFile != "" {
		loaded, err := catalog.LoadCatalog(catalogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
	}
	correlations := catalog.NewCorrelationTable()
	variances := catalog.NewVarianceFactorTable()

	matchupFactor := cfg.Analysis.MatchupFactor
	evaluator := analysis.NewPropEvaluator(cat, correlations, variances, history, log, analysis.EvaluatorOptions{
		MinCorrelation: &cfg.Analysis.MinCorrelation,
		Matchup:        func(models.PlayerContext) float64 { return matchupFactor },
	})
	composer := analysis.NewParlayComposer(correlations, log)

	svc := service.NewAnalyzerService(evaluator, composer, variances, log, service.AnalyzerOptions{
		ComposeOptions: analysis.ComposeOptions{
			MinPicks:       cfg.Analysis.MinPicks,
			MaxPicks:       cfg.Analysis.MaxPicks,
			MinProbability: cfg.Analysis.MinParlayProbability,
			Parallelism:    cfg.Analysis.Parallelism,
		},
		BaseStake:      baseStake,
		MaxConcurrency: cfg.Analysis.MaxRosterConcurrency,
	})

	return &pipeline{svc: svc, espn: espnClient, httpClient: httpClient}, nil
}

func buildHistoryProvider() (analysis.HistoryProvider, *datasource.ESPNClient, *datasource.RateLimitedHTTPClient, error) {
	switch cfg.DataFeed.Provider {
	case "static":
		provider, err := loadFixtureProvider(fixtureFile)
		return provider, nil, nil, err
	case "espn":
		httpCfg := datasource.DefaultHTTPClientConfig()
		httpCfg.Timeout = cfg.FeedTimeout()
		httpCfg.MaxRetries = cfg.DataFeed.MaxRetries
		httpCfg.RateLimit = cfg.DataFeed.RateLimit
		httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, log)

		espnClient := datasource.NewESPNClient(httpClient, cfg.DataFeed.BaseURL, cfg.DataFeed.APIKey, log)
		provider := datasource.NewGameLogProvider(espnClient, cfg.Analysis.Sport, cfg.DataFeed.League)
		cached := datasource.NewCachedProvider(provider, cfg.CacheTTL())
		return cached, espnClient, httpClient, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown data feed provider %q", cfg.DataFeed.Provider)
	}
}

// loadFixtureProvider reads a JSON object of sample series, keyed by
// stat key or "playerID:statKey".
func loadFixtureProvider(path string) (*datasource.StaticProvider, error) {
	if path == "" {
		return nil, fmt.Errorf("--fixture is required with the static provider")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	series := make(map[string][]float64)
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return datasource.NewStaticProvider(series), nil
}

func runAnalysis(ctx context.Context, p *pipeline) error {
	sport := cfg.Analysis.Sport
	players, err := collectPlayers(ctx, p)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		log.Warn("No players to analyze")
		return nil
	}

	reports, err := p.svc.AnalyzeRoster(ctx, players, sport)
	if err != nil {
		return err
	}

	for _, report := range reports {
		printReport(report)
	}
	log.WithFields(logrus.Fields{
		"players": len(players),
		"reports": len(reports),
	}).Info("Analysis pass complete")
	return nil
}

func collectPlayers(ctx context.Context, p *pipeline) ([]models.PlayerContext, error) {
	// The static provider carries no roster; analyze the fixture's
	// player keys as one synthetic roster entry.
	if p.espn == nil {
		return []models.PlayerContext{{PlayerID: "fixture", Name: "Fixture Player"}}, nil
	}

	teams, err := p.espn.FetchTeams(ctx, cfg.Analysis.Sport, cfg.DataFeed.League, cfg.DataFeed.Season)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}

	var players []models.PlayerContext
	for _, team := range teams {
		if teamFilter != "" && team.ID != teamFilter {
			continue
		}
		roster, err := p.espn.FetchRoster(ctx, team)
		if err != nil {
			log.WithField("team", team.DisplayName).WithError(err).Warn("Skipping team: roster fetch failed")
			continue
		}
		players = append(players, roster...)
	}
	return players, nil
}

func printReport(report *service.PlayerReport) {
	if len(report.Props) == 0 {
		return
	}

	fmt.Printf("\n%s (%s)\n", report.Player.Name, report.Player.PlayerID)
	fmt.Println("  accepted props:")
	for _, prop := range report.Props {
		fmt.Printf("    %-20s line %6.1f  p=%.3f  ev=%+.3f  trend=%+.3f\n",
			prop.PropName, prop.Line, prop.Probability, prop.ExpectedValue, prop.Trend)
	}

	if len(report.Parlays) == 0 {
		return
	}
	fmt.Println("  top parlays:")
	for i, suggestion := range report.Parlays {
		if i >= maxParlays {
			break
		}
		candidate := suggestion.Candidate
		fmt.Printf("    [%d legs] p=%.3f ev=%+.3f stake=%.2f  %v\n",
			candidate.LegCount(), candidate.CombinedProbability, candidate.CombinedEV,
			suggestion.SuggestedStake, candidate.LegNames())
	}
}

func startMetricsServer() {
	if !cfg.Metrics.Enabled {
		return
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)

	go func() {
		log.WithField("addr", addr).Info("Metrics server listening")
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

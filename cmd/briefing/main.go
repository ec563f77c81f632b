package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-stock-briefing/internal/briefing/cadence"
	"go-stock-briefing/internal/briefing/config"
	delivery "go-stock-briefing/internal/briefing/delivery"
	deliveryhttp "go-stock-briefing/internal/briefing/delivery/http"
	"go-stock-briefing/internal/briefing/environment"
	"go-stock-briefing/internal/briefing/repository"
	"go-stock-briefing/internal/briefing/report"
	"go-stock-briefing/internal/briefing/scanner"
	"go-stock-briefing/internal/briefing/service"
	"go-stock-briefing/internal/briefing/source"
	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
	redisPkg "go-stock-briefing/pkg/redis"
	"go-stock-briefing/pkg/sqlite"
	"go-stock-briefing/pkg/telegram"
	"go-stock-briefing/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

const secondaryQuoteBaseURL = "https://query2.finance.yahoo.com"

var (
	configPath string
	runDate    string
	stdoutOnly bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one briefing and exits",
	Run:   runOnce,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the scheduled briefing service",
	Run:   runServe,
}

// app bundles the wired components for one process lifetime.
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	env          environment.Descriptor
	orchestrator *service.Orchestrator
	fanout       *delivery.Fanout
	historyRepo  repository.RunHistoryRepository
	closers      []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// executeRun performs one briefing run end to end: orchestrate, render,
// deliver.
func (a *app) executeRun(ctx context.Context, date time.Time) error {
	runReport, err := a.orchestrator.Run(ctx, date)
	if err != nil {
		return err
	}

	// Delivery is best-effort: sink failures are logged inside the fanout
	// and never fail the run.
	markdown := report.Render(runReport)
	a.fanout.Deliver(ctx, runReport, markdown)

	if runReport.Status == entity.StatusManualReview {
		a.log.Warn("Run requires manual review",
			logger.StringField("date", utils.FormatISODate(runReport.Date)),
			logger.IntField("triggers", len(runReport.GuardrailTriggers)),
		)
	}
	return nil
}

func bootstrap(cfg *config.Config, appLogger *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: appLogger}
	a.env = environment.Detect(cfg)

	if cfg.Database.Enabled {
		db, err := sqlite.NewDB(sqlite.Config{
			Path:     cfg.Database.Path,
			LogLevel: cfg.Database.LogLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.DB.AutoMigrate(&entity.BriefingRun{}); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		}
		a.historyRepo = repository.NewRunHistoryRepository(db.DB)
	}

	var redisClient *redisPkg.Client
	if cfg.Redis.Enabled {
		client, err := redisPkg.NewClient(redisPkg.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		redisClient = client
		a.closers = append(a.closers, func() { _ = client.Close() })
	}
	priceCache := repository.NewPriceCacheRepository(redisClient)

	// Two quote repositories against the provider's two public hosts; the
	// snapshot source falls back to the secondary when the primary fails.
	quoteRepo := repository.NewQuoteRepository(cfg, appLogger)
	secondaryCfg := *cfg
	secondaryCfg.Sources.Quote.BaseURL = secondaryQuoteBaseURL
	secondaryQuoteRepo := repository.NewQuoteRepository(&secondaryCfg, appLogger)

	newsRepo := repository.NewNewsRepository(cfg, appLogger)
	filingsRepo := repository.NewFilingsRepository(cfg, appLogger)
	insiderRepo := repository.NewInsiderRepository(cfg, appLogger)
	calendar := repository.NewTradingCalendar(cfg, appLogger)

	snapshotSource := source.NewFallbackSource(
		source.NewSnapshotSource(appLogger, quoteRepo),
		source.NewSnapshotSource(appLogger, secondaryQuoteRepo),
	)
	sources := []source.DataSource{
		snapshotSource,
		source.NewNewsSource(appLogger, newsRepo),
		source.NewFilingsSource(appLogger, filingsRepo, cfg.Sources.Filings.LookbackDays),
		source.NewMarketIntelSource(appLogger, quoteRepo, cfg.Sources.Ecosystem),
		source.NewInsiderSource(appLogger, insiderRepo, cfg.Guardrails.InsiderClusterMinSellers, cfg.Guardrails.InsiderClusterWindowDays),
	}

	policy := cadence.NewPolicy(cfg.Cadence.BiMonthlyDays, cfg.Guardrails.EarningsWindowDays)
	flagScanner := scanner.New(scanner.Config{
		PriceMovePctThreshold: cfg.Guardrails.PriceMovePctThreshold,
		ClusterMinSellers:     cfg.Guardrails.InsiderClusterMinSellers,
		ClusterWindowDays:     cfg.Guardrails.InsiderClusterWindowDays,
	})

	a.orchestrator = service.NewOrchestrator(cfg, appLogger, a.env, policy, calendar, sources, flagScanner, a.historyRepo, priceCache)

	sinks := []delivery.Sink{
		delivery.NewFileSink(appLogger, a.env.ReportDir, cfg.Output.FilenameFormat, a.env.StdoutOnly, nil),
		delivery.NewProposalSink(appLogger, cfg.ProposalPath()),
	}
	if a.historyRepo != nil {
		sinks = append(sinks, delivery.NewHistorySink(appLogger, a.historyRepo))
	}
	if cfg.Telegram.Enabled {
		notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Warn("Failed to initialize Telegram, notifications disabled", logger.ErrorField(err))
		} else {
			sinks = append(sinks, delivery.NewTelegramSink(appLogger, notifier))
		}
	}
	a.fanout = delivery.NewFanout(appLogger, sinks...)

	return a, nil
}

func runOnce(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if stdoutOnly {
		cfg.Output.StdoutOnly = true
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	a, err := bootstrap(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize briefing", logger.ErrorField(err))
	}
	defer a.close()

	date := utils.TimeNowIn(cfg.Cadence.Timezone)
	if runDate != "" {
		parsed, err := utils.ParseISODate(runDate)
		if err != nil {
			appLogger.Fatal("Invalid --date, expected YYYY-MM-DD", logger.ErrorField(err))
		}
		date = parsed
	}

	if err := a.executeRun(ctx, date); err != nil {
		appLogger.Fatal("Briefing run failed", logger.ErrorField(err))
	}
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting briefing service", logger.Field("name", cfg.App.Name))

	a, err := bootstrap(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize briefing", logger.ErrorField(err))
	}
	defer a.close()

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		appLogger.Fatal("Invalid scheduler timezone", logger.ErrorField(err))
	}

	scheduler := cron.New(cron.WithLocation(loc))
	_, err = scheduler.AddFunc(cfg.Scheduler.CronSpec, func() {
		// Each scheduled run bootstraps from a fresh config load so
		// watchlist edits and the earnings proposal sidecar take effect
		// without a restart.
		freshCfg, err := config.Load(configPath)
		if err != nil {
			appLogger.Error("Failed to reload configuration, skipping run", logger.ErrorField(err))
			return
		}
		runApp, err := bootstrap(freshCfg, appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize scheduled run", logger.ErrorField(err))
			return
		}
		defer runApp.close()

		if err := runApp.executeRun(ctx, time.Now().In(loc)); err != nil {
			appLogger.Error("Scheduled briefing run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		appLogger.Fatal("Invalid cron spec", logger.ErrorField(err))
	}
	scheduler.Start()
	appLogger.Info("Scheduler started", logger.StringField("cron", cfg.Scheduler.CronSpec))

	e := echo.New()
	e.HideBanner = true
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "env": a.env.Name})
	})
	if a.historyRepo != nil {
		reportHandler := deliveryhttp.NewReportHandler(a.historyRepo, appLogger)
		apiV1 := e.Group("/api/v1")
		reportHandler.RegisterRoutes(apiV1.Group("/reports"))
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down...")
	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "briefing",
		Short: "Cadence-aware daily stock briefing",
	}

	runCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")
	runCmd.Flags().StringVar(&runDate, "date", "", "Run date (YYYY-MM-DD), defaults to today")
	runCmd.Flags().BoolVar(&stdoutOnly, "stdout-only", false, "Print the report instead of writing files")
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing briefing CLI: %s\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inbox-triage/config"
	"inbox-triage/internal/httpserver"
	"inbox-triage/internal/mailbox"
	"inbox-triage/internal/report"
	"inbox-triage/internal/triage/usecase"
	"inbox-triage/pkg/datemath"
	"inbox-triage/pkg/gcalendar"
	"inbox-triage/pkg/llmprovider"
	"inbox-triage/pkg/log"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Inbox Triage...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Mailbox: %s", cfg.Mailbox.Dir)

	// 3. DateMath parser
	timezone := cfg.Pipeline.Timezone
	dateMathParser, dtErr := datemath.NewParser(timezone)
	if dtErr != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", timezone, dtErr)
		timezone = "UTC"
		dateMathParser, _ = datemath.NewParser(timezone)
	}

	// 4. LLM providers
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	llmManager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      parseDuration(cfg.LLM.RetryDelay, time.Second),
		MaxTotalTimeout: parseDuration(cfg.LLM.MaxTotalTimeout, 60*time.Second),
		RequestsPerMin:  cfg.LLM.RequestsPerMin,
		CacheTTL:        parseDuration(cfg.LLM.CacheTTL, 0),
		CacheSize:       cfg.LLM.CacheSize,
	}, logger)
	logger.Infof(ctx, "LLM providers initialized: %d", len(providers))

	// 5. Google Calendar client (optional)
	var calendar usecase.CalendarScheduler
	if cfg.GoogleCalendar.CredentialsPath != "" {
		calendarClient, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
		} else {
			logger.Info(ctx, "Google Calendar initialized")
			calendar = calendarClient
		}
	}

	// 6. Triage UseCase
	var referenceDate time.Time
	if cfg.Pipeline.ReferenceDate != "" {
		referenceDate, err = time.Parse("2006-01-02", cfg.Pipeline.ReferenceDate)
		if err != nil {
			logger.Warnf(ctx, "Invalid reference date %q, using current time: %v", cfg.Pipeline.ReferenceDate, err)
			referenceDate = time.Time{}
		}
	}

	reader := mailbox.NewReader(logger, cfg.Mailbox.Dir)
	triageUC := usecase.New(logger, llmManager, reader, dateMathParser, calendar, usecase.Options{
		SummaryTemperature:    cfg.Pipeline.SummaryTemperature,
		ExtractionTemperature: cfg.Pipeline.ExtractionTemperature,
		Workers:               cfg.Pipeline.Workers,
		Timezone:              timezone,
		CalendarID:            cfg.GoogleCalendar.CalendarID,
		ReferenceDate:         referenceDate,
	})

	// 7. Process the mailbox once at startup
	out, err := triageUC.Run(ctx)
	if err != nil {
		logger.Error(ctx, "Triage run failed: ", err)
		return
	}

	records := report.BuildRecords(out.Results)
	if err := report.WriteJSON(cfg.Output.JSONPath, records); err != nil {
		logger.Error(ctx, "Failed to write JSON report: ", err)
		return
	}
	if err := report.WriteMarkdown(cfg.Output.MarkdownPath, records, out.Stats); err != nil {
		logger.Error(ctx, "Failed to write Markdown digest: ", err)
		return
	}

	logger.Infof(ctx, "Run %s complete: %d emails, %d tasks, %d degraded, %d failed",
		out.RunID, out.Stats.EmailsProcessed, out.Stats.TasksExtracted, out.Stats.Degraded, out.Stats.Failed)
	logger.Infof(ctx, "Report written to %s, digest to %s", cfg.Output.JSONPath, cfg.Output.MarkdownPath)

	// 8. HTTP server (optional)
	if !cfg.HTTPServer.Enabled {
		return
	}

	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:          cfg.HTTPServer.Port,
		Mode:          cfg.HTTPServer.Mode,
		Environment:   cfg.Environment.Name,
		TriageUseCase: triageUC,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}
	httpServer.SetLatest(out)

	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

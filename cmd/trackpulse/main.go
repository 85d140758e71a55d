package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/trackpulse/trackpulse/internal/aggregate"
	"github.com/trackpulse/trackpulse/internal/api"
	"github.com/trackpulse/trackpulse/internal/cache"
	"github.com/trackpulse/trackpulse/internal/config"
	"github.com/trackpulse/trackpulse/internal/enrich"
	"github.com/trackpulse/trackpulse/internal/history"
	"github.com/trackpulse/trackpulse/internal/llm"
	llmopenai "github.com/trackpulse/trackpulse/internal/llm/openai"
	"github.com/trackpulse/trackpulse/internal/observability/otelx"
	"github.com/trackpulse/trackpulse/internal/outputs/digest"
	digestsmtp "github.com/trackpulse/trackpulse/internal/outputs/digest/smtp"
	readabilityimpl "github.com/trackpulse/trackpulse/internal/readability/impl"
	"github.com/trackpulse/trackpulse/internal/sources/feed"
	feedimpl "github.com/trackpulse/trackpulse/internal/sources/feed/impl"
)

func main() {
	env := config.LoadEnv()

	configPath := flag.String("config", env.PipelineConfigPath, "path to pipeline document")
	listenAddr := flag.String("listen", env.ListenAddr, "http listen address")
	runOnce := flag.Bool("run-once", env.RunOnce, "run one cycle and exit")
	summaryDB := flag.String("summary-db", strings.TrimSpace(os.Getenv("TRACKPULSE_SUMMARY_DB")), "optional sqlite path for the AI summary cache")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	doc, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load pipeline document: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := otelx.Init(ctx, logger, env.OTel)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	if shutdownOTel != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(shutdownCtx)
		}()
	}

	var llmClient llm.Client
	if env.OpenAI.APIKey != "" || env.OpenAI.BaseURL != "" {
		llmClient = llmopenai.NewClient(llmopenai.Config{
			APIKey:  env.OpenAI.APIKey,
			BaseURL: env.OpenAI.BaseURL,
		})
	}
	summarizer := enrich.NewSummarizer(llmClient, enrich.SummarizerOptions{
		Model:   env.OpenAI.Model,
		Enabled: env.OpenAI.Enabled,
		Timeout: env.OpenAI.Timeout,
	})

	orchestrator := enrich.NewOrchestrator(
		readabilityimpl.NewExtractor(env.Pages.HTTPTimeout, env.Pages.UserAgent),
		summarizer,
		enrich.NewClassifierWithKeywords(doc.TrackOverrides()),
		doc.Pipeline.Concurrency,
	)
	if *summaryDB != "" {
		summaries, err := history.NewSQLiteStore(*summaryDB, "", 0)
		if err != nil {
			log.Fatalf("failed to open summary cache: %v", err)
		}
		defer summaries.Close()
		orchestrator.UseSummaryStore(summaries)
	}

	var filter *aggregate.Filter
	if doc.Pipeline.Filter != "" {
		filter, err = aggregate.NewFilter(doc.Pipeline.Filter)
		if err != nil {
			log.Fatalf("invalid filter rule: %v", err)
		}
	}

	var notifier aggregate.Notifier
	if cfg := doc.Pipeline.Digest; cfg != nil {
		if err := digestsmtp.ValidateConfig(env.SMTP.Host, env.SMTP.Port); err != nil {
			log.Fatalf("digest configured but smtp unusable: %v", err)
		}
		sender := digestsmtp.NewSender(
			env.SMTP.Host, env.SMTP.Port,
			env.SMTP.User, env.SMTP.Password,
			env.SMTP.TLSMode, env.SMTP.InsecureSkipVerify,
		)
		notifier, err = digest.NewOutput(sender, digest.OutputOptions{
			To:      cfg.To,
			From:    cfg.From,
			Subject: cfg.Subject,
		})
		if err != nil {
			log.Fatalf("failed to build digest output: %v", err)
		}
	}

	store := cache.New()
	aggregator, err := aggregate.New(aggregate.Config{
		Sources: doc.Sources(),
		FetchOptions: feed.FetchOptions{
			Limit:     doc.Pipeline.PerSourceLimit,
			UserAgent: env.Feeds.UserAgent,
		},
		MaxItems: doc.Pipeline.MaxItems,
		Filter:   filter,
		Notifier: notifier,
	}, feedimpl.NewFetcher(env.Feeds.HTTPTimeout, env.Feeds.UserAgent), orchestrator, store, logger)
	if err != nil {
		log.Fatalf("failed to build aggregator: %v", err)
	}

	scheduler := aggregate.NewScheduler(aggregator, doc.Interval(), logger)

	if *runOnce {
		if _, err := scheduler.Refresh(ctx); err != nil {
			log.Fatalf("run failed: %v", err)
		}
		return
	}

	server := api.NewServer(store, scheduler, logger)
	go func() {
		if err := server.Start(*listenAddr); err != nil {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	scheduler.Stop()
}

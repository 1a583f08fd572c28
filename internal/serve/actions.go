package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/llmstxt-generator/internal/common"
	"github.com/dtnitsch/llmstxt-generator/internal/server"
	"github.com/dtnitsch/llmstxt-generator/models"
	"github.com/dtnitsch/llmstxt-generator/pkg/crawler"
	"github.com/dtnitsch/llmstxt-generator/pkg/db"
	"github.com/dtnitsch/llmstxt-generator/pkg/enricher"
	"github.com/dtnitsch/llmstxt-generator/pkg/metrics"
	"github.com/dtnitsch/llmstxt-generator/pkg/payment"
	"github.com/dtnitsch/llmstxt-generator/pkg/pipeline"
)

var Flags = []cli.Flag{
	&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port (default 3000, or $PORT)"},
	&cli.StringFlag{Name: "data-dir", Usage: "directory for the run database"},
	&cli.DurationFlag{Name: "sweep-every", Usage: "how often expired runs are deleted (0 disables)"},
}

// ServeAction runs the HTTP API and the expired-run sweeper until
// interrupted.
func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.String("port")
	}
	if c.IsSet("data-dir") {
		cfg.Server.DataDir = c.String("data-dir")
	}
	if c.IsSet("sweep-every") {
		cfg.Server.SweepEvery = c.Duration("sweep-every")
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	m := metrics.New()
	crawl := crawler.NewFromConfig(cfg.Crawl, logger)
	enrich := enricher.NewFromConfig(cfg.Enrich, logger)
	gateway := payment.NewGateway(cfg.Payment, payment.WithLogger(logger))

	logger.Info("Starting llmstxt server",
		"port", cfg.Server.Port,
		"db", database.Path(),
		"crawl_provider", cfg.Crawl.Provider,
		"crawl_configured", crawl.Configured(),
		"enrichment_configured", enrich.Configured(),
		"checkout_configured", gateway.CheckoutConfigured(),
		"webhook_configured", gateway.WebhookConfigured(),
	)

	router := server.NewRouter(server.Deps{
		Store: database,
		Generator: pipeline.NewGenerator(crawl, enrich,
			pipeline.WithCandidateLimit(cfg.Enrich.MaxPages),
			pipeline.WithLogger(logger),
			pipeline.WithMetrics(m)),
		Payments:     gateway,
		Metrics:      m,
		Logger:       logger,
		CleanupToken: cfg.Server.CleanupToken,
	})
	srv := server.New(":"+cfg.Server.Port, router, logger)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return Sweep(ctx, database, cfg.Server.SweepEvery, m, logger) })

	return g.Wait()
}

// Expirer deletes runs past their expiry.
type Expirer interface {
	DeleteExpired() (int64, error)
}

// Sweep deletes expired runs every interval until ctx is done. A
// non-positive interval disables it. Failures are logged and retried on
// the next tick.
func Sweep(ctx context.Context, store Expirer, every time.Duration, m *metrics.Metrics, logger *slog.Logger) error {
	if every <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			deleted, err := store.DeleteExpired()
			if err != nil {
				logger.Warn("Failed to delete expired runs", "error", err)
				continue
			}
			if m != nil {
				m.RunsDeleted.Add(float64(deleted))
			}
			if deleted > 0 {
				logger.Info("Expired runs deleted", "deleted", deleted)
			}
		}
	}
}

package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "NewsPull/internal/domain/repository"
	"NewsPull/internal/report"
	"NewsPull/internal/service/feeds"
	"NewsPull/internal/usecase"
	pkgch "NewsPull/pkg/clickhouse"
	"NewsPull/pkg/config"
	xhttp "NewsPull/pkg/http"
	pkgkafka "NewsPull/pkg/kafka"
	applogger "NewsPull/pkg/logger"
	"NewsPull/pkg/queue"

	"github.com/robfig/cron/v3"
)

// App encapsulates the entire application lifecycle: scheduled scan cycles,
// the optional headline stream, the Kafka archive consumer, the HTTP API,
// and report delivery.
type App struct {
	cfg         *config.Config
	runner      *usecase.CycleRunner
	stream      *feeds.StreamSource
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	queue       *queue.RedisQueue
	notifier    drepo.Notifier
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler

	// Proc is closed on shutdown to release publisher/storage resources.
	Proc *usecase.ArticleProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	runner *usecase.CycleRunner,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		runner:   runner,
		consumer: consumer,
		kh:       kh,
		chClient: chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetStream attaches a live headline stream started with the app.
func (a *App) SetStream(s *feeds.StreamSource) { a.stream = s }

// SetDelivery attaches the report delivery queue and notifier.
func (a *App) SetDelivery(q *queue.RedisQueue, n drepo.Notifier) {
	a.queue = q
	a.notifier = n
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, err := applogger.New(&applogger.Config{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		Output: a.cfg.Logging.Output,
	})
	if err != nil {
		l, _ = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(l),
	)

	// Live stream intake, when configured
	if a.stream != nil {
		if err := a.stream.Start(ctx); err != nil {
			l.Error("stream start error", applogger.Error(err))
			return err
		}
		l.Info("headline stream started")
	}

	// Kafka consumer persists the scored-article topic into the archive
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Report delivery workers
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			l.Error("delivery queue start error", applogger.Error(err))
		} else {
			a.queue.StartRetryProcessor()
			l.Info("delivery queue started")
		}
	}

	// Scheduled scans: cron for the daily run, optional interval loop for
	// continuous scanning.
	var sched *cron.Cron
	if a.cfg.Scan.Cron != "" {
		sched = cron.New()
		if _, err := sched.AddFunc(a.cfg.Scan.Cron, func() { a.runCycle(ctx, l) }); err != nil {
			l.Error("cron schedule error", applogger.Error(err))
			return err
		}
		sched.Start()
		l.Info("scan schedule registered", applogger.String("cron", a.cfg.Scan.Cron))
	}
	if a.cfg.Scan.Interval > 0 {
		go func() {
			ticker := time.NewTicker(a.cfg.Scan.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					a.runCycle(ctx, l)
				}
			}
		}()
		l.Info("interval scanning enabled", applogger.Duration("interval", a.cfg.Scan.Interval))
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	if sched != nil {
		sched.Stop()
	}
	cancel()
	return a.shutdown(l)
}

// runCycle executes one scan and dispatches the report.
func (a *App) runCycle(ctx context.Context, l *applogger.Logger) {
	rep, err := a.runner.Run(ctx)
	if err != nil {
		if errors.Is(err, usecase.ErrCycleInProgress) {
			l.Warn("scan skipped, previous cycle still running")
			return
		}
		l.Error("scan cycle error", applogger.Error(err))
		if rep == nil {
			return
		}
	}

	if !a.cfg.Report.Email.Enabled {
		return
	}
	subject, html, err := report.Render(rep)
	if err != nil {
		l.Error("report render error", applogger.Error(err))
		return
	}
	payload := report.DeliverPayload{Subject: subject, HTML: html}
	if a.queue != nil {
		if err := a.queue.Enqueue(ctx, report.MsgTypeDeliver, payload); err != nil {
			l.Error("report enqueue error", applogger.Error(err))
		}
		return
	}
	if a.notifier != nil {
		if err := a.notifier.Deliver(ctx, subject, html); err != nil {
			l.Error("report delivery error", applogger.Error(err))
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(l *applogger.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if a.stream != nil {
		if err := a.stream.Stop(); err != nil {
			l.Warn("stream stop error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			l.Warn("delivery queue stop error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.Proc != nil {
		a.Proc.Close()
	}

	l.Info("shutdown complete")
	return nil
}

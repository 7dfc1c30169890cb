package di

import (
	"context"
	"fmt"
	"time"

	"NewsPull/internal/domain/repository"
	domsvc "NewsPull/internal/domain/service"
	"NewsPull/internal/handler/api"
	mid "NewsPull/internal/middleware"
	"NewsPull/internal/report"
	internalrepo "NewsPull/internal/repository"
	"NewsPull/internal/service/feeds"
	"NewsPull/internal/services/sentiment"
	"NewsPull/internal/usecase"
	"NewsPull/internal/watchlist"
	pkgcache "NewsPull/pkg/cache"
	pkgch "NewsPull/pkg/clickhouse"
	"NewsPull/pkg/config"
	xhttp "NewsPull/pkg/http"
	pkgkafka "NewsPull/pkg/kafka"
	"NewsPull/pkg/logger"
	"NewsPull/pkg/metrics"
	"NewsPull/pkg/queue"
	"NewsPull/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideWatchlist loads the alias index. Any malformed entry aborts startup.
func ProvideWatchlist(cfg *config.Config) (*watchlist.AliasIndex, error) {
	idx, err := watchlist.Load(cfg.Watchlist.File)
	if err != nil {
		return nil, fmt.Errorf("watchlist: %w", err)
	}
	return idx, nil
}

// ProvideRedisCache creates the shared Redis client used for dedup and the
// delivery queue.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	c, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Dedup.Redis.Host),
		pkgcache.WithRedisPort(cfg.Dedup.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Dedup.Redis.Password),
		pkgcache.WithRedisDB(cfg.Dedup.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return c, nil
}

// ProvideDedupStore creates the persistent article-identity store.
func ProvideDedupStore(c *pkgcache.RedisCache, cfg *config.Config) repository.DedupStore {
	return internalrepo.NewRedisDedup(c, cfg.Dedup.TTL)
}

// ProvideClickHouseClient creates a ClickHouse client when the archive is in
// use; otherwise the app runs without one.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Output.Backend != "clickhouse" && !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".news_articles (" +
			"id String, symbol String, published_at DateTime, source String, " +
			"title String, summary String, link String, score Float64, " +
			"label String, strategy String" +
			") ENGINE=MergeTree ORDER BY (symbol, published_at)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideStorage creates the scored-article archive.
func ProvideStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseArchive(chClient.DB(), cfg.ClickHouse.Database+".news_articles")
}

// ProvideKafkaProducer creates a Kafka producer when the kafka backend is
// selected.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Output.Backend != "kafka" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the scored-article topic publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates the archive consumer when enabled.
func ProvideKafkaConsumer(cfg *config.Config, log *logger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerLogger(log),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaArticlesHandler registers the handler for the article topic.
func ProvideKafkaArticlesHandler(store repository.Storage, m repository.Metrics, cfg *config.Config) *usecase.KafkaArticlesHandler {
	return usecase.NewKafkaArticlesHandler(cfg.Kafka.Topic, store, m)
}

// ProvideScorer selects the sentiment strategy from config.
func ProvideScorer(cfg *config.Config, log *logger.Logger) domsvc.Scorer {
	if cfg.Sentiment.Strategy == "model" {
		return sentiment.NewModelScorer(
			cfg.Sentiment.Model.URL,
			cfg.Sentiment.Model.Timeout,
			cfg.Sentiment.Model.CacheTTL,
			cfg.Sentiment.Model.MaxRPS,
			log,
		)
	}
	return sentiment.NewLexicalScorer(cfg.Sentiment.BullishWords, cfg.Sentiment.BearishWords)
}

// ProvideDisambiguator creates the context disambiguator.
func ProvideDisambiguator(idx *watchlist.AliasIndex, cfg *config.Config) *usecase.Disambiguator {
	return usecase.NewDisambiguator(idx, cfg.Watchlist.ContextWindow)
}

// ProvideProcessor creates the output backend router.
func ProvideProcessor(pub repository.Publisher, store repository.Storage, m repository.Metrics, cfg *config.Config) *usecase.ArticleProcessor {
	backend := cfg.Output.Backend
	if backend == "" {
		backend = "none"
	}
	return usecase.NewArticleProcessor(pub, store, m, backend)
}

// FeedSetup bundles the configured intake path.
type FeedSetup struct {
	Sources []repository.FeedSource
	Stream  *feeds.StreamSource // nil for rss intake
}

// ProvideFeeds builds either the RSS poller or the buffered live stream
// fronted by the intake pipeline.
func ProvideFeeds(cfg *config.Config, m repository.Metrics, log *logger.Logger) *FeedSetup {
	if cfg.Feeds.Source == "stream" {
		client := feeds.NewStreamClient(
			cfg.Feeds.Stream.APIKey,
			cfg.Feeds.Stream.URL,
			cfg.Feeds.Stream.ReconnectDelay,
			cfg.Feeds.Stream.PingInterval,
			log,
		)
		src := feeds.NewStreamSource(client, cfg.Feeds.Stream.BufferSize, log)
		pipe := mid.NewIntakePipeline(src, m,
			mid.WithMaxRPS(50),
			mid.WithBufferSize(2000),
		)
		src.SetPipe(pipe)
		return &FeedSetup{Sources: []repository.FeedSource{src}, Stream: src}
	}
	rss := feeds.NewRSSSource(cfg.Feeds.URLs, cfg.Feeds.PerFeedLimit, cfg.Feeds.FetchTimeout, log)
	return &FeedSetup{Sources: []repository.FeedSource{rss}}
}

// ProvideRunner creates the scan cycle runner.
func ProvideRunner(
	setup *FeedSetup,
	dedup repository.DedupStore,
	scorer domsvc.Scorer,
	disamb *usecase.Disambiguator,
	idx *watchlist.AliasIndex,
	proc *usecase.ArticleProcessor,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.CycleRunner {
	return usecase.NewCycleRunner(
		setup.Sources,
		dedup,
		scorer,
		disamb,
		idx,
		proc,
		m,
		log,
		cfg.Scan.Workers,
		cfg.Scan.ArticleTimeout,
		cfg.Scan.TopHeadlines,
	)
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(log *logger.Logger, runner *usecase.CycleRunner, idx *watchlist.AliasIndex, store repository.Storage) xhttp.Handler {
	return api.NewReportEchoHandler(log, runner, idx, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	runner *usecase.CycleRunner,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaArticlesHandler,
	chClient *pkgch.Client,
	setup *FeedSetup,
	proc *usecase.ArticleProcessor,
	handler xhttp.Handler,
	rc *pkgcache.RedisCache,
	log *logger.Logger,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NewLoggingHook(log))
	}
	app := server.New(cfg, runner, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	app.Proc = proc
	if setup.Stream != nil {
		app.SetStream(setup.Stream)
	}

	if cfg.Report.Email.Enabled {
		notifier := report.NewSMTPNotifier(
			cfg.Report.Email.Host,
			cfg.Report.Email.Port,
			cfg.Report.Email.User,
			cfg.Report.Email.Password,
			cfg.Report.Email.Recipients,
		)
		q := queue.NewRedisQueue(log, &queue.QueueConfig{
			Workers:    cfg.Report.Queue.Workers,
			RetryLimit: cfg.Report.Queue.RetryLimit,
			RetryDelay: cfg.Report.Queue.RetryDelay,
		}, rc.Client())
		q.RegisterJob(report.NewDeliverJob(notifier))
		app.SetDelivery(q, notifier)
	}
	return app
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Feeds struct {
		Source       string        `yaml:"source"` // "rss" or "stream"
		URLs         []string      `yaml:"urls"`
		PerFeedLimit int           `yaml:"per_feed_limit"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		Stream       struct {
			URL            string        `yaml:"url"`
			APIKey         string        `yaml:"api_key"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay"`
			PingInterval   time.Duration `yaml:"ping_interval"`
			BufferSize     int           `yaml:"buffer_size"`
		} `yaml:"stream"`
	} `yaml:"feeds"`
	Watchlist struct {
		File          string `yaml:"file"`
		ContextWindow int    `yaml:"context_window"` // words, default for policies without one
	} `yaml:"watchlist"`
	Sentiment struct {
		Strategy      string   `yaml:"strategy"` // "lexical" or "model"
		BullishWords  []string `yaml:"bullish_words"`
		BearishWords  []string `yaml:"bearish_words"`
		Model         struct {
			URL      string        `yaml:"url"`
			Timeout  time.Duration `yaml:"timeout"`
			CacheTTL time.Duration `yaml:"cache_ttl"`
			MaxRPS   float64       `yaml:"max_rps"`
		} `yaml:"model"`
	} `yaml:"sentiment"`
	Scan struct {
		Workers        int           `yaml:"workers"`
		ArticleTimeout time.Duration `yaml:"article_timeout"`
		TopHeadlines   int           `yaml:"top_headlines"`
		Cron           string        `yaml:"cron"`     // daily scan schedule
		Interval       time.Duration `yaml:"interval"` // 0 disables the interval loop
	} `yaml:"scan"`
	Dedup struct {
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"dedup"`
	Output struct {
		Backend string `yaml:"backend"` // "kafka", "clickhouse", or "none"
	} `yaml:"output"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			Enabled    bool          `yaml:"enabled"`
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Report struct {
		Email struct {
			Enabled   bool     `yaml:"enabled"`
			Host      string   `yaml:"host"`
			Port      int      `yaml:"port"`
			User      string   `yaml:"user"`
			Password  string   `yaml:"password"`
			Recipients []string `yaml:"recipients"`
		} `yaml:"email"`
		Queue struct {
			Workers    int           `yaml:"workers"`
			RetryLimit int           `yaml:"retry_limit"`
			RetryDelay time.Duration `yaml:"retry_delay"`
		} `yaml:"queue"`
	} `yaml:"report"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FEED_URLS"); v != "" {
		c.Feeds.URLs = strings.Split(v, ",")
	}
	if v := os.Getenv("STREAM_API_KEY"); v != "" {
		c.Feeds.Stream.APIKey = v
	}
	if v := os.Getenv("SENTIMENT_STRATEGY"); v != "" {
		c.Sentiment.Strategy = v
	}
	if v := os.Getenv("MODEL_URL"); v != "" {
		c.Sentiment.Model.URL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Dedup.Redis.Password = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Report.Email.Password = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Feeds.Source != "rss" && c.Feeds.Source != "stream" {
		return fmt.Errorf("feeds.source must be 'rss' or 'stream', got '%s'", c.Feeds.Source)
	}
	if c.Feeds.Source == "rss" && len(c.Feeds.URLs) == 0 {
		return fmt.Errorf("feeds.urls cannot be empty for rss source")
	}
	if c.Feeds.Source == "stream" && c.Feeds.Stream.URL == "" {
		return fmt.Errorf("feeds.stream.url is required for stream source")
	}
	if c.Watchlist.File == "" {
		return fmt.Errorf("watchlist.file is required")
	}
	switch c.Sentiment.Strategy {
	case "lexical":
		if len(c.Sentiment.BullishWords) == 0 && len(c.Sentiment.BearishWords) == 0 {
			return fmt.Errorf("lexical strategy requires bullish_words or bearish_words")
		}
	case "model":
		if c.Sentiment.Model.URL == "" {
			return fmt.Errorf("sentiment.model.url is required for model strategy")
		}
	default:
		return fmt.Errorf("sentiment.strategy must be 'lexical' or 'model', got '%s'", c.Sentiment.Strategy)
	}
	switch c.Output.Backend {
	case "kafka", "clickhouse", "none", "":
	default:
		return fmt.Errorf("output.backend must be 'kafka', 'clickhouse', or 'none', got '%s'", c.Output.Backend)
	}
	return nil
}

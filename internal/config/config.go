package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common contains Elasticsearch parameters shared by every service.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
}

// Collector holds configuration for the bulk Article Search collector.
type Collector struct {
	Common
	APIKey          string
	BaseURL         string
	JobsFile        string
	RequiredFields  []string
	Strict          bool
	RequestInterval time.Duration
	MaxRetries      int
	IndexArticles   bool
}

// Worker holds configuration for the Kafka -> Elasticsearch worker.
type Worker struct {
	Common
	KafkaBrokers   []string
	KafkaTopic     string
	KafkaConsumer  string
	RequiredFields []string
	BatchSize      int
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr    string
	DefaultPage int
	MaxPage     int
}

// LoadCollector builds a Collector config from environment variables.
func LoadCollector() (*Collector, error) {
	c := &Collector{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "articles"),
		},
		APIKey:          getEnv("NYT_API_KEY", ""),
		BaseURL:         getEnv("NYT_BASE_URL", ""),
		JobsFile:        getEnv("COLLECTOR_JOBS_FILE", "jobs.yaml"),
		RequiredFields:  splitAndTrim(getEnv("COLLECTOR_REQUIRED_FIELDS", "_id,headline,pub_date")),
		Strict:          getBool("COLLECTOR_STRICT", false),
		RequestInterval: getDuration("COLLECTOR_REQUEST_INTERVAL", "12s"),
		MaxRetries:      getInt("COLLECTOR_MAX_RETRIES", 3),
		IndexArticles:   getBool("COLLECTOR_INDEX_ARTICLES", false),
	}

	if c.APIKey == "" {
		return nil, fmt.Errorf("NYT_API_KEY must be set")
	}
	if c.JobsFile == "" {
		return nil, fmt.Errorf("COLLECTOR_JOBS_FILE must be set")
	}
	if len(c.RequiredFields) == 0 {
		return nil, fmt.Errorf("COLLECTOR_REQUIRED_FIELDS must contain at least one field")
	}
	if c.RequestInterval <= 0 {
		return nil, fmt.Errorf("COLLECTOR_REQUEST_INTERVAL must be positive")
	}
	if c.MaxRetries < 0 {
		return nil, fmt.Errorf("COLLECTOR_MAX_RETRIES cannot be negative")
	}

	return c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	c := &Worker{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "articles"),
		},
		KafkaBrokers:   splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "articles_raw"),
		KafkaConsumer:  getEnv("KAFKA_CONSUMER_GROUP", "article-worker"),
		RequiredFields: splitAndTrim(getEnv("WORKER_REQUIRED_FIELDS", "_id,headline,pub_date")),
		BatchSize:      getInt("WORKER_BATCH_SIZE", 10),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if len(c.RequiredFields) == 0 {
		return nil, fmt.Errorf("WORKER_REQUIRED_FIELDS must contain at least one field")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "articles"),
		},
		BindAddr:    getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		DefaultPage: getInt("API_PAGE_SIZE", 20),
		MaxPage:     getInt("API_MAX_PAGE_SIZE", 100),
	}

	if c.DefaultPage <= 0 {
		return nil, fmt.Errorf("API_PAGE_SIZE must be positive")
	}
	if c.MaxPage <= 0 {
		return nil, fmt.Errorf("API_MAX_PAGE_SIZE must be positive")
	}
	if c.DefaultPage > c.MaxPage {
		return nil, fmt.Errorf("API_PAGE_SIZE cannot exceed API_MAX_PAGE_SIZE")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

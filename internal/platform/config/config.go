package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	admission "auditgate/internal/admission/config"
)

// Store drivers for audit records.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Lead sinks.
const (
	LeadSinkNone  = "none"
	LeadSinkRedis = "redis"
	LeadSinkKafka = "kafka"
)

// Config is the full server configuration, read once at startup.
type Config struct {
	Server    Server
	Admission admission.Config
	Tokens    Tokens
	Store     Store
	Redis     RedisConfig
	Kafka     KafkaConfig
	Attempts  Attempts
	LogLevel  string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// Tokens configures bypass token signing. When Secret is empty the key is
// derived from the admin key; with neither, tokens are disabled.
type Tokens struct {
	Secret     string
	DefaultTTL time.Duration
	MaxTTL     time.Duration
}

// Store selects the audit-record backend.
type Store struct {
	Driver      string
	PostgresURL string
	SQLitePath  string
}

// RedisConfig configures the Redis client used for the lead stream.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LeadStream   string
}

// KafkaConfig configures the lead topic producer.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// Attempts configures the attempt log.
type Attempts struct {
	PostgresURL  string
	LeadSink     string
	QueueSize    int
	RingCapacity int
}

// FromEnv builds the configuration from AUDITGATE_* environment variables.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	r := reader{lookup: lookup}

	adm := admission.DefaultConfig()
	adm.AdminKey = r.str("AUDITGATE_ADMIN_KEY", "")
	adm.Window = r.duration("AUDITGATE_RATE_WINDOW", adm.Window)
	adm.MaxPerWindow = r.int("AUDITGATE_MAX_AUDITS_PER_WINDOW", adm.MaxPerWindow)
	adm.HistoryLimit = r.int("AUDITGATE_HISTORY_LIMIT", adm.HistoryLimit)

	cfg := Config{
		Server: Server{
			Addr:            r.str("AUDITGATE_ADDR", ":8080"),
			ShutdownTimeout: r.duration("AUDITGATE_SHUTDOWN_TIMEOUT", 15*time.Second),
			RequestTimeout:  r.duration("AUDITGATE_REQUEST_TIMEOUT", 30*time.Second),
		},
		Admission: adm,
		Tokens: Tokens{
			Secret:     r.str("AUDITGATE_TOKEN_SECRET", ""),
			DefaultTTL: r.duration("AUDITGATE_TOKEN_DEFAULT_TTL", time.Hour),
			MaxTTL:     r.duration("AUDITGATE_TOKEN_MAX_TTL", 30*24*time.Hour),
		},
		Store: Store{
			Driver:      strings.ToLower(r.str("AUDITGATE_STORE_DRIVER", DriverMemory)),
			PostgresURL: r.str("AUDITGATE_POSTGRES_URL", ""),
			SQLitePath:  r.str("AUDITGATE_SQLITE_PATH", "./data/auditgate.db"),
		},
		Redis: RedisConfig{
			URL:          r.str("AUDITGATE_REDIS_URL", ""),
			PoolSize:     r.int("AUDITGATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: r.int("AUDITGATE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  r.duration("AUDITGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  r.duration("AUDITGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: r.duration("AUDITGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
			LeadStream:   r.str("AUDITGATE_REDIS_LEAD_STREAM", "auditgate:leads"),
		},
		Kafka: KafkaConfig{
			Brokers:  r.list("AUDITGATE_KAFKA_BROKERS"),
			Topic:    r.str("AUDITGATE_KAFKA_LEAD_TOPIC", "auditgate.leads"),
			ClientID: r.str("AUDITGATE_KAFKA_CLIENT_ID", "auditgate"),
		},
		Attempts: Attempts{
			PostgresURL:  r.str("AUDITGATE_ATTEMPTS_POSTGRES_URL", ""),
			LeadSink:     strings.ToLower(r.str("AUDITGATE_LEAD_SINK", LeadSinkNone)),
			QueueSize:    r.int("AUDITGATE_ATTEMPT_QUEUE_SIZE", 1024),
			RingCapacity: r.int("AUDITGATE_ATTEMPT_RING_CAPACITY", 10000),
		},
		LogLevel: r.str("AUDITGATE_LOG_LEVEL", "info"),
	}

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	if err := c.Admission.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.PostgresURL == "" {
			errs = append(errs, errors.New("AUDITGATE_POSTGRES_URL is required for the postgres store driver"))
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("AUDITGATE_SQLITE_PATH is required for the sqlite store driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	switch c.Attempts.LeadSink {
	case LeadSinkNone:
	case LeadSinkRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("AUDITGATE_REDIS_URL is required for the redis lead sink"))
		}
	case LeadSinkKafka:
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("AUDITGATE_KAFKA_BROKERS is required for the kafka lead sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown lead sink %q", c.Attempts.LeadSink))
	}
	if c.Tokens.Secret != "" && len(c.Tokens.Secret) < 16 {
		errs = append(errs, errors.New("AUDITGATE_TOKEN_SECRET must be at least 16 bytes"))
	}
	if c.Tokens.DefaultTTL <= 0 || c.Tokens.MaxTTL < c.Tokens.DefaultTTL {
		errs = append(errs, errors.New("token TTLs must be positive and default must not exceed max"))
	}
	return errors.Join(errs...)
}

// TokensEnabled reports whether a signing key can be obtained.
func (c Config) TokensEnabled() bool {
	return c.Tokens.Secret != "" || c.Admission.AdminKey != ""
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) int(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (r *reader) list(key string) []string {
	v := r.str(key, "")
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

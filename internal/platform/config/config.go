package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"jobeval/internal/evaluation"

	strs "jobeval/pkg/platform/strings"
)

// EnvPrefix namespaces environment overrides, e.g. JOBEVAL_SERVER_ADDR.
const EnvPrefix = "JOBEVAL"

// Config is the full service configuration.
type Config struct {
	Server     Server     `mapstructure:"server"`
	Auth       Auth       `mapstructure:"auth"`
	Registry   Registry   `mapstructure:"registry"`
	Identity   Identity   `mapstructure:"identity"`
	Redis      Redis      `mapstructure:"redis"`
	Postgres   Postgres   `mapstructure:"postgres"`
	Kafka      Kafka      `mapstructure:"kafka"`
	Evaluation Evaluation `mapstructure:"evaluation"`
	Log        Log        `mapstructure:"log"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Auth configures bearer tokens. An empty signing key disables auth.
type Auth struct {
	JWTSigningKey string `mapstructure:"jwt_signing_key"`
	Issuer        string `mapstructure:"issuer"`
	Audience      string `mapstructure:"audience"`
}

// Registry points at the remote identity registry. An empty BaseURL means
// no registry; the service then falls back to a static validator.
type Registry struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold int           `mapstructure:"failure_threshold"`
	SuccessThreshold int           `mapstructure:"success_threshold"`
}

// Identity holds validator level settings.
type Identity struct {
	OfficeCountry string        `mapstructure:"office_country"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

// Redis configures the validity cache. Empty URL keeps the cache in memory.
type Redis struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Postgres configures the audit store. Empty DSN keeps audit in memory.
type Postgres struct {
	DSN        string `mapstructure:"dsn"`
	AuditTable string `mapstructure:"audit_table"`
}

// Kafka configures the audit stream. No brokers disables publishing.
type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Evaluation tunes the decision rules.
type Evaluation struct {
	MatchRateFormula string `mapstructure:"match_rate_formula"`
}

// Log selects the log encoding and level.
type Log struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers every key with its default so env-only
// configuration is visible to Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("auth.jwt_signing_key", "")
	v.SetDefault("auth.issuer", "jobeval")
	v.SetDefault("auth.audience", "jobeval-api")

	v.SetDefault("registry.base_url", "")
	v.SetDefault("registry.api_key", "")
	v.SetDefault("registry.timeout", 5*time.Second)
	v.SetDefault("registry.failure_threshold", 5)
	v.SetDefault("registry.success_threshold", 2)

	v.SetDefault("identity.office_country", "Azerbaijan")
	v.SetDefault("identity.cache_ttl", 5*time.Minute)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.audit_table", "evaluation_audit")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "jobeval.evaluations")

	v.SetDefault("evaluation.match_rate_formula", "truncate_then_scale")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Load reads .env (if present), the optional config file at path, and
// JOBEVAL_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	return LoadWith(v, path)
}

// LoadWith is Load over a caller-provided viper instance, so CLI flags bound
// to v take precedence over everything else.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Kafka.Brokers = strs.DedupeAndTrim(cfg.Kafka.Brokers)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Registry.Timeout <= 0 {
		errs = append(errs, errors.New("registry.timeout must be positive"))
	}
	if c.Identity.CacheTTL <= 0 {
		errs = append(errs, errors.New("identity.cache_ttl must be positive"))
	}
	if strings.TrimSpace(c.Identity.OfficeCountry) == "" {
		errs = append(errs, errors.New("identity.office_country is required"))
	}
	if _, ok := evaluation.ParseMatchRateFormula(c.Evaluation.MatchRateFormula); !ok {
		errs = append(errs, fmt.Errorf("evaluation.match_rate_formula %q is not supported", c.Evaluation.MatchRateFormula))
	}
	if c.Postgres.DSN != "" && strings.TrimSpace(c.Postgres.AuditTable) == "" {
		errs = append(errs, errors.New("postgres.audit_table is required when postgres.dsn is set"))
	}
	if len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.Topic) == "" {
		errs = append(errs, errors.New("kafka.topic is required when kafka.brokers is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// AuthEnabled reports whether bearer tokens are required.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSigningKey != ""
}

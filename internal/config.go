package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/Roma7-7-7/salon-notifier/internal/notifier"
	pkgSSM "github.com/Roma7-7-7/salon-notifier/pkg/ssm"
)

const (
	StoreSQLite  = "sqlite"
	StoreRecords = "records"

	RegisterStore = "store"
	RegisterSSM   = "ssm"

	ssmPrefix = "/salon-notifier/prod/"
)

var ErrInvalidConfig = errors.New("invalid config")

type (
	StoreConfig struct {
		Backend      string `yaml:"backend"`
		SQLitePath   string `yaml:"sqlite_path"`
		RecordsURL   string `yaml:"records_url"`
		RecordsToken string `yaml:"records_token"`
	}

	RegisterConfig struct {
		Backend string `yaml:"backend"`
		SSMPath string `yaml:"ssm_path"`
	}

	Config struct {
		Dev           bool   `yaml:"dev"`
		TriggerSecret string `yaml:"trigger_secret"`
		// WebhookSecret is optional; when set, inbound updates must carry it.
		WebhookSecret string `yaml:"webhook_secret"`

		Store    StoreConfig    `yaml:"store"`
		Register RegisterConfig `yaml:"register"`

		UTCOffsetHours          int    `yaml:"utc_offset_hours"`
		SummaryHour             int    `yaml:"summary_hour"`
		SummaryRequiresDelivery bool   `yaml:"summary_requires_delivery"`
		Schedule                string `yaml:"schedule"`

		ListenAddr   string `yaml:"listen_addr"`
		PollCommands bool   `yaml:"poll_commands"`
	}
)

func defaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:    StoreSQLite,
			SQLitePath: "salon.db",
		},
		Register: RegisterConfig{
			Backend: RegisterStore,
			SSMPath: ssmPrefix + "register",
		},
		UTCOffsetHours: -3, //nolint:mnd // business zone
		SummaryHour:    notifier.DefaultSettings().SummaryHour,
		Schedule:       "*/5 * * * *",
		ListenAddr:     ":8080",
	}
}

// GetConfig resolves defaults, then CONFIG_FILE, then environment variables.
// Secrets still missing outside dev are fetched from SSM.
func GetConfig(ctx context.Context) (*Config, error) {
	res, err := loadConfig(os.Getenv)
	if err != nil {
		return nil, err
	}

	// In dev mode or if all secrets are set via env vars, skip SSM
	if res.Dev || len(res.missingSecrets()) == 0 {
		if err := res.validate(); err != nil {
			return nil, err
		}
		return res, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config (set required env vars to skip SSM): %w", err)
	}

	if err := res.fetchSecrets(ctx, ssm.NewFromConfig(cfg)); err != nil {
		return nil, fmt.Errorf("fetch SSM parameters (set required env vars to skip SSM): %w", err)
	}

	if err := res.validate(); err != nil {
		return nil, err
	}
	return res, nil
}

func loadConfig(getenv func(string) string) (*Config, error) {
	res := defaultConfig()

	if path := getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, res); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := res.applyEnv(getenv); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dest *string) {
		if v := getenv(key); v != "" {
			*dest = v
		}
	}
	setInt := func(key string, dest *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dest = n
		return nil
	}
	setBool := func(key string, dest *bool) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dest = b
		return nil
	}

	if env := getenv("ENV"); env != "" {
		c.Dev = env == "dev"
	}
	setString("TRIGGER_SECRET", &c.TriggerSecret)
	setString("WEBHOOK_SECRET", &c.WebhookSecret)
	setString("STORE_BACKEND", &c.Store.Backend)
	setString("SQLITE_PATH", &c.Store.SQLitePath)
	setString("RECORDS_URL", &c.Store.RecordsURL)
	setString("RECORDS_TOKEN", &c.Store.RecordsToken)
	setString("REGISTER_BACKEND", &c.Register.Backend)
	setString("REGISTER_SSM_PATH", &c.Register.SSMPath)
	setString("SCHEDULE", &c.Schedule)
	setString("LISTEN_ADDR", &c.ListenAddr)

	return errors.Join(
		setInt("UTC_OFFSET_HOURS", &c.UTCOffsetHours),
		setInt("SUMMARY_HOUR", &c.SummaryHour),
		setBool("SUMMARY_REQUIRES_DELIVERY", &c.SummaryRequiresDelivery),
		setBool("POLL_COMMANDS", &c.PollCommands),
	)
}

// missingSecrets maps SSM parameter names to the empty secret fields they fill.
func (c *Config) missingSecrets() map[string]*string {
	res := map[string]*string{}
	if c.TriggerSecret == "" {
		res[ssmPrefix+"trigger-secret"] = &c.TriggerSecret
	}
	if c.Store.Backend == StoreRecords && c.Store.RecordsToken == "" {
		res[ssmPrefix+"records-token"] = &c.Store.RecordsToken
	}
	return res
}

func (c *Config) fetchSecrets(ctx context.Context, client pkgSSM.Client) error {
	return pkgSSM.FetchParameters(ctx, client, c.missingSecrets(), pkgSSM.WithDecryption())
}

func (c *Config) validate() error {
	var missing []string

	if c.TriggerSecret == "" {
		missing = append(missing, "TRIGGER_SECRET")
	}
	switch c.Store.Backend {
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			missing = append(missing, "SQLITE_PATH")
		}
	case StoreRecords:
		if c.Store.RecordsURL == "" {
			missing = append(missing, "RECORDS_URL")
		}
		if c.Store.RecordsToken == "" {
			missing = append(missing, "RECORDS_TOKEN")
		}
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, c.Store.Backend)
	}
	switch c.Register.Backend {
	case RegisterStore:
	case RegisterSSM:
		if c.Register.SSMPath == "" {
			missing = append(missing, "REGISTER_SSM_PATH")
		}
	default:
		return fmt.Errorf("%w: unknown REGISTER_BACKEND %q", ErrInvalidConfig, c.Register.Backend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: required environment variables not set: %v", ErrInvalidConfig, missing)
	}

	if c.UTCOffsetHours < -12 || c.UTCOffsetHours > 14 {
		return fmt.Errorf("%w: UTC_OFFSET_HOURS %d out of range", ErrInvalidConfig, c.UTCOffsetHours)
	}
	if c.SummaryHour < 0 || c.SummaryHour > 23 {
		return fmt.Errorf("%w: SUMMARY_HOUR %d out of range", ErrInvalidConfig, c.SummaryHour)
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("%w: SCHEDULE %q: %w", ErrInvalidConfig, c.Schedule, err)
	}

	return nil
}

// NotifierSettings converts the config into scheduler settings.
func (c *Config) NotifierSettings() notifier.Settings {
	res := notifier.DefaultSettings()
	res.SummaryHour = c.SummaryHour
	res.SummaryRequiresDelivery = c.SummaryRequiresDelivery
	return res
}

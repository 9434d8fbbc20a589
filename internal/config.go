package internal

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	DefaultPollInterval = 3600 * time.Second
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultDatabasePath = "data/workday.db"
)

// WorkdayConfig holds the credentials and endpoints for one Workday tenant.
type WorkdayConfig struct {
	RestAPIEndpoint string `json:"rest_api_endpoint"`
	TokenEndpoint   string `json:"token_endpoint"`
	ClientId        string `json:"client_id"`
	ClientSecret    string `json:"client_secret"`
	RefreshToken    string `json:"refresh_token"`
}

// Config is the full startup configuration, loaded once from a JSON file.
// Workday and LogFilePath are required; the remaining fields are defaulted
// when absent.
type Config struct {
	Workday             *WorkdayConfig `json:"workday"`
	LogFilePath         string         `json:"log_file_path"`
	DatabasePath        string         `json:"database_path,omitempty"`
	PollIntervalSeconds int            `json:"poll_interval_seconds,omitempty"`
	HTTPTimeoutSeconds  int            `json:"http_timeout_seconds,omitempty"`
}

func (cfg *Config) PollInterval() time.Duration {
	if cfg.PollIntervalSeconds <= 0 {
		return DefaultPollInterval
	}
	return time.Duration(cfg.PollIntervalSeconds) * time.Second
}

func (cfg *Config) HTTPTimeout() time.Duration {
	if cfg.HTTPTimeoutSeconds <= 0 {
		return DefaultHTTPTimeout
	}
	return time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
}

// LoadConfig reads and validates the configuration file. Validation failures
// are fatal to the caller: nothing else should happen (no network calls, no
// log file creation) until a config passes.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = DefaultDatabasePath
	}

	return &cfg, nil
}

// Validate enforces the required fields: the workday section, all five of
// its sub-fields, and log_file_path must be present and non-empty.
func (cfg *Config) Validate() error {
	if cfg.Workday == nil || cfg.LogFilePath == "" {
		return errors.New("'workday' and 'log_file_path' must be provided in the config file")
	}

	required := map[string]string{
		"rest_api_endpoint": cfg.Workday.RestAPIEndpoint,
		"token_endpoint":    cfg.Workday.TokenEndpoint,
		"client_id":         cfg.Workday.ClientId,
		"client_secret":     cfg.Workday.ClientSecret,
		"refresh_token":     cfg.Workday.RefreshToken,
	}
	for _, key := range []string{"rest_api_endpoint", "token_endpoint", "client_id", "client_secret", "refresh_token"} {
		if required[key] == "" {
			return errors.Newf("'%s' must be provided in the 'workday' section of the config file", key)
		}
	}

	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chimera/logmind/internal/logging"
	"github.com/chimera/logmind/internal/model"
	"github.com/chimera/logmind/internal/socketrpc"
	"github.com/chimera/logmind/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const envPrefix = "CHIMERA"

// cliConfig holds the dashboard's runtime configuration.
type cliConfig struct {
	APISocket       string        `mapstructure:"api-socket"`
	RefreshInterval time.Duration `mapstructure:"refresh-interval"`
	PollInterval    time.Duration `mapstructure:"poll-interval"`
	RequestTimeout  time.Duration `mapstructure:"request-timeout"`
	AutoRefresh     bool          `mapstructure:"auto-refresh"`
	LogWindow       time.Duration `mapstructure:"log-window"`
	LogLimit        int           `mapstructure:"log-limit"`
	MetricLimit     int           `mapstructure:"metric-limit"`
	SearchResults   int           `mapstructure:"search-results"`
	SearchWindow    time.Duration `mapstructure:"search-window"`
	ChatContext     int           `mapstructure:"chat-context"`
	ReportLimit     int           `mapstructure:"report-limit"`
	AuditLimit      int           `mapstructure:"audit-limit"`
	LogLevel        string        `mapstructure:"log-level"`
	LogFile         string        `mapstructure:"log-file"`
	ConfigPath      string        `mapstructure:"-"` // not from config file
}

// newViper returns a viper instance with every default and env binding set.
// CHIMERA_API_SOCKET maps to api-socket.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("api-socket", socketrpc.DefaultSocketPath)
	v.SetDefault("refresh-interval", model.DefaultRefreshInterval)
	v.SetDefault("poll-interval", model.DefaultPollInterval)
	v.SetDefault("request-timeout", model.DefaultRequestTimeout)
	v.SetDefault("auto-refresh", true)
	v.SetDefault("log-window", model.DefaultLogWindow)
	v.SetDefault("log-limit", model.DefaultLogLimit)
	v.SetDefault("metric-limit", model.DefaultMetricLimit)
	v.SetDefault("search-results", model.DefaultSearchLimit)
	v.SetDefault("search-window", model.DefaultSearchWindow)
	v.SetDefault("chat-context", model.DefaultChatContext)
	v.SetDefault("report-limit", model.DefaultReportLimit)
	v.SetDefault("audit-limit", model.DefaultAuditLimit)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", logging.DefaultPath())
	return v
}

// defaultConfigPath is ~/.config/chimera/tui.yml.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "chimera", "tui.yml"), nil
}

// loadConfig reads configPath (or the default file) into v and decodes the
// result. A missing file is not an error.
func loadConfig(v *viper.Viper, configPath string) (cliConfig, error) {
	var cfg cliConfig

	if configPath == "" {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, err
		}
		configPath = p
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	// Expand ~ in paths
	if home, err := os.UserHomeDir(); err == nil {
		cfg.APISocket = expandHome(cfg.APISocket, home)
		cfg.LogFile = expandHome(cfg.LogFile, home)
	}
	return cfg, nil
}

func (c cliConfig) validate() error {
	if strings.TrimSpace(c.APISocket) == "" {
		return errors.New("api-socket must not be empty")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("invalid refresh-interval: %s", c.RefreshInterval)
	}
	if c.PollInterval <= 0 || c.PollInterval > c.RefreshInterval {
		return fmt.Errorf("invalid poll-interval: %s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request-timeout: %s", c.RequestTimeout)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level %q", c.LogLevel)
	}
	return nil
}

func expandHome(p, home string) string {
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}

// dashboardOptions maps the config onto the dashboard's options.
func (c cliConfig) dashboardOptions(logger zerolog.Logger) tui.Options {
	return tui.Options{
		RefreshInterval: c.RefreshInterval,
		PollInterval:    c.PollInterval,
		RequestTimeout:  c.RequestTimeout,
		AutoRefresh:     c.AutoRefresh,
		LogWindow:       c.LogWindow,
		LogLimit:        c.LogLimit,
		MetricLimit:     c.MetricLimit,
		SearchResults:   c.SearchResults,
		SearchWindow:    c.SearchWindow,
		ReportLimit:     c.ReportLimit,
		AuditLimit:      c.AuditLimit,
		Logger:          logger,
	}
}

func (c cliConfig) loggingConfig() logging.Config {
	return logging.Config{Level: c.LogLevel, Path: c.LogFile}
}

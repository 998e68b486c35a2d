package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. CUSRR_BASE_URL.
const EnvPrefix = "CUSRR"

// Config holds all client configuration.
type Config struct {
	// Backend
	BaseURL       string
	SessionCookie string
	Timeout       time.Duration

	// Presentation
	Theme   string
	NoColor bool

	// Logging
	LogLevel  string
	LogFile   string
	LogFormat string // "json" or "console"

	// StatusPath, when set, receives toggled statuses as PUT {"status": ...};
	// {id} is replaced by the item id.
	StatusPath string

	// Client-side upload cap in bytes.
	UploadLimit uint64

	// Dir is where credentials, prefs and logs live.
	Dir string
}

// DefaultDir returns ~/.cusrr.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".cusrr"), nil
}

// New returns a viper instance with defaults and env binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("base_url", "http://localhost:5000")
	v.SetDefault("session_cookie", "session")
	v.SetDefault("timeout", "15s")
	v.SetDefault("theme", "classic")
	v.SetDefault("no_color", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_format", "json")
	v.SetDefault("upload_limit", "20MiB")
	v.SetDefault("status_path", "")
	v.SetDefault("dir", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags maps flag names (dashed) onto config keys (underscored).
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("bind %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// Load reads the optional config file and resolves the final Config.
// An explicit file must exist; the default ~/.cusrr/config.yaml may not.
func Load(v *viper.Viper, file string) (Config, error) {
	dir := v.GetString("dir")
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return Config{}, err
		}
		dir = d
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	timeout, err := time.ParseDuration(v.GetString("timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("timeout: %w", err)
	}
	limit, err := humanize.ParseBytes(v.GetString("upload_limit"))
	if err != nil {
		return Config{}, fmt.Errorf("upload_limit: %w", err)
	}

	cfg := Config{
		BaseURL:       strings.TrimRight(v.GetString("base_url"), "/"),
		SessionCookie: v.GetString("session_cookie"),
		Timeout:       timeout,
		Theme:         v.GetString("theme"),
		NoColor:       v.GetBool("no_color"),
		LogLevel:      v.GetString("log_level"),
		LogFile:       v.GetString("log_file"),
		LogFormat:     v.GetString("log_format"),
		UploadLimit:   limit,
		StatusPath:    strings.TrimSpace(v.GetString("status_path")),
		Dir:           dir,
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(dir, "cusrr.log")
	}
	if cfg.BaseURL == "" {
		return Config{}, errors.New("base_url is empty")
	}
	return cfg, nil
}

// IsDevelopment reports whether logs should be human-readable.
func (c Config) IsDevelopment() bool {
	return c.LogFormat == "console"
}

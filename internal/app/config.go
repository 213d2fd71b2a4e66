package app

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. WAREHOUSE_API_URL.
const EnvPrefix = "WAREHOUSE"

// Config keys.
const (
	KeyAPIURL     = "api_url"
	KeyQRURL      = "qr_url"
	KeyHome       = "home"
	KeyTimeout    = "timeout"
	KeyDebug      = "debug"
	KeyPassphrase = "passphrase"
)

const (
	DefaultAPIURL  = "http://127.0.0.1:8000"
	DefaultTimeout = 15 * time.Second
)

// Config holds runtime wiring options for building the app.
type Config struct {
	APIURL     string        `mapstructure:"api_url"`    // cluster API base, e.g. http://127.0.0.1:8000
	QRURL      string        `mapstructure:"qr_url"`     // QR endpoint base; defaults to APIURL
	Home       string        `mapstructure:"home"`       // config and journal dir, e.g. $HOME/.warehouse
	Timeout    time.Duration `mapstructure:"timeout"`    // per-request HTTP timeout
	Debug      bool          `mapstructure:"debug"`      // debug logging
	Passphrase string        `mapstructure:"passphrase"` // optional journal passphrase

	HTTP *http.Client `mapstructure:"-"` // optional; built from Timeout when nil
}

// Load resolves Config from v. Precedence: values bound on v (flags) >
// WAREHOUSE_* environment > $home/config.yaml > defaults.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyQRURL, "")
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyPassphrase, "")
	v.SetDefault(KeyHome, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	home := v.GetString(KeyHome)
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		home = filepath.Join(dir, ".warehouse")
		v.SetDefault(KeyHome, home)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Home = home
	return cfg.normalize()
}

func (c Config) normalize() (Config, error) {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	c.QRURL = strings.TrimRight(strings.TrimSpace(c.QRURL), "/")
	if c.QRURL == "" {
		c.QRURL = c.APIURL
	}
	for key, raw := range map[string]string{KeyAPIURL: c.APIURL, KeyQRURL: c.QRURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("%s: %q is not an absolute URL", key, raw)
		}
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c, nil
}

package config

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Mode string

type OrderTransport string

const (
	ModeTestnet Mode = "testnet"
	ModeLive    Mode = "live"
)

const (
	OrderTransportREST OrderTransport = "rest"
	OrderTransportWS   OrderTransport = "ws"
)

const (
	DefaultLogFile  = "trade_bot_logs.log"
	DefaultLogLevel = "info"
)

type Config struct {
	Mode     Mode           `yaml:"mode"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Log      LogConfig      `yaml:"log"`
	Alert    AlertConfig    `yaml:"alert"`
}

type ExchangeConfig struct {
	APIKey         string         `yaml:"api_key"`
	APISecret      string         `yaml:"api_secret"`
	RestBaseURL    string         `yaml:"rest_base_url"`
	WSBaseURL      string         `yaml:"ws_base_url"`
	OrderTransport OrderTransport `yaml:"order_transport"`
	RecvWindowMs   int64          `yaml:"recv_window_ms"`
	HTTPTimeoutSec int64          `yaml:"http_timeout_sec"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type AlertConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

type TelegramConfig struct {
	Enabled    bool   `yaml:"enabled"`
	BotToken   string `yaml:"bot_token"`
	ChatID     string `yaml:"chat_id"`
	APIBaseURL string `yaml:"api_base_url"`
	TimeoutSec int64  `yaml:"timeout_sec"`
}

// Overrides carries command-line values. Empty strings and a nil Testnet leave the
// file (or default) value untouched.
type Overrides struct {
	Testnet   *bool
	APIKey    string
	APISecret string
	LogFile   string
}

// Load reads an optional YAML file, applies overrides and environment credentials,
// then fills defaults and validates. An empty path means defaults only.
func Load(path string, ov Overrides) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	cfg.apply(ov)
	cfg.normalize()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("config must contain a single YAML document")
		}
		return err
	}
	return nil
}

func (c *Config) apply(ov Overrides) {
	if ov.Testnet != nil {
		if *ov.Testnet {
			c.Mode = ModeTestnet
		} else {
			c.Mode = ModeLive
		}
	}
	if ov.APIKey != "" {
		c.Exchange.APIKey = ov.APIKey
	}
	if ov.APISecret != "" {
		c.Exchange.APISecret = ov.APISecret
	}
	if ov.LogFile != "" {
		c.Log.File = ov.LogFile
	}
	if c.Exchange.APIKey == "" {
		c.Exchange.APIKey = os.Getenv(EnvAPIKey)
	}
	if c.Exchange.APISecret == "" {
		c.Exchange.APISecret = os.Getenv(EnvAPISecret)
	}
}

func (c *Config) normalize() {
	c.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	c.Exchange.APIKey = strings.TrimSpace(c.Exchange.APIKey)
	c.Exchange.APISecret = strings.TrimSpace(c.Exchange.APISecret)
	c.Exchange.RestBaseURL = strings.TrimSpace(c.Exchange.RestBaseURL)
	c.Exchange.WSBaseURL = strings.TrimSpace(c.Exchange.WSBaseURL)
	c.Exchange.OrderTransport = OrderTransport(strings.ToLower(strings.TrimSpace(string(c.Exchange.OrderTransport))))
	c.Log.File = strings.TrimSpace(c.Log.File)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Alert.Telegram.BotToken = strings.TrimSpace(c.Alert.Telegram.BotToken)
	c.Alert.Telegram.ChatID = strings.TrimSpace(c.Alert.Telegram.ChatID)
	c.Alert.Telegram.APIBaseURL = strings.TrimSpace(c.Alert.Telegram.APIBaseURL)
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeTestnet
	}
	if c.Exchange.OrderTransport == "" {
		c.Exchange.OrderTransport = OrderTransportREST
	}
	if c.Exchange.RecvWindowMs == 0 {
		c.Exchange.RecvWindowMs = 5000
	}
	if c.Exchange.HTTPTimeoutSec == 0 {
		c.Exchange.HTTPTimeoutSec = 15
	}
	if c.Exchange.RestBaseURL == "" {
		switch c.Mode {
		case ModeTestnet:
			c.Exchange.RestBaseURL = "https://testnet.binance.vision"
		case ModeLive:
			c.Exchange.RestBaseURL = "https://api.binance.com"
		}
	}
	if c.Exchange.WSBaseURL == "" {
		switch c.Mode {
		case ModeTestnet:
			c.Exchange.WSBaseURL = "wss://ws-api.testnet.binance.vision/ws-api/v3"
		case ModeLive:
			c.Exchange.WSBaseURL = "wss://ws-api.binance.com/ws-api/v3"
		}
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogFile
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Alert.Telegram.APIBaseURL == "" {
		c.Alert.Telegram.APIBaseURL = "https://api.telegram.org"
	}
	if c.Alert.Telegram.TimeoutSec == 0 {
		c.Alert.Telegram.TimeoutSec = 10
	}
}

// Validate checks everything except credentials, which the command layer reports
// as input errors.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeTestnet, ModeLive:
	default:
		return fmt.Errorf("mode must be testnet or live")
	}
	switch c.Exchange.OrderTransport {
	case OrderTransportREST, OrderTransportWS:
	default:
		return fmt.Errorf("exchange order_transport must be rest or ws")
	}
	if c.Exchange.RecvWindowMs < 1 || c.Exchange.RecvWindowMs > 60000 {
		return fmt.Errorf("exchange recv_window_ms must be between 1 and 60000")
	}
	if c.Exchange.HTTPTimeoutSec < 1 || c.Exchange.HTTPTimeoutSec > 120 {
		return fmt.Errorf("exchange http_timeout_sec must be between 1 and 120")
	}
	if err := validateURL(c.Exchange.RestBaseURL, "http", "https"); err != nil {
		return fmt.Errorf("exchange rest_base_url %v", err)
	}
	if c.Exchange.OrderTransport == OrderTransportWS {
		if err := validateURL(c.Exchange.WSBaseURL, "ws", "wss"); err != nil {
			return fmt.Errorf("exchange ws_base_url %v", err)
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn, or error")
	}
	if c.Alert.Telegram.Enabled {
		if c.Alert.Telegram.BotToken == "" {
			return fmt.Errorf("alert.telegram.bot_token is required when telegram enabled")
		}
		if c.Alert.Telegram.ChatID == "" {
			return fmt.Errorf("alert.telegram.chat_id is required when telegram enabled")
		}
		if c.Alert.Telegram.TimeoutSec < 1 || c.Alert.Telegram.TimeoutSec > 120 {
			return fmt.Errorf("alert.telegram.timeout_sec must be between 1 and 120")
		}
		if err := validateURL(c.Alert.Telegram.APIBaseURL, "http", "https"); err != nil {
			return fmt.Errorf("alert.telegram.api_base_url %v", err)
		}
	}
	return nil
}

func validateURL(raw string, schemes ...string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("must include scheme and host")
	}
	for _, s := range schemes {
		if parsed.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("scheme must be %s", strings.Join(schemes, " or "))
}

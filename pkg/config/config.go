package config

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"gainerscan/pkg/polygon"
	"gainerscan/pkg/tradeplan"
)

// PlaceholderAPIKey is the value shipped in sample .env files. It is treated as unset.
const PlaceholderAPIKey = "YOUR_POLYGON_API_KEY"

const (
	DefaultBaseURL        = polygon.DefaultBaseURL
	DefaultHTTPTimeout    = 10 * time.Second
	DefaultTopN           = 10
	DefaultRiskPct        = tradeplan.DefaultRiskPct
	DefaultRewardPct      = tradeplan.DefaultRewardPct
	DefaultNewsLookback   = 36 * time.Hour
	DefaultNewsLimit      = 3
	DefaultAccountRiskPct = 1.0
	DefaultLogLevel       = "info"
	DefaultPremarketStart = "04:00"

	RankByChange     = "change"
	RankByConviction = "conviction"
)

// Error is returned when the environment does not describe a usable configuration.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

type Config struct {
	APIKey            string
	BaseURL           string
	HTTPTimeout       time.Duration
	TopN              int
	RiskPct           float64
	RewardPct         float64
	NewsLookback      time.Duration
	NewsLimit         int
	RequestsPerMinute int
	AccountSize       float64
	AccountRiskPct    float64
	LogLevel          string
	LogFile           string
	AlpacaAPIKey      string
	AlpacaSecretKey   string

	// Scoring adds quote and bar lookups per ticker for the conviction columns.
	Scoring bool

	// PremarketStart is the New York pre-market open as an offset from midnight.
	PremarketStart time.Duration
	RankBy         string
}

// AlpacaEnabled reports whether both Alpaca credentials are present.
func (c *Config) AlpacaEnabled() bool {
	return c.AlpacaAPIKey != "" && c.AlpacaSecretKey != ""
}

type settings struct {
	PolygonAPIKey     string        `mapstructure:"polygon_api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	TopN              int           `mapstructure:"top_n"`
	RiskPct           float64       `mapstructure:"risk_pct"`
	RewardPct         float64       `mapstructure:"reward_pct"`
	NewsLookback      time.Duration `mapstructure:"news_lookback"`
	NewsLimit         int           `mapstructure:"news_limit"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	AccountSize       float64       `mapstructure:"account_size"`
	AccountRiskPct    float64       `mapstructure:"account_risk_pct"`
	LogLevel          string        `mapstructure:"log_level"`
	LogFile           string        `mapstructure:"log_file"`
	AlpacaAPIKey      string        `mapstructure:"alpaca_api_key"`
	AlpacaSecretKey   string        `mapstructure:"alpaca_secret_key"`
	Scoring           bool          `mapstructure:"scoring"`
	PremarketStart    string        `mapstructure:"premarket_start"`
	RankBy            string        `mapstructure:"rank_by"`
}

// Load reads a .env file from the working directory if one exists, then builds the
// configuration from the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &Error{Key: ".env", Reason: err.Error()}
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GAINERSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("top_n", DefaultTopN)
	v.SetDefault("risk_pct", DefaultRiskPct)
	v.SetDefault("reward_pct", DefaultRewardPct)
	v.SetDefault("news_lookback", DefaultNewsLookback)
	v.SetDefault("news_limit", DefaultNewsLimit)
	v.SetDefault("requests_per_minute", 0)
	v.SetDefault("account_size", 0.0)
	v.SetDefault("account_risk_pct", DefaultAccountRiskPct)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("scoring", true)
	v.SetDefault("premarket_start", DefaultPremarketStart)
	v.SetDefault("rank_by", RankByChange)

	// provider keys keep their conventional unprefixed names
	for key, env := range map[string]string{
		"polygon_api_key":   "POLYGON_API_KEY",
		"alpaca_api_key":    "ALPACA_API_KEY",
		"alpaca_secret_key": "ALPACA_SECRET_KEY",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "bind %s", env)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, &Error{Key: "environment", Reason: err.Error()}
	}

	if err := ValidateAPIKey(s.PolygonAPIKey); err != nil {
		return nil, err
	}

	premarketStart, err := parseClock(s.PremarketStart)
	if err != nil {
		return nil, &Error{Key: "GAINERSCAN_PREMARKET_START", Reason: err.Error()}
	}

	cfg := &Config{
		APIKey:            strings.TrimSpace(s.PolygonAPIKey),
		BaseURL:           strings.TrimRight(s.BaseURL, "/"),
		HTTPTimeout:       s.HTTPTimeout,
		TopN:              s.TopN,
		RiskPct:           s.RiskPct,
		RewardPct:         s.RewardPct,
		NewsLookback:      s.NewsLookback,
		NewsLimit:         s.NewsLimit,
		RequestsPerMinute: s.RequestsPerMinute,
		AccountSize:       s.AccountSize,
		AccountRiskPct:    s.AccountRiskPct,
		LogLevel:          s.LogLevel,
		LogFile:           s.LogFile,
		AlpacaAPIKey:      s.AlpacaAPIKey,
		AlpacaSecretKey:   s.AlpacaSecretKey,
		Scoring:           s.Scoring,
		PremarketStart:    premarketStart,
		RankBy:            strings.ToLower(strings.TrimSpace(s.RankBy)),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateAPIKey rejects empty keys and the sample placeholder.
func ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return &Error{Key: "POLYGON_API_KEY", Reason: "not set"}
	}
	if strings.EqualFold(key, PlaceholderAPIKey) {
		return &Error{Key: "POLYGON_API_KEY", Reason: "still set to the placeholder value"}
	}
	return nil
}

func (c *Config) validate() error {
	switch {
	case c.BaseURL == "":
		return &Error{Key: "GAINERSCAN_BASE_URL", Reason: "must not be empty"}
	case c.HTTPTimeout <= 0:
		return &Error{Key: "GAINERSCAN_HTTP_TIMEOUT", Reason: "must be positive"}
	case c.TopN <= 0:
		return &Error{Key: "GAINERSCAN_TOP_N", Reason: "must be positive"}
	case c.RiskPct <= 0 || c.RiskPct >= 1:
		return &Error{Key: "GAINERSCAN_RISK_PCT", Reason: "must be between 0 and 1"}
	case c.RewardPct <= 0:
		return &Error{Key: "GAINERSCAN_REWARD_PCT", Reason: "must be positive"}
	case c.NewsLookback <= 0:
		return &Error{Key: "GAINERSCAN_NEWS_LOOKBACK", Reason: "must be positive"}
	case c.NewsLimit < 0:
		return &Error{Key: "GAINERSCAN_NEWS_LIMIT", Reason: "must not be negative"}
	case c.RequestsPerMinute < 0:
		return &Error{Key: "GAINERSCAN_REQUESTS_PER_MINUTE", Reason: "must not be negative"}
	case c.AccountSize < 0:
		return &Error{Key: "GAINERSCAN_ACCOUNT_SIZE", Reason: "must not be negative"}
	case c.AccountRiskPct <= 0 || c.AccountRiskPct > 100:
		return &Error{Key: "GAINERSCAN_ACCOUNT_RISK_PCT", Reason: "must be in (0, 100]"}
	}
	if c.RankBy != RankByChange && c.RankBy != RankByConviction {
		return &Error{Key: "GAINERSCAN_RANK_BY", Reason: fmt.Sprintf("must be %q or %q", RankByChange, RankByConviction)}
	}
	if c.RankBy == RankByConviction && !c.Scoring {
		return &Error{Key: "GAINERSCAN_RANK_BY", Reason: "conviction ranking needs GAINERSCAN_SCORING"}
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return &Error{Key: "GAINERSCAN_LOG_LEVEL", Reason: err.Error()}
	}
	return nil
}

// parseClock turns an "HH:MM" wall-clock time into an offset from midnight.
func parseClock(hhmm string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return 0, errors.Errorf("want HH:MM, got %q", hhmm)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

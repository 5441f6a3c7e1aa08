package config

import "time"

// Config holds runtime settings for the Connectin CLI.
//
// Durations are time.Duration values; flags take whole seconds.
type Config struct {
	APIBaseURL string `env:"API_URL"`
	WSBaseURL  string `env:"WS_URL"`
	SessionDSN string `env:"SESSION_DSN"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	VoteTimeout    time.Duration `env:"VOTE_TIMEOUT"`

	HydrationTTL         time.Duration `env:"HYDRATION_TTL"`
	HydrationConcurrency int           `env:"HYDRATION_CONCURRENCY"`

	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`

	ChatBufferSize   int           `env:"CHAT_BUFFER"`
	ChatPingInterval time.Duration `env:"CHAT_PING_INTERVAL"`
	ChatCloseWait    time.Duration `env:"CHAT_CLOSE_WAIT"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.WSBaseURL = "ws://127.0.0.1:8000"
	c.SessionDSN = "connectin-session.db"
	c.RequestTimeout = 10 * time.Second
	c.VoteTimeout = 15 * time.Second
	c.HydrationTTL = 5 * time.Minute
	c.HydrationConcurrency = 4
	c.OnlineCheckInterval = 5 * time.Second
	c.ChatBufferSize = 64
	c.ChatPingInterval = 30 * time.Second
	c.ChatCloseWait = time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays the
// environment (including an optional .env file), a JSON file and finally
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		panic(err)
	}
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

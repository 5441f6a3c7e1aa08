package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/connectin/internal/flagx"
	"github.com/dmitrijs2005/connectin/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// mean "not set" and leave the runtime Config untouched.
type JsonConfig struct {
	APIBaseURL           string         `json:"api_base_url"`
	WSBaseURL            string         `json:"ws_base_url"`
	SessionDSN           string         `json:"session_dsn"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	VoteTimeout          timex.Duration `json:"vote_timeout"`
	HydrationTTL         timex.Duration `json:"hydration_ttl"`
	HydrationConcurrency int            `json:"hydration_concurrency"`
	OnlineCheckInterval  timex.Duration `json:"online_check_interval"`
	ChatBufferSize       int            `json:"chat_buffer_size"`
	ChatPingInterval     timex.Duration `json:"chat_ping_interval"`
	ChatCloseWait        timex.Duration `json:"chat_close_wait"`
	LogLevel             string         `json:"log_level"`
	LogFormat            string         `json:"log_format"`
}

// parseJson overlays cfg with values from the file given by -c/-config.
// Without the flag nothing happens. Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile, _ := flagx.FileFlags(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.WSBaseURL, jc.WSBaseURL)
	setString(&cfg.SessionDSN, jc.SessionDSN)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.VoteTimeout.Duration > 0 {
		cfg.VoteTimeout = jc.VoteTimeout.Duration
	}
	if jc.HydrationTTL.Duration > 0 {
		cfg.HydrationTTL = jc.HydrationTTL.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.ChatPingInterval.Duration > 0 {
		cfg.ChatPingInterval = jc.ChatPingInterval.Duration
	}
	if jc.ChatCloseWait.Duration > 0 {
		cfg.ChatCloseWait = jc.ChatCloseWait.Duration
	}
	if jc.HydrationConcurrency > 0 {
		cfg.HydrationConcurrency = jc.HydrationConcurrency
	}
	if jc.ChatBufferSize > 0 {
		cfg.ChatBufferSize = jc.ChatBufferSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

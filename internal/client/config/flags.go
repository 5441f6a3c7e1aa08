package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/connectin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only the flags listed here are considered; see the package doc.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-d", "-t", "-vt", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	fs.StringVar(&cfg.WSBaseURL, "w", cfg.WSBaseURL, "base URL of the chat WebSocket endpoint")
	fs.StringVar(&cfg.SessionDSN, "d", cfg.SessionDSN, "session database DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "REST request timeout (in seconds)")
	voteTimeout := fs.Int("vt", int(cfg.VoteTimeout.Seconds()), "vote request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only replace durations that were given explicitly so sub-second
	// values from env or JSON survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		case "vt":
			cfg.VoteTimeout = time.Duration(*voteTimeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}

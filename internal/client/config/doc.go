// Package config loads runtime configuration for the Connectin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with CONNECTIN_, optionally seeded from
//     a .env file (-e / -env, or ./.env when present). Variables already set
//     in the process environment win over the file.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-w string   base URL of the chat WebSocket endpoint
//	-d string   session database DSN
//	-t int      REST request timeout (seconds)
//	-vt int     vote request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.connectin.example",
//	  "ws_base_url": "wss://api.connectin.example",
//	  "vote_timeout": "15s",
//	  "hydration_concurrency": 8
//	}
package config

// Package cli provides the interactive Connectin command-line client.
//
// It wires configuration, the session database, the REST client, the vote
// store and the chat transport, then runs a REPL that dispatches user intents
// to them. A background watcher pings the API and switches the prompt
// between online and offline.
//
// Key features:
//   - Login / Logout / WhoAmI
//   - Project details with vote state, bulk hydration, local vote listing
//   - Optimistic up/down votes with rollback on failure
//   - Interactive chat per conversation
//   - Engine metrics in Prometheus text format
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli

// Package client contains the client-side building blocks that talk to the
// Connectin backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Login,
//     Ping, GetProject, GetVoteStatus and Vote.
//  2. A concrete REST implementation (see HTTPClient) built on resty. Every
//     request carries an X-Request-ID; authenticated calls carry a bearer
//     token supplied by the caller.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Non-2xx answers come back as *RemoteError, which unwraps to
// common.ErrUnauthenticated (401, 403), common.ErrNotFound (404) or
// common.ErrRemoteRejected. Failures to reach the server wrap
// common.ErrNetworkFailure together with the underlying cause, so a context
// deadline is still visible through errors.Is.
package client

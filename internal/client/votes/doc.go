// Package votes holds the client's optimistic view of the user's project
// votes.
//
// A Store answers GetVoteStatus from memory, applies VoteProject locally
// before the request is sent and reverses it exactly when the request fails.
// At most one mutation per project is in flight: a second call while the
// first is pending returns common.ErrAlreadyPending and changes nothing.
// Voting on a project that was never hydrated fetches its server state
// first, so the transition starts from what the server holds.
//
// InitializeVoteState hydrates entries from the server. A hydration response
// never overwrites an entry that is pending, or one that was mutated after
// the fetch was issued.
//
// Counts use score semantics (up +1, down -1). The stored value follows the
// transitions exactly so that a retract always undoes a cast; readers see it
// clamped at zero.
package votes

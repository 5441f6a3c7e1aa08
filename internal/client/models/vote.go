package models

import "time"

// VoteStatus is the server's view of the current user's vote on a project.
// VoteCount is nil when the endpoint did not include it.
type VoteStatus struct {
	HasVoted  bool  `json:"has_voted"`
	IsUpvote  *bool `json:"is_upvote"`
	VoteCount *int  `json:"vote_count,omitempty"`
}

// Upvote reports the direction of the vote; false when there is no vote.
func (s VoteStatus) Upvote() bool {
	return s.HasVoted && s.IsUpvote != nil && *s.IsUpvote
}

// VoteRequest is the body of POST /projects/{id}/vote.
type VoteRequest struct {
	IsUpvote bool `json:"is_upvote"`
}

// VoteResult is the response of POST /projects/{id}/vote. The backend
// answers with a detail string; newer versions also return the resulting
// counters.
type VoteResult struct {
	Detail    string `json:"detail"`
	VoteCount *int   `json:"vote_count,omitempty"`
	HasVoted  *bool  `json:"has_voted,omitempty"`
	IsUpvote  *bool  `json:"is_upvote,omitempty"`
}

// VoteEntry is the locally held vote state of one project.
//
// IsUpvote is meaningful only when HasVoted is set. Pending is true while a
// mutation for the project is in flight.
type VoteEntry struct {
	HasVoted  bool
	IsUpvote  bool
	VoteCount int
	Pending   bool
}

// VoteSnapshot pairs an entry with its project id and hydration time.
type VoteSnapshot struct {
	ProjectID  int64
	Entry      VoteEntry
	HydratedAt time.Time
}

package votes

import "github.com/dmitrijs2005/connectin/internal/client/models"

// Kind classifies a vote transition.
type Kind int

const (
	None Kind = iota
	Cast
	Retract
	Flip
)

func (k Kind) String() string {
	switch k {
	case Cast:
		return "cast"
	case Retract:
		return "retract"
	case Flip:
		return "flip"
	default:
		return "none"
	}
}

func weight(isUpvote bool) int {
	if isUpvote {
		return 1
	}
	return -1
}

// Transition computes the optimistic entry for a vote in direction isUpvote.
// Voting the current direction again retracts the vote; the opposite
// direction flips it and swings the count by two. A pending entry is
// returned unchanged with kind None.
func Transition(cur models.VoteEntry, isUpvote bool) (models.VoteEntry, Kind) {
	if cur.Pending {
		return cur, None
	}

	next := cur
	switch {
	case !cur.HasVoted:
		next.HasVoted = true
		next.IsUpvote = isUpvote
		next.VoteCount += weight(isUpvote)
		return next, Cast
	case cur.IsUpvote == isUpvote:
		next.HasVoted = false
		next.IsUpvote = false
		next.VoteCount -= weight(isUpvote)
		return next, Retract
	default:
		next.IsUpvote = isUpvote
		next.VoteCount += 2 * weight(isUpvote)
		return next, Flip
	}
}

// visible is the entry as shown to readers.
func visible(e models.VoteEntry) models.VoteEntry {
	if e.VoteCount < 0 {
		e.VoteCount = 0
	}
	if !e.HasVoted {
		e.IsUpvote = false
	}
	return e
}

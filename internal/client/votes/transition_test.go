package votes

import (
	"testing"

	"github.com/dmitrijs2005/connectin/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name     string
		cur      models.VoteEntry
		up       bool
		want     models.VoteEntry
		wantKind Kind
	}{
		{
			name:     "cast upvote",
			cur:      models.VoteEntry{VoteCount: 10},
			up:       true,
			want:     models.VoteEntry{HasVoted: true, IsUpvote: true, VoteCount: 11},
			wantKind: Cast,
		},
		{
			name:     "cast downvote",
			cur:      models.VoteEntry{VoteCount: 10},
			up:       false,
			want:     models.VoteEntry{HasVoted: true, IsUpvote: false, VoteCount: 9},
			wantKind: Cast,
		},
		{
			name:     "retract upvote",
			cur:      models.VoteEntry{HasVoted: true, IsUpvote: true, VoteCount: 11},
			up:       true,
			want:     models.VoteEntry{VoteCount: 10},
			wantKind: Retract,
		},
		{
			name:     "retract downvote",
			cur:      models.VoteEntry{HasVoted: true, VoteCount: 9},
			up:       false,
			want:     models.VoteEntry{VoteCount: 10},
			wantKind: Retract,
		},
		{
			name:     "flip up to down",
			cur:      models.VoteEntry{HasVoted: true, IsUpvote: true, VoteCount: 5},
			up:       false,
			want:     models.VoteEntry{HasVoted: true, IsUpvote: false, VoteCount: 3},
			wantKind: Flip,
		},
		{
			name:     "flip down to up",
			cur:      models.VoteEntry{HasVoted: true, VoteCount: 3},
			up:       true,
			want:     models.VoteEntry{HasVoted: true, IsUpvote: true, VoteCount: 5},
			wantKind: Flip,
		},
		{
			name:     "pending is left alone",
			cur:      models.VoteEntry{HasVoted: true, IsUpvote: true, VoteCount: 5, Pending: true},
			up:       false,
			want:     models.VoteEntry{HasVoted: true, IsUpvote: true, VoteCount: 5, Pending: true},
			wantKind: None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := Transition(tt.cur, tt.up)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Transition() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestTransition_SameDirectionTwiceIsIdentity(t *testing.T) {
	for _, up := range []bool{true, false} {
		for _, start := range []int{0, 1, 7} {
			base := models.VoteEntry{VoteCount: start}
			once, _ := Transition(base, up)
			twice, _ := Transition(once, up)
			assert.Equal(t, base, twice)
		}
	}
}

func TestVisible_ClampsAtZero(t *testing.T) {
	e, _ := Transition(models.VoteEntry{VoteCount: 0}, false)
	assert.Equal(t, -1, e.VoteCount)
	assert.Equal(t, 0, visible(e).VoteCount)
	assert.True(t, visible(e).HasVoted)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "cast", Cast.String())
	assert.Equal(t, "retract", Retract.String())
	assert.Equal(t, "flip", Flip.String())
	assert.Equal(t, "none", None.String())
}

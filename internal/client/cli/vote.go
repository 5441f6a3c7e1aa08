package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/connectin/internal/client/models"
	"github.com/dmitrijs2005/connectin/internal/common"
)

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, s := range args {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: bad project id %q", common.ErrInvalidInput, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatEntry(e models.VoteEntry) string {
	you := "not voted"
	if e.HasVoted {
		if e.IsUpvote {
			you = "upvoted"
		} else {
			you = "downvoted"
		}
	}
	s := fmt.Sprintf("votes: %d, you: %s", e.VoteCount, you)
	if e.Pending {
		s += " (pending)"
	}
	return s
}

// Project shows a project and hydrates its vote state.
func (a *App) Project(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: project <id>")
		return nil
	}
	ids, err := parseIDs(args)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	p, err := a.projects.GetProject(ctx, ids[0])
	if err != nil {
		printlnFn("Cannot load project:", err)
		return err
	}

	if err := a.votes.InitializeVoteState(ctx, ids); err != nil {
		a.log.Warn(ctx, "vote state not hydrated", "project_id", ids[0], "error", err)
	}

	printlnFn(fmt.Sprintf("#%d %s", p.ID, p.Name))
	if p.Owner != nil {
		printlnFn("owner:", p.Owner.Username)
	}
	if p.Description != "" {
		printlnFn(p.Description)
	}
	printlnFn(fmt.Sprintf("comments: %d", p.CommentsCount))
	printlnFn(formatEntry(a.votes.GetVoteStatus(p.ID)))
	return nil
}

func (a *App) Hydrate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: hydrate <id> [id...]")
		return nil
	}
	ids, err := parseIDs(args)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	err = a.votes.InitializeVoteState(ctx, ids)
	if err != nil {
		printlnFn("Some projects were not loaded:", err)
	}
	for _, id := range ids {
		printlnFn(fmt.Sprintf("#%d %s", id, formatEntry(a.votes.GetVoteStatus(id))))
	}
	return err
}

func (a *App) Status(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: status <id>")
		return nil
	}
	ids, err := parseIDs(args)
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("#%d %s", ids[0], formatEntry(a.votes.GetVoteStatus(ids[0]))))
	return nil
}

func (a *App) Votes(ctx context.Context) error {
	snap := a.votes.Snapshot()
	if len(snap) == 0 {
		printlnFn("No projects loaded")
		return nil
	}
	for _, s := range snap {
		printlnFn(fmt.Sprintf("#%d %s", s.ProjectID, formatEntry(s.Entry)))
	}
	return nil
}

// Vote refreshes the project's vote state and casts a vote. Repeating the
// same direction removes the vote.
func (a *App) Vote(ctx context.Context, args []string, isUpvote bool) error {
	if len(args) != 1 {
		if isUpvote {
			printlnFn("Usage: up <id>")
		} else {
			printlnFn("Usage: down <id>")
		}
		return nil
	}
	ids, err := parseIDs(args)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if err := a.votes.InitializeVoteState(ctx, ids); err != nil {
		a.log.Warn(ctx, "vote state not refreshed before voting", "project_id", ids[0], "error", err)
	}

	e, err := a.votes.VoteProject(ctx, ids[0], isUpvote)
	if errors.Is(err, common.ErrAlreadyPending) {
		printlnFn("A vote for this project is still in progress")
		return err
	}
	printlnFn(fmt.Sprintf("#%d %s", ids[0], formatEntry(e)))
	return err
}

package client

import (
	"context"

	"github.com/dmitrijs2005/connectin/internal/client/models"
)

// Client is the REST surface of the Connectin backend used by the engines.
// A token argument is the raw bearer credential; an empty token issues the
// request anonymously.
type Client interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Ping(ctx context.Context) error
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
	GetVoteStatus(ctx context.Context, token string, projectID int64) (*models.VoteStatus, error)
	Vote(ctx context.Context, token string, projectID int64, isUpvote bool) (*models.VoteResult, error)
}

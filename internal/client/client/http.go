package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/connectin/internal/client/models"
	"github.com/dmitrijs2005/connectin/internal/common"
	"github.com/dmitrijs2005/connectin/internal/logging"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type HTTPClient struct {
	rest *resty.Client
	log  logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	rest.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(common.RequestIDHeaderName) == "" {
			r.SetHeader(common.RequestIDHeaderName, uuid.NewString())
		}
		return nil
	})

	return &HTTPClient{rest: rest, log: log}
}

func (c *HTTPClient) request(ctx context.Context, token string) *resty.Request {
	r := c.rest.R().SetContext(ctx).SetError(&models.APIError{})
	if token != "" {
		r.SetHeader(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return r
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	var out models.Session
	resp, err := c.request(ctx, "").
		SetFormData(map[string]string{"username": username, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err := c.check(ctx, "login", resp, err); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("login: %w: empty access token", common.ErrRemoteRejected)
	}
	out.Username = username
	return &out, nil
}

// Ping treats any answer below 500 as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := c.request(ctx, "").Get("/")
	if err != nil {
		return networkError("ping", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return networkError("ping", fmt.Errorf("status %d", resp.StatusCode()))
	}
	return nil
}

func (c *HTTPClient) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	var out models.Project
	resp, err := c.request(ctx, "").
		SetPathParam("id", strconv.FormatInt(projectID, 10)).
		SetResult(&out).
		Get("/projects/{id}")
	if err := c.check(ctx, "get project", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVoteStatus returns the caller's vote and the project's count. Without a
// token only the public count is available and HasVoted is false. When the
// status endpoint omits the count it is read from the project itself.
func (c *HTTPClient) GetVoteStatus(ctx context.Context, token string, projectID int64) (*models.VoteStatus, error) {
	if token == "" {
		p, err := c.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		count := p.VoteCount
		return &models.VoteStatus{VoteCount: &count}, nil
	}

	var out models.VoteStatus
	resp, err := c.request(ctx, token).
		SetPathParam("id", strconv.FormatInt(projectID, 10)).
		SetResult(&out).
		Get("/projects/{id}/vote_status")
	if err := c.check(ctx, "get vote status", resp, err); err != nil {
		return nil, err
	}

	if out.VoteCount == nil {
		p, err := c.GetProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
		count := p.VoteCount
		out.VoteCount = &count
	}
	return &out, nil
}

func (c *HTTPClient) Vote(ctx context.Context, token string, projectID int64, isUpvote bool) (*models.VoteResult, error) {
	var out models.VoteResult
	resp, err := c.request(ctx, token).
		SetPathParam("id", strconv.FormatInt(projectID, 10)).
		SetHeader("Content-Type", "application/json").
		SetBody(models.VoteRequest{IsUpvote: isUpvote}).
		SetResult(&out).
		Post("/projects/{id}/vote")
	if err := c.check(ctx, "vote", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) check(ctx context.Context, op string, resp *resty.Response, err error) error {
	if err != nil {
		c.log.Debug(ctx, "request failed", "op", op, "error", err)
		return networkError(op, err)
	}
	if !resp.IsError() {
		return nil
	}

	remote := &RemoteError{StatusCode: resp.StatusCode()}
	if apiErr, ok := resp.Error().(*models.APIError); ok && apiErr != nil {
		remote.Detail = apiErr.Detail
	}
	c.log.Debug(ctx, "request rejected", "op", op, "status", remote.StatusCode, "detail", remote.Detail)
	return fmt.Errorf("%s: %w", op, remote)
}

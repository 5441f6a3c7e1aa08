package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/connectin/internal/common"
	"github.com/dmitrijs2005/connectin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 2*time.Second, logging.Discard())
}

func TestHTTPClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))
		assert.NotEmpty(t, r.Header.Get(common.RequestIDHeaderName))
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "tok", "token_type": "bearer"})
	})

	s, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.AccessToken)
	assert.Equal(t, "bearer", s.TokenType)
	assert.Equal(t, "alice", s.Username)
}

func TestHTTPClient_Login_BadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Incorrect username or password"})
	})

	_, err := c.Login(context.Background(), "alice", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusUnauthorized, re.StatusCode)
	assert.Equal(t, "Incorrect username or password", re.Detail)
}

func TestHTTPClient_GetVoteStatus_SendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/7/vote_status", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"has_voted": true, "is_upvote": false, "vote_count": 4})
	})

	st, err := c.GetVoteStatus(context.Background(), "tok", 7)
	require.NoError(t, err)
	assert.True(t, st.HasVoted)
	assert.False(t, st.Upvote())
	require.NotNil(t, st.VoteCount)
	assert.Equal(t, 4, *st.VoteCount)
}

func TestHTTPClient_GetVoteStatus_FillsCountFromProject(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/projects/7/vote_status":
			writeJSON(w, http.StatusOK, map[string]any{"has_voted": true, "is_upvote": true})
		case "/projects/7":
			writeJSON(w, http.StatusOK, map[string]any{"id": 7, "vote_count": 11})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	st, err := c.GetVoteStatus(context.Background(), "tok", 7)
	require.NoError(t, err)
	assert.True(t, st.Upvote())
	require.NotNil(t, st.VoteCount)
	assert.Equal(t, 11, *st.VoteCount)
	assert.Equal(t, []string{"/projects/7/vote_status", "/projects/7"}, paths)
}

func TestHTTPClient_GetVoteStatus_Anonymous(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/7", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "vote_count": 2})
	})

	st, err := c.GetVoteStatus(context.Background(), "", 7)
	require.NoError(t, err)
	assert.False(t, st.HasVoted)
	require.NotNil(t, st.VoteCount)
	assert.Equal(t, 2, *st.VoteCount)
}

func TestHTTPClient_GetProject_Anonymous(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "name": "p", "vote_count": 5})
	})

	p, err := c.GetProject(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, 5, p.VoteCount)
}

func TestHTTPClient_Vote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects/9/vote", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"is_upvote": true}, body)
		writeJSON(w, http.StatusOK, map[string]any{"detail": "Vote added"})
	})

	res, err := c.Vote(context.Background(), "tok", 9, true)
	require.NoError(t, err)
	assert.Equal(t, "Vote added", res.Detail)
	assert.Nil(t, res.VoteCount)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, common.ErrUnauthenticated},
		{http.StatusForbidden, common.ErrUnauthenticated},
		{http.StatusNotFound, common.ErrNotFound},
		{http.StatusBadRequest, common.ErrRemoteRejected},
		{http.StatusInternalServerError, common.ErrRemoteRejected},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]any{"detail": "boom"})
			})
			_, err := c.Vote(context.Background(), "tok", 1, true)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, errors.Is(err, common.ErrNetworkFailure))
		})
	}
}

func TestHTTPClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, time.Second, logging.Discard())
	_, err := c.GetVoteStatus(context.Background(), "tok", 1)
	assert.ErrorIs(t, err, common.ErrNetworkFailure)
	assert.True(t, common.IsRetryable(err))
}

func TestHTTPClient_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Vote(ctx, "tok", 1, true)
	assert.ErrorIs(t, err, common.ErrNetworkFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPClient_Ping(t *testing.T) {
	t.Run("reachable on 404", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		assert.NoError(t, c.Ping(context.Background()))
	})

	t.Run("unavailable on 503", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		assert.ErrorIs(t, c.Ping(context.Background()), common.ErrNetworkFailure)
	})
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/connectin/internal/client/credentials"
	"github.com/dmitrijs2005/connectin/internal/client/models"
	"github.com/dmitrijs2005/connectin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeClient struct {
	LoginRet *models.Session
	LoginErr error
	PingErr  error

	LastLoginUser string
	LastLoginPass string
}

func (f *fakeClient) Login(_ context.Context, username, password string) (*models.Session, error) {
	f.LastLoginUser = username
	f.LastLoginPass = password
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginRet, nil
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) GetProject(context.Context, int64) (*models.Project, error) {
	return nil, errors.New("not used")
}

func (f *fakeClient) GetVoteStatus(context.Context, string, int64) (*models.VoteStatus, error) {
	return nil, errors.New("not used")
}

func (f *fakeClient) Vote(context.Context, string, int64, bool) (*models.VoteResult, error) {
	return nil, errors.New("not used")
}

type fakeSessions struct {
	saved    *models.Session
	SaveErr  error
	ClearErr error
	cleared  int
}

func (f *fakeSessions) CurrentToken(context.Context) (credentials.Token, bool) {
	if f.saved == nil {
		return "", false
	}
	return credentials.Token(f.saved.AccessToken), true
}

func (f *fakeSessions) Save(_ context.Context, s models.Session) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.saved = &s
	return nil
}

func (f *fakeSessions) Clear(context.Context) error {
	f.cleared++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.saved = nil
	return nil
}

func (f *fakeSessions) Username(context.Context) (string, error) {
	if f.saved == nil {
		return "", nil
	}
	return f.saved.Username, nil
}

// ---- tests ----

func TestLogin_SavesSession(t *testing.T) {
	c := &fakeClient{LoginRet: &models.Session{AccessToken: "tok", TokenType: "bearer", Username: "alice"}}
	s := &fakeSessions{}
	svc := NewAuthService(c, s)

	require.NoError(t, svc.Login(context.Background(), "alice", "pw"))

	assert.Equal(t, "alice", c.LastLoginUser)
	assert.Equal(t, "pw", c.LastLoginPass)
	require.NotNil(t, s.saved)
	assert.Equal(t, "tok", s.saved.AccessToken)

	name, ok := svc.WhoAmI(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "alice", name)
}

func TestLogin_ClientError(t *testing.T) {
	c := &fakeClient{LoginErr: common.ErrUnauthenticated}
	s := &fakeSessions{}
	hooks := 0
	svc := NewAuthService(c, s, func() { hooks++ })

	err := svc.Login(context.Background(), "alice", "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "login error")
	assert.Nil(t, s.saved)
	assert.Equal(t, 0, hooks)
}

func TestLogin_SaveError(t *testing.T) {
	c := &fakeClient{LoginRet: &models.Session{AccessToken: "tok"}}
	s := &fakeSessions{SaveErr: errors.New("disk full")}
	svc := NewAuthService(c, s)

	err := svc.Login(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session saving error")
}

func TestLogin_ResetsPreviousSessionState(t *testing.T) {
	c := &fakeClient{LoginRet: &models.Session{AccessToken: "tok", Username: "bob"}}
	s := &fakeSessions{}
	var calls []string
	svc := NewAuthService(c, s, func() { calls = append(calls, "votes") }, func() { calls = append(calls, "chat") })

	require.NoError(t, svc.Login(context.Background(), "bob", "pw"))
	assert.Equal(t, []string{"votes", "chat"}, calls)
}

func TestLogout_ClearsAndRunsHooks(t *testing.T) {
	s := &fakeSessions{saved: &models.Session{AccessToken: "tok", Username: "alice"}}
	hooks := 0
	svc := NewAuthService(&fakeClient{}, s, func() { hooks++ })

	require.NoError(t, svc.Logout(context.Background()))
	assert.Equal(t, 1, s.cleared)
	assert.Equal(t, 1, hooks)

	_, ok := svc.WhoAmI(context.Background())
	assert.False(t, ok)
}

func TestLogout_HooksRunEvenWhenClearFails(t *testing.T) {
	s := &fakeSessions{ClearErr: errors.New("locked")}
	hooks := 0
	svc := NewAuthService(&fakeClient{}, s, func() { hooks++ })

	err := svc.Logout(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session clearing error")
	assert.Equal(t, 1, hooks)
}

func TestPing(t *testing.T) {
	svc := NewAuthService(&fakeClient{PingErr: common.ErrNetworkFailure}, &fakeSessions{})
	assert.ErrorIs(t, svc.Ping(context.Background()), common.ErrNetworkFailure)

	svc = NewAuthService(&fakeClient{}, &fakeSessions{})
	assert.NoError(t, svc.Ping(context.Background()))
}

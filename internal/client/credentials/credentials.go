// Package credentials persists the bearer token issued at login and exposes
// it to the engines through the Accessor interface.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/connectin/internal/client/models"
	"github.com/dmitrijs2005/connectin/internal/client/repositories/session"
	"github.com/dmitrijs2005/connectin/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

const (
	keyAccessToken = "access_token"
	keyTokenType   = "token_type"
	keyUsername    = "username"
)

// Token is an opaque bearer credential.
type Token string

// Accessor answers "is there a usable credential right now".
type Accessor interface {
	CurrentToken(ctx context.Context) (Token, bool)
}

// AccessorFunc adapts a function to Accessor.
type AccessorFunc func(ctx context.Context) (Token, bool)

func (f AccessorFunc) CurrentToken(ctx context.Context) (Token, bool) { return f(ctx) }

type Store struct {
	db   *sql.DB
	repo session.Repository
	now  func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, repo: session.NewSQLiteRepository(db), now: time.Now}
}

// Save replaces the stored session atomically.
func (s *Store) Save(ctx context.Context, sess models.Session) error {
	if sess.AccessToken == "" {
		return errors.New("empty access token")
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := session.NewSQLiteRepository(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyAccessToken, []byte(sess.AccessToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyTokenType, []byte(sess.TokenType)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUsername, []byte(sess.Username))
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

func (s *Store) Username(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, keyUsername)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// CurrentToken returns the stored token unless it is missing or is a JWT
// whose exp claim has passed. Storage errors read as "no credential".
func (s *Store) CurrentToken(ctx context.Context) (Token, bool) {
	v, err := s.repo.Get(ctx, keyAccessToken)
	if err != nil || len(v) == 0 {
		return "", false
	}
	tok := string(v)
	if expired(tok, s.now()) {
		return "", false
	}
	return Token(tok), true
}

// expired inspects the exp claim without verifying the signature. Tokens
// that are not JWTs, or carry no exp, never expire locally.
func expired(raw string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// Package auth implements freelancer registration, login and session token
// verification.  Tokens are stateless: nothing about a session is stored,
// so there is no server-side logout and a token is good until it expires.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/nileshswami544-code/freelancerpayment/internal/apperr"
	"github.com/nileshswami544-code/freelancerpayment/internal/model"
)

const maxUsernameLen = 64

// Store is the persistence the service needs.  repository.UserRepo
// implements it against MySQL.
type Store interface {
	CreateFreelancer(ctx context.Context, username, passwordHash string) (uint64, error)
	GetFreelancerByUsername(ctx context.Context, username string) (model.Freelancer, error)
}

// Service registers and authenticates freelancers and verifies tokens.
type Service struct {
	store  Store
	signer *Signer
	cost   int
	log    *zap.SugaredLogger

	// dummyHash is compared against when the username is unknown so both
	// login failure paths cost one bcrypt comparison.
	dummyHash string
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now for token issue and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.signer.now = now }
}

// WithLogger sets the logger.  The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) { s.log = l }
}

// NewService builds a Service.  secret signs tokens, ttl is their lifetime and
// cost is the bcrypt work factor.
func NewService(store Store, secret string, ttl time.Duration, cost int, opts ...Option) (*Service, error) {
	s := &Service{
		store:  store,
		signer: NewSigner(secret, ttl),
		cost:   cost,
		log:    zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(s)
	}
	h, err := HashPassword("not-a-real-password", cost)
	if err != nil {
		return nil, err
	}
	s.dummyHash = h
	return s, nil
}

// Register creates a freelancer with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (model.Freelancer, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return model.Freelancer{}, apperr.Validation("username is required")
	case utf8.RuneCountInString(username) > maxUsernameLen:
		return model.Freelancer{}, apperr.Validation("username too long")
	case password == "":
		return model.Freelancer{}, apperr.Validation("password is required")
	case len(password) > maxPasswordBytes:
		return model.Freelancer{}, apperr.Validation("password too long")
	}

	hash, err := HashPassword(password, s.cost)
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return model.Freelancer{}, ae
		}
		return model.Freelancer{}, apperr.Storage("hash password", err)
	}
	id, err := s.store.CreateFreelancer(ctx, username, hash)
	if err != nil {
		return model.Freelancer{}, err
	}
	s.log.Infow("freelancer registered", "principal_id", id)
	return model.Freelancer{ID: id, Username: username}, nil
}

// Authenticate checks credentials and mints a session token.  Unknown users
// and wrong passwords fail with the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Token, error) {
	username = strings.TrimSpace(username)
	f, err := s.store.GetFreelancerByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return Token{}, err
		}
		VerifyPassword(s.dummyHash, password)
		return Token{}, apperr.Auth(apperr.ReasonCredentials)
	}
	if !VerifyPassword(f.PasswordHash, password) {
		return Token{}, apperr.Auth(apperr.ReasonCredentials)
	}
	tok, err := s.signer.Issue(f.ID)
	if err != nil {
		return Token{}, apperr.Storage("sign token", err)
	}
	return tok, nil
}

// Verify returns the principal id carried by raw.  It is pure: no storage
// access and no revocation list.
func (s *Service) Verify(raw string) (uint64, error) {
	return s.signer.Parse(raw)
}

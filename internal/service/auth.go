// Package service holds the business rules: registration and login against
// the credential store, session resolution, and owner-scoped contact CRUD.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/contacts-manager/internal/model"
	"github.com/iliyamo/contacts-manager/internal/queue"
	"github.com/iliyamo/contacts-manager/internal/repository"
	"github.com/iliyamo/contacts-manager/internal/utils"
)

// ErrInvalidCredentials is returned by Verify and Login both for an unknown
// email and for a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService registers users, checks credentials and resolves session
// tokens back to identities.
type AuthService struct {
	users  UserStore
	tokens *utils.TokenIssuer
	events queue.Publisher
	cost   int
	now    func() time.Time

	// bcrypt hash of a random value at the configured cost, compared when
	// the email is unknown so both failure paths take similar time.
	dummyHash string
}

// NewAuthService wires the service. cost is the bcrypt cost for new hashes.
func NewAuthService(users UserStore, tokens *utils.TokenIssuer, cost int, events queue.Publisher) (*AuthService, error) {
	dummy, err := utils.HashPassword(uuid.NewString(), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		events:    events,
		cost:      cost,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// Tokens returns the issuer used for session tokens.
func (s *AuthService) Tokens() *utils.TokenIssuer { return s.tokens }

// Register creates a user. The email is stored exactly as given.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, repository.ErrEmailExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC().Truncate(time.Microsecond),
	}
	// the unique index still guards against a concurrent registration
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, queue.Event{Type: queue.UserRegistered, UserID: u.ID, OccurredAt: u.CreatedAt})
	return u, nil
}

// Verify checks an email/password pair against the credential store.
func (s *AuthService) Verify(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.VerifyPassword(s.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login verifies the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.Identity, utils.SessionToken, error) {
	u, err := s.Verify(ctx, email, password)
	if err != nil {
		return model.Identity{}, utils.SessionToken{}, err
	}
	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return model.Identity{}, utils.SessionToken{}, err
	}
	return model.Identity{ID: u.ID, Email: u.Email}, tok, nil
}

// Authenticate resolves a raw session token. It fails with
// utils.ErrInvalidToken when the token does not verify and with
// repository.ErrUserNotFound when the account no longer exists.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (model.Identity, error) {
	claimed, err := s.tokens.Verify(raw)
	if err != nil {
		return model.Identity{}, err
	}
	u, err := s.users.GetByID(ctx, claimed.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Identity{}, err
		}
		return model.Identity{}, fmt.Errorf("resolve user: %w", err)
	}
	return model.Identity{ID: u.ID, Email: u.Email}, nil
}

// publish is best-effort: a broker failure is logged and never fails the
// request that triggered it.
func (s *AuthService) publish(ctx context.Context, ev queue.Event) {
	publishEvent(ctx, s.events, ev)
}

func publishEvent(ctx context.Context, p queue.Publisher, ev queue.Event) {
	if err := p.Publish(ctx, ev); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event", ev.Type).Msg("publish event failed")
	}
}

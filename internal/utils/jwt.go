package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/iliyamo/contacts-manager/internal/model"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// unexpected algorithm, malformed payload or elapsed expiry. Callers must not
// be able to tell these apart.
var ErrInvalidToken = errors.New("invalid token")

// SessionToken represents a signed JWT along with its expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims are the JWT claims carried by a session token: the user's id and
// email plus the registered exp/iat claims.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens with a process-wide
// secret. Tokens signed with a previous secret fail verification.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer for the given secret and lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the issuer that reads the current time from now.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	cp := *i
	cp.now = now
	return &cp
}

// TTL is the lifetime of issued tokens.
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Issue builds and signs a token for the user. The expiry is now + TTL.
func (i *TokenIssuer) Issue(userID, email string) (SessionToken, error) {
	issuedAt := i.now().UTC()
	exp := issuedAt.Add(i.ttl)
	claims := Claims{
		ID:    userID,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return SessionToken{}, fmt.Errorf("sign token: %w", err)
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// Verify checks the token signature and expiry and returns the embedded
// identity.
func (i *TokenIssuer) Verify(raw string) (model.Identity, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			// Reject anything that is not HMAC; the key is a shared secret.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return model.Identity{}, ErrInvalidToken
	}
	if claims.ID == "" || claims.Email == "" {
		return model.Identity{}, ErrInvalidToken
	}
	return model.Identity{ID: claims.ID, Email: claims.Email}, nil
}

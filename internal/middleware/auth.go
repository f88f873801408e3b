package middleware // package middleware contains reusable HTTP middleware functions

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/contacts-manager/internal/model"
	"github.com/iliyamo/contacts-manager/internal/repository"
	"github.com/iliyamo/contacts-manager/internal/utils"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

// Authenticator resolves a raw session token to the caller's identity.
// service.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (model.Identity, error)
}

// Authenticate returns the gate placed in front of every protected route.
// It reads the session cookie, verifies the token, re-resolves the user in
// the credential store and stores the identity for downstream handlers.
// Every failure ends the request with 401; only store errors give 500.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Authentication required"})
			}

			ctx := c.Request().Context()
			id, err := auth.Authenticate(ctx, cookie.Value)
			switch {
			case err == nil:
			case errors.Is(err, utils.ErrInvalidToken):
				// expired and forged tokens get the same answer
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token"})
			case errors.Is(err, repository.ErrUserNotFound):
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not found"})
			default:
				zerolog.Ctx(ctx).Error().Err(err).Msg("authenticate session")
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
			}

			setIdentity(c, id)
			l := zerolog.Ctx(c.Request().Context()).With().Str("user_id", id.ID).Logger()
			c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
			return next(c)
		}
	}
}

package middleware

// identity.go holds the helpers that store and read the authenticated
// caller. The gate writes both the echo context and the request context so
// code that only sees a context.Context can still find the caller.

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contacts-manager/internal/model"
)

const identityKey = "identity"

type identityCtxKey struct{}

func setIdentity(c echo.Context, id model.Identity) {
	c.Set(identityKey, id)
	ctx := context.WithValue(c.Request().Context(), identityCtxKey{}, id)
	c.SetRequest(c.Request().WithContext(ctx))
}

// CurrentIdentity returns the caller resolved by Authenticate.
func CurrentIdentity(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	return id, ok && id.ID != ""
}

// IdentityFromContext is CurrentIdentity for plain contexts.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(model.Identity)
	return id, ok && id.ID != ""
}

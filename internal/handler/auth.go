package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contacts-manager/internal/middleware"
	"github.com/iliyamo/contacts-manager/internal/service"
)

// storeTimeout bounds the store calls made by a single request.
const storeTimeout = 5 * time.Second

func storeCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), storeTimeout)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth         *service.AuthService
	CookieSecure bool
}

func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Auth: auth, CookieSecure: cookieSecure}
}

// ----- DTOs -----

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register: create the user; no session is started.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if _, err := h.Auth.Register(ctx, req.Email, req.Password); err != nil {
		return respondError(c, "register", err)
	}
	return message(c, http.StatusCreated, "User registered successfully")
}

// Login: verify credentials and set the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	id, tok, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, "login", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.Auth.Tokens().TTL() / time.Second),
		Expires:  tok.Exp,
	})
	return c.JSON(http.StatusOK, id)
}

// Logout: clear the cookie. Tokens are not tracked server-side, so a copy of
// the token kept elsewhere stays valid until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	return message(c, http.StatusOK, "Logged out successfully")
}

// Me returns the identity resolved by the auth gate.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return message(c, http.StatusUnauthorized, "Authentication required")
	}
	return c.JSON(http.StatusOK, id)
}

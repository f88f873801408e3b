package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/contacts-manager/internal/repository"
	"github.com/iliyamo/contacts-manager/internal/service"
)

// Every non-2xx body has the shape {"message": "..."}.

const msgServerError = "Server error"

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}

// respondError maps service and repository errors to HTTP responses.
// Anything unrecognised is logged and collapsed to a generic 500.
func respondError(c echo.Context, op string, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return message(c, http.StatusBadRequest, ve.Error())
	case errors.Is(err, repository.ErrEmailExists):
		return message(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		return message(c, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, repository.ErrContactNotFound):
		return message(c, http.StatusNotFound, "Contact not found")
	}
	zerolog.Ctx(c.Request().Context()).Error().Err(err).Str("op", op).Msg("request failed")
	return message(c, http.StatusInternalServerError, msgServerError)
}

// ErrorHandler replaces echo's default so framework errors (unknown route,
// wrong method, panics caught by Recover) use the same body shape.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := msgServerError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if he.Internal != nil {
			zerolog.Ctx(c.Request().Context()).Debug().Err(he.Internal).Msg("http error")
		}
		if status < http.StatusInternalServerError {
			msg = fmt.Sprint(he.Message)
		}
	} else {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = message(c, status, msg)
}

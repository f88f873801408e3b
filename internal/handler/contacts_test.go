package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/contacts-manager/internal/repository"
	"github.com/iliyamo/contacts-manager/internal/service"
)

func TestContactHandler_RequiresIdentity(t *testing.T) {
	h := NewContactHandler(service.NewContactService(repository.NewMemory().Contacts(), nil))

	for name, fn := range map[string]echo.HandlerFunc{
		"list":   h.List,
		"get":    h.Get,
		"delete": h.Delete,
	} {
		t.Run(name, func(t *testing.T) {
			c, rec := newCtx(http.MethodGet, "/api/contacts")
			assert.NoError(t, fn(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"message":"Authentication required"}`, rec.Body.String())
		})
	}
}

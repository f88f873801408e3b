package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contacts-manager/internal/middleware"
	"github.com/iliyamo/contacts-manager/internal/model"
	"github.com/iliyamo/contacts-manager/internal/service"
)

// ContactHandler serves /api/contacts. The owner is always the identity set
// by the auth gate.
type ContactHandler struct {
	Contacts *service.ContactService
}

func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	if contacts == nil {
		panic("nil contact service passed to NewContactHandler")
	}
	return &ContactHandler{Contacts: contacts}
}

// ownerID extracts the caller's id from the request context, where the gate
// stored it. The check keeps a misrouted handler from running unscoped.
func ownerID(c echo.Context) (string, bool) {
	id, ok := middleware.IdentityFromContext(c.Request().Context())
	return id.ID, ok
}

func unauthorized(c echo.Context) error {
	return message(c, http.StatusUnauthorized, "Authentication required")
}

// List handles GET /api/contacts.
func (h *ContactHandler) List(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	items, err := h.Contacts.List(ctx, owner)
	if err != nil {
		return respondError(c, "list contacts", err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/contacts/:id.
func (h *ContactHandler) Get(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	contact, err := h.Contacts.Get(ctx, owner, c.Param("id"))
	if err != nil {
		return respondError(c, "get contact", err)
	}
	return c.JSON(http.StatusOK, contact)
}

// Create handles POST /api/contacts.
func (h *ContactHandler) Create(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return unauthorized(c)
	}
	var body model.ContactFields
	if err := c.Bind(&body); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	contact, err := h.Contacts.Create(ctx, owner, body)
	if err != nil {
		return respondError(c, "create contact", err)
	}
	return c.JSON(http.StatusCreated, contact)
}

// Update handles PUT /api/contacts/:id. The body replaces every mutable field.
func (h *ContactHandler) Update(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return unauthorized(c)
	}
	var body model.ContactFields
	if err := c.Bind(&body); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	contact, err := h.Contacts.Update(ctx, owner, c.Param("id"), body)
	if err != nil {
		return respondError(c, "update contact", err)
	}
	return c.JSON(http.StatusOK, contact)
}

// Delete handles DELETE /api/contacts/:id.
func (h *ContactHandler) Delete(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Contacts.Delete(ctx, owner, c.Param("id")); err != nil {
		return respondError(c, "delete contact", err)
	}
	return message(c, http.StatusOK, "Contact deleted successfully")
}

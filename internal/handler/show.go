package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

// ShowHandler serves the public show catalogue and the owner-only
// management endpoints.
type ShowHandler struct {
	Shows *repository.ShowRepo
}

func NewShowHandler(shows *repository.ShowRepo) *ShowHandler {
	if shows == nil {
		panic("nil ShowRepo passed to NewShowHandler")
	}
	return &ShowHandler{Shows: shows}
}

type showReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PosterURL   string `json:"poster_url"`
}

// List returns every show, ordered by id.  This is the entry point of
// the booking flow: users browse the list, then pick a show.
func (h *ShowHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shows, err := h.Shows.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}

// Get returns a single show by id.
func (h *ShowHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	show, err := h.Shows.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, show)
}

// Create adds a show to the catalogue.  Owner role required (enforced
// by middleware on the route).
func (h *ShowHandler) Create(c echo.Context) error {
	var req showReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	show := model.Show{Name: req.Name, Description: req.Description, PosterURL: req.PosterURL}
	if err := h.Shows.Create(ctx, &show); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}
	return c.JSON(http.StatusCreated, show)
}

// Update rewrites an existing show.
func (h *ShowHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req showReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	show := model.Show{ID: id, Name: req.Name, Description: req.Description, PosterURL: req.PosterURL}
	if err := h.Shows.Update(ctx, show); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update show failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// Delete removes a show.  Shows with sold tickets cannot be removed;
// the foreign key rejects the delete and we answer 409.
func (h *ShowHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Shows.Delete(ctx, id)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "show has sold tickets"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/booking"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

// sessionHeader carries the booking session id between steps.  The
// first step (selecting a show) mints one and returns it; the client
// sends it back on every following step.
const sessionHeader = "X-Booking-Session"

// BookingHandler exposes the step-by-step purchase flow over HTTP.  One
// endpoint per step: show, row, cell, confirm, cancel.  The draft state
// between steps lives server-side, keyed by the session id.
type BookingHandler struct {
	Flow *booking.Workflow
}

func NewBookingHandler(flow *booking.Workflow) *BookingHandler {
	if flow == nil {
		panic("nil Workflow passed to NewBookingHandler")
	}
	return &BookingHandler{Flow: flow}
}

type selectShowReq struct {
	ShowID uint64 `json:"show_id"`
}
type selectRowReq struct {
	Row int `json:"row"`
}
type selectCellReq struct {
	Cell int `json:"cell"`
}

// SelectShow starts a booking: resolves the show and answers with the
// rows that still have free seats plus the session id for the next
// steps.
func (h *BookingHandler) SelectShow(c echo.Context) error {
	var req selectShowReq
	if err := c.Bind(&req); err != nil || req.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sel, err := h.Flow.SelectShow(ctx, c.Request().Header.Get(sessionHeader), req.ShowID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "select show failed"})
	}
	c.Response().Header().Set(sessionHeader, sel.SessionID)
	return c.JSON(http.StatusOK, echo.Map{
		"session_id": sel.SessionID,
		"show":       sel.Show,
		"free_rows":  sel.FreeRows,
	})
}

// SelectRow records the chosen row and answers with its free cells.
func (h *BookingHandler) SelectRow(c echo.Context) error {
	session := c.Request().Header.Get(sessionHeader)
	if session == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking session"})
	}
	var req selectRowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cells, err := h.Flow.SelectRow(ctx, session, req.Row)
	if err != nil {
		if errors.Is(err, booking.ErrNoSelection) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "select a show first"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "select row failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"free_cells": cells})
}

// SelectCell records the chosen cell.
func (h *BookingHandler) SelectCell(c echo.Context) error {
	session := c.Request().Header.Get(sessionHeader)
	if session == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking session"})
	}
	var req selectCellReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Flow.SelectCell(ctx, session, req.Cell); err != nil {
		if errors.Is(err, booking.ErrNoSelection) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "select a row first"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "select cell failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"selected": true})
}

// Confirm commits the selected seat as a ticket for the authenticated
// user.  A lost seat race answers 409 and the client goes back to the
// row step; the session stays alive.
func (h *BookingHandler) Confirm(c echo.Context) error {
	session := c.Request().Header.Get(sessionHeader)
	if session == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking session"})
	}
	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ticket, err := h.Flow.Confirm(ctx, session, userID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNoSelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no complete selection"})
		case errors.Is(err, booking.ErrSeatUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already sold, pick another"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purchase failed"})
	}
	return c.JSON(http.StatusCreated, ticket)
}

// Cancel discards the draft.  Always succeeds, even when nothing was
// selected yet.
func (h *BookingHandler) Cancel(c echo.Context) error {
	session := c.Request().Header.Get(sessionHeader)
	if session == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing booking session"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Flow.Cancel(ctx, session); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// currentUserID extracts the authenticated user id set by the JWT
// middleware.  JWT numeric claims arrive as float64.
func currentUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	}
	return 0, false
}

package notification

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dentio/clinic/internal/platform/auth"
	"github.com/dentio/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleDentist, auth.RoleAssistant, auth.RoleReceptionist))
	g.GET("/notifications", h.List)
	g.GET("/notifications/unread-count", h.UnreadCount)
	g.POST("/notifications/:id/read", h.MarkRead)
	g.POST("/notifications/read-all", h.MarkAllRead)
	g.DELETE("/notifications/:id", h.Delete)
}

// recipient resolves the recipient: an explicit recipient_id query param
// when present, otherwise the authenticated user.
func recipient(c echo.Context) (uuid.UUID, error) {
	if raw := c.QueryParam("recipient_id"); raw != "" {
		return uuid.Parse(raw)
	}
	return uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
}

func (h *Handler) List(c echo.Context) error {
	rid, err := recipient(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid recipient")
	}
	pg := pagination.FromContext(c)
	unreadOnly := c.QueryParam("unread") == "true"
	items, total, err := h.svc.ListByRecipient(c.Request().Context(), rid, unreadOnly, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UnreadCount(c echo.Context) error {
	rid, err := recipient(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid recipient")
	}
	count, err := h.svc.UnreadCount(c.Request().Context(), rid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) MarkRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.MarkRead(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(c echo.Context) error {
	rid, err := recipient(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid recipient")
	}
	if err := h.svc.MarkAllRead(c.Request().Context(), rid); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

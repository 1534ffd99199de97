package dashboard

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dentio/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.Summary, auth.RequireRole(auth.RoleDentist, auth.RoleAssistant, auth.RoleReceptionist))
}

func (h *Handler) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	// Best effort: the dev middleware sets a non-UUID subject, in which
	// case the unread counter is simply omitted.
	recipientID, _ := uuid.Parse(auth.UserIDFromContext(ctx))
	out, err := h.svc.Summary(ctx, recipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

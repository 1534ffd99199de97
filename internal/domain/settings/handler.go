package settings

import (
	"net/http"

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
	api.GET("/settings", h.Get, auth.RequireRole(auth.RoleDentist, auth.RoleAssistant, auth.RoleReceptionist))
	api.PUT("/settings", h.Update, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) Get(c echo.Context) error {
	s, err := h.svc.Get(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Update(c echo.Context) error {
	var s Settings
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Update(c.Request().Context(), &s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s)
}

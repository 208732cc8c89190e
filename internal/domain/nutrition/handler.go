package nutrition

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/burnunit/emr/internal/platform/auth"
	"github.com/burnunit/emr/internal/platform/search"
	"github.com/burnunit/emr/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleSurgeon, auth.RoleNurse, auth.RoleDietitian))
	read.GET("/nutrition-assessments", h.List)
	read.GET("/nutrition-assessments/:id", h.Get)
	read.GET("/nutrition-assessments/due", h.DueScreens)
	read.GET("/patients/:id/nutrition-assessments", h.ListByPatient)

	write := api.Group("", auth.RequireRole(auth.RoleDietitian, auth.RolePhysician, auth.RoleNurse))
	write.POST("/nutrition-assessments", h.Create)
}

func (h *Handler) Create(c echo.Context) error {
	var na NutritionAssessment
	if err := c.Bind(&na); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateAssessment(c.Request().Context(), &na); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, na)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	na, err := h.svc.GetAssessment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "nutrition assessment not found")
	}
	return c.JSON(http.StatusOK, na)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := search.ExtractParams(c)
	items, total, err := h.svc.Search(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListByPatient(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DueScreens(c echo.Context) error {
	pg := pagination.FromContext(c)
	before := time.Now()
	if v := c.QueryParam("before"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid before timestamp, want RFC3339")
		}
		before = parsed
	}
	items, total, err := h.svc.DueScreens(c.Request().Context(), before, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

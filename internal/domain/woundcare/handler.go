package woundcare

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
	read := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleSurgeon, auth.RoleNurse))
	read.GET("/wound-assessments", h.ListAssessments)
	read.GET("/wound-assessments/:id", h.GetAssessment)
	read.GET("/patients/:id/dressing-changes", h.ListDressingChanges)
	read.GET("/dressing-changes/due", h.DueReviews)

	write := api.Group("", auth.RequireRole(auth.RoleNurse, auth.RolePhysician, auth.RoleSurgeon))
	write.POST("/wound-assessments", h.CreateAssessment)
	write.POST("/dressing-changes", h.RecordDressingChange)
}

func (h *Handler) CreateAssessment(c echo.Context) error {
	var wa WoundAssessment
	if err := c.Bind(&wa); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateAssessment(c.Request().Context(), &wa); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, wa)
}

func (h *Handler) GetAssessment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	wa, err := h.svc.GetAssessment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "wound assessment not found")
	}
	return c.JSON(http.StatusOK, wa)
}

func (h *Handler) ListAssessments(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := search.ExtractParams(c)
	items, total, err := h.svc.SearchAssessments(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) RecordDressingChange(c echo.Context) error {
	var dc DressingChange
	if err := c.Bind(&dc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RecordDressingChange(c.Request().Context(), &dc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, dc)
}

func (h *Handler) ListDressingChanges(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListDressingChanges(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DueReviews(c echo.Context) error {
	pg := pagination.FromContext(c)
	before := time.Now()
	if v := c.QueryParam("before"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid before timestamp, want RFC3339")
		}
		before = parsed
	}
	items, total, err := h.svc.DueReviews(c.Request().Context(), before, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

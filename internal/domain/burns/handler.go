package burns

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/burnunit/emr/internal/platform/auth"
	"github.com/burnunit/emr/internal/platform/metrics"
	"github.com/burnunit/emr/internal/platform/search"
	"github.com/burnunit/emr/pkg/pagination"
)

type Handler struct {
	svc     *Service
	metrics *metrics.Metrics
}

// NewHandler wires the burns routes. metrics may be nil in tests.
func NewHandler(svc *Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleSurgeon, auth.RoleNurse, auth.RolePharmacist, auth.RoleDietitian))
	read.GET("/burn-cases", h.List)
	read.GET("/burn-cases/:id", h.Get)
	read.GET("/burn-cases/:id/regions", h.GetRegions)
	read.GET("/burn-cases/:id/assessment", h.Assessment)
	read.GET("/burn-cases/:id/fluid-plan", h.FluidPlan)
	read.GET("/burn-cases/:id/alerts", h.Alerts)
	read.GET("/burn-cases/:id/vitals", h.ListVitals)
	read.GET("/burn-cases/:id/fluids", h.ListFluids)

	write := api.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleSurgeon, auth.RoleNurse))
	write.POST("/burn-cases", h.Create)
	write.PUT("/burn-cases/:id", h.Update)
	write.POST("/burn-cases/:id/close", h.Close)
	write.PUT("/burn-cases/:id/regions", h.ReplaceRegions)
	write.POST("/burn-cases/:id/vitals", h.AddVitals)
	write.POST("/burn-cases/:id/fluids", h.AddFluid)
	write.DELETE("/burn-cases/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var bc BurnCase
	if err := c.Bind(&bc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCase(c.Request().Context(), &bc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, bc)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	bc, err := h.svc.GetCase(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "burn case not found")
	}
	return c.JSON(http.StatusOK, bc)
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

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var bc BurnCase
	if err := c.Bind(&bc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	bc.ID = id
	if err := h.svc.UpdateCase(c.Request().Context(), &bc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, bc)
}

func (h *Handler) Close(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	bc, err := h.svc.CloseCase(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, bc)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteCase(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type replaceRegionsRequest struct {
	Regions []*RegionRecord `json:"regions"`
}

func (h *Handler) ReplaceRegions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req replaceRegionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	bc, err := h.svc.ReplaceRegions(c.Request().Context(), id, req.Regions)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, bc)
}

func (h *Handler) GetRegions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	regions, err := h.svc.GetRegions(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, regions)
}

func (h *Handler) Assessment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	res, err := h.svc.Assessment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if h.metrics != nil {
		h.metrics.AssessmentsComputed.Inc()
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) FluidPlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	at := time.Now()
	if v := c.QueryParam("at"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid at timestamp, want RFC3339")
		}
		at = parsed
	}
	res, err := h.svc.FluidPlan(c.Request().Context(), id, at)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if h.metrics != nil {
		h.metrics.FluidPlansComputed.Inc()
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Alerts(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	alerts, err := h.svc.Alerts(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if h.metrics != nil {
		for _, a := range alerts {
			h.metrics.AlertsRaised.WithLabelValues(string(a.Severity)).Inc()
		}
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *Handler) AddVitals(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var v VitalsRecord
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.CaseID = id
	if err := h.svc.AddVitals(c.Request().Context(), &v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) ListVitals(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListVitals(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddFluid(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var f FluidRecord
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f.CaseID = id
	if err := h.svc.AddFluid(c.Request().Context(), &f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) ListFluids(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListFluids(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

package facility

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/facilities", h.Register)
	g.GET("/facilities", h.List)
	g.GET("/facilities/summaries", h.Summaries)
	g.GET("/facilities/:fid", h.Get)
	g.GET("/facilities/:fid/summary", h.Summary)
}

func (h *Handler) Register(c echo.Context) error {
	var d Draft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f, err := h.registry.Register(d)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.List())
}

func (h *Handler) Get(c echo.Context) error {
	f, err := h.registry.Get(c.Param("fid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) Summary(c echo.Context) error {
	s, err := h.registry.Summary(c.Param("fid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Summaries(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.Summaries())
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

package transfer

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arogya/arogya/internal/platform/directory"
)

// Handler serves the transfer coordination API. Transfers span
// facilities, so the routes are not facility-scoped.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/transfers/destinations", h.SearchDestinations)
	g.POST("/transfers", h.Create)
	g.GET("/transfers", h.List)
	g.GET("/transfers/:id", h.Get)
	g.POST("/transfers/:id/accept", h.Accept)
	g.POST("/transfers/:id/decline", h.Decline)
}

func (h *Handler) SearchDestinations(c echo.Context) error {
	q := DestinationQuery{City: c.QueryParam("city"), MinBeds: 1}
	if raw := c.QueryParam("min_beds"); raw != "" {
		var err error
		q.MinBeds, err = strconv.Atoi(raw)
		if err != nil || q.MinBeds < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_beds")
		}
	}
	if raw := c.QueryParam("max_distance_km"); raw != "" {
		var err error
		q.MaxDistanceKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || q.MaxDistanceKm <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_distance_km")
		}
	}
	if raw := c.QueryParam("resources"); raw != "" {
		q.Resources = strings.Split(raw, ",")
	}
	entries, err := h.svc.SearchDestinations(c.Request().Context(), q)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	if entries == nil {
		entries = []directory.Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) Create(c echo.Context) error {
	var d Draft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req, err := h.svc.Create(d)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, req)
}

func (h *Handler) List(c echo.Context) error {
	reqs := h.svc.List(c.QueryParam("facility"))
	if reqs == nil {
		reqs = []Request{}
	}
	return c.JSON(http.StatusOK, reqs)
}

func (h *Handler) Get(c echo.Context) error {
	req, err := h.svc.Get(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) Accept(c echo.Context) error {
	return h.decide(c, h.svc.Accept)
}

func (h *Handler) Decline(c echo.Context) error {
	return h.decide(c, h.svc.Decline)
}

func (h *Handler) decide(c echo.Context, fn func(id, note string) (Request, error)) error {
	var body struct {
		Note string `json:"note"`
	}
	if err := c.Bind(&body); err != nil && c.Request().ContentLength > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req, err := fn(c.Param("id"), body.Note)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, req)
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAlreadyDecided):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

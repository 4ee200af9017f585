package alert

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/arogya/arogya/pkg/pagination"
)

// Resolver locates the alert dispatcher for one facility.
type Resolver interface {
	AlertDispatcher(facilityID string) (*Dispatcher, error)
}

type Handler struct {
	resolve Resolver
}

func NewHandler(resolve Resolver) *Handler {
	return &Handler{resolve: resolve}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/facilities/:fid/alerts", h.Dispatch)
	g.GET("/facilities/:fid/alerts", h.History)
	g.GET("/facilities/:fid/alerts/estimate", h.Estimate)
}

func (h *Handler) dispatcher(c echo.Context) (*Dispatcher, error) {
	d, err := h.resolve.AlertDispatcher(c.Param("fid"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return d, nil
}

func (h *Handler) Dispatch(c echo.Context) error {
	d, err := h.dispatcher(c)
	if err != nil {
		return err
	}
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := d.Dispatch(c.Request().Context(), req)
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNoRecipients):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		// The attempt is on record; the gateway just failed to deliver.
		return c.JSON(http.StatusBadGateway, rec)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) History(c echo.Context) error {
	d, err := h.dispatcher(c)
	if err != nil {
		return err
	}
	history := d.History()
	if history == nil {
		history = []Record{}
	}
	p := pagination.FromContext(c)
	lo, hi := p.Bounds(len(history))
	return c.JSON(http.StatusOK, pagination.NewResponse(history[lo:hi], len(history), p.Limit, p.Offset))
}

func (h *Handler) Estimate(c echo.Context) error {
	if _, err := h.dispatcher(c); err != nil {
		return err
	}
	group := c.QueryParam("group")
	radius, err := strconv.ParseFloat(c.QueryParam("radius_km"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid radius_km")
	}
	return c.JSON(http.StatusOK, map[string]int{
		"estimated": EstimateRecipients(group, radius),
	})
}

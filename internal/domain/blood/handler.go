package blood

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
)

// Resolver locates the blood stock for one facility.
type Resolver interface {
	BloodManager(facilityID string) (*Manager, error)
}

type Handler struct {
	resolve Resolver
}

func NewHandler(resolve Resolver) *Handler {
	return &Handler{resolve: resolve}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/facilities/:fid/blood", h.Stock)
	g.GET("/facilities/:fid/blood/critical", h.Critical)
	g.POST("/facilities/:fid/blood/expire", h.Expire)
	g.GET("/facilities/:fid/blood/:group", h.GroupStock)
	g.POST("/facilities/:fid/blood/:group/stock", h.AddStock)
	g.POST("/facilities/:fid/blood/:group/consume", h.Consume)
}

func (h *Handler) manager(c echo.Context) (*Manager, error) {
	m, err := h.resolve.BloodManager(c.Param("fid"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return m, nil
}

func (h *Handler) Stock(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.Stock())
}

func (h *Handler) GroupStock(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	s, err := m.GroupStock(groupParam(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) AddStock(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var body struct {
		Units  int       `json:"units"`
		Expiry time.Time `json:"expiry"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	lot, err := m.AddStock(groupParam(c), body.Units, body.Expiry)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, lot)
}

func (h *Handler) Consume(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var body struct {
		Units int `json:"units"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	draws, err := m.ConsumeStock(groupParam(c), body.Units)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"draws": draws})
}

func (h *Handler) Expire(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var asOf time.Time
	if raw := c.QueryParam("as_of"); raw != "" {
		asOf, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "as_of must be YYYY-MM-DD")
		}
	}
	expired := m.ExpireLots(asOf)
	if expired == nil {
		expired = []Lot{}
	}
	return c.JSON(http.StatusOK, map[string]any{"expired": expired})
}

func (h *Handler) Critical(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	critical := m.CriticalGroups()
	if critical == nil {
		critical = []GroupStock{}
	}
	return c.JSON(http.StatusOK, critical)
}

// groupParam unescapes the blood group segment, since Rh-positive
// groups arrive percent-encoded ("A%2B").
func groupParam(c echo.Context) string {
	g, err := url.PathUnescape(c.Param("group"))
	if err != nil {
		return c.Param("group")
	}
	return g
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrUnknownGroup):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

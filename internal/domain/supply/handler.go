package supply

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Resolver locates the supply inventory for one facility.
type Resolver interface {
	SupplyManager(facilityID string) (*Manager, error)
}

type Handler struct {
	resolve Resolver
}

func NewHandler(resolve Resolver) *Handler {
	return &Handler{resolve: resolve}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/facilities/:fid/supplies", h.AddConsumable)
	g.GET("/facilities/:fid/supplies", h.ListConsumables)
	g.GET("/facilities/:fid/supplies/low-stock", h.LowStock)
	g.GET("/facilities/:fid/supplies/reorders", h.Reorders)
	g.POST("/facilities/:fid/supplies/:id/restock", h.Restock)
	g.POST("/facilities/:fid/supplies/:id/consume", h.Consume)
	g.POST("/facilities/:fid/equipment", h.AddEquipment)
	g.GET("/facilities/:fid/equipment", h.ListEquipment)
	g.POST("/facilities/:fid/equipment/:id/checkout", h.CheckOut)
	g.POST("/facilities/:fid/equipment/:id/return", h.Return)
	g.POST("/facilities/:fid/equipment/:id/maintenance/start", h.StartMaintenance)
	g.POST("/facilities/:fid/equipment/:id/maintenance/end", h.EndMaintenance)
}

func (h *Handler) manager(c echo.Context) (*Manager, error) {
	m, err := h.resolve.SupplyManager(c.Param("fid"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return m, nil
}

func (h *Handler) AddConsumable(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var d ConsumableDraft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := m.AddConsumable(d)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) ListConsumables(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.Consumables())
}

func (h *Handler) LowStock(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	low := m.LowStock()
	if low == nil {
		low = []Consumable{}
	}
	return c.JSON(http.StatusOK, low)
}

func (h *Handler) Reorders(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.Reorders())
}

type qtyBody struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) Restock(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var body qtyBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := m.Restock(c.Param("id"), body.Quantity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) Consume(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var body qtyBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := m.Consume(c.Param("id"), body.Quantity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) AddEquipment(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var body struct {
		Name  string `json:"name"`
		Total int    `json:"total"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	eq, err := m.AddEquipment(body.Name, body.Total)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, eq)
}

func (h *Handler) ListEquipment(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.Equipment())
}

func (h *Handler) CheckOut(c echo.Context) error {
	return h.equipmentOp(c, (*Manager).CheckOut)
}

func (h *Handler) Return(c echo.Context) error {
	return h.equipmentOp(c, (*Manager).Return)
}

func (h *Handler) StartMaintenance(c echo.Context) error {
	return h.equipmentOp(c, (*Manager).StartMaintenance)
}

func (h *Handler) EndMaintenance(c echo.Context) error {
	return h.equipmentOp(c, (*Manager).EndMaintenance)
}

func (h *Handler) equipmentOp(c echo.Context, op func(*Manager, string) (Equipment, error)) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	eq, err := op(m, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, eq)
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

package ward

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/arogya/arogya/internal/platform/identity"
)

// Resolver locates the bed inventory for one facility.
type Resolver interface {
	WardManager(facilityID string) (*Manager, error)
}

type Handler struct {
	resolve Resolver
	idp     identity.Provider
}

func NewHandler(resolve Resolver, idp identity.Provider) *Handler {
	return &Handler{resolve: resolve, idp: idp}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/facilities/:fid/wards", h.CreateWard)
	g.GET("/facilities/:fid/wards", h.ListWards)
	g.GET("/facilities/:fid/wards/low-availability", h.LowAvailability)
	g.GET("/facilities/:fid/wards/:wid", h.GetWard)
	g.GET("/facilities/:fid/wards/:wid/occupancy", h.Occupancy)
	g.POST("/facilities/:fid/wards/:wid/beds", h.AddBed)
	g.DELETE("/facilities/:fid/wards/:wid/beds/last", h.RemoveBed)
	g.POST("/facilities/:fid/wards/:wid/beds/:bid/admit", h.Admit)
	g.POST("/facilities/:fid/wards/:wid/beds/:bid/admit-by-token", h.AdmitByToken)
	g.POST("/facilities/:fid/wards/:wid/beds/:bid/discharge", h.Discharge)
	g.PATCH("/facilities/:fid/wards/:wid/beds/:bid/patient", h.UpdatePatient)
	g.POST("/facilities/:fid/wards/:wid/beds/:bid/hold", h.HoldBed)
	g.POST("/facilities/:fid/wards/:wid/beds/:bid/release", h.ReleaseBed)
}

func (h *Handler) manager(c echo.Context) (*Manager, error) {
	m, err := h.resolve.WardManager(c.Param("fid"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return m, nil
}

func (h *Handler) CreateWard(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var body struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s, err := m.AddWard(body.ID, body.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) ListWards(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m.Wards())
}

func (h *Handler) GetWard(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	d, err := m.Ward(c.Param("wid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Occupancy(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	rate, err := m.OccupancyRate(c.Param("wid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"occupancy_rate": rate})
}

func (h *Handler) LowAvailability(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	threshold := -1
	if raw := c.QueryParam("threshold"); raw != "" {
		threshold, err = strconv.Atoi(raw)
		if err != nil || threshold < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid threshold")
		}
	}
	wards := m.LowAvailabilityWards(threshold)
	if wards == nil {
		wards = []Summary{}
	}
	return c.JSON(http.StatusOK, wards)
}

func (h *Handler) AddBed(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	b, err := m.AddBed(c.Param("wid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) RemoveBed(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	force := c.QueryParam("force") == "true"
	if err := m.RemoveBed(c.Param("wid"), force); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Admit(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var draft PatientDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := m.AdmitPatient(c.Param("wid"), c.Param("bid"), draft)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

// AdmitByToken resolves demographics through the identity provider and
// admits the resolved draft, with the request body supplying the clinical
// fields the provider does not know about.
func (h *Handler) AdmitByToken(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var body struct {
		Token     string `json:"token"`
		Diagnosis string `json:"diagnosis"`
		Doctor    string `json:"doctor"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	rec, err := h.idp.Resolve(c.Request().Context(), body.Token)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no patient matches the token")
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	draft := PatientDraft{
		Name:             rec.Name,
		Age:              rec.Age,
		Gender:           rec.Gender,
		Contact:          rec.Contact,
		Address:          rec.Address,
		NationalID:       rec.NationalID,
		EmergencyContact: rec.EmergencyContact,
		Diagnosis:        body.Diagnosis,
		Doctor:           body.Doctor,
	}

	p, err := m.AdmitPatient(c.Param("wid"), c.Param("bid"), draft)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Discharge(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	if err := m.DischargePatient(c.Param("wid"), c.Param("bid")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var patch PatientPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := m.UpdatePatient(c.Param("wid"), c.Param("bid"), patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) HoldBed(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	var body struct {
		Status BedStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := m.HoldBed(c.Param("wid"), c.Param("bid"), body.Status); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ReleaseBed(c echo.Context) error {
	m, err := h.manager(c)
	if err != nil {
		return err
	}
	if err := m.ReleaseBed(c.Param("wid"), c.Param("bid")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrWardNotFound), errors.Is(err, ErrBedNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidBedState), errors.Is(err, ErrConfirmationRequired):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrImmutableField):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

package handler

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/hanbit/makerspace-reservation/internal/model"
	"github.com/hanbit/makerspace-reservation/internal/repository"
)

// MachineHandler covers admin machine management and the laser slot
// catalog. Listing is open to every member; mutation sits behind the
// staff gate in the router.
type MachineHandler struct {
	Machines *repository.MachineRepo
}

func NewMachineHandler(machines *repository.MachineRepo) *MachineHandler {
	if machines == nil {
		panic("nil repository passed to NewMachineHandler")
	}
	return &MachineHandler{Machines: machines}
}

type machineBody struct {
	Class     string `json:"class"`
	Name      string `json:"name"`
	UnitCount int    `json:"unit_count"`
}

// Create registers a new physical unit, active by default.
func (h *MachineHandler) Create(c echo.Context) error {
	var body machineBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	class, ok := model.ParseMachineClass(body.Class)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown machine class"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	m := model.Machine{Class: class, Name: body.Name, Active: true, UnitCount: body.UnitCount}
	if err := h.Machines.Create(c.Request().Context(), &m); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, machineView(&m))
}

// List returns the units of one class, inactive ones included so staff
// can re-enable them.
func (h *MachineHandler) List(c echo.Context) error {
	class, ok := model.ParseMachineClass(c.Param("class"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown machine class"})
	}
	machines, err := h.Machines.ListByClass(c.Request().Context(), class, false)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	views := make([]echo.Map, 0, len(machines))
	for _, m := range machines {
		views = append(views, machineView(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"machines": views})
}

type activeBody struct {
	Active bool `json:"active"`
}

// SetActive flips a unit in or out of service. Existing reservations
// on a deactivated unit stay; only new bookings are blocked.
func (h *MachineHandler) SetActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid machine id"})
	}
	var body activeBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err := h.Machines.SetActive(c.Request().Context(), id, body.Active)
	if errors.Is(err, repository.ErrMachineNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "machine not found"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSlots returns the laser time-slot catalog in catalog order.
func (h *MachineHandler) ListSlots(c echo.Context) error {
	slots, err := h.Machines.ListSlots(c.Request().Context())
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	views := make([]echo.Map, 0, len(slots))
	for _, s := range slots {
		views = append(views, echo.Map{"id": s.ID, "start_time": s.StartTime, "end_time": s.EndTime})
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": views})
}

type slotBody struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Catalog entries must be zero-padded "HH:MM" because windows compare
// as strings everywhere downstream.
var slotTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// CreateSlot appends a window to the laser catalog.
func (h *MachineHandler) CreateSlot(c echo.Context) error {
	var body slotBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !slotTimePattern.MatchString(body.StartTime) || !slotTimePattern.MatchString(body.EndTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "times must be HH:MM"})
	}
	if body.StartTime >= body.EndTime {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must precede end_time"})
	}
	s := model.LaserSlot{StartTime: body.StartTime, EndTime: body.EndTime}
	if err := h.Machines.CreateSlot(c.Request().Context(), &s); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": s.ID})
}

// DeleteSlot removes a catalog window. Reservations already placed on
// the window keep their copy of the times.
func (h *MachineHandler) DeleteSlot(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	err := h.Machines.DeleteSlot(c.Request().Context(), id)
	if errors.Is(err, repository.ErrSlotNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

func machineView(m *model.Machine) echo.Map {
	return echo.Map{
		"id":         m.ID,
		"class":      m.Class,
		"name":       m.Name,
		"active":     m.Active,
		"unit_count": m.UnitCount,
	}
}

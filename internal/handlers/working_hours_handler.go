package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/infra/repository"
	"github.com/BruksfildServices01/barberbook/internal/models"
	ucBooking "github.com/BruksfildServices01/barberbook/internal/usecase/booking"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	cache ucBooking.AvailabilityCache
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, cache ucBooking.AvailabilityCache, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, cache: cache, audit: audit}
}

type WorkingHoursUpdateRequest struct {
	Days map[string]domain.DaySchedule `json:"working_hours" binding:"required"`
}

type WorkingHoursResponse struct {
	WorkingHours domain.WorkingHoursSchedule `json:"working_hours"`
	Configured   bool                        `json:"configured"`
}

// Get returns the saved schedule, or the default one when the barber has
// never saved hours. Configured tells the two apart.
func (h *WorkingHoursHandler) Get(c *gin.Context) {
	var barber models.Barber
	if err := h.db.WithContext(c.Request.Context()).
		Select("id", "working_hours").
		First(&barber, currentUserID(c)).Error; err != nil {

		httperr.Respond(c, notFoundOr(err, "barber_not_found"))
		return
	}

	schedule, err := repository.DecodeWorkingHours(barber.WorkingHours)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if schedule == nil {
		httpresp.OK(c, WorkingHoursResponse{WorkingHours: domain.DefaultWorkingHours()})
		return
	}
	httpresp.OK(c, WorkingHoursResponse{WorkingHours: schedule, Configured: true})
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	barberID := currentUserID(c)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	schedule, err := domain.NewWorkingHoursSchedule(req.Days)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	raw, err := json.Marshal(schedule)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Barber{}).
		Where("id = ?", barberID).
		Update("working_hours", datatypes.JSON(raw))
	if res.Error != nil {
		httperr.Respond(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.Respond(c, httperr.NotFound("barber_not_found"))
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), barberID)
	}

	h.audit.Dispatch(audit.Event{
		BarberID:  barberID,
		ActorID:   &barberID,
		ActorRole: string(domain.ActorBarber),
		Action:    "working_hours_updated",
		Entity:    "barber",
		EntityID:  &barberID,
	})

	httpresp.OK(c, WorkingHoursResponse{WorkingHours: schedule, Configured: true})
}

package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/dto"
	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barberbook/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	availability *ucBooking.GetAvailability
	create       *ucBooking.CreateBooking
	cancel       *ucBooking.CancelBooking
	complete     *ucBooking.CompleteBooking
	list         *ucBooking.ListBookings
}

func NewBookingHandler(
	availability *ucBooking.GetAvailability,
	create *ucBooking.CreateBooking,
	cancel *ucBooking.CancelBooking,
	complete *ucBooking.CompleteBooking,
	list *ucBooking.ListBookings,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		create:       create,
		cancel:       cancel,
		complete:     complete,
		list:         list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID   uint   `json:"service_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	barberID, ok := uintParam(c, "id")
	if !ok {
		httperr.Respond(c, httperr.NotFound("barber_not_found"))
		return
	}

	date, err := time.Parse(domain.DateLayout, c.Query("date"))
	if err != nil {
		httperr.Respond(c, httperr.InvalidInput("invalid_date"))
		return
	}

	serviceID, ok := uintQuery(c, "service_id")
	if !ok {
		httperr.Respond(c, httperr.InvalidInput("invalid_service_id"))
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID:  barberID,
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

// Create books as a guest, or as the signed-in client when a client token
// is present.
func (h *BookingHandler) Create(c *gin.Context) {
	barberID, ok := uintParam(c, "id")
	if !ok {
		httperr.Respond(c, httperr.NotFound("barber_not_found"))
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bk, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		BarberID:    barberID,
		ServiceID:   req.ServiceID,
		ClientID:    currentClientID(c),
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.FromBooking(*bk, true))
}

// ======================================================
// BARBER
// ======================================================

// ListByDate defaults to today in the default zone.
func (h *BookingHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		dateStr = timezone.Now().Format(domain.DateLayout)
	}

	date, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		httperr.Respond(c, httperr.InvalidInput("invalid_date"))
		return
	}

	out, err := h.list.ByDate(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.Respond(c, httperr.InvalidInput("invalid_date"))
		return
	}

	out, err := h.list.ByMonth(c.Request.Context(), currentUserID(c), year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *BookingHandler) CancelByBarber(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.Respond(c, httperr.NotFound("booking_not_found"))
		return
	}

	bk, err := h.cancel.ByBarber(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromBooking(*bk, false))
}

func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.Respond(c, httperr.NotFound("booking_not_found"))
		return
	}

	bk, err := h.complete.Execute(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromBooking(*bk, false))
}

// ======================================================
// CLIENT
// ======================================================

func (h *BookingHandler) ListForClient(c *gin.Context) {
	filter := domain.ParseClientFilter(c.Query("filter"))

	out, err := h.list.ForClient(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *BookingHandler) CancelByClient(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.Respond(c, httperr.NotFound("booking_not_found"))
		return
	}

	bk, err := h.cancel.ByClient(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromBooking(*bk, true))
}

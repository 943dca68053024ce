package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFoundResponse(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// messages shown to the user for well-known codes; everything else falls
// back to the per-kind message.
var messages = map[string]string{
	"invalid_date":          "Invalid date, expected YYYY-MM-DD.",
	"invalid_time":          "Invalid time, expected HH:MM.",
	"invalid_duration":      "Service duration must be positive.",
	"too_soon":              "This time is in the past. Please choose another slot.",
	"slot_unavailable":      "This slot is no longer available. Please choose another time.",
	"time_conflict":         "This slot was just booked by someone else. Please choose another time.",
	"service_not_found":     "Service not found.",
	"barber_not_found":      "Barber not found.",
	"booking_not_found":     "Booking not found.",
	"invalid_state":         "This booking can no longer be changed.",
	"appointment_not_begun": "Only appointments that have started can be completed.",
	"availability_failed":   "Could not check availability right now. Please try again.",
	"booking_failed":        "Could not save the booking right now. Please try again.",
	"bookings_unavailable":  "Could not load bookings right now. Please try again.",
	"review_failed":         "Could not save your review right now. Please try again.",
	"favorite_failed":       "Could not update favorites right now. Please try again.",
	"service_failed":        "Could not save the service right now. Please try again.",
	"invalid_client_name":   "Please enter your name.",
	"invalid_working_hours": "Working hours are invalid.",
	"invalid_weekday":       "Unknown weekday.",
	"start_after_end":       "Opening time must be before closing time.",
	"invalid_image":         "The uploaded file is not a supported image.",
	"storage_disabled":      "Image uploads are not enabled on this server.",
	"storage_failed":        "Could not store the file right now. Please try again.",
	"invalid_coordinates":   "Invalid coordinates.",
	"location_not_found":    "We could not find your location. Please search manually.",
	"geocoding_failed":      "Location lookup is unavailable. Please search manually.",
	"email_taken":           "An account with this email already exists.",
	"invalid_email_domain":  "The email domain does not look valid.",
	"invalid_credentials":   "Wrong email or password.",
	"invalid_rating":        "Rating must be between 1 and 5.",
	"review_exists":         "You already reviewed this booking.",
	"not_reviewable":        "Only completed bookings can be reviewed.",
	"client_not_found":      "Client not found.",
	"invalid_email":         "Please enter a valid email address.",
	"invalid_name":          "Name cannot be empty.",
	"invalid_timezone":      "Unknown timezone.",
	"invalid_price":         "Price cannot be negative.",
	"invalid_service_id":    "Please choose a service.",
}

var kindStatus = map[Kind]int{
	KindInvalidInput:        http.StatusBadRequest,
	KindNotConfigured:       http.StatusUnprocessableEntity,
	KindNotFound:            http.StatusNotFound,
	KindInvalidState:        http.StatusUnprocessableEntity,
	KindForbidden:           http.StatusForbidden,
	KindUpstreamUnavailable: http.StatusServiceUnavailable,
	KindConflictOnWrite:     http.StatusConflict,
}

var kindMessage = map[Kind]string{
	KindInvalidInput:        "Invalid request.",
	KindNotConfigured:       "Not configured.",
	KindNotFound:            "Not found.",
	KindInvalidState:        "Operation not allowed in the current state.",
	KindForbidden:           "You are not allowed to do this.",
	KindUpstreamUnavailable: "Service temporarily unavailable. Please try again.",
	KindConflictOnWrite:     "Conflict, please retry.",
}

// StatusFor maps err to the HTTP status Respond would use.
func StatusFor(err error) int {
	if s, ok := kindStatus[KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Respond writes err as an HTTPError. Non business errors are logged and
// reported as internal.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		zap.L().Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	if be.Kind == KindUpstreamUnavailable {
		zap.L().Warn("upstream unavailable",
			zap.String("code", be.Code),
			zap.Error(be.Err),
		)
	}

	msg, ok := messages[be.Code]
	if !ok {
		msg = kindMessage[be.Kind]
	}
	Write(c, StatusFor(err), be.Code, msg)
}

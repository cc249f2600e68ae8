package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/domain"
	bookingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking/domain"
	paymentdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/domain"
	payoutdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payout/domain"
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *apiError) Error() string { return e.Code }

func invalidRequestError() *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "the request body could not be parsed",
	}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

// AbortWithError maps domain errors onto HTTP responses. Unknown errors
// become an opaque 500 so internals never leak to clients.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	var procErr *billingdomain.ProcessingError
	if errors.As(err, &procErr) {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": gin.H{
			"code":    "payment_processor_error",
			"message": "the payment processor could not complete the operation",
		}})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, bookingdomain.ErrBookingNotFound):
		status, code, message = http.StatusNotFound, err.Error(), "booking not found"
	case errors.Is(err, bookingdomain.ErrAlreadyCancelled):
		status, code, message = http.StatusConflict, err.Error(), "booking is already cancelled"
	case errors.Is(err, bookingdomain.ErrNotCancellable):
		status, code, message = http.StatusConflict, err.Error(), "booking can no longer be cancelled"
	case errors.Is(err, bookingdomain.ErrMissingPaymentLink),
		errors.Is(err, billingdomain.ErrPaymentNotCompleted):
		status, code, message = http.StatusUnprocessableEntity, err.Error(), "the booking's payment is not in a refundable state"
	case errors.Is(err, bookingdomain.ErrInvalidBooking),
		errors.Is(err, billingdomain.ErrInvalidCancellationReason),
		errors.Is(err, billingdomain.ErrInvalidCancellationTiming),
		errors.Is(err, billingdomain.ErrInvalidSessionFee),
		errors.Is(err, billingdomain.ErrInvalidPaymentIntent),
		errors.Is(err, payoutdomain.ErrInvalidAccount),
		errors.Is(err, payoutdomain.ErrInvalidPayoutAmount):
		status, code, message = http.StatusBadRequest, err.Error(), "the request failed validation"
	case errors.Is(err, payoutdomain.ErrBelowMinimumPayout),
		errors.Is(err, payoutdomain.ErrInsufficientBalance),
		errors.Is(err, payoutdomain.ErrPayoutsDisabled):
		status, code, message = http.StatusUnprocessableEntity, err.Error(), "the payout cannot be executed"
	case errors.Is(err, paymentdomain.ErrInvalidSignature),
		errors.Is(err, paymentdomain.ErrEmptyPayload):
		status, code, message = http.StatusBadRequest, err.Error(), "webhook verification failed"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    code,
		"message": message,
	}})
}

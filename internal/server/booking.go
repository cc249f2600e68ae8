package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	billingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/billing/domain"
	bookingdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/booking/domain"
)

type createBookingRequest struct {
	ClientID           string `json:"client_id"`
	TherapistID        string `json:"therapist_id"`
	TherapistAccountID string `json:"therapist_account_id"`
	SessionStart       string `json:"session_start"`
	DurationMinutes    int    `json:"duration_minutes"`
	SessionFee         string `json:"session_fee"`
	Currency           string `json:"currency"`
	PaymentIntentID    string `json:"payment_intent_id"`
}

type cancelBookingRequest struct {
	Reason    string `json:"reason"`
	ActorType string `json:"actor_type"`
	ActorID   string `json:"actor_id"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		AbortWithError(c, newValidationError("client_id", "invalid_client_id", "invalid client_id"))
		return
	}
	therapistID, err := snowflake.ParseString(strings.TrimSpace(req.TherapistID))
	if err != nil {
		AbortWithError(c, newValidationError("therapist_id", "invalid_therapist_id", "invalid therapist_id"))
		return
	}
	sessionStart, err := time.Parse(time.RFC3339, strings.TrimSpace(req.SessionStart))
	if err != nil {
		AbortWithError(c, newValidationError("session_start", "invalid_session_start", "session_start must be RFC 3339"))
		return
	}
	sessionFee, err := decimal.NewFromString(strings.TrimSpace(req.SessionFee))
	if err != nil {
		AbortWithError(c, newValidationError("session_fee", "invalid_session_fee", "session_fee must be a decimal amount"))
		return
	}

	booking, err := s.bookingSvc.Create(c.Request.Context(), bookingdomain.CreateBookingRequest{
		ClientID:           clientID,
		TherapistID:        therapistID,
		TherapistAccountID: strings.TrimSpace(req.TherapistAccountID),
		SessionStart:       sessionStart,
		DurationMinutes:    req.DurationMinutes,
		SessionFee:         sessionFee,
		Currency:           strings.TrimSpace(req.Currency),
		PaymentIntentID:    strings.TrimSpace(req.PaymentIntentID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bookingResponse(booking)})
}

func (s *Server) GetBooking(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_booking_id", "invalid booking id"))
		return
	}

	booking, err := s.bookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bookingResponse(booking)})
}

func (s *Server) CancelBooking(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_booking_id", "invalid booking id"))
		return
	}

	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.bookingSvc.Cancel(c.Request.Context(), bookingdomain.CancelRequest{
		BookingID: id,
		Reason:    billingdomain.CancellationReason(strings.TrimSpace(req.Reason)),
		ActorType: strings.TrimSpace(req.ActorType),
		ActorID:   strings.TrimSpace(req.ActorID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"booking_id":          result.BookingID.String(),
		"timing":              result.Timing,
		"refund_policy":       result.RefundPolicy,
		"client_refund":       result.Outcome.ClientRefund.StringFixed(2),
		"therapist_deduction": result.Outcome.TherapistDeduction.StringFixed(2),
		"cancellation_fee":    result.Outcome.CancellationFee.StringFixed(2),
		"platform_fee":        result.Outcome.PlatformFee.StringFixed(2),
		"refund_id":           result.RefundID,
		"reversal_id":         result.ReversalID,
	}})
}

func bookingResponse(b *bookingdomain.Booking) gin.H {
	resp := gin.H{
		"id":                   b.ID.String(),
		"client_id":            b.ClientID.String(),
		"therapist_id":         b.TherapistID.String(),
		"therapist_account_id": b.TherapistAccountID,
		"session_start":        b.SessionStart.Format(time.RFC3339),
		"duration_minutes":     b.DurationMinutes,
		"session_fee":          b.SessionFee.StringFixed(2),
		"currency":             b.Currency,
		"status":               b.Status,
		"payment_intent_id":    b.PaymentIntentID,
		"payment_status":       b.PaymentStatus,
		"created_at":           b.CreatedAt.Format(time.RFC3339),
	}
	if b.CancellationReason != nil {
		resp["cancellation_reason"] = *b.CancellationReason
	}
	if b.CancelledAt != nil {
		resp["cancelled_at"] = b.CancelledAt.Format(time.RFC3339)
	}
	return resp
}

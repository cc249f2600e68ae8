package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	paymentdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/domain"
)

// StripeWebhook ingests provider events. Duplicates and ignored event
// types still return 200 so the provider stops retrying.
func (s *Server) StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.paymentSvc.IngestWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, paymentdomain.ErrEventIgnored) {
			c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
			return
		}
		if errors.Is(err, paymentdomain.ErrInvalidSignature) || errors.Is(err, paymentdomain.ErrEmptyPayload) {
			AbortWithError(c, err)
			return
		}
		s.log.Error("webhook ingestion failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received":  true,
		"duplicate": result.Duplicate,
	})
}

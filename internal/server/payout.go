package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	payoutdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payout/domain"
)

type instantPayoutRequest struct {
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
	ActorID   string `json:"actor_id"`
}

func (s *Server) GetEarnings(c *gin.Context) {
	summary, err := s.payoutSvc.EarningsSummary(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"account_id":      summary.AccountID,
		"available":       summary.Available.StringFixed(2),
		"pending":         summary.Pending.StringFixed(2),
		"currency":        summary.Currency,
		"payouts_enabled": summary.PayoutsEnabled,
	}})
}

func (s *Server) ListPayouts(c *gin.Context) {
	var query struct {
		AccountID string `form:"account_id"`
		Limit     int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	payouts, err := s.payoutSvc.ListPayouts(c.Request.Context(), query.AccountID, query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items := make([]gin.H, 0, len(payouts))
	for _, p := range payouts {
		items = append(items, gin.H{
			"id":           p.ID,
			"amount":       p.Amount.StringFixed(2),
			"currency":     p.Currency,
			"status":       p.Status,
			"method":       p.Method,
			"arrival_date": p.ArrivalDate.Format(time.RFC3339),
			"created_at":   p.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) CreateInstantPayout(c *gin.Context) {
	var req instantPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "amount must be a decimal amount"))
		return
	}

	result, err := s.payoutSvc.RequestInstantPayout(c.Request.Context(), payoutdomain.InstantPayoutRequest{
		AccountID: strings.TrimSpace(req.AccountID),
		Amount:    amount,
		ActorID:   strings.TrimSpace(req.ActorID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"payout_id": result.PayoutID,
		"amount":    result.Amount.StringFixed(2),
		"fee":       result.Fee.StringFixed(2),
		"net":       result.Net.StringFixed(2),
		"currency":  result.Currency,
		"status":    result.Status,
	}})
}

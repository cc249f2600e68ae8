package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	auditdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/audit/domain"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	var query struct {
		Action     string `form:"action"`
		TargetType string `form:"target_type"`
		TargetID   string `form:"target_id"`
		ActorType  string `form:"actor_type"`
		CursorID   string `form:"cursor_id"`
		CursorAt   string `form:"cursor_at"`
		Limit      int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filter := auditdomain.ListFilter{
		Action:     strings.TrimSpace(query.Action),
		TargetType: strings.TrimSpace(query.TargetType),
		TargetID:   strings.TrimSpace(query.TargetID),
		ActorType:  strings.TrimSpace(query.ActorType),
		Limit:      query.Limit,
	}
	if query.CursorID != "" && query.CursorAt != "" {
		id, err := snowflake.ParseString(query.CursorID)
		if err != nil {
			AbortWithError(c, newValidationError("cursor_id", "invalid_cursor", "invalid cursor"))
			return
		}
		at, err := time.Parse(time.RFC3339, query.CursorAt)
		if err != nil {
			AbortWithError(c, newValidationError("cursor_at", "invalid_cursor", "invalid cursor"))
			return
		}
		filter.Cursor = &auditdomain.AuditCursor{ID: id, CreatedAt: at}
	}

	entries, err := s.auditSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		item := gin.H{
			"id":          entry.ID.String(),
			"actor_type":  entry.ActorType,
			"action":      entry.Action,
			"target_type": entry.TargetType,
			"metadata":    entry.Metadata,
			"created_at":  entry.CreatedAt.Format(time.RFC3339),
		}
		if entry.ActorID != nil {
			item["actor_id"] = *entry.ActorID
		}
		if entry.TargetID != nil {
			item["target_id"] = *entry.TargetID
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

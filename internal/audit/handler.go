package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salemmohdmohd/directory-for-charities/internal/logger"
)

type Handler struct {
	recorder Recorder
}

func NewHandler(recorder Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// RegisterRoutes mounts the audit query endpoint. Reading the log is
// admin-only; callers mount this on an admin-gated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit", h.list)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.recorder.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load audit log"})
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "entries": entries})
}

// RecordChange writes an audit entry for a mutation performed in the
// given request context, stamping client address and user agent.
// Callers set UserID themselves. Failures are logged and swallowed so
// the mutation's response is unaffected.
func RecordChange(c *gin.Context, recorder Recorder, e Entry) {
	if recorder == nil {
		return
	}
	e.IPAddress = c.ClientIP()
	e.UserAgent = c.Request.UserAgent()

	if err := recorder.Record(c.Request.Context(), &e); err != nil {
		logger.Error("audit record failed", map[string]any{
			"action": e.ActionType,
			"target": e.TargetType,
			"error":  err.Error(),
		})
	}
}

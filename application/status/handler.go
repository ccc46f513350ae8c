// Package status implements the run-status acknowledgement endpoint. This
// was dropped from the distilled ingestion surface but is cheap to restore:
// it's a stateless acknowledgement, with no corresponding column-store
// table, that lets a client confirm a run has registered itself before it
// starts streaming telemetry.
package status

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"mlop-ingest/internal/apperror"
)

// InitData is the payload accompanying an INIT status.
type InitData struct {
	RunID     string          `json:"run_id" binding:"required"`
	RunName   string          `json:"run_name" binding:"required"`
	ProjectID string          `json:"project_id" binding:"required"`
	Metadata  json.RawMessage `json:"metadata"`
}

// Request is the body of POST /status. Status is a closed enum of one
// value today; more will be added as the dashboard grows run lifecycle
// states worth acknowledging.
type Request struct {
	Status string   `json:"status" binding:"required"`
	Data   InitData `json:"data" binding:"required"`
}

type Response struct {
	Message string `json:"message"`
}

const statusInit = "INIT"

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/status", h.ReportStatus)
}

func (h *Handler) ReportStatus(c *gin.Context) {
	sendError := c.MustGet("sendError").(func(*apperror.Error))
	sendJSON := c.MustGet("sendJSON").(func(int, any))

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(apperror.New(apperror.InvalidInput, "invalid status request: "+err.Error()))
		return
	}

	if req.Status != statusInit {
		sendError(apperror.New(apperror.InvalidInput, "unsupported status: "+req.Status))
		return
	}

	sendJSON(http.StatusOK, Response{Message: "Run " + req.Data.RunID + " acknowledged"})
}

// Package step answers "what's the latest step recorded for this run",
// used by clients resuming an interrupted logging session.
package step

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guregu/null/v5"

	"mlop-ingest/internal/apperror"
	"mlop-ingest/internal/columnstore"
	"mlop-ingest/internal/config"
	"mlop-ingest/internal/ingest"
)

// Response reports the latest step for a run. Step is null when the run has
// no recorded metrics yet, distinguishing "no data" from a legitimate step
// of 0.
type Response struct {
	Step null.Int `json:"step"`
}

type Handler struct {
	store *columnstore.Store
}

func NewHandler(store *columnstore.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/step", h.LatestStep)
}

func (h *Handler) LatestStep(c *gin.Context) {
	sendError := c.MustGet("sendError").(func(*apperror.Error))
	sendJSON := c.MustGet("sendJSON").(func(int, any))

	tenantID := c.GetString("tenantId")
	enrichment, eerr := ingest.EnrichmentFromHeaders(tenantID, c.Request.Header)
	if eerr != nil {
		sendError(eerr)
		return
	}

	step, hasRows, err := h.store.MaxStep(c.Request.Context(), config.MetricsTable, enrichment.TenantID, enrichment.ProjectName, enrichment.RunID)
	if err != nil {
		sendError(apperror.New(apperror.QueryFailed, err.Error()))
		return
	}

	resp := Response{Step: null.NewInt(0, false)}
	if hasRows {
		resp.Step = null.IntFrom(int64(step))
	}

	sendJSON(http.StatusOK, resp)
}

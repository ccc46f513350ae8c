// Package ingest wires the generic NDJSON ingestion pipeline to gin routes
// for metrics, logs, and data.
package ingest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mlop-ingest/internal/apperror"
	"mlop-ingest/internal/ingest"
)

// Channels bundles the three row-type channels a background batcher drains
// from.
type Channels struct {
	Metrics chan<- ingest.MetricRow
	Logs    chan<- ingest.LogRow
	Data    chan<- ingest.DataRow
}

// RegisterRoutes mounts /ingest/metrics, /ingest/logs, and /ingest/data.
func RegisterRoutes(r gin.IRouter, ch Channels) {
	r.POST("/ingest/metrics", handle(ingest.MetricBuilder{}, ch.Metrics))
	r.POST("/ingest/logs", handle(ingest.LogBuilder{}, ch.Logs))
	r.POST("/ingest/data", handle(ingest.DataBuilder{}, ch.Data))
}

func handle[I any, R any](builder ingest.Builder[I, R], ch chan<- R) gin.HandlerFunc {
	return func(c *gin.Context) {
		sendError := c.MustGet("sendError").(func(*apperror.Error))
		sendText := c.MustGet("sendText").(func(int, string))

		tenantID := c.GetString("tenantId")
		enrichment, eerr := ingest.EnrichmentFromHeaders(tenantID, c.Request.Header)
		if eerr != nil {
			sendError(eerr)
			return
		}

		count, perr := ingest.Process[I, R](c.Request.Context(), c.Request.Body, builder, enrichment, func(row R) *apperror.Error {
			select {
			case ch <- row:
				return nil
			case <-c.Request.Context().Done():
				return apperror.New(apperror.StreamProcessingError, "request cancelled before record could be queued")
			}
		})
		if perr != nil {
			sendError(perr)
			return
		}

		sendText(http.StatusOK, fmt.Sprintf("Stream processed successfully: %d records", count))
	}
}

// Package ingest implements the line-oriented NDJSON decoder, the generic
// row builder contract, and the background batcher shared by all four
// telemetry streams (metrics, logs, data, files).
package ingest

import (
	"net/http"
	"strconv"
	"strings"

	"mlop-ingest/internal/apperror"
)

// Enrichment carries the per-request context derived from headers that gets
// attached to every row produced from a single ingest request. All four row
// types share the same shape, so unlike the original per-type structs this
// is a single type threaded through every Builder.
type Enrichment struct {
	TenantID    string
	RunID       uint64
	ProjectName string
}

// EnrichmentFromHeaders reads X-Run-Id and X-Project-Name off header. A
// missing or unparseable X-Run-Id silently yields RunID 0 rather than
// rejecting the request; X-Project-Name is required.
func EnrichmentFromHeaders(tenantID string, header http.Header) (Enrichment, *apperror.Error) {
	projectName := header.Get("X-Project-Name")
	if projectName == "" {
		return Enrichment{}, apperror.New(apperror.InvalidHeaderFormat, "missing required header: X-Project-Name")
	}

	var runID uint64
	if raw := header.Get("X-Run-Id"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			runID = v
		}
		// A malformed X-Run-Id is not rejected; it silently resolves to 0.
	}

	return Enrichment{TenantID: tenantID, RunID: runID, ProjectName: projectName}, nil
}

// LogGroup derives the group name from a log name: everything before the
// last '/', or "" if there is none.
func LogGroup(logName string) string {
	idx := strings.LastIndex(logName, "/")
	if idx < 0 {
		return ""
	}
	return logName[:idx]
}

// Builder parses one NDJSON line into an Input, validates it, and expands it
// into zero or more Rows against an Enrichment. Metrics fan out one Row per
// entry in their data map; every other stream produces exactly one Row.
type Builder[I any, R any] interface {
	Parse(line []byte) (I, *apperror.Error)
	Build(input I, enrichment Enrichment) ([]R, *apperror.Error)
}

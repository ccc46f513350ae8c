package ingest

import (
	"strings"

	"mlop-ingest/internal/apperror"
)

// LogInput is one NDJSON line on /ingest/logs.
type LogInput struct {
	Time       uint64 `json:"time"`
	Message    string `json:"message"`
	LineNumber uint64 `json:"lineNumber"`
	LogType    string `json:"logType"`
}

// LogRow is a LogInput enriched for the column store.
type LogRow struct {
	Time        uint64 `json:"time" ch:"time"`
	Message     string `json:"message" ch:"message"`
	LineNumber  uint64 `json:"lineNumber" ch:"lineNumber"`
	LogType     string `json:"logType" ch:"logType"`
	TenantID    string `json:"tenantId" ch:"tenantId"`
	RunID       uint64 `json:"runId" ch:"runId"`
	ProjectName string `json:"projectName" ch:"projectName"`
}

func (LogRow) TableName() string { return "mlop_logs" }

// LogBuilder implements Builder[LogInput, LogRow].
type LogBuilder struct{}

func (LogBuilder) Parse(line []byte) (LogInput, *apperror.Error) {
	input, err := decodeStrict[LogInput](line)
	if err != nil {
		return LogInput{}, apperror.New(apperror.StreamDecodingError, "malformed log record: "+err.Error())
	}
	return input, nil
}

func (LogBuilder) Build(input LogInput, enrichment Enrichment) ([]LogRow, *apperror.Error) {
	if strings.TrimSpace(input.LogType) == "" {
		return nil, apperror.New(apperror.MissingRequiredField, "logType must not be blank")
	}
	// Message is intentionally not required to be non-empty: a log line
	// that is blank on purpose (a spacer line in captured stdout) is still
	// a valid record.

	return []LogRow{{
		Time:        input.Time,
		Message:     input.Message,
		LineNumber:  input.LineNumber,
		LogType:     input.LogType,
		TenantID:    enrichment.TenantID,
		RunID:       enrichment.RunID,
		ProjectName: enrichment.ProjectName,
	}}, nil
}

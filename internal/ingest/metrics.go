package ingest

import (
	"math"
	"strings"

	"mlop-ingest/internal/apperror"
)

// MetricInput is one NDJSON line on /ingest/metrics: a timestamp, a step,
// and a map of metric name to value. Unlike logs/data/files, a single
// MetricInput fans out into one MetricRow per entry in Data.
type MetricInput struct {
	Time uint64             `json:"time"`
	Step uint64             `json:"step"`
	Data map[string]float64 `json:"data"`
}

// MetricRow is one (name, value) pair from a MetricInput, flattened and
// enriched for the column store.
type MetricRow struct {
	Time        uint64  `json:"time" ch:"time"`
	Step        uint64  `json:"step" ch:"step"`
	LogGroup    string  `json:"logGroup" ch:"logGroup"`
	LogName     string  `json:"logName" ch:"logName"`
	Value       float64 `json:"value" ch:"value"`
	TenantID    string  `json:"tenantId" ch:"tenantId"`
	RunID       uint64  `json:"runId" ch:"runId"`
	ProjectName string  `json:"projectName" ch:"projectName"`
}

func (MetricRow) TableName() string { return "mlop_metrics" }

// MetricBuilder implements Builder[MetricInput, MetricRow].
type MetricBuilder struct{}

func (MetricBuilder) Parse(line []byte) (MetricInput, *apperror.Error) {
	input, err := decodeStrict[MetricInput](line)
	if err != nil {
		return MetricInput{}, apperror.New(apperror.StreamDecodingError, "malformed metric record: "+err.Error())
	}
	return input, nil
}

func (MetricBuilder) Build(input MetricInput, enrichment Enrichment) ([]MetricRow, *apperror.Error) {
	if len(input.Data) == 0 {
		return nil, apperror.New(apperror.InvalidInput, "metric record must contain at least one data entry")
	}

	rows := make([]MetricRow, 0, len(input.Data))
	for name, value := range input.Data {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, apperror.New(apperror.MissingRequiredField, "metric name must not be blank")
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, apperror.New(apperror.InvalidMetricValue, "metric value must be finite: "+trimmed)
		}

		rows = append(rows, MetricRow{
			Time:        input.Time,
			Step:        input.Step,
			LogGroup:    LogGroup(trimmed),
			LogName:     trimmed,
			Value:       value,
			TenantID:    enrichment.TenantID,
			RunID:       enrichment.RunID,
			ProjectName: enrichment.ProjectName,
		})
	}
	return rows, nil
}

package ingest

import (
	"strings"

	"mlop-ingest/internal/apperror"
)

// DataInput is one NDJSON line on /ingest/data: an arbitrary blob of
// string-encoded data tagged with a type and a log name.
type DataInput struct {
	Time     uint64 `json:"time"`
	Data     string `json:"data"`
	Step     uint64 `json:"step"`
	DataType string `json:"dataType"`
	LogName  string `json:"logName"`
}

// DataRow is a DataInput enriched for the column store.
type DataRow struct {
	Time        uint64 `json:"time" ch:"time"`
	Data        string `json:"data" ch:"data"`
	Step        uint64 `json:"step" ch:"step"`
	DataType    string `json:"dataType" ch:"dataType"`
	LogGroup    string `json:"logGroup" ch:"logGroup"`
	LogName     string `json:"logName" ch:"logName"`
	TenantID    string `json:"tenantId" ch:"tenantId"`
	RunID       uint64 `json:"runId" ch:"runId"`
	ProjectName string `json:"projectName" ch:"projectName"`
}

func (DataRow) TableName() string { return "mlop_data" }

// DataBuilder implements Builder[DataInput, DataRow].
type DataBuilder struct{}

func (DataBuilder) Parse(line []byte) (DataInput, *apperror.Error) {
	input, err := decodeStrict[DataInput](line)
	if err != nil {
		return DataInput{}, apperror.New(apperror.StreamDecodingError, "malformed data record: "+err.Error())
	}
	return input, nil
}

func (DataBuilder) Build(input DataInput, enrichment Enrichment) ([]DataRow, *apperror.Error) {
	if strings.TrimSpace(input.DataType) == "" {
		return nil, apperror.New(apperror.MissingRequiredField, "dataType must not be blank")
	}
	if strings.TrimSpace(input.LogName) == "" {
		return nil, apperror.New(apperror.MissingRequiredField, "logName must not be blank")
	}

	return []DataRow{{
		Time:        input.Time,
		Data:        input.Data,
		Step:        input.Step,
		DataType:    input.DataType,
		LogGroup:    LogGroup(input.LogName),
		LogName:     input.LogName,
		TenantID:    enrichment.TenantID,
		RunID:       enrichment.RunID,
		ProjectName: enrichment.ProjectName,
	}}, nil
}

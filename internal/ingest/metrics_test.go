package ingest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlop-ingest/internal/apperror"
)

func TestMetricBuilderFansOutOneRowPerEntry(t *testing.T) {
	b := MetricBuilder{}
	input, perr := b.Parse([]byte(`{"time":10,"step":1,"data":{"loss":0.5,"train/acc":0.9}}`))
	require.Nil(t, perr)

	rows, berr := b.Build(input, Enrichment{TenantID: "t1", RunID: 7, ProjectName: "p"})
	require.Nil(t, berr)
	require.Len(t, rows, 2)

	byName := map[string]MetricRow{}
	for _, r := range rows {
		byName[r.LogName] = r
	}

	assert.Equal(t, "", byName["loss"].LogGroup)
	assert.Equal(t, "train", byName["train/acc"].LogGroup)
	assert.Equal(t, "t1", byName["loss"].TenantID)
	assert.Equal(t, uint64(7), byName["loss"].RunID)
}

func TestMetricBuilderRejectsEmptyData(t *testing.T) {
	b := MetricBuilder{}
	input, perr := b.Parse([]byte(`{"time":10,"step":1,"data":{}}`))
	require.Nil(t, perr)

	_, berr := b.Build(input, Enrichment{})
	require.NotNil(t, berr)
}

func TestMetricBuilderRejectsNonFiniteValue(t *testing.T) {
	b := MetricBuilder{}
	input := MetricInput{Time: 1, Step: 1, Data: map[string]float64{"loss": math.Inf(1)}}

	_, berr := b.Build(input, Enrichment{})
	require.NotNil(t, berr)
	assert.Equal(t, apperror.InvalidMetricValue, berr.Code)
	assert.Equal(t, "INVALID_METRIC_FORMAT", string(berr.Code))
}

func TestMetricBuilderRejectsUnknownField(t *testing.T) {
	b := MetricBuilder{}
	_, perr := b.Parse([]byte(`{"time":10,"step":1,"data":{"loss":1},"extra":true}`))
	require.NotNil(t, perr)
}

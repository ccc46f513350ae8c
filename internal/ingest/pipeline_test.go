package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlop-ingest/internal/apperror"
)

func TestProcessCountsFannedOutRows(t *testing.T) {
	body := `{"time":1,"step":1,"data":{"a":1,"b":2}}` + "\n" + `{"time":2,"step":2,"data":{"c":3}}` + "\n"

	var collected []MetricRow
	count, perr := Process[MetricInput, MetricRow](
		context.Background(), strings.NewReader(body), MetricBuilder{},
		Enrichment{TenantID: "t", RunID: 1, ProjectName: "p"},
		func(row MetricRow) *apperror.Error {
			collected = append(collected, row)
			return nil
		},
	)

	require.Nil(t, perr)
	assert.Equal(t, 3, count)
	assert.Len(t, collected, 3)
}

func TestProcessStopsOnFirstDecodeError(t *testing.T) {
	body := `{"time":1,"step":1,"data":{"a":1}}` + "\n" + `not json` + "\n"

	count, perr := Process[MetricInput, MetricRow](
		context.Background(), strings.NewReader(body), MetricBuilder{},
		Enrichment{},
		func(row MetricRow) *apperror.Error { return nil },
	)

	require.NotNil(t, perr)
	assert.Equal(t, apperror.StreamDecodingError, perr.Code)
	assert.Equal(t, 1, count)
}

func TestProcessPropagatesSendError(t *testing.T) {
	body := `{"time":1,"step":1,"data":{"a":1}}` + "\n"
	sendErr := apperror.New(apperror.ResourceExhausted, "buffer full")

	count, perr := Process[MetricInput, MetricRow](
		context.Background(), strings.NewReader(body), MetricBuilder{},
		Enrichment{},
		func(row MetricRow) *apperror.Error { return sendErr },
	)

	require.NotNil(t, perr)
	assert.Equal(t, sendErr, perr)
	assert.Equal(t, 0, count)
}

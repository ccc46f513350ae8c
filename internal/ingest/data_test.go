package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlop-ingest/internal/apperror"
)

func TestDataBuilderRequiresDataTypeAndLogName(t *testing.T) {
	b := DataBuilder{}

	input, perr := b.Parse([]byte(`{"time":1,"data":"x","step":1,"dataType":"","logName":"train/images"}`))
	require.Nil(t, perr)
	_, berr := b.Build(input, Enrichment{})
	require.NotNil(t, berr)
	assert.Equal(t, apperror.MissingRequiredField, berr.Code)

	input, perr = b.Parse([]byte(`{"time":1,"data":"x","step":1,"dataType":"table","logName":""}`))
	require.Nil(t, perr)
	_, berr = b.Build(input, Enrichment{})
	require.NotNil(t, berr)
}

func TestDataBuilderDerivesLogGroup(t *testing.T) {
	b := DataBuilder{}
	input, perr := b.Parse([]byte(`{"time":1,"data":"x","step":1,"dataType":"table","logName":"a/b/c"}`))
	require.Nil(t, perr)

	rows, berr := b.Build(input, Enrichment{})
	require.Nil(t, berr)
	require.Len(t, rows, 1)
	assert.Equal(t, "a/b", rows[0].LogGroup)
}

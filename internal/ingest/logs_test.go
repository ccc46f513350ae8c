package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlop-ingest/internal/apperror"
)

func TestLogBuilderRequiresLogType(t *testing.T) {
	b := LogBuilder{}
	input, perr := b.Parse([]byte(`{"time":1,"message":"hi","lineNumber":1,"logType":""}`))
	require.Nil(t, perr)

	_, berr := b.Build(input, Enrichment{})
	require.NotNil(t, berr)
	assert.Equal(t, apperror.MissingRequiredField, berr.Code)
}

func TestLogBuilderAllowsBlankMessage(t *testing.T) {
	b := LogBuilder{}
	input, perr := b.Parse([]byte(`{"time":1,"message":"","lineNumber":1,"logType":"stdout"}`))
	require.Nil(t, perr)

	rows, berr := b.Build(input, Enrichment{TenantID: "t"})
	require.Nil(t, berr)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Message)
}

func TestLogBuilderRejectsUnknownField(t *testing.T) {
	b := LogBuilder{}
	_, perr := b.Parse([]byte(`{"time":1,"message":"hi","lineNumber":1,"logType":"stdout","bogus":1}`))
	require.NotNil(t, perr)
	assert.Equal(t, apperror.StreamDecodingError, perr.Code)
}

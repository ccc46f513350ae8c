package ingest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlop-ingest/internal/apperror"
)

func TestLogGroup(t *testing.T) {
	assert.Equal(t, "a/b", LogGroup("a/b/c"))
	assert.Equal(t, "", LogGroup(""))
	assert.Equal(t, "", LogGroup("test-metric"))
}

func TestEnrichmentFromHeadersRequiresProjectName(t *testing.T) {
	h := http.Header{}
	_, perr := EnrichmentFromHeaders("tenant-1", h)
	require.NotNil(t, perr)
	assert.Equal(t, apperror.InvalidHeaderFormat, perr.Code)
}

func TestEnrichmentFromHeadersDefaultsRunIDToZeroOnMalformedValue(t *testing.T) {
	h := http.Header{}
	h.Set("X-Project-Name", "proj")
	h.Set("X-Run-Id", "not-a-number")

	e, perr := EnrichmentFromHeaders("tenant-1", h)
	require.Nil(t, perr)
	assert.Equal(t, uint64(0), e.RunID)
	assert.Equal(t, "proj", e.ProjectName)
}

func TestEnrichmentFromHeadersParsesRunID(t *testing.T) {
	h := http.Header{}
	h.Set("X-Project-Name", "proj")
	h.Set("X-Run-Id", "42")

	e, perr := EnrichmentFromHeaders("tenant-1", h)
	require.Nil(t, perr)
	assert.Equal(t, uint64(42), e.RunID)
}

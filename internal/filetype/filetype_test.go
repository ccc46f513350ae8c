package filetype

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripKnownExtensions(t *testing.T) {
	for key := range mimeByKey {
		t.Run(key, func(t *testing.T) {
			in, err := json.Marshal(key)
			require.NoError(t, err)

			var parsed Type
			require.NoError(t, json.Unmarshal(in, &parsed))
			assert.False(t, parsed.IsCustom())
			assert.Equal(t, key, parsed.Extension())

			out, err := json.Marshal(parsed)
			require.NoError(t, err)
			assert.JSONEq(t, string(in), string(out))
		})
	}
}

func TestUnknownStringFallsBackToCustom(t *testing.T) {
	var parsed Type
	require.NoError(t, json.Unmarshal([]byte(`"application/x-weird"`), &parsed))
	assert.True(t, parsed.IsCustom())
	assert.Equal(t, "application/x-weird", parsed.MIME())
	assert.Equal(t, "", parsed.Extension())
}

func TestCustomObjectForm(t *testing.T) {
	var parsed Type
	require.NoError(t, json.Unmarshal([]byte(`{"custom":"application/x-checkpoint"}`), &parsed))
	assert.True(t, parsed.IsCustom())

	out, err := json.Marshal(parsed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"custom":"application/x-checkpoint"}`, string(out))
}

func TestAliasResolvesToCanonicalKey(t *testing.T) {
	var parsed Type
	require.NoError(t, json.Unmarshal([]byte(`"yml"`), &parsed))
	assert.False(t, parsed.IsCustom())
	assert.Equal(t, "yaml", parsed.Extension())
}

func TestCaseInsensitiveLookup(t *testing.T) {
	var parsed Type
	require.NoError(t, json.Unmarshal([]byte(`"PNG"`), &parsed))
	assert.False(t, parsed.IsCustom())
	assert.Equal(t, "png", parsed.Extension())
}

func TestMIMEMatchesOriginalNonObviousCases(t *testing.T) {
	assert.Equal(t, "audio/x-wav", Parse("wav").MIME())
	assert.Equal(t, "application/x-hdf5", Parse("h5").MIME())
}

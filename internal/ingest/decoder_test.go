package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLinesTrimsAndSkipsBlank(t *testing.T) {
	input := "  {\"a\":1}  \n\n\t{\"a\":2}\t\r\n"
	var got []string
	err := DecodeLines(strings.NewReader(input), func(line []byte) error {
		got = append(got, string(line))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`}, got)
}

func TestDecodeLinesDeliversTrailingUnterminatedLine(t *testing.T) {
	input := `{"a":1}` + "\n" + `{"a":2}`
	var got []string
	err := DecodeLines(strings.NewReader(input), func(line []byte) error {
		got = append(got, string(line))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`}, got)
}

func TestDecodeLinesPropagatesHandlerError(t *testing.T) {
	sentinel := assert.AnError
	err := DecodeLines(strings.NewReader("{}\n{}\n"), func(line []byte) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestDecodeLinesEmptyInput(t *testing.T) {
	var calls int
	err := DecodeLines(strings.NewReader(""), func(line []byte) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls)
}

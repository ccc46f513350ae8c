package ingest

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// decodeStrict unmarshals line into a T, rejecting any field line carries
// that T doesn't declare.
func decodeStrict[T any](line []byte) (T, error) {
	var v T
	dec := jsonAPI.NewDecoder(bytes.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// Package filetype models the closed set of file types the gateway knows a
// MIME type and extension for, plus an open Custom escape hatch for anything
// else a client uploads.
package filetype

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is either one of the known kinds below or a Custom MIME string. The
// zero value is not valid; always construct through Parse or unmarshal.
type Type struct {
	known  string
	custom string
}

var mimeByKey = map[string]string{
	"jpeg":       "image/jpeg",
	"jpg":        "image/jpeg",
	"png":        "image/png",
	"gif":        "image/gif",
	"svg":        "image/svg+xml",
	"webp":       "image/webp",
	"mp4":        "video/mp4",
	"webm":       "video/webm",
	"avi":        "video/x-msvideo",
	"mov":        "video/quicktime",
	"mp3":        "audio/mpeg",
	"wav":        "audio/x-wav",
	"ogg":        "audio/ogg",
	"pdf":        "application/pdf",
	"doc":        "application/msword",
	"docx":       "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":        "application/vnd.ms-excel",
	"xlsx":       "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"txt":        "text/plain",
	"json":       "application/json",
	"csv":        "text/csv",
	"xml":        "application/xml",
	"yaml":       "application/x-yaml",
	"onnx":       "application/octet-stream",
	"pkl":        "application/octet-stream",
	"h5":         "application/x-hdf5",
	"tflite":     "application/octet-stream",
	"savedmodel": "application/octet-stream",
	"pt":         "application/octet-stream",
	"ckpt":       "application/octet-stream",
}

// aliases map a casing/spelling variant to its canonical key. Lookups are
// case-insensitive against both this table and mimeByKey.
var aliases = map[string]string{
	"yml": "yaml",
}

func canonicalKey(s string) (string, bool) {
	lower := strings.ToLower(s)
	if alias, ok := aliases[lower]; ok {
		lower = alias
	}
	if _, ok := mimeByKey[lower]; ok {
		return lower, true
	}
	return "", false
}

// Parse resolves a bare extension string (case-insensitive) to a known Type,
// falling back to Custom(s) verbatim when nothing matches.
func Parse(s string) Type {
	if key, ok := canonicalKey(s); ok {
		return Type{known: key}
	}
	return Custom(s)
}

// Custom builds a Type carrying an arbitrary, non-cataloged MIME string.
func Custom(mime string) Type {
	return Type{custom: mime}
}

// IsCustom reports whether t falls outside the known catalog.
func (t Type) IsCustom() bool {
	return t.known == ""
}

// MIME returns the content type to send on the presigned PUT request.
func (t Type) MIME() string {
	if t.known != "" {
		return mimeByKey[t.known]
	}
	return t.custom
}

// Extension returns the catalog key for a known type, or "" for Custom.
// This mirrors the original behavior of storing the resolved extension (not
// the MIME type) on the persisted file row.
func (t Type) Extension() string {
	return t.known
}

func (t Type) String() string {
	if t.known != "" {
		return t.known
	}
	return fmt.Sprintf("custom(%s)", t.custom)
}

type customEnvelope struct {
	Custom string `json:"custom"`
}

// UnmarshalJSON accepts either a bare string (looked up in the catalog,
// falling back to Custom) or {"custom": "<mime>"}.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Parse(s)
		return nil
	}
	var env customEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("filetype: value is neither a string nor {\"custom\":...}: %w", err)
	}
	*t = Custom(env.Custom)
	return nil
}

// MarshalJSON renders a known type as its bare key string and a Custom type
// as {"custom": "<mime>"}.
func (t Type) MarshalJSON() ([]byte, error) {
	if t.known != "" {
		return json.Marshal(t.known)
	}
	return json.Marshal(customEnvelope{Custom: t.custom})
}

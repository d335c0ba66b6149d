package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodySize bounds request bodies; the API only carries small documents.
const maxBodySize = 1 << 20 // 1MB

// BodyParser reads a JSON request body once and exposes string-typed field
// access, tolerating numeric values the way the original clients send them.
type BodyParser struct {
	raw    []byte
	fields map[string]any
}

// ParseBody consumes the request body. Malformed or empty JSON yields an
// empty parser, not an error, so handlers can answer with their own
// "missing field" replies.
func ParseBody(r *http.Request) (*BodyParser, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}

	p := &BodyParser{raw: raw, fields: make(map[string]any)}
	if len(raw) > 0 {
		// Invalid JSON degrades to an empty field set.
		_ = json.Unmarshal(raw, &p.fields)
	}
	return p, nil
}

// Get returns the field as a trimmed string; numbers are rendered without
// an exponent, anything else yields "".
func (p *BodyParser) Get(key string) string {
	return strings.TrimSpace(stringValue(p.fields[key]))
}

// Fields returns the decoded field map.
func (p *BodyParser) Fields() map[string]any {
	return p.fields
}

// Raw returns the original body bytes for typed re-decoding.
func (p *BodyParser) Raw() []byte {
	return p.raw
}

// IsEmpty reports whether the body decoded to no fields at all.
func (p *BodyParser) IsEmpty() bool {
	return len(p.fields) == 0
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return ""
	}
}

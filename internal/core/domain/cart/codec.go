package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeMeta serializes line metadata for the metadata hash. A nil input
// yields a nil output. HTML characters are left unescaped so compact SKU
// attributes come back byte for byte.
func EncodeMeta(m *Meta) (*string, error) {
	if m == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode line metadata: %w", err)
	}
	s := string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return &s, nil
}

// DecodeMeta is the inverse of EncodeMeta. Payloads that do not decode are
// reported as ErrMalformedMeta.
func DecodeMeta(raw *string) (*Meta, error) {
	if raw == nil {
		return nil, nil
	}
	var m Meta
	if err := json.Unmarshal([]byte(*raw), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMeta, err)
	}
	if m.SKU.ID == "" {
		return nil, fmt.Errorf("%w: missing sku id", ErrMalformedMeta)
	}
	return &m, nil
}

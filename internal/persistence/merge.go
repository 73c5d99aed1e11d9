package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Patch holds the raw fields of a partial update request keyed by JSON name.
type Patch map[string]json.RawMessage

// Merge copies every field present in patch onto record and leaves the rest
// untouched. The id field cannot be changed through a patch. Keys that do
// not correspond to a field of T are ignored.
func Merge[T any](record T, patch Patch) (T, error) {
	if len(patch) == 0 {
		return record, nil
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return record, fmt.Errorf("persistence: encode record: %w", err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return record, fmt.Errorf("persistence: decode record: %w", err)
	}

	for key, value := range patch {
		if key == "id" {
			continue
		}
		fields[key] = value
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return record, fmt.Errorf("persistence: encode merged record: %w", err)
	}

	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return record, fmt.Errorf("persistence: apply patch: %w", err)
	}
	return out, nil
}

// Has reports whether the patch carries the given field.
func (p Patch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// String decodes a string field from the patch. A JSON null counts as absent.
func (p Patch) String(field string) (string, bool) {
	raw, ok := p[field]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

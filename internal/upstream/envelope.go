package upstream

import (
	"bytes"
	"encoding/json"
)

// The upstream API wraps list payloads in several envelope shapes depending on
// which backend revision served the request: a bare array, {"items": [...]},
// {"data": [...]}, {"data": {"items": [...]}}, {"data": {"<collection>":
// [...]}}, {"<collection>": [...]}, or any of these with extra fields such as
// {"success": true, ...}. decodeCollection tries each known shape in order and
// leaves the destination untouched (an empty slice) when none match. A shape mismatch is
// indistinguishable from an empty result on purpose; it must never fail.
func decodeCollection(data []byte, collection string, out any) {
	for _, candidate := range candidateArrays(data, collection) {
		if err := json.Unmarshal(candidate, out); err == nil {
			return
		}
	}
}

func candidateArrays(data []byte, collection string) []json.RawMessage {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		return []json.RawMessage{trimmed}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil
	}

	var candidates []json.RawMessage

	appendArray := func(raw json.RawMessage) {
		value := bytes.TrimSpace(raw)
		if len(value) > 0 && value[0] == '[' {
			candidates = append(candidates, value)
		}
	}

	probe := func(fields map[string]json.RawMessage) {
		for _, key := range []string{"items", collection, "results"} {
			if raw, ok := fields[key]; ok {
				appendArray(raw)
			}
		}
	}

	probe(envelope)

	if raw, ok := envelope["data"]; ok {
		value := bytes.TrimSpace(raw)
		switch {
		case len(value) > 0 && value[0] == '[':
			appendArray(value)
		case len(value) > 0 && value[0] == '{':
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(value, &nested); err == nil {
				probe(nested)
			}
		}
	}

	return candidates
}

// decodeRecord extracts a single object payload, tolerating the same data
// wrapper used for lists. Unlike lists, a mismatch here is reported: callers
// need the created or updated record back.
func decodeRecord(data []byte, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		if raw, ok := envelope["data"]; ok {
			value := bytes.TrimSpace(raw)
			if len(value) > 0 && value[0] == '{' {
				return json.Unmarshal(value, out)
			}
		}
	}

	return json.Unmarshal(trimmed, out)
}

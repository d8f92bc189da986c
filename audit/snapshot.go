package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Fields stripped from every snapshot regardless of entity kind. A snapshot
// must never leak credentials, even when a principal-like record ends up
// embedded in an audit map.
var sensitiveFields = []string{"password", "last_login"}

// Snapshot serializes an entity into its sanitized, JSON-safe audit form.
// The output is deterministic (keys sorted by the JSON encoder), so
// serializing an unchanged entity twice yields byte-identical JSON.
// Snapshot never fails: values the encoder cannot handle are coerced to
// their string form.
func Snapshot(e Auditable) json.RawMessage {
	if e == nil {
		return nil
	}
	return SanitizeMap(e.AuditMap())
}

// SanitizeMap strips sensitive fields from a raw field mapping and encodes
// it as JSON.
func SanitizeMap(data map[string]any) json.RawMessage {
	if data == nil {
		return nil
	}

	cleaned := make(map[string]any, len(data))
	for key, value := range data {
		cleaned[key] = jsonSafe(value)
	}
	for _, key := range sensitiveFields {
		delete(cleaned, key)
	}

	encoded, err := json.Marshal(cleaned)
	if err != nil {
		// Unreachable after coercion, but a snapshot failure must never
		// surface to the mutation path.
		return nil
	}
	return encoded
}

// jsonSafe coerces a value into something the JSON encoder always accepts.
// Times become RFC 3339 UTC strings; anything the encoder rejects becomes
// its fmt string form. Type fidelity is traded for guaranteed validity.
func jsonSafe(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.UTC().Format(time.RFC3339)
	case map[string]any:
		cleaned := make(map[string]any, len(v))
		for key, item := range v {
			cleaned[key] = jsonSafe(item)
		}
		return cleaned
	case []any:
		cleaned := make([]any, len(v))
		for i, item := range v {
			cleaned[i] = jsonSafe(item)
		}
		return cleaned
	default:
		if _, err := json.Marshal(v); err != nil {
			return fmt.Sprint(v)
		}
		return v
	}
}

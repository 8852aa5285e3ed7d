package integration

import "strings"

// MetadataKeyPrefix marks transport metadata keys the remote platform attaches
// to fetched documents (e.g. "odata.metadata", "odata.etag"). Submitting a
// document that still carries them is rejected by the update endpoint, so they
// are stripped at every nesting depth before serialization.
const MetadataKeyPrefix = "odata."

// StripMetadata removes every object key carrying the reserved metadata
// prefix, at every nesting depth, from objects and arrays alike. The input is
// not mutated; the transform is pure, structural, and idempotent.
func StripMetadata(doc RemoteDocument) RemoteDocument {
	cleaned, _ := stripValue(map[string]any(doc)).(map[string]any)
	return RemoteDocument(cleaned)
}

// stripValue walks a decoded JSON value (object / array / scalar) and rebuilds
// it without metadata keys
func stripValue(v any) any {
	switch node := v.(type) {
	case map[string]any:
		cleaned := make(map[string]any, len(node))
		for key, value := range node {
			if strings.HasPrefix(key, MetadataKeyPrefix) {
				continue
			}
			cleaned[key] = stripValue(value)
		}
		return cleaned
	case RemoteDocument:
		return stripValue(map[string]any(node))
	case []any:
		cleaned := make([]any, len(node))
		for i, item := range node {
			cleaned[i] = stripValue(item)
		}
		return cleaned
	default:
		return v
	}
}

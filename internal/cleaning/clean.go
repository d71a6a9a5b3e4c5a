// Package cleaning strips empty values from decoded JSON documents before they are hashed and stored.
package cleaning

// IsEmpty reports whether v is null, an empty string, an empty array or an empty object.
// Zero numbers and false are not empty.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// Clean returns a copy of v with every empty object member and array element removed.
// A child is dropped when it is empty as given or becomes empty once cleaned,
// so {"a": {"b": ""}} cleans to {}. Array order is preserved and the input is not modified.
func Clean(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			if cleaned, ok := cleanChild(child); ok {
				out[k] = cleaned
			}
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, child := range t {
			if cleaned, ok := cleanChild(child); ok {
				out = append(out, cleaned)
			}
		}
		return out
	default:
		return v
	}
}

func cleanChild(child any) (any, bool) {
	if IsEmpty(child) {
		return nil, false
	}
	cleaned := Clean(child)
	if IsEmpty(cleaned) {
		return nil, false
	}
	return cleaned, true
}

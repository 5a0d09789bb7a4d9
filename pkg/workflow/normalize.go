package workflow

import "strings"

// Parameter normalization applied on export. Imported nodes skip the
// pass entirely so their original shape survives a round trip.

func normalizeParameters(params map[string]any) map[string]any {
	if params == nil {
		return map[string]any{}
	}

	normalized := normalizeValue(params)

	return normalized.(map[string]any)
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v)+1)

		for key, item := range v {
			out[key] = normalizeValue(item)
		}

		if isResourceLocator(out) {
			out["__rl"] = true
		}

		return out
	case []any:
		out := make([]any, len(v))

		for i, item := range v {
			out[i] = normalizeValue(item)
		}

		return out
	case string:
		return escapeExpressionNewlines(v)
	default:
		return value
	}
}

// isResourceLocator recognizes a bare {mode, value} object that needs
// the resource-locator marker the execution engine expects.
func isResourceLocator(m map[string]any) bool {
	if _, marked := m["__rl"]; marked {
		return false
	}

	_, hasMode := m["mode"]
	_, hasValue := m["value"]

	return hasMode && hasValue
}

// escapeExpressionNewlines rewrites raw newlines inside {{ }} expression
// delimiters of an "="-prefixed expression string to their escaped form.
// Text outside the delimiters is left untouched.
func escapeExpressionNewlines(s string) string {
	if !strings.HasPrefix(s, "=") || !strings.Contains(s, "{{") {
		return s
	}

	var out strings.Builder

	out.Grow(len(s))

	depth := 0

	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "{{"):
			depth++

			out.WriteString("{{")

			i++
		case depth > 0 && strings.HasPrefix(s[i:], "}}"):
			depth--

			out.WriteString("}}")

			i++
		case depth > 0 && s[i] == '\n':
			out.WriteString(`\n`)
		default:
			out.WriteByte(s[i])
		}
	}

	return out.String()
}

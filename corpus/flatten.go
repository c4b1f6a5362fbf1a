package corpus

import "fmt"

// Flatten turns arbitrarily nested groupings of patterns into a single
// ordered list. Only sequences are accepted: for nil, scalar or mapping value
// it reports false meaning "no sources". Non string items inside sequences
// are formatted as strings.
func Flatten(v any) ([]string, bool) {
	switch v.(type) {
	case []any, []string:
	default:
		return nil, false
	}
	out := []string{}
	flatten(v, &out)
	return out, true
}

func flatten(v any, out *[]string) {
	switch t := v.(type) {
	case nil:
	case string:
		*out = append(*out, t)
	case []string:
		*out = append(*out, t...)
	case []any:
		for _, item := range t {
			flatten(item, out)
		}
	default:
		*out = append(*out, fmt.Sprint(t))
	}
}

package events

import "fortio.org/safecast"

// ArgInt reads a numeric args-bag value as an int. JSON decoding hands
// numbers over as float64, so the conversion is checked: a fractional or
// out-of-range value reports absence rather than a truncated result.
func ArgInt(args map[string]any, key string) (int, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		i, err := safecast.Convert[int](n)
		if err != nil {
			return 0, false
		}
		return i, true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// ArgString reads a string args-bag value, reporting absence for missing
// keys and non-string values.
func ArgString(args map[string]any, key string) (string, bool) {
	s, ok := args[key].(string)
	return s, ok
}

package vdom

import (
	"fmt"
	"strconv"
	"strings"
)

// Reserved prop names that are never applied as attributes.
const (
	PropKey      = "key"
	PropChildren = "children"
)

// IsEventKey returns true if the prop key is an event handler: "on" followed
// by at least one character, compared case-insensitively so onclick, onClick
// and ONCLICK are all treated as events.
func IsEventKey(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// EventName returns the lower-case event name for an event prop key
// ("onClick" → "click").
func EventName(key string) string {
	if !IsEventKey(key) {
		return ""
	}
	return strings.ToLower(key[2:])
}

// PropString converts a prop value to the string written to the live node.
func PropString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// StyleMap returns v as a style map if it is one. Both map[string]string and
// map[string]any are accepted; the latter is what decoded fixtures produce.
func StyleMap(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			if val == nil {
				continue
			}
			out[k] = PropString(val)
		}
		return out, true
	}
	return nil, false
}

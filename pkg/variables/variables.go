// Package variables holds the configuration mapping a pattern collects
// before rendering its definition template. Values are scalars (string,
// int, bool) or nil, where nil marks a feature as disabled so the
// corresponding template section is omitted.
package variables

import "strconv"

// Map is the variable mapping consumed by the template renderer. It lives
// for a single invocation: created empty or pre-seeded, filled by prompts
// and defaults, rendered once, then discarded.
type Map map[string]any

// Has reports whether key is present, regardless of its value.
func (m Map) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// SetDefault stores value under key only when the key is absent. It reports
// whether the value was stored.
func (m Map) SetDefault(key string, value any) bool {
	if _, ok := m[key]; ok {
		return false
	}
	m[key] = value
	return true
}

// String returns the value under key as a string, or "" when the key is
// absent, nil, or not a string.
func (m Map) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Bool returns the value under key as a bool, or false when absent or of
// another type.
func (m Map) Bool(key string) bool {
	b, _ := m[key].(bool)
	return b
}

// Int returns the value under key coerced to int. Strings holding decimal
// digits are parsed; anything else yields 0.
func (m Map) Int(key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Clone returns a shallow copy. A nil receiver yields an empty map so
// callers can mutate the result unconditionally.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Apply fills vars with every entry of defaults that is not already
// present. Present keys are never overwritten, so applying defaults after
// an interactive gather is safe. The (possibly nil) vars map is returned
// filled for convenience.
func Apply(vars Map, defaults Map) Map {
	if vars == nil {
		vars = make(Map, len(defaults))
	}
	for key, value := range defaults {
		vars.SetDefault(key, value)
	}
	return vars
}

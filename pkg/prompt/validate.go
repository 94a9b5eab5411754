package prompt

import (
	"fmt"
	"regexp"
	"strconv"
)

// IntValue parses the raw answer as a decimal integer.
func IntValue() func(string) (any, error) {
	return func(raw string) (any, error) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid integer", raw)
		}
		return n, nil
	}
}

// CheckValue constrains an answer to a maximum length and a regular
// expression. The pattern is compiled once; a malformed pattern panics,
// which is a defect in the calling pattern definition, not a runtime
// condition.
func CheckValue(maxLength int, pattern string) func(string) (any, error) {
	re := regexp.MustCompile(pattern)
	return func(raw string) (any, error) {
		if len(raw) > maxLength {
			return nil, fmt.Errorf("value is longer than %d characters", maxLength)
		}
		if !re.MatchString(raw) {
			return nil, fmt.Errorf("value does not match %q", pattern)
		}
		return raw, nil
	}
}

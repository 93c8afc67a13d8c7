package memdriver

import (
	"strings"
)

// Match reports whether a field value matches a vendor filter expression.
// The vendor pattern language is tiny: '*' matches any run of characters,
// '?' matches exactly one. Matching is case-insensitive, like the vendor's.
func Match(expression, value string) bool {
	return match(strings.ToLower(expression), strings.ToLower(value))
}

func match(pattern, value string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			pattern = strings.TrimLeft(pattern, "*")
			if pattern == "" {
				return true
			}
			for i := 0; i <= len(value); i++ {
				if match(pattern, value[i:]) {
					return true
				}
			}
			return false
		case '?':
			if value == "" {
				return false
			}
			pattern, value = pattern[1:], value[1:]
		default:
			if value == "" || pattern[0] != value[0] {
				return false
			}
			pattern, value = pattern[1:], value[1:]
		}
	}

	return value == ""
}

package utils

import "regexp"

// shorthandRegex allows names like "prettier", "eslint-base" or "ts_config".
var shorthandRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// IsValidShorthand checks that a config shorthand is a single word usable on the command line.
func IsValidShorthand(shorthand string) bool {
	if shorthand == "" {
		return false
	}
	return shorthandRegex.MatchString(shorthand)
}

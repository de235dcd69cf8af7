package logging

import (
	"path/filepath"
	"regexp"
	"unicode/utf8"
)

const (
	// MaxValueLogLength is the maximum number of runes of a cell value to log
	MaxValueLogLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match potential passwords in key=value text
	// Matches: password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&,\s]+`)

	// Pattern to match potential API keys
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// Pattern to match URL credentials (user:pass@host format)
	urlCredentialsPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@`)
)

// SanitizeValue truncates a cell value and removes credential-looking
// patterns. Use this before logging any text taken from an input file.
func SanitizeValue(value string) string {
	if value == "" {
		return ""
	}

	sanitized := TruncateString(value, MaxValueLogLength)
	sanitized = passwordPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = urlCredentialsPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@")

	return sanitized
}

// SanitizeError sanitizes error messages that might echo file content
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeValue(err.Error())
}

// SanitizeFileName reduces a path to its base name so logs do not leak
// directory layout.
func SanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Base(name)
}

// TruncateString truncates a string to maxLen runes and adds ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}

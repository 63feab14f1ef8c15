package utils

import (
	"strings"
)

// StripFences removes a surrounding markdown code fence (```json ... ```) and trims whitespace
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the outermost {...} span of s, or s unchanged when there is none
func ExtractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// WordCount counts whitespace-separated tokens
func WordCount(s string) int {
	return len(strings.Fields(s))
}

func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

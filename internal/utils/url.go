package utils

import (
	"net/url"
)

// ValidateURL validates that a URL has a valid scheme and host
func ValidateURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false
	}

	// 确保协议是http或https
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	if parsed.Host == "" {
		return false
	}

	return true
}

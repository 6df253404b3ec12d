package utils

import "strings"

// MaskEmail keeps the first character of the local part and the domain:
// "tendai@example.com" -> "t***@example.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" || domain == "" {
		return "***"
	}
	return local[:1] + "***@" + strings.ToLower(domain)
}

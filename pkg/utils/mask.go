package utils

import "strings"

// MaskEmail keeps the first character of the local part: abcd@domain.com -> a***@domain.com
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	switch {
	case email == "":
		return ""
	case at < 0:
		return "***"
	case at <= 1:
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// MaskPhone keeps the first five and last three characters visible.
func MaskPhone(phone string) string {
	const prefixLen, suffixLen = 5, 3
	if len(phone) <= prefixLen+suffixLen {
		return phone
	}
	return phone[:prefixLen] + strings.Repeat("*", len(phone)-prefixLen-suffixLen) + phone[len(phone)-suffixLen:]
}

package service

import (
	"regexp"
	"strings"
)

// maxDomainLength is the RFC 1035 limit for a full domain name.
const maxDomainLength = 253

var labelPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// IsValidDomain checks hostname grammar: total length at most 253, dot
// separated labels of 1-63 characters, letters/digits/hyphens with no
// leading or trailing hyphen. Anything containing markup or control
// characters fails the label pattern.
func IsValidDomain(domain string) bool {
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" || len(domain) > maxDomainLength {
		return false
	}

	for _, r := range domain {
		if r < 0x20 || r == 0x7f || r == '<' || r == '>' {
			return false
		}
	}

	for _, label := range strings.Split(domain, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if !labelPattern.MatchString(label) {
			return false
		}
	}

	return true
}

// IsValidHostname checks a machine hostname with the same label rules.
func IsValidHostname(hostname string) bool {
	return IsValidDomain(hostname)
}

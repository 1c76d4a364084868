package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeProofReference accepts either a link to an uploaded receipt or a
// wallet reference number. Links are forced to https with tracking
// parameters removed; reference numbers are upper-cased with spaces dropped.
func NormalizeProofReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if looksLikeURL(ref) {
		return SanitizeURL(ref)
	}
	return strings.ToUpper(strings.Join(strings.Fields(ref), ""))
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func SanitizeURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if !looksLikeURL(s) {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Scheme = "https"
	u.Host = strings.ToLower(u.Host)
	if after, ok := strings.CutPrefix(u.Host, "www."); ok {
		u.Host = after
	}
	u.Path = strings.TrimSuffix(strings.TrimSpace(u.Path), "/")

	q := u.Query()
	qClean := url.Values{}
	for k, v := range q {
		if strings.HasPrefix(strings.ToLower(k), "utm_") {
			continue
		}
		for _, val := range v {
			if val = strings.TrimSpace(val); val != "" {
				qClean.Add(k, val)
			}
		}
	}
	u.RawQuery = qClean.Encode()

	return u.String()
}

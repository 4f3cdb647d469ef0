package httpapi

import (
	"net"
	"net/http"
	"strings"
)

const unknownCountry = "ZZ"

// Edge proxies in the order we trust them. Each XFF-style header carries a
// comma separated hop list whose first entry is the original client.
var (
	clientIPHeaders      = []string{"Fly-Client-IP", "CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}
	clientCountryHeaders = []string{"Fly-Client-Country", "CF-IPCountry", "X-Vercel-IP-Country", "CloudFront-Viewer-Country"}
)

type clientInfo struct {
	IP      string
	Country string
}

func clientInfoFrom(r *http.Request) clientInfo {
	return clientInfo{IP: clientIP(r), Country: clientCountry(r)}
}

func clientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		if ip := firstHopIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}
	if ip := forwardedFor(r.Header.Get("Forwarded")); ip != "" {
		return ip
	}
	return firstHopIP(r.RemoteAddr)
}

func clientCountry(r *http.Request) string {
	for _, header := range clientCountryHeaders {
		if code := countryCode(r.Header.Get(header)); code != "" {
			return code
		}
	}
	return unknownCountry
}

// forwardedFor reads the first for= parameter of an RFC 7239 Forwarded header,
// e.g. `for="[2001:db8::1]:4711";proto=https, for=198.51.100.17`.
func forwardedFor(raw string) string {
	first, _, _ := strings.Cut(raw, ",")
	for _, pair := range strings.Split(first, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || !strings.EqualFold(key, "for") {
			continue
		}
		value = strings.Trim(value, `"`)
		if strings.HasPrefix(value, "[") {
			if end := strings.Index(value, "]"); end > 0 {
				value = value[1:end]
			}
		}
		return firstHopIP(value)
	}
	return ""
}

func firstHopIP(raw string) string {
	hop, _, _ := strings.Cut(raw, ",")
	hop = strings.TrimSpace(hop)
	if hop == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(hop); err == nil {
		hop = host
	}
	if ip := net.ParseIP(hop); ip != nil {
		return ip.String()
	}
	return ""
}

// countryCode accepts ISO 3166 alpha-2 codes only. Cloudflare's "XX" and
// "T1" (Tor) markers fall through to the next header.
func countryCode(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 || code == "XX" {
		return ""
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return ""
		}
	}
	return code
}

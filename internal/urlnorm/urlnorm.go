// Package urlnorm canonicalises opportunity links and derives the stable
// record id used for deduplication.
package urlnorm

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"sort"
	"strings"
)

// trackingParams never change what page a link points at.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"fbclid":       true,
	"gclid":        true,
	"gclsrc":       true,
	"dclid":        true,
	"msclkid":      true,
	"ref":          true,
}

var defaultPorts = map[string]string{"http": "80", "https": "443"}

// Canonical rewrites link so that equivalent spellings compare equal. Links
// without a scheme or host are returned trimmed but otherwise untouched.
func Canonical(link string) string {
	raw := strings.TrimSpace(link)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && port != defaultPorts[scheme] {
		host += ":" + port
	}

	u.Scheme = "https"
	u.Host = host
	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = cleanQuery(u.Query())
	u.Path = cleanPath(u.Path)
	u.RawPath = ""
	return u.String()
}

// RecordID is the hex SHA-256 of Canonical(link). It depends on nothing but
// the link.
func RecordID(link string) string {
	sum := sha256.Sum256([]byte(Canonical(link)))
	return hex.EncodeToString(sum[:])
}

func cleanQuery(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if !trackingParams[strings.ToLower(k)] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

func cleanPath(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	return strings.TrimRight(path.Clean(p), "/")
}

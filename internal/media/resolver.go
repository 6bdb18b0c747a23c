// Package media turns stored logo references into URLs a browser can load.
package media

import (
	"net/url"
	"strings"
)

// Resolver maps blob references onto a public media base URL.
type Resolver struct {
	baseURL string
}

// NewResolver returns a Resolver rooted at baseURL. An empty base leaves relative references as they are.
func NewResolver(baseURL string) Resolver {
	return Resolver{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// Resolve returns "" for an empty reference, absolute http(s) URLs unchanged,
// and everything else joined onto the base URL.
func (r Resolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if parsed, err := url.Parse(ref); err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != "" {
		return ref
	}
	if r.baseURL == "" {
		return ref
	}
	return r.baseURL + "/" + strings.TrimLeft(ref, "/")
}

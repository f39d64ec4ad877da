// Package shared
package shared

import (
	"net/url"
	"strings"
)

// IsLocalhostURL reports whether raw points at the local Ollama daemon.
// An empty value is treated as local since the client falls back to
// 127.0.0.1:11434. The console refuses to talk to a remote inference host.
func IsLocalhostURL(raw string) bool {
	if raw == "" {
		return true
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "11434"
	}
	return (host == "127.0.0.1" || host == "localhost" || host == "::1") && port == "11434"
}

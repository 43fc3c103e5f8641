package utils

import (
	"net"
	"net/http"
)

// ClientIP is the host part of RemoteAddr. Proxy headers are applied
// upstream by chi's RealIP middleware.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

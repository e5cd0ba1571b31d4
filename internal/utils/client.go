package utils

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/user_agent"
)

// ClientInfo describes who sent a request.
type ClientInfo struct {
	IPAddress string
	UserAgent string
	Browser   string
	OS        string
	Device    string
}

// 🌐 GetIPAddress gets the real IP address from request
func GetIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ParseClient extracts the IP address and a browser/OS/device summary.
func ParseClient(r *http.Request) ClientInfo {
	raw := r.UserAgent()
	info := ClientInfo{
		IPAddress: GetIPAddress(r),
		UserAgent: raw,
	}
	if raw == "" {
		return info
	}

	ua := user_agent.New(raw)
	name, version := ua.Browser()
	info.Browser = strings.TrimSpace(name + " " + version)
	info.OS = ua.OS()
	switch {
	case ua.Bot():
		info.Device = "bot"
	case ua.Mobile():
		info.Device = "mobile"
	default:
		info.Device = "desktop"
	}
	return info
}

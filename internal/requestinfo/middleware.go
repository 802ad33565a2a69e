// internal/requestinfo/middleware.go
//
// Enrich attaches *RequestInfo to every request and rebinds the
// request-scoped logger so each line a handler writes names the client.
// It must run after logger.Requests, which installs that logger.

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yanizio/playground/internal/logger"
)

// Enrich wraps next.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		info := &RequestInfo{
			UA:        parseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
			Geo:       lookupGeo(ip),
			URL:       r.URL,
			Timestamp: time.Now().UTC(),
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, info)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(info.LogFields()...))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP prefers the first parseable X-Forwarded-For entry, then
// X-Real-Ip, then RemoteAddr.
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-Ip"))); ip != nil {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}

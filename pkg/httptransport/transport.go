// Package httptransport composes http.RoundTripper middleware for the
// outbound backend client: request id injection, bearer authentication, and
// request logging. The chain mirrors the server-side middleware stack this
// project's services use, applied to the client side.
package httptransport

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware wraps an http.RoundTripper with additional behaviour.
type Middleware func(http.RoundTripper) http.RoundTripper

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Wrap applies middlewares to base so that the first middleware is the
// outermost: Wrap(base, A, B) runs A, then B, then base.
func Wrap(base http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		rt = middlewares[i](rt)
	}
	return rt
}

// TokenSource yields the current bearer token. An empty token means the
// request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() string

// Token implements TokenSource.
func (f TokenSourceFunc) Token() string { return f() }

// Bearer returns a middleware that attaches the current bearer token to each
// request. The request is cloned before mutation, per the RoundTripper
// contract.
func Bearer(src TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			token := src.Token()
			if token == "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(r)
		})
	}
}

// RequestID returns a middleware that sets a UUID v4 X-Request-ID header on
// every request that does not already carry one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("X-Request-ID") != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set("X-Request-ID", uuid.New().String())
			return next.RoundTrip(r)
		})
	}
}

// LogRequests returns a middleware that logs each request through the
// context logger with method, path, status, and duration.
func LogRequests() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			lg := zctx.From(r.Context())
			start := time.Now()

			resp, err := next.RoundTrip(r)
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				lg.Warn("Backend request failed", append(fields, zap.Error(err))...)
				return nil, err
			}
			lg.Debug("Backend request", append(fields, zap.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}

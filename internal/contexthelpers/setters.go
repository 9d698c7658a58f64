package contexthelpers

import (
	"context"
	"net/http"
)

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := context.WithValue(r.Context(), currentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	ctx := context.WithValue(r.Context(), csrfTokenContextKey, csrfToken)
	return r.WithContext(ctx)
}

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	ctx := context.WithValue(r.Context(), cspNonceContextKey, cspNonce)
	return r.WithContext(ctx)
}

func SetRequestID(r *http.Request, requestID string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
	return r.WithContext(ctx)
}

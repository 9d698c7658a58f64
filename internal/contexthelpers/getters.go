package contexthelpers

import (
	"context"
)

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

func CSPNonce(ctx context.Context) string {
	cspNonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return cspNonce
}

// RequestID returns the identifier logRequest assigned to the request, or "" outside a request.
func RequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(requestIDContextKey).(string)
	if !ok {
		return ""
	}

	return requestID
}

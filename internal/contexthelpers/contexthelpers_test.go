package contexthelpers_test

import (
	"net/http/httptest"
	"testing"

	"github.com/myrjola/learnpref/internal/contexthelpers"
	"github.com/stretchr/testify/require"
)

func TestContextHelpers(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	ctx := r.Context()
	require.Empty(t, contexthelpers.CurrentPath(ctx))
	require.Empty(t, contexthelpers.CSRFToken(ctx))
	require.Empty(t, contexthelpers.CSPNonce(ctx))
	require.Empty(t, contexthelpers.RequestID(ctx))

	r = contexthelpers.SetCurrentPath(r, "/results")
	r = contexthelpers.SetCSRFToken(r, "token")
	r = contexthelpers.SetCSPNonce(r, "nonce")
	r = contexthelpers.SetRequestID(r, "id")
	ctx = r.Context()
	require.Equal(t, "/results", contexthelpers.CurrentPath(ctx))
	require.Equal(t, "token", contexthelpers.CSRFToken(ctx))
	require.Equal(t, "nonce", contexthelpers.CSPNonce(ctx))
	require.Equal(t, "id", contexthelpers.RequestID(ctx))
}

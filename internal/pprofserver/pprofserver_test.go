package pprofserver_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/myrjola/learnpref/internal/pprofserver"
	"github.com/myrjola/learnpref/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestLaunch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, err := pprofserver.Launch(ctx, "127.0.0.1:0", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/debug/pprof/cmdline", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

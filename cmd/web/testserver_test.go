package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/myrjola/learnpref/internal/e2etest"
	"github.com/stretchr/testify/require"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "LEARNPREF_ADDR":
		return "localhost:0", true
	case "LEARNPREF_SQLITE_URL":
		return ":memory:", true
	default:
		return "", false
	}
}

// lookupEnvWith overrides testLookupEnv with the given variables.
func lookupEnvWith(overrides map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if val, ok := overrides[key]; ok {
			return val, true
		}
		return testLookupEnv(key)
	}
}

// startTestServer runs the application on a free port with an in-memory database until the test ends.
func startTestServer(t *testing.T, lookupEnv func(string) (string, bool)) *e2etest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	server, err := e2etest.StartServer(ctx, io.Discard, lookupEnv, run)
	if err != nil {
		cancel()
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		cancel()
		require.NoError(t, server.Wait())
	})
	return server
}

// answers builds questionnaire form values from a compact encoding such as "VVAR-K". "-" leaves the question out.
func answers(encoded string) url.Values {
	values := url.Values{}
	for i, code := range strings.Split(encoded, "") {
		if code == "-" {
			continue
		}
		values.Set(fmt.Sprintf("q%d", i+1), code)
	}
	return values
}

func getJSON(t *testing.T, rawURL string, out any) (int, error) {
	t.Helper()
	resp, err := http.Get(rawURL) //nolint:noctx // test helper.
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

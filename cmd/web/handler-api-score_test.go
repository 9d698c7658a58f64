package main

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/learnpref/internal/survey"
	"github.com/stretchr/testify/require"
)

func Test_application_apiScore(t *testing.T) {
	server := startTestServer(t, testLookupEnv)
	ctx := context.Background()

	var outcome survey.Outcome
	status, err := server.Client().PostJSON(ctx, "/api/score",
		scoreRequest{Answers: strings.Split("VVVVVAAARRKK", "")}, &outcome)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	want := []survey.Ranked{
		{Category: survey.Visual, Label: "Visual", Count: 5, Percent: 42},
		{Category: survey.Auditory, Label: "Aural (Auditory)", Count: 3, Percent: 25},
		{Category: survey.ReadWrite, Label: "Read/Write", Count: 2, Percent: 17},
		{Category: survey.Kinesthetic, Label: "Kinesthetic (Hands-on)", Count: 2, Percent: 17},
	}
	if diff := cmp.Diff(want, outcome.Ranked); diff != "" {
		t.Errorf("ranked mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 12, outcome.Total)
	require.Equal(t, survey.Visual, outcome.Top.Category)
	require.False(t, outcome.Multimodal)
	require.Len(t, outcome.Tactics, 3)
}

func Test_application_apiScore_errors(t *testing.T) {
	server := startTestServer(t, testLookupEnv)
	ctx := context.Background()

	tests := []struct {
		name        string
		body        any
		wantStatus  int
		wantMissing []int
	}{
		{
			name:        "one unanswered",
			body:        scoreRequest{Answers: []string{"V", "V", "V", "", "A", "A", "A", "R", "R", "K", "K", "K"}},
			wantStatus:  http.StatusUnprocessableEntity,
			wantMissing: []int{4},
		},
		{
			name:        "short set",
			body:        scoreRequest{Answers: []string{"V", "A"}},
			wantStatus:  http.StatusUnprocessableEntity,
			wantMissing: []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		},
		{
			name:       "invalid category",
			body:       scoreRequest{Answers: []string{"V", "X"}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "too many responses",
			body:       scoreRequest{Answers: strings.Split("VVVVVAAARRKKV", "")},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       map[string]any{"responses": []string{"V"}},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got scoreErrorResponse
			status, err := server.Client().PostJSON(ctx, "/api/score", tt.body, &got)
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, status)
			require.NotEmpty(t, got.Error)
			require.Equal(t, tt.wantMissing, got.Missing)
		})
	}
}

func Test_application_healthy(t *testing.T) {
	server := startTestServer(t, testLookupEnv)

	var got healthResponse
	status, err := getJSON(t, server.URL()+"/api/healthy", &got)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, healthResponse{Status: "ok", Questions: 12}, got)
}

func Test_application_static(t *testing.T) {
	server := startTestServer(t, testLookupEnv)

	resp, err := server.Client().Get(context.Background(), "/static/main.css")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	require.Equal(t, "public, max-age=31536000, immutable", resp.Header.Get("Cache-Control"))
}

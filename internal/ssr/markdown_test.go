package ssr

import (
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInline(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want template.HTML
	}{
		{name: "plain", md: "Rewrite complex ideas in plain language.", want: "Rewrite complex ideas in plain language."},
		{name: "bold", md: "Use **voice notes** and replay.", want: "Use <strong>voice notes</strong> and replay."},
		{name: "emphasis", md: "Best practice is *multimodal*", want: "Best practice is <em>multimodal</em>"},
		{name: "escapes text", md: "Q&A", want: "Q&amp;A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Inline(tt.md)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBlock(t *testing.T) {
	got := string(Block("- one\n- **two**\n"))
	require.True(t, strings.HasPrefix(got, "<ul>"), got)
	require.Contains(t, got, "<strong>two</strong>")
}

package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLetters(t *testing.T) {
	tests := []struct {
		name   string
		length uint
	}{
		{name: "zero length", length: 0},
		{name: "nonce length", length: 24},
		{name: "long", length: 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Letters(tt.length)
			require.NoError(t, err)
			require.Len(t, got, int(tt.length))
			for _, r := range got {
				require.True(t, strings.ContainsRune(string(allowedLetters), r), "unexpected rune %q", r)
			}
		})
	}
}

func TestLetters_usesWholeAlphabet(t *testing.T) {
	got, err := Letters(4096)
	require.NoError(t, err)
	require.True(t, strings.ContainsAny(got, "XYZ"), "upper end of alphabet never drawn")
}

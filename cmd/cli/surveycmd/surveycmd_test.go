package surveycmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/myrjola/learnpref/cmd/cli/surveycmd"
	"github.com/myrjola/learnpref/internal/survey"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := surveycmd.New()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--plain"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestQuestions(t *testing.T) {
	out, err := execute(t, "", "questions")
	require.NoError(t, err)
	require.Contains(t, out, "**1. When learning something new, what helps you most at the start?**")
	require.Contains(t, out, "1. A diagram, flowchart, or picture of the big idea")
	require.Contains(t, out, "4. A quick example you can try or simulate yourself")
	require.Contains(t, out, "**12. ")
	require.NotContains(t, out, "**13. ")
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		contains []string
		absent   []string
	}{
		{
			name:    "clear visual preference",
			encoded: "VVVVVAAARRKK",
			contains: []string{
				"- **Visual**: **5** / 12 (42%)",
				"- **Aural (Auditory)**: **3** / 12 (25%)",
				"### Primary preference: **Visual**",
				"Make **mind maps**",
				"### Universal best practices",
			},
			absent: []string{"multimodal"},
		},
		{
			name:    "close runner up is multimodal",
			encoded: "KKKKKKRRRRRV",
			contains: []string{
				"- **Kinesthetic (Hands-on)**: **6** / 12 (50%)",
				"### Primary preference: **Kinesthetic (Hands-on)**",
				"You look **multimodal**",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", "score", tt.encoded)
			require.NoError(t, err)
			for _, s := range tt.contains {
				require.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				require.NotContains(t, out, s)
			}
		})
	}
}

func TestScore_incomplete(t *testing.T) {
	out, err := execute(t, "", "score", "VV-VVAAARR")
	var incomplete *survey.IncompleteResponseError
	require.ErrorAs(t, err, &incomplete)
	require.Equal(t, []int{3, 11, 12}, incomplete.Numbers())
	require.Contains(t, out, "3 of 12 questions unanswered: 3, 11, 12")
	require.NotContains(t, out, "Primary preference")
}

func TestScore_errors(t *testing.T) {
	t.Run("unknown code", func(t *testing.T) {
		_, err := execute(t, "", "score", "VVVVVAAARRKX")
		var invalid *survey.InvalidCategoryError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, 11, invalid.Index)
	})
	t.Run("too many responses", func(t *testing.T) {
		_, err := execute(t, "", "score", "VVVVVAAARRKKV")
		require.ErrorIs(t, err, survey.ErrTooManyResponses)
	})
	t.Run("missing argument", func(t *testing.T) {
		_, err := execute(t, "", "score")
		require.Error(t, err)
	})
}

func TestTake(t *testing.T) {
	// Option order in the default content is V, A, R, K.
	input := strings.Join([]string{
		"1", "1", "1", "", "9", "x", "1", "1",
		"2", "2", "2",
		"3", "3",
		"4", "4",
	}, "\n") + "\n"
	out, err := execute(t, input, "take")
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(out, "Please enter a number between 1 and 4."))
	require.Contains(t, out, "**12. ")
	require.Contains(t, out, "### Primary preference: **Visual**")
	require.Contains(t, out, "- **Visual**: **5** / 12 (42%)")
}

func TestTake_inputEnds(t *testing.T) {
	_, err := execute(t, "1\n2\n", "take")
	require.ErrorContains(t, err, "input ended before the survey was finished")
}

func TestContentFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	custom := `labels: {V: Seeing, A: Hearing, R: Reading, K: Doing}
evidence_note: [Just a preference.]
best_practices: [Test yourself.]
tactics:
  V: [Draw it.]
  A: [Say it.]
  R: [Write it.]
  K: [Do it.]
questions:
  - prompt: Pick one
    options:
      - {text: Look, category: V}
      - {text: Listen, category: A}
      - {text: Read, category: R}
      - {text: Try, category: K}
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))

	out, err := execute(t, "", "--content", path, "score", "K")
	require.NoError(t, err)
	require.Contains(t, out, "- **Doing**: **1** / 1 (100%)")
	require.Contains(t, out, "- Do it.")
	require.Contains(t, out, "- Test yourself.")

	_, err = execute(t, "", "--content", filepath.Join(t.TempDir(), "missing.yaml"), "questions")
	require.Error(t, err)
}

func TestRendered(t *testing.T) {
	cmd := surveycmd.New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"score", "VVVVVAAARRKK"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Primary preference")
	require.Contains(t, out.String(), "Visual")
}

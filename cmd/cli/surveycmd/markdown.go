package surveycmd

import (
	"fmt"
	"strings"

	"github.com/myrjola/learnpref/internal/survey"
)

func questionMarkdown(b *strings.Builder, number int, q survey.Question) {
	fmt.Fprintf(b, "**%d. %s**\n\n", number, q.Prompt)
	for i, o := range q.Options {
		fmt.Fprintf(b, "%d. %s\n", i+1, o.Text)
	}
	b.WriteString("\n")
}

func questionsMarkdown(engine *survey.Engine) string {
	var b strings.Builder
	b.WriteString("# Learning preferences\n\n")
	for _, line := range engine.EvidenceNote() {
		fmt.Fprintf(&b, "> %s\n>\n", line)
	}
	b.WriteString("\n")
	for i, q := range engine.Questions() {
		questionMarkdown(&b, i+1, q)
	}
	return b.String()
}

func outcomeMarkdown(engine *survey.Engine, outcome survey.Outcome) string {
	var b strings.Builder
	b.WriteString("## Results\n\n")
	for _, r := range outcome.Ranked {
		fmt.Fprintf(&b, "- **%s**: **%d** / %d (%d%%)\n", r.Label, r.Count, outcome.Total, r.Percent)
	}
	fmt.Fprintf(&b, "\n### Primary preference: **%s**\n\n", outcome.Top.Label)
	if outcome.Multimodal {
		b.WriteString("> You look **multimodal** (top categories are close). A mixed approach often works best.\n\n")
	}
	b.WriteString("### Tactics to try this week\n\n")
	for _, tactic := range outcome.Tactics {
		fmt.Fprintf(&b, "- %s\n", tactic)
	}
	b.WriteString("\n### Universal best practices\n\n")
	for _, practice := range engine.BestPractices() {
		fmt.Fprintf(&b, "- %s\n", practice)
	}
	return b.String()
}

func incompleteMarkdown(incomplete *survey.IncompleteResponseError) string {
	numbers := make([]string, 0, incomplete.Count())
	for _, n := range incomplete.Numbers() {
		numbers = append(numbers, fmt.Sprint(n))
	}
	return fmt.Sprintf("**Please answer every question.** %d of %d questions unanswered: %s\n",
		incomplete.Count(), incomplete.Total, strings.Join(numbers, ", "))
}

package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dnstool/propagation/internal/propagation"
)

// RenderPretty formats a report for a terminal: one line per resolver, then
// the consensus verdict.
func RenderPretty(report *propagation.Report) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render("propcheck")
	lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	successStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failureStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warnStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))

	header := fmt.Sprintf("%s %s %s", title, report.Domain, report.Type)
	lines := []string{header, ""}

	for _, res := range report.Resolvers {
		statusLabel := successStyle.Render("OK")
		if res.Error != "" || !res.OK {
			statusLabel = failureStyle.Render("FAIL")
		}
		line := fmt.Sprintf("%s %-12s %4dms", statusLabel, res.ResolverID, res.ResponseTimeMs)
		switch {
		case res.Error != "":
			line += " error: " + res.Error
		case len(res.AnswerSet) > 0:
			line += " answers=" + strings.Join(res.AnswerSet, " | ")
		default:
			line += " no answer"
		}
		lines = append(lines, lineStyle.Render(line))
	}

	lines = append(lines, "")
	s := report.Summary
	verdict := fmt.Sprintf("%.1f%% propagated (%d/%d resolvers agree)", s.PropagationPercent, s.MajorityCount, s.SuccessfulResolvers)
	switch {
	case s.InsufficientData:
		lines = append(lines, failureStyle.Render("no resolver responded, propagation state unknown"))
	case s.FullyPropagated:
		lines = append(lines, successStyle.Render("fully propagated, "+verdict))
	default:
		lines = append(lines, warnStyle.Render("partially propagated, "+verdict))
	}
	if len(s.ConsensusAnswers) > 0 {
		lines = append(lines, "Consensus: "+strings.Join(s.ConsensusAnswers, " | "))
	}
	for _, m := range s.Mismatches {
		values := "no answer"
		if len(m.AnswerSet) > 0 {
			values = strings.Join(m.AnswerSet, " | ")
		}
		who := m.Label
		if who == "" {
			who = m.ResolverID
		}
		lines = append(lines, fmt.Sprintf("Mismatch: %s returned %s", who, values))
	}

	return strings.Join(lines, "\n")
}

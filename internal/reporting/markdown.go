package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the run summary as a Markdown string.
func RenderMarkdown(s *Summary) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Catalog Run Summary\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Duration: %s\n\n", s.Duration.Round(time.Millisecond)))

	// Totals
	sb.WriteString("## Totals\n\n")
	sb.WriteString("| Outcome | Count |\n")
	sb.WriteString("|---------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Written | %d |\n", s.Written))
	sb.WriteString(fmt.Sprintf("| Skipped | %d |\n", s.Skipped))
	sb.WriteString(fmt.Sprintf("| Failed | %d |\n", s.Failed))
	sb.WriteString("\n")

	// Per-chain breakdown
	sb.WriteString("## Chains\n\n")
	if len(s.ChainCounts) > 0 {
		sb.WriteString("| Chain | Written | Skipped | Failed |\n")
		sb.WriteString("|-------|---------|---------|--------|\n")
		for _, row := range s.ChainCounts {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d |\n",
				row.Chain, row.Written, row.Skipped, row.Failed))
		}
	} else {
		sb.WriteString("No tokens processed.\n")
	}
	sb.WriteString("\n")

	// Errors
	sb.WriteString("## Errors\n\n")
	if len(s.Errors) > 0 {
		for _, err := range s.Errors {
			sb.WriteString(fmt.Sprintf("- %s\n", err))
		}
	} else {
		sb.WriteString("None.\n")
	}

	return sb.String()
}

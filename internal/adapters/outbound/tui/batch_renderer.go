package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/gltf-validator/internal/domain"
)

var hintStyle = lipgloss.NewStyle().Foreground(dim).Italic(true)

// RenderBatch renders the outcome of validating a directory, one line per asset.
func RenderBatch(batch *domain.BatchOutcome) string {
	var b strings.Builder

	// Header
	status := lipgloss.NewStyle().
		Bold(true).
		Foreground(statusColor(batch.Status)).
		Render(strings.ToUpper(batch.Status))
	total := len(batch.Outcomes) + len(batch.Failures)
	rootLine := titleStyle.Render(shortenPath(batch.Root)) + "  " + status
	countLine := dimStyle.Render(fmt.Sprintf("%d asset(s)", total))

	b.WriteString(boxStyle.Render(rootLine + "\n" + countLine))
	b.WriteString("\n")

	if total == 0 {
		b.WriteString("\n  " + hintStyle.Render("No .gltf or .glb files found.") + "\n")
		return b.String()
	}

	if len(batch.Outcomes) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n", sectionHeaderStyle.Render("Assets"), dimStyle.Render(fmt.Sprintf("(%d)", len(batch.Outcomes))))
		for _, o := range batch.Outcomes {
			is := o.Report.Issues
			line := fmt.Sprintf("    %s %s  %s",
				lipgloss.NewStyle().Foreground(statusColor(o.Status)).Render("●"),
				fileStyle.Render(padRight(relativeTo(batch.Root, o.Asset.Path), 36)),
				dimStyle.Render(fmt.Sprintf("%dE %dW %dI %dH", is.NumErrors, is.NumWarnings, is.NumInfos, is.NumHints)),
			)
			if o.Cached {
				line += "  " + faintStyle.Render("cached")
			}
			b.WriteString(line + "\n")
		}
	}

	if len(batch.Failures) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n", sectionHeaderStyle.Render("Could not validate"), dimStyle.Render(fmt.Sprintf("(%d)", len(batch.Failures))))
		for _, f := range batch.Failures {
			fmt.Fprintf(&b, "    %s %s  %s\n",
				failStyle.Render("●"),
				relativeTo(batch.Root, f.Asset),
				faintStyle.Render(f.Error),
			)
		}
	}

	b.WriteString("\n")
	return b.String()
}

func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

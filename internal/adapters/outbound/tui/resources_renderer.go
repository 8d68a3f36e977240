package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/gltf-validator/internal/domain/report"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	bulletStyle        = lipgloss.NewStyle().Foreground(accent)
)

func renderResources(b *strings.Builder, resources []report.Resource) {
	fmt.Fprintf(b, "  %s %s\n",
		sectionHeaderStyle.Render("Resources"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(resources))),
	)

	for _, res := range resources {
		parts := []string{humanize(string(res.Storage))}
		if res.MimeType != nil {
			parts = append(parts, *res.MimeType)
		}
		if res.ByteLength != nil {
			parts = append(parts, formatBytes(*res.ByteLength))
		}
		line := fmt.Sprintf("    %s %s  %s", bulletStyle.Render("●"), res.Pointer, dimStyle.Render(strings.Join(parts, " · ")))
		if res.URI != nil {
			line += "  " + fileStyle.Render(*res.URI)
		}
		b.WriteString(line + "\n")

		if res.Image != nil {
			b.WriteString("        " + faintStyle.Render(describeImage(*res.Image)) + "\n")
		}
	}
}

func describeImage(im report.Image) string {
	parts := []string{fmt.Sprintf("%d×%d", im.Width, im.Height)}
	if im.Format != nil {
		parts = append(parts, humanize(string(*im.Format)))
	}
	if im.Primaries != nil {
		parts = append(parts, humanize(string(*im.Primaries))+" primaries")
	}
	if im.Transfer != nil {
		parts = append(parts, humanize(string(*im.Transfer))+" transfer")
	}
	if im.Bits != nil {
		parts = append(parts, fmt.Sprintf("%d-bit", *im.Bits))
	}
	return strings.Join(parts, " · ")
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

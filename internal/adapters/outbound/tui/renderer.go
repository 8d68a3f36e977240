package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/camelcase"

	"github.com/abdidvp/gltf-validator/internal/domain"
	"github.com/abdidvp/gltf-validator/internal/domain/report"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
	hintCol = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	statusColors = map[string]lipgloss.Color{
		domain.StatusPass: success,
		domain.StatusWarn: warning,
		domain.StatusFail: danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	hintTagStyle  = lipgloss.NewStyle().Foreground(hintCol)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderOutcome formats a validation outcome for terminal output.
func RenderOutcome(o *domain.ValidationOutcome) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("gltf-validator")
	subtitle := dimStyle.Render(shortenPath(o.Asset.Path))
	status := lipgloss.NewStyle().
		Bold(true).
		Foreground(statusColor(o.Status)).
		Render(strings.ToUpper(o.Status))
	meta := dimStyle.Render(fmt.Sprintf("%d ms", o.DurationMS))
	if o.Cached {
		meta = dimStyle.Render("cached")
	}

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + status + "  " + meta))
	b.WriteString("\n\n")

	renderBody(&b, o.Report)

	if o.UploadURL != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", dimStyle.Render("uploaded"), fileStyle.Render(o.UploadURL))
	}
	return b.String()
}

// RenderReport formats a bare report, as produced by `decode`.
func RenderReport(r *report.ValidationReport) string {
	var b strings.Builder
	b.WriteString("\n")
	renderBody(&b, r)
	return b.String()
}

func renderBody(b *strings.Builder, r *report.ValidationReport) {
	renderSummary(b, r)

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	renderIssues(b, r.Issues)

	if r.Info != nil && len(r.Info.Resources) > 0 {
		b.WriteString("\n")
		renderResources(b, r.Info.Resources)
	}
	b.WriteString("\n")
}

func renderSummary(b *strings.Builder, r *report.ValidationReport) {
	row := func(label, value string) {
		fmt.Fprintf(b, "  %s %s\n", dimStyle.Render(padRight(label, 12)), value)
	}

	if r.URI != nil {
		row("asset", *r.URI)
	}
	if r.MimeType != nil {
		row("type", string(*r.MimeType))
	}
	row("validator", r.ValidatorVersion)
	if r.ValidatedAt != nil {
		row("validated", *r.ValidatedAt)
	}
	if r.Info == nil {
		return
	}
	version := "glTF " + r.Info.Version
	if r.Info.MinVersion != nil {
		version += dimStyle.Render(" (min " + *r.Info.MinVersion + ")")
	}
	row("version", version)
	if r.Info.Generator != nil {
		row("generator", *r.Info.Generator)
	}
	if len(r.Info.ExtensionsUsed) > 0 {
		row("extensions", strings.Join(r.Info.ExtensionsUsed, ", "))
	}
	if len(r.Info.ExtensionsRequired) > 0 {
		row("required", strings.Join(r.Info.ExtensionsRequired, ", "))
	}
}

func renderIssues(b *strings.Builder, is report.Issues) {
	total := uint64(is.NumErrors) + uint64(is.NumWarnings) + uint64(is.NumInfos) + uint64(is.NumHints)
	if total == 0 && len(is.Messages) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
		return
	}

	b.WriteString("  ")
	b.WriteString(titleStyle.Render("Issues"))
	b.WriteString("  ")
	counts := []struct {
		n     uint32
		label string
		style lipgloss.Style
	}{
		{is.NumErrors, "errors", errorTagStyle},
		{is.NumWarnings, "warnings", warnTagStyle},
		{is.NumInfos, "infos", infoTagStyle},
		{is.NumHints, "hints", hintTagStyle},
	}
	for _, c := range counts {
		if c.n > 0 {
			b.WriteString(c.style.Render(fmt.Sprintf("%d %s", c.n, c.label)))
			b.WriteString("  ")
		}
	}
	if is.Truncated {
		b.WriteString(dimStyle.Render(fmt.Sprintf("(showing %d, truncated)", len(is.Messages))))
	}
	b.WriteString("\n\n")

	for _, sev := range report.Severities {
		for _, m := range is.Messages {
			if m.Severity == sev {
				renderMessage(b, m)
			}
		}
	}
}

func renderMessage(b *strings.Builder, m report.Message) {
	tag := severityTag(m.Severity)
	loc := ""
	switch {
	case m.Pointer != nil:
		loc = *m.Pointer
	case m.Offset != nil:
		loc = fmt.Sprintf("@%d", *m.Offset)
	}

	fmt.Fprintf(b, "    %s %s", tag, titleStyle.Render(m.Code))
	if loc != "" {
		fmt.Fprintf(b, "  %s", fileStyle.Render(loc))
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "          %s\n", dimStyle.Render(m.Message))
}

func severityTag(sev report.Severity) string {
	switch sev {
	case report.SeverityError:
		return errorTagStyle.Render("error")
	case report.SeverityWarning:
		return warnTagStyle.Render("warn ")
	case report.SeverityInformation:
		return infoTagStyle.Render("info ")
	default:
		return hintTagStyle.Render("hint ")
	}
}

// humanize splits a camelCase or dashed wire token into lower-case words,
// e.g. luminanceAlpha -> "luminance alpha", buffer-view -> "buffer view".
func humanize(token string) string {
	var words []string
	for _, w := range camelcase.Split(token) {
		if w = strings.Trim(w, "-_ "); w != "" {
			words = append(words, strings.ToLower(w))
		}
	}
	return strings.Join(words, " ")
}

func statusColor(status string) lipgloss.Color {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return fg
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats validation history for terminal output.
func RenderHistory(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No validation history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Validation History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	prevErrors := map[string]uint32{}
	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		statusStyled := lipgloss.NewStyle().
			Foreground(statusColor(e.Status)).
			Render(padRight(e.Status, 4))

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(e.Timestamp.Format("2006-01-02")),
			faintStyle.Render(hash),
			statusStyled,
			fileStyle.Render(shortenPath(e.AssetPath)),
			dimStyle.Render(fmt.Sprintf("%dE %dW %dI %dH", e.NumErrors, e.NumWarnings, e.NumInfos, e.NumHints)),
		)

		if prev, ok := prevErrors[e.AssetPath]; ok {
			if e.NumErrors < prev {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", prev-e.NumErrors))
			} else if e.NumErrors > prev {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", e.NumErrors-prev))
			}
		}
		prevErrors[e.AssetPath] = e.NumErrors

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

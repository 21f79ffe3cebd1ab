package adapters

import (
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"catalog-audit/internal/ports"
	"catalog-audit/internal/types"
)

const prettyWordWrap = 120

// MarkdownReportAdapter renders catalog reports as markdown. Errors and
// warnings are colored when the writer is a terminal. With Pretty set the
// markdown is rendered for the terminal instead.
type MarkdownReportAdapter struct {
	Pretty bool
}

func NewMarkdownReportAdapter(pretty bool) MarkdownReportAdapter {
	return MarkdownReportAdapter{Pretty: pretty}
}

type reportStyles struct {
	heading lipgloss.Style
	error   lipgloss.Style
	warning lipgloss.Style
}

func newReportStyles(renderer *lipgloss.Renderer) reportStyles {
	return reportStyles{
		heading: renderer.NewStyle().Bold(true),
		error:   renderer.NewStyle().Foreground(lipgloss.Color("1")),
		warning: renderer.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

func (a MarkdownReportAdapter) WriteCatalog(w io.Writer, report types.CatalogReport, filtered bool) error {
	if !a.Pretty {
		styles := newReportStyles(lipgloss.NewRenderer(w))
		return writeString(w, renderMarkdown(report, filtered, styles))
	}
	plain := newReportStyles(lipgloss.NewRenderer(io.Discard))
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(prettyWordWrap),
	)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create markdown renderer").
			WithCause(err)
	}
	out, err := renderer.Render(renderMarkdown(report, filtered, plain))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to render markdown report").
			WithCause(err)
	}
	return writeString(w, out)
}

func renderMarkdown(report types.CatalogReport, filtered bool, styles reportStyles) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	if !filtered {
		line("\n## Catalog `%s` - %d apps", report.Name, report.AppCount)
	}
	for _, app := range report.Apps {
		result := app.Result
		if len(result.Errors)+len(result.Warnings) > 0 {
			line("\n### %s (%s) -- %s", appLabel(app), appOwner(result), problemSummary(result))
		}
		line("\n<details>")
		line("\nInformation based on release v%s", result.LatestRelease)
		if len(result.Errors) > 0 {
			line("\n#### %s\n", styles.heading.Inherit(styles.error).Render("Errors"))
			for _, finding := range result.Errors {
				line("- [ ] %s", styles.error.Render(finding.Message))
			}
		}
		if len(result.Warnings) > 0 {
			line("\n#### %s\n", styles.heading.Inherit(styles.warning).Render("Warnings"))
			for _, finding := range result.Warnings {
				line("- [ ] %s", styles.warning.Render(finding.Message))
			}
		}
		if len(result.Suggestions) > 0 {
			line("\n#### %s\n", styles.heading.Inherit(styles.warning).Render("Suggestions"))
			for _, finding := range result.Suggestions {
				line("- [ ] %s", finding.Message)
			}
		}
		line("\n</details>")
	}
	line("\n%s", totalsLine(report.Totals))
	return b.String()
}

func appLabel(app types.AppReport) string {
	if app.Result.RepoURL != "" {
		return fmt.Sprintf("[%s](%s)", app.Name, app.Result.RepoURL)
	}
	return fmt.Sprintf("`%s`", app.Name)
}

func appOwner(result types.ValidationResult) string {
	if result.Owner == "" {
		return "_no owner_"
	}
	return result.Owner
}

func problemSummary(result types.ValidationResult) string {
	summary := ""
	if len(result.Errors) > 0 {
		summary = fmt.Sprintf("%d errors and ", len(result.Errors))
	}
	return summary + fmt.Sprintf("%d warnings", len(result.Warnings))
}

func totalsLine(totals types.Totals) string {
	return fmt.Sprintf("%d errors, %d warnings, %d suggestions, %d accolades in total",
		totals.Errors, totals.Warnings, totals.Suggestions, totals.Accolades)
}

func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write report").
			WithCause(err)
	}
	return nil
}

var _ ports.ReportPort = MarkdownReportAdapter{}

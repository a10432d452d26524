package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mittwald/smoketest/pkg/probe"
	"github.com/mittwald/smoketest/pkg/seed"
)

func checkLine(result probe.CheckResult) string {
	status := "no response"
	if result.ObservedStatus != nil {
		status = fmt.Sprintf("%d", *result.ObservedStatus)
	}

	var line string
	switch {
	case result.Skipped:
		line = lipgloss.JoinHorizontal(lipgloss.Left,
			styleSkipped.Render("◼︎"), " ",
			styleHighlight.Render(result.Label), " (",
			styleSkipped.Render("skipped"), ")",
		)
	case result.Passed:
		line = lipgloss.JoinHorizontal(lipgloss.Left,
			stylePassed.Render("✔"), " ",
			styleHighlight.Render(result.Label), " (",
			stylePassed.Render(status), ")",
		)
	default:
		line = lipgloss.JoinHorizontal(lipgloss.Left,
			styleFailed.Render("✘"), " ",
			styleHighlight.Render(result.Label), " (",
			styleFailed.Render(status), ")",
		)
	}

	if result.Detail == "" || result.Skipped {
		return styleListItem.Render(line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, styleListItem.Render(line), styleDetail.Render(result.Detail))
}

func renderHealthReport(report *probe.Report, target string) string {
	lines := []string{
		styleHeading.Render(fmt.Sprintf("Checking %s (target %s, run %s):",
			styleHighlight.Render(report.BaseURL), wrapNotSet(target), report.RunID)),
		"",
	}

	for _, r := range report.Results {
		lines = append(lines, checkLine(r))
	}

	if len(report.Dependencies) > 0 {
		lines = append(lines, styleHeading.Render("Dependencies:"), "")
		for _, r := range report.Dependencies {
			lines = append(lines, checkLine(r))
		}
	}

	lines = append(lines, healthSummary(report))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func healthSummary(report *probe.Report) string {
	passed, total := 0, 0
	for _, r := range append(append([]probe.CheckResult{}, report.Results...), report.Dependencies...) {
		total++
		if r.Passed {
			passed++
		}
	}
	counts := fmt.Sprintf("%d of %d checks passed in %s", passed, total, report.Duration.Round(time.Millisecond))

	if report.Interrupted {
		return styleWarningBox.Render(lipgloss.JoinVertical(lipgloss.Left,
			"⏹  run interrupted; remaining checks were skipped",
			counts,
		))
	}

	switch report.Outcome {
	case probe.OutcomeHealthy:
		return styleSuccessBox.Render(lipgloss.JoinVertical(lipgloss.Left,
			"🚀 service is "+stylePassed.Render("healthy"),
			counts,
		))
	case probe.OutcomeEmpty:
		return styleWarningBox.Render(lipgloss.JoinVertical(lipgloss.Left,
			"🫙 service is healthy, but holds "+styleFailed.Render("no data"),
			counts,
			"To populate it with the configured fixtures, you can use the following command:",
			styleCommandBlock.Render(styleCommand.Render("smoketest seed")+styleParam.Render(" --base-url "+report.BaseURL)),
		))
	case probe.OutcomeUnreachable:
		return styleFailureBox.Render(lipgloss.JoinVertical(lipgloss.Left,
			"🔌 service at "+styleHighlight.Render(report.BaseURL)+" is "+styleFailed.Render("unreachable"),
			"Make sure the service is running and listening on this address.",
		))
	default:
		return styleFailureBox.Render(lipgloss.JoinVertical(lipgloss.Left,
			"😵 service is "+styleFailed.Render("unhealthy"),
			counts,
		))
	}
}

func seedLine(result seed.SeedResult) string {
	status := "no response"
	if result.HTTPStatus != nil {
		status = fmt.Sprintf("%d", *result.HTTPStatus)
	}

	var line string
	switch {
	case result.Skipped:
		line = lipgloss.JoinHorizontal(lipgloss.Left,
			styleSkipped.Render("◼︎"), " ",
			styleHighlight.Render(result.DisplayName), " (",
			styleSkipped.Render("skipped"), ")",
		)
	case result.Succeeded:
		line = lipgloss.JoinHorizontal(lipgloss.Left,
			stylePassed.Render("✔"), " ",
			styleHighlight.Render(result.DisplayName), " (",
			stylePassed.Render(status), ")",
		)
	default:
		line = lipgloss.JoinHorizontal(lipgloss.Left,
			styleFailed.Render("✘"), " ",
			styleHighlight.Render(result.DisplayName), " (",
			styleFailed.Render(status), ")",
		)
	}

	if result.Error == "" || result.Skipped {
		return styleListItem.Render(line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, styleListItem.Render(line), styleDetail.Render(result.Error))
}

func renderSeedReport(report *seed.SeedReport) string {
	lines := []string{
		styleHeading.Render(fmt.Sprintf("Seeding %d fixtures to %s (run %s):",
			report.Total, styleHighlight.Render(report.BaseURL+report.Endpoint), report.RunID)),
		"",
	}

	for _, r := range report.Results {
		lines = append(lines, seedLine(r))
	}

	lines = append(lines, seedSummary(report))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func seedSummary(report *seed.SeedReport) string {
	counts := fmt.Sprintf("%d of %d fixtures seeded", report.Succeeded, report.Total)

	if report.Failed == 0 {
		return styleSuccessBox.Render("🌱 " + counts)
	}

	var names []string
	for _, f := range report.Failures() {
		names = append(names, styleFailed.Render(f.DisplayName))
	}

	heading := "🥀 " + counts
	if report.Interrupted {
		heading = "⏹  seeding interrupted; " + counts
	}

	return styleWarningBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		heading,
		"failed: "+strings.Join(names, ", "),
		"To retry only the failed fixtures, you can use the following command:",
		styleCommandBlock.Render(styleCommand.Render("smoketest seed")+styleParam.Render(" --only "+strings.Join(report.FailedIDs(), ","))),
	))
}

func wrapNotSet(s string) string {
	if s == "" {
		return styleNotSet.Render("<not set>")
	}

	return styleHighlight.Render(s)
}

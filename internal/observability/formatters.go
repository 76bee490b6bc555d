// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/sponsor-finder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer renders evaluation artifacts for humans. Colors are only emitted
// when the writer is a terminal.
type Printer struct {
	out     io.Writer
	box     lipgloss.Style
	title   lipgloss.Style
	success lipgloss.Style
	pending lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out: out,
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(boxWidth),
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		success: r.NewStyle().Foreground(lipgloss.Color("82")),
		pending: r.NewStyle().Foreground(lipgloss.Color("220")),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// printBox prints a bordered box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	body := p.title.Render(title) + "\n\n" + strings.TrimRight(content, "\n")
	fmt.Fprintln(p.out, p.box.Render(body))
}

// PrintLogs outputs the step log of a run, one line per entry.
func (p *Printer) PrintLogs(logs []types.WorkflowLog) {
	if len(logs) == 0 {
		return
	}

	var sb strings.Builder
	for _, entry := range logs {
		sb.WriteString(fmt.Sprintf("%s %s\n", p.statusMark(entry.Status), entry.Message))
	}
	p.printBox("AGENT STEPS", sb.String())
}

func (p *Printer) statusMark(status types.LogStatus) string {
	switch status {
	case types.LogSuccess:
		return p.success.Render("✓")
	case types.LogError:
		return p.failure.Render("✗")
	default:
		return p.pending.Render("…")
	}
}

// PrintBusinessInfo outputs the gathered business information.
func (p *Printer) PrintBusinessInfo(info *types.BusinessInfo) {
	if info == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:        %s\n", info.Name))
	sb.WriteString(fmt.Sprintf("Website:     %s\n", info.Website))
	if info.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", info.Description))
	}
	if len(info.Categories) > 0 {
		sb.WriteString(fmt.Sprintf("Categories:  %s\n", strings.Join(info.Categories, ", ")))
	}
	if len(info.RawItems) > 0 {
		sb.WriteString("\nSources:\n")
		count := min(len(info.RawItems), maxItemsToShow)
		for _, item := range info.RawItems[:count] {
			sb.WriteString(fmt.Sprintf("  • %s %s\n", item.Title, p.muted.Render(item.Link)))
		}
		if len(info.RawItems) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(info.RawItems)-maxItemsToShow))
		}
	}
	p.printBox("BUSINESS INFO", sb.String())
}

// PrintEvaluation outputs the profile, fit and summary of a completed run.
func (p *Printer) PrintEvaluation(result *types.EvaluationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Business:    %s\n", result.TrackingPayload.Sponsor.Name))
	sb.WriteString(fmt.Sprintf("Industry:    %s\n", result.Profile.Industry))
	sb.WriteString(fmt.Sprintf("Audience:    %s\n", result.Profile.Audience))
	sb.WriteString(fmt.Sprintf("Brand voice: %s\n", result.Profile.BrandVoice))
	sb.WriteString(fmt.Sprintf("Geography:   %s\n", result.Profile.Geography))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Score:       %d (%s)\n", result.Fit.Score, result.Fit.SuggestedSponsorshipType))
	for _, reason := range result.Fit.FitReasons {
		sb.WriteString(fmt.Sprintf("  • %s\n", reason))
	}
	sb.WriteString("\n")
	sb.WriteString(result.FinalSummary)
	p.printBox("SPONSOR EVALUATION", sb.String())
}

// PrintFailure outputs a failed run: the error and the steps reached.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFailure(businessName string, err error, logs []types.WorkflowLog) {
	fmt.Fprintln(p.out, p.failure.Render(fmt.Sprintf("Evaluation of %s failed: %v", businessName, err)))
	p.PrintLogs(logs)
}

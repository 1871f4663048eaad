// Package observability provides logging setup and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonathan/records-bot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxMemoryToShow is how many of the latest post ids are listed
	maxMemoryToShow = 10
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		runes := []rune(s)
		return string(runes[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

// PrintRunSummary outputs the outcome of a pipeline run.
func (p *Printer) PrintRunSummary(runID string, changes, posted int, archived, dryRun bool) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:       %s\n", runID))
	sb.WriteString(fmt.Sprintf("Changes:   %d\n", changes))
	if dryRun {
		sb.WriteString("Posted:    dry run\n")
	} else {
		sb.WriteString(fmt.Sprintf("Posted:    %d\n", posted))
	}
	sb.WriteString(fmt.Sprintf("Archived:  %t", archived))

	p.printBox("RUN SUMMARY", sb.String())
}

// PrintAnnouncements outputs each announcement under a numbered header.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAnnouncements(messages []string) {
	if len(messages) == 0 {
		p.printBox("ANNOUNCEMENTS", "No record changes.")
		return
	}
	for i, msg := range messages {
		fmt.Fprintf(p.out, "── Announcement %d/%d %s\n", i+1, len(messages), strings.Repeat("─", 20))
		fmt.Fprintln(p.out, msg)
		fmt.Fprintln(p.out)
	}
}

// PrintChanges renders change records as a table.
func (p *Printer) PrintChanges(changes []types.ChangeRecord) {
	if len(changes) == 0 {
		p.printBox("RECORD CHANGES", "No record changes.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Sex", "Category", "Discipline", "Before", "After"})
	for _, c := range changes {
		t.AppendRow(table.Row{c.Sex, c.Category.DisplayName(), c.Discipline, summarize(c.Before), summarize(c.After)})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(changes), ""})
	t.Render()
}

func summarize(e *types.Entry) string {
	if e == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s (%s)", e.Perf, e.Competitor, e.Country)
}

// PrintPostMemory lists the most recent post ids with their URLs.
func (p *Printer) PrintPostMemory(ids []types.PostID, urlFor func(types.PostID) string) {
	if len(ids) == 0 {
		p.printBox("POST MEMORY", "No posts recorded.")
		return
	}

	start := max(0, len(ids)-maxMemoryToShow)

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Post ID", "URL"})
	for i := start; i < len(ids); i++ {
		t.AppendRow(table.Row{i + 1, ids[i], urlFor(ids[i])})
	}
	t.AppendFooter(table.Row{"", "Total", len(ids)})
	t.Render()
}

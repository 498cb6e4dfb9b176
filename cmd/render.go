package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"propupkeep/internal/domain/issue"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	urgencyStyles = map[issue.Urgency]lipgloss.Style{
		issue.UrgencyHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		issue.UrgencyMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		issue.UrgencyLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	statusStyles = map[issue.Status]lipgloss.Style{
		issue.StatusOpen:         lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		issue.StatusAcknowledged: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		issue.StatusInProgress:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		issue.StatusMonitoring:   lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		issue.StatusResolved:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}
)

func styledUrgency(urgency issue.Urgency) string {
	if style, ok := urgencyStyles[urgency]; ok {
		return style.Render(string(urgency))
	}
	return string(urgency)
}

func styledStatus(status issue.Status) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(string(status))
	}
	return string(status)
}

func shortID(reportID string) string {
	if len(reportID) > 8 {
		return reportID[:8]
	}
	return reportID
}

func renderReportTable(reports []issue.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Property", "Unit", "Category", "Urgency", "Status", "Comments", "Updated"})

	for _, report := range reports {
		tw.AppendRow(table.Row{
			shortID(report.ReportID),
			report.PropertyName,
			report.UnitNumber,
			string(report.Category),
			styledUrgency(report.Urgency),
			styledStatus(report.Status),
			len(report.Comments),
			report.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 7, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func renderReportDetail(report issue.Report) string {
	var b strings.Builder

	location := report.PropertyName + " / " + report.Building + " / unit " + report.UnitNumber
	if report.Area != "" {
		location += " / " + report.Area
	}

	fmt.Fprintln(&b, titleStyle.Render(report.Issue))
	fmt.Fprintln(&b, dimStyle.Render(report.ReportID))
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%s  %s  %s\n", styledStatus(report.Status), styledUrgency(report.Urgency), string(report.Category))
	fmt.Fprintln(&b, location)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, sectionStyle.Render("Observation"))
	fmt.Fprintln(&b, report.ReportedObservation)
	if report.PhotoObservation != "" {
		fmt.Fprintln(&b, dimStyle.Render("photo: "+report.PhotoObservation))
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, sectionStyle.Render("Recommended Action"))
	fmt.Fprintln(&b, report.RecommendedAction)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, sectionStyle.Render("Recipients"))
	fmt.Fprintln(&b, strings.Join(report.Recipients, ", "))

	if entities := renderEntities(report.ExtractedEntities); entities != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, sectionStyle.Render("Extracted Entities"))
		fmt.Fprintln(&b, entities)
	}

	if report.NeedsFollowup {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, sectionStyle.Render("Follow-up Questions"))
		for _, question := range report.FollowupQuestions {
			fmt.Fprintf(&b, "  - %s\n", question)
		}
	}

	if len(report.Comments) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, sectionStyle.Render("Comments"))
		for _, comment := range report.Comments {
			fmt.Fprintf(&b, "  [%s] %s (%s): %s\n",
				comment.CreatedAt.Local().Format(time.DateTime),
				comment.AuthorName,
				string(comment.AuthorRole),
				comment.Message,
			)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, dimStyle.Render(fmt.Sprintf("confidence: category %.2f, urgency %.2f",
		report.Confidence.Category, report.Confidence.Urgency)))
	fmt.Fprintln(&b, dimStyle.Render(fmt.Sprintf("created %s, updated %s",
		report.CreatedAt.Local().Format(time.DateTime),
		report.UpdatedAt.Local().Format(time.DateTime))))

	return b.String()
}

func renderEntities(entities issue.ExtractedEntities) string {
	var parts []string
	appendGroup := func(label string, terms []string) {
		if len(terms) > 0 {
			parts = append(parts, fmt.Sprintf("  %s: %s", label, strings.Join(terms, ", ")))
		}
	}
	appendGroup("locations", entities.LocationTerms)
	appendGroup("people", entities.PeopleTerms)
	appendGroup("assets", entities.AssetTerms)
	appendGroup("animals", entities.AnimalTerms)
	appendGroup("quantities", entities.QuantityTerms)
	return strings.Join(parts, "\n")
}

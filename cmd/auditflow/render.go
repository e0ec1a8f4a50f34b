package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/viant/auditflow/model"
	"github.com/viant/auditflow/report"
	"github.com/viant/auditflow/service/scenario"
	"github.com/viant/auditflow/service/workflow"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const dateTimeLayout = "2006-01-02 15:04"

func statusStyle(status string) lipgloss.Style {
	switch status {
	case string(model.NCARStatusClosed), string(model.NCARStatusValidated), string(model.AuditStatusCompleted):
		return okStyle
	case string(model.NCARStatusActionPlanSubmitted), string(model.AuditStatusActual):
		return warnStyle
	case string(model.NCARStatusRejected), string(model.NCARStatusReopened):
		return errStyle
	}
	return defaultStyle
}

func severityStyle(severity model.Severity) lipgloss.Style {
	switch severity {
	case model.SeveritySuccess:
		return okStyle
	case model.SeverityWarning:
		return warnStyle
	}
	return defaultStyle
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// grid lays rows out under header. When statusCol is a column index its
// cells are colored by status.
func grid(header []string, rows [][]string, statusCol int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderStyle(mutedStyle).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == statusCol && row >= 0 && row < len(rows) && col < len(rows[row]):
				return statusStyle(rows[row][col]).Padding(0, 1)
			}
			return cellStyle
		})
	return t.String()
}

func section(title, body string) string {
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), panelStyle.Render(body))
}

func renderPlans(w io.Writer, plans []*model.AuditPlan) {
	var rows [][]string
	for _, p := range plans {
		lock := ""
		if p.Locked {
			lock = "locked"
		}
		rows = append(rows, []string{
			p.ID,
			p.StartDate + " .. " + p.EndDate,
			strings.Join(p.Auditors, ", "),
			strings.Join(p.Auditees, ", "),
			string(p.Status),
			mutedStyle.Render(lock),
		})
	}
	fmt.Fprintln(w, section("Audit Plans", grid([]string{"ID", "Period", "Auditors", "Auditees", "Status", ""}, rows, 4)))
}

func renderNCARs(w io.Writer, ncars []*model.NCAR, now time.Time) {
	var rows [][]string
	for _, n := range ncars {
		deadline := n.Deadline.Format(model.DateLayout)
		if n.Overdue(now) {
			deadline = errStyle.Render(deadline + " overdue")
		}
		rows = append(rows, []string{
			n.ID,
			string(n.FindingType),
			n.StandardClause,
			n.Area,
			n.Auditee,
			deadline,
			string(n.Status),
		})
	}
	fmt.Fprintln(w, section("NCARs", grid([]string{"ID", "Type", "Clause", "Area", "Auditee", "Deadline", "Status"}, rows, 6)))
}

func renderReviewQueue(w io.Writer, items []*workflow.ReviewItem) {
	var rows [][]string
	for _, item := range items {
		plan := errStyle.Render("plan missing")
		if !item.PlanMissing {
			plan = item.ActionPlan.ID + " by " + item.ActionPlan.ResponsiblePerson
		}
		rows = append(rows, []string{item.NCAR.ID, item.NCAR.Auditee, plan})
	}
	fmt.Fprintln(w, section("Awaiting Review", grid([]string{"NCAR", "Auditee", "Action Plan"}, rows, -1)))
}

func renderNotifications(w io.Writer, items []*model.Notification) {
	var rows [][]string
	for _, n := range items {
		rows = append(rows, []string{
			mutedStyle.Render(n.Timestamp.Format(dateTimeLayout)),
			severityStyle(n.Severity).Render(string(n.Severity)),
			n.Message,
		})
	}
	fmt.Fprintln(w, section("Notifications", grid([]string{"Time", "Type", "Message"}, rows, -1)))
}

func counts(items []report.Count) string {
	var parts []string
	for _, c := range items {
		parts = append(parts, fmt.Sprintf("%s %d", c.Name, c.Value))
	}
	if len(parts) == 0 {
		return mutedStyle.Render("none")
	}
	return strings.Join(parts, ", ")
}

func renderDashboard(w io.Writer, d *report.Dashboard) {
	rows := [][]string{
		{"Total audits", fmt.Sprint(d.TotalAudits)},
		{"Total NCARs", fmt.Sprint(d.TotalNCARs)},
		{"Open", fmt.Sprint(d.OpenNCARs)},
		{"Unresolved", fmt.Sprint(d.UnresolvedNCARs)},
		{"Closed", okStyle.Render(fmt.Sprint(d.ClosedNCARs))},
		{"Overdue", errStyle.Render(fmt.Sprint(d.OverdueNCARs))},
		{"Avg TAT (days)", fmt.Sprintf("%.2f", d.AvgTATDays)},
		{"Completion", fmt.Sprintf("%.0f%%", d.CompletionRate*100)},
		{"By area", counts(d.ByArea)},
		{"By finding type", counts(d.ByFindingType)},
		{"By status", counts(d.ByStatus)},
		{"Audits by status", counts(d.ByAuditStatus)},
	}
	for _, t := range d.TATTrend {
		rows = append(rows, []string{"TAT " + t.Month, fmt.Sprintf("%.2f days, %d closed", t.AvgDays, t.Closed)})
	}
	fmt.Fprintln(w, section("Dashboard", grid([]string{"Metric", "Value"}, rows, -1)))
}

func renderResults(w io.Writer, results []*scenario.Result) {
	var rows [][]string
	for _, r := range results {
		outcome := okStyle.Render("ok")
		if r.Err != nil {
			if kind := scenario.KindName(r.Err); kind != "" {
				outcome = warnStyle.Render(kind)
			} else {
				outcome = errStyle.Render("error")
			}
		}
		rows = append(rows, []string{
			fmt.Sprint(r.Index),
			r.Op,
			r.As,
			r.ID,
			r.Status,
			outcome,
		})
	}
	fmt.Fprintln(w, section("Scenario", grid([]string{"#", "Op", "As", "ID", "Status", "Outcome"}, rows, 4)))
}

package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/agency/internal/ledger"
)

// DashboardModel shows the agency's balance, recurring revenue and cost and
// the trailing monthly series.
type DashboardModel struct {
	CommonModel
	ledgerService *ledger.Service

	summary *ledger.Summary
	spinner spinner.Model
	loading bool
	status  string
	err     error
}

func NewDashboardModel(svc *ledger.Service) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{ledgerService: svc, spinner: s, loading: true}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | m: materialize now | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		m.loading = false
		m.err = msg.err
		m.summary = msg.summary

		return m, nil

	case materializeMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Materialization failed: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Materialized %d entries (%d skipped).", len(msg.result.Inserted), len(msg.result.Skipped))
		m.loading = true

		return m, tea.Batch(m.spinner.Tick, m.loadCmd())

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		case "m":
			m.status = "Materializing..."
			return m, m.materializeCmd()
		}
	}

	if m.loading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " Loading summary...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	s := m.summary

	label := lipgloss.NewStyle().Width(28)
	figures := lipgloss.JoinVertical(lipgloss.Left,
		label.Render("Total balance")+FormatAmount(s.TotalBalance),
		label.Render("Monthly recurring revenue")+successStyle.Render(FormatAmount(s.MonthlyRecurringRevenue)),
		label.Render("Monthly recurring cost")+errorStyle.Render(FormatAmount(s.MonthlyRecurringCost)),
	)

	var series strings.Builder
	fmt.Fprintf(&series, "%-10s %14s %14s\n", "Month", "Income", "Expense")

	for _, mt := range s.Series {
		fmt.Fprintf(&series, "%-10s %14s %14s\n", mt.Month.Label(), FormatAmount(mt.Income), FormatAmount(mt.Expense))
	}

	parts := []string{
		lipgloss.NewStyle().Bold(true).Render("Agency overview"),
		"",
		figures,
		"",
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(strings.TrimRight(series.String(), "\n")),
	}

	if s.Stale {
		parts = append(parts, errorStyle.Render("Ledger could not be synced; figures may be out of date."))
	}

	if s.Excluded > 0 {
		parts = append(parts, faintStyle.Render(fmt.Sprintf("%d malformed transactions left out.", s.Excluded)))
	}

	if m.status != "" {
		parts = append(parts, "", faintStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

type summaryMsg struct {
	summary *ledger.Summary
	err     error
}

type materializeMsg struct {
	result *ledger.Result
	err    error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		s, err := m.ledgerService.Summary(ctx)

		return summaryMsg{summary: s, err: err}
	}
}

func (m DashboardModel) materializeCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.ledgerService.Sync(ctx)

		return materializeMsg{result: res, err: err}
	}
}

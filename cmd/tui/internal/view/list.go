package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
	"github.com/MrJamesThe3rd/agency/internal/ledger"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

// ListModel browses the ledger. Each load syncs the ledger first.
type ListModel struct {
	CommonModel
	txService     *transaction.Service
	ledgerService *ledger.Service

	table table.Model
	txs   []*transaction.Transaction

	typeFilterIdx      int
	recurringFilterIdx int
	dateFilterIdx      int

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string
}

func NewListModel(txSvc *transaction.Service, ledgerSvc *ledger.Service) ListModel {
	return ListModel{
		txService:     txSvc,
		ledgerService: ledgerSvc,
		table: newTable([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Type", Width: 8},
			{Title: "Amount", Width: 12},
			{Title: "Category", Width: 14},
			{Title: "Description", Width: 40},
			{Title: "Invoice", Width: 28},
		}),
		loading: true,
	}
}

func (m ListModel) Title() string { return "Ledger" }

func (m ListModel) ShortHelp() string {
	return "Esc: back | t: type | k: kind | d: date | x: delete | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.txs = msg.txs
		m.status = ""

		if msg.syncErr != nil {
			m.status = fmt.Sprintf("Ledger sync failed, showing stored entries: %v", msg.syncErr)
		}

		m.refreshTable()

		return m, nil

	case deleteMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Cannot delete: %v", msg.err)
			return m, nil
		}

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "k":
			m.recurringFilterIdx = (m.recurringFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "x":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.txs) {
				return m, m.deleteCmd(m.txs[idx].ID)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	typeLabels := []string{"All", "Income", "Expense"}
	recurringLabels := []string{"All", "Recurring", "Manual"}
	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [k] Kind: %s | [d] Date: %s",
		activeStyle(typeLabels[m.typeFilterIdx]),
		activeStyle(recurringLabels[m.recurringFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) applyFilter() {
	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = new(transaction.TypeIncome)
	case 2:
		m.filter.Type = new(transaction.TypeExpense)
	default:
		m.filter.Type = nil
	}

	switch m.recurringFilterIdx {
	case 1:
		m.filter.Recurring = new(true)
	case 2:
		m.filter.Recurring = new(false)
	default:
		m.filter.Recurring = nil
	}

	today := calendar.Today(time.Now())

	switch m.dateFilterIdx {
	case 1:
		s, e := TimeframeThisMonth.Range(today)
		m.filter.StartDate, m.filter.EndDate = &s, &e
	case 2:
		s, e := TimeframeLastMonth.Range(today)
		m.filter.StartDate, m.filter.EndDate = &s, &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		amount := FormatAmount(tx.Amount)
		if tx.Type == transaction.TypeExpense {
			amount = "-" + amount
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			amount,
			tx.Category,
			tx.Description,
			tx.InvoiceID,
		})
	}

	m.table.SetRows(rows)
}

type loadListMsg struct {
	txs     []*transaction.Transaction
	syncErr error
	err     error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, syncErr := m.ledgerService.Sync(ctx)

		txs, err := m.txService.List(ctx, filter)

		return loadListMsg{txs: txs, syncErr: syncErr, err: err}
	}
}

type deleteMsg struct {
	err error
}

func (m ListModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.txService.Delete(ctx, id)
		if errors.Is(err, transaction.ErrRecurringEntry) {
			err = errors.New("generated entries stay in the ledger; pause or cancel the agreement instead")
		}

		return deleteMsg{err: err}
	}
}

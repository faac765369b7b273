package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/ledger"
)

type ExpensesModel struct {
	CommonModel
	expenseService *expense.Service
	ledgerService  *ledger.Service

	state    agreementState
	table    table.Model
	expenses []*expense.RecurringExpense
	form     *huh.Form
	status   string
	err      error
}

func NewExpensesModel(svc *expense.Service, ledgerSvc *ledger.Service) ExpensesModel {
	return ExpensesModel{
		expenseService: svc,
		ledgerService:  ledgerSvc,
		table: newTable([]table.Column{
			{Title: "Description", Width: 30},
			{Title: "Category", Width: 16},
			{Title: "Amount", Width: 12},
			{Title: "Start", Width: 12},
			{Title: "Status", Width: 10},
		}),
	}
}

func (m ExpensesModel) Title() string { return "Recurring Expenses" }

func (m ExpensesModel) ShortHelp() string {
	if m.state == agreementStateCreate {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | p: pause/resume | c: cancel | r: refresh"
}

func (m ExpensesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadExpensesMsg:
		m.err = msg.err
		m.expenses = msg.expenses
		m.refreshTable()

		return m, nil

	case agreementSavedMsg:
		m.status = msg.status()
		m.state = agreementStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == agreementStateCreate {
		return m.updateCreate(msg)
	}

	return m.updateBrowse(msg)
}

func (m ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "n":
			return m.enterCreateMode()
		case "p":
			if e := m.selected(); e != nil {
				next := expense.StatusPaused
				if e.Status != expense.StatusActive {
					next = expense.StatusActive
				}

				return m, m.setStatusCmd(e.ID, next)
			}
		case "c":
			if e := m.selected(); e != nil {
				return m, m.setStatusCmd(e.ID, expense.StatusCancelled)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpensesModel) selected() *expense.RecurringExpense {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	return m.expenses[idx]
}

func (m ExpensesModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("description").Title("Description").Validate(required),
			huh.NewInput().Key("category").Title("Category").Placeholder(expense.DefaultCategory),
			huh.NewInput().Key("amount").Title("Monthly amount").Placeholder("99.90").Validate(positiveAmount),
			huh.NewInput().Key("start_date").Title("Start date").Placeholder("YYYY-MM-DD").Validate(validDate),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = agreementStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpensesModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = agreementStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m ExpensesModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	content := boxed(m.table.View())

	if m.state == agreementStateCreate && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel("New recurring expense", m.form.View()))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ExpensesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		status := string(e.Status)
		if e.Status == expense.StatusActive {
			status = activeStyle(status)
		}

		rows = append(rows, table.Row{
			e.Description,
			e.Category,
			FormatAmount(e.Amount),
			FormatDate(e.StartDate),
			status,
		})
	}

	m.table.SetRows(rows)
}

type loadExpensesMsg struct {
	expenses []*expense.RecurringExpense
	err      error
}

func (m ExpensesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		expenses, err := m.expenseService.List(ctx, expense.ListFilter{})

		return loadExpensesMsg{expenses: expenses, err: err}
	}
}

func (m ExpensesModel) createCmd() tea.Cmd {
	params := expense.CreateParams{
		Description: strings.TrimSpace(m.form.GetString("description")),
		Category:    strings.TrimSpace(m.form.GetString("category")),
	}
	amount, start := m.form.GetString("amount"), m.form.GetString("start_date")

	return func() tea.Msg {
		var err error

		params.Amount, params.StartDate, err = parseAgreement(amount, start)
		if err != nil {
			return agreementSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.expenseService.Create(ctx, params); err != nil {
			return agreementSavedMsg{err: err}
		}

		_, syncErr := m.ledgerService.Sync(ctx)

		return agreementSavedMsg{syncErr: syncErr}
	}
}

func (m ExpensesModel) setStatusCmd(id string, status expense.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.expenseService.SetStatus(ctx, id, status); err != nil {
			return agreementSavedMsg{err: err}
		}

		_, syncErr := m.ledgerService.Sync(ctx)

		return agreementSavedMsg{syncErr: syncErr}
	}
}

package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/ledger"
)

type agreementState int

const (
	agreementStateBrowse agreementState = iota
	agreementStateCreate
)

type ContractsModel struct {
	CommonModel
	contractService *contract.Service
	ledgerService   *ledger.Service

	state     agreementState
	table     table.Model
	contracts []*contract.Contract
	form      *huh.Form
	status    string
	err       error
}

func NewContractsModel(svc *contract.Service, ledgerSvc *ledger.Service) ContractsModel {
	return ContractsModel{
		contractService: svc,
		ledgerService:   ledgerSvc,
		table: newTable([]table.Column{
			{Title: "Client", Width: 24},
			{Title: "Title", Width: 28},
			{Title: "Amount", Width: 12},
			{Title: "Start", Width: 12},
			{Title: "Status", Width: 10},
		}),
	}
}

func (m ContractsModel) Title() string { return "Contracts" }

func (m ContractsModel) ShortHelp() string {
	if m.state == agreementStateCreate {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | p: pause/resume | c: cancel | r: refresh"
}

func (m ContractsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ContractsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadContractsMsg:
		m.err = msg.err
		m.contracts = msg.contracts
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

func (m ContractsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "n":
			return m.enterCreateMode()
		case "p":
			if c := m.selected(); c != nil {
				next := contract.StatusPaused
				if c.Status != contract.StatusActive {
					next = contract.StatusActive
				}

				return m, m.setStatusCmd(c.ID, next)
			}
		case "c":
			if c := m.selected(); c != nil {
				return m, m.setStatusCmd(c.ID, contract.StatusCancelled)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ContractsModel) selected() *contract.Contract {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.contracts) {
		return nil
	}

	return m.contracts[idx]
}

func (m ContractsModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("client_id").Title("Client ID").Validate(required),
			huh.NewInput().Key("client_name").Title("Client name").Validate(required),
			huh.NewInput().Key("title").Title("Title").Validate(required),
			huh.NewInput().Key("amount").Title("Monthly amount").Placeholder("1500.00").Validate(positiveAmount),
			huh.NewInput().Key("start_date").Title("Start date").Placeholder("YYYY-MM-DD").Validate(validDate),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = agreementStateCreate
	m.table.Blur()

	return m, m.form.Init()
}

func (m ContractsModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m ContractsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	content := boxed(m.table.View())

	if m.state == agreementStateCreate && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel("New contract", m.form.View()))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ContractsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.contracts))
	for _, c := range m.contracts {
		status := string(c.Status)
		if c.Status == contract.StatusActive {
			status = activeStyle(status)
		}

		rows = append(rows, table.Row{
			c.ClientName,
			c.Title,
			FormatAmount(c.Amount),
			FormatDate(c.StartDate),
			status,
		})
	}

	m.table.SetRows(rows)
}

type loadContractsMsg struct {
	contracts []*contract.Contract
	err       error
}

// agreementSavedMsg reports a contract or expense write and the ledger sync
// that followed it.
type agreementSavedMsg struct {
	err     error
	syncErr error
}

func (msg agreementSavedMsg) status() string {
	switch {
	case msg.err != nil:
		return fmt.Sprintf("Error saving: %v", msg.err)
	case msg.syncErr != nil:
		return fmt.Sprintf("Saved, but the ledger sync failed: %v", msg.syncErr)
	}

	return "Saved."
}

func (m ContractsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		contracts, err := m.contractService.List(ctx, contract.ListFilter{})

		return loadContractsMsg{contracts: contracts, err: err}
	}
}

func (m ContractsModel) createCmd() tea.Cmd {
	params := contract.CreateParams{
		ClientID:   strings.TrimSpace(m.form.GetString("client_id")),
		ClientName: strings.TrimSpace(m.form.GetString("client_name")),
		Title:      strings.TrimSpace(m.form.GetString("title")),
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

		if _, err := m.contractService.Create(ctx, params); err != nil {
			return agreementSavedMsg{err: err}
		}

		_, syncErr := m.ledgerService.Sync(ctx)

		return agreementSavedMsg{syncErr: syncErr}
	}
}

func (m ContractsModel) setStatusCmd(id string, status contract.Status) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.contractService.SetStatus(ctx, id, status); err != nil {
			return agreementSavedMsg{err: err}
		}

		_, syncErr := m.ledgerService.Sync(ctx)

		return agreementSavedMsg{syncErr: syncErr}
	}
}

package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/agency/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/agency/internal/backend"
	"github.com/MrJamesThe3rd/agency/internal/categorize"
	"github.com/MrJamesThe3rd/agency/internal/config"
	"github.com/MrJamesThe3rd/agency/internal/contract"
	"github.com/MrJamesThe3rd/agency/internal/expense"
	"github.com/MrJamesThe3rd/agency/internal/export"
	"github.com/MrJamesThe3rd/agency/internal/importer"
	"github.com/MrJamesThe3rd/agency/internal/ledger"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

type services struct {
	contracts    *contract.Service
	expenses     *expense.Service
	transactions *transaction.Service
	ledger       *ledger.Service
	importer     *importer.Service
	export       *export.Service
}

type model struct {
	svc services

	currentView View

	dashboardView view.DashboardModel
	contractsView view.ContractsModel
	expensesView  view.ExpensesModel
	listView      view.ListModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu View = iota
	ViewDashboard
	ViewContracts
	ViewExpenses
	ViewList
	ViewImport
	ViewExport
)

func newServices(stores *backend.Stores, locker ledger.Locker) services {
	var (
		tx         = transaction.NewService(stores.Transactions)
		categories = categorize.NewService(stores.Rules)
		ledgerSvc  = ledger.NewService(ledger.NewMaterializer(
			stores.Contracts, stores.Expenses, stores.Transactions, ledger.WithLocker(locker),
		))
	)

	return services{
		contracts:    contract.NewService(stores.Contracts),
		expenses:     expense.NewService(stores.Expenses),
		transactions: tx,
		ledger:       ledgerSvc,
		importer:     importer.NewService(tx, categories),
		export:       export.NewService(ledgerSvc, tx),
	}
}

func initialModel(svc services) model {
	return model{
		svc:           svc,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(svc.ledger),
		contractsView: view.NewContractsModel(svc.contracts, svc.ledger),
		expensesView:  view.NewExpensesModel(svc.expenses, svc.ledger),
		listView:      view.NewListModel(svc.transactions, svc.ledger),
		importView:    view.NewImportModel(svc.importer),
		exportView:    view.NewExportModel(svc.export),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.svc.ledger)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewContracts
				m.contractsView = view.NewContractsModel(m.svc.contracts, m.svc.ledger)

				return m, m.contractsView.Init()
			case "3":
				m.currentView = ViewExpenses
				m.expensesView = view.NewExpensesModel(m.svc.expenses, m.svc.ledger)

				return m, m.expensesView.Init()
			case "4":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.svc.transactions, m.svc.ledger)

				return m, m.listView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.svc.importer)

				return m, m.importView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.svc.export)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewContracts:
		var newModel tea.Model
		newModel, cmd = m.contractsView.Update(msg)
		m.contractsView = newModel.(view.ContractsModel)
	case ViewExpenses:
		var newModel tea.Model
		newModel, cmd = m.expensesView.Update(msg)
		m.expensesView = newModel.(view.ExpensesModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Agency\n\n" +
				"1. Dashboard\n" +
				"2. Contracts\n" +
				"3. Recurring Expenses\n" +
				"4. Ledger\n" +
				"5. Import Statement\n" +
				"6. Export Ledger\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewContracts:
		return m.contractsView.View()
	case ViewExpenses:
		return m.expensesView.View()
	case ViewList:
		return m.listView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	stores, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	locker, closeLocker, err := backend.Locker(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up ledger lock", "error", err)
		os.Exit(1)
	}
	defer closeLocker()

	// The terminal belongs to bubbletea; logs only go out when asked for.
	if path := os.Getenv("TUI_LOG_FILE"); path != "" {
		f, err := tea.LogToFile(path, "agency")
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()

		slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.App.LogLevel})))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	p := tea.NewProgram(initialModel(newServices(stores, locker)))
	if _, err := p.Run(); err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to run TUI", "error", err)
	}
}

package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/agency/internal/calendar"
	"github.com/MrJamesThe3rd/agency/internal/export"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

const (
	exportTimeout     = 2 * time.Minute
	defaultExportPath = "./exports/ledger.xlsx"
)

// ExportModel writes the ledger workbook for a chosen period to disk.
type ExportModel struct {
	CommonModel
	export *export.Service

	form    *huh.Form
	running bool
	spinner spinner.Model
	result  string
	err     error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		export:  svc,
		form:    newExportForm(),
		spinner: s,
	}
}

func newExportForm() *huh.Form {
	period := new(TimeframeThisMonth)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Timeframe]().Key("period").Title("Period").Options(timeframeOptions()...).Value(period),
		),
		huh.NewGroup(
			huh.NewInput().Key("start").Title("From").Placeholder("YYYY-MM-DD").Validate(validDate),
			huh.NewInput().Key("end").Title("To").Placeholder("YYYY-MM-DD").Validate(validDate),
		).WithHideFunc(func() bool { return *period != TimeframeCustom }),
		huh.NewGroup(
			huh.NewInput().Key("path").Title("Output file").Placeholder(defaultExportPath).Validate(xlsxPath),
		),
	).WithShowHelp(false)
}

func xlsxPath(s string) error {
	if s = strings.TrimSpace(s); s != "" && filepath.Ext(s) != ".xlsx" {
		return errors.New("file must end in .xlsx")
	}

	return nil
}

func (m ExportModel) Title() string { return "Export Ledger" }

func (m ExportModel) ShortHelp() string {
	if m.running {
		return "Exporting..."
	}

	return "Enter: next | Esc: back"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		m.running = false
		m.result, m.err = msg.path, msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc && !m.running {
			return m, Back
		}
	}

	if m.running {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.form.State == huh.StateCompleted {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	filter, err := m.filter()
	if err != nil {
		m.err = err
		return m, nil
	}

	path := strings.TrimSpace(m.form.GetString("path"))
	if path == "" {
		path = defaultExportPath
	}

	m.running = true

	return m, tea.Batch(m.spinner.Tick, m.writeCmd(filter, path))
}

// filter turns the completed form into a ledger date filter.
func (m ExportModel) filter() (transaction.ListFilter, error) {
	var f transaction.ListFilter

	period, _ := m.form.Get("period").(Timeframe)

	switch period {
	case TimeframeAll:
		return f, nil
	case TimeframeCustom:
		start, err := civil.ParseDate(strings.TrimSpace(m.form.GetString("start")))
		if err != nil {
			return f, fmt.Errorf("invalid start date: %w", err)
		}

		end, err := civil.ParseDate(strings.TrimSpace(m.form.GetString("end")))
		if err != nil {
			return f, fmt.Errorf("invalid end date: %w", err)
		}

		if end.Before(start) {
			return f, errors.New("end date is before start date")
		}

		f.StartDate, f.EndDate = &start, &end
	default:
		start, end := period.Range(calendar.Today(time.Now()))
		f.StartDate, f.EndDate = &start, &end
	}

	return f, nil
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1, 2)

	switch {
	case m.running:
		return pad.Render(m.spinner.View() + " Syncing ledger and writing workbook...")
	case m.err != nil:
		return pad.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.result != "":
		return pad.Render(successStyle.Render("Ledger written to " + m.result))
	}

	return pad.Render(formPanel("Export ledger", m.form.View()))
}

type exportDoneMsg struct {
	path string
	err  error
}

func (m ExportModel) writeCmd(filter transaction.ListFilter, path string) tea.Cmd {
	svc := m.export

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := writeWorkbook(ctx, svc, filter, path); err != nil {
			return exportDoneMsg{err: err}
		}

		return exportDoneMsg{path: path}
	}
}

func writeWorkbook(ctx context.Context, svc *export.Service, filter transaction.ListFilter, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := svc.Write(ctx, f, filter); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

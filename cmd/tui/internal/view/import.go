package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/agency/internal/importer"
	"github.com/MrJamesThe3rd/agency/internal/importer/statement"
	"github.com/MrJamesThe3rd/agency/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importStepForm importStep = iota
	importStepRunning
	importStepReview
	importStepDone
)

// ImportModel reads a bank statement into the ledger. Lines that match
// an existing transaction are held back for review.
type ImportModel struct {
	CommonModel
	importer *importer.Service

	step   importStep
	form   *huh.Form
	format string

	fresh   []transaction.CreateParams
	pending []transaction.Conflict
	keep    []bool
	review  table.Model

	status string
	err    error
}

func NewImportModel(svc *importer.Service) ImportModel {
	m := ImportModel{
		importer: svc,
		review: newTable([]table.Column{
			{Title: "", Width: 3},
			{Title: "Date", Width: 12},
			{Title: "Amount", Width: 12},
			{Title: "Incoming", Width: 30},
			{Title: "Already recorded as", Width: 30},
		}),
	}
	m.form = newImportForm()

	return m
}

func newImportForm() *huh.Form {
	formats := append([]string{importer.FormatAuto}, statement.Profiles()...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Key("format").Title("Statement format").Options(huh.NewOptions(formats...)...),
			huh.NewInput().Key("path").Title("CSV file").Placeholder("./statement.csv").Validate(readableFile),
		),
	).WithShowHelp(false)
}

func readableFile(s string) error {
	st, err := os.Stat(strings.TrimSpace(s))
	if err != nil {
		return errors.New("file not found")
	}

	if st.IsDir() {
		return errors.New("not a file")
	}

	return nil
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.step {
	case importStepReview:
		return "Space: keep/skip | a: keep all | Enter: save | Esc: discard"
	case importStepDone:
		return "Esc: back"
	}

	return "Enter: next | Esc: back"
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importedMsg:
		return m.handleImported(msg)

	case confirmedMsg:
		m.step = importStepDone
		m.err = msg.err
		m.status = fmt.Sprintf("Imported %d transactions.", msg.count)

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}
	}

	switch m.step {
	case importStepForm:
		return m.updateForm(msg)
	case importStepReview:
		return m.updateReview(msg)
	}

	return m, nil
}

func (m ImportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.format = m.form.GetString("format")
	path := strings.TrimSpace(m.form.GetString("path"))
	m.step = importStepRunning
	m.status = fmt.Sprintf("Reading %s...", path)

	return m, m.importCmd(m.format, path)
}

func (m ImportModel) handleImported(msg importedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.step = importStepDone
		m.err = msg.err
		m.status = fmt.Sprintf("Error: %v", msg.err)

		return m, nil
	}

	if len(msg.result.Conflicts) == 0 {
		m.step = importStepDone
		m.status = fmt.Sprintf("Imported %d transactions.", len(msg.result.Imported))

		return m, nil
	}

	m.step = importStepReview
	m.fresh = msg.result.New
	m.pending = msg.result.Conflicts
	m.keep = make([]bool, len(m.pending))
	m.refreshReview()
	m.review.Focus()

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.step == importStepForm || m.step == importStepRunning {
		return m, Back
	}

	m.step = importStepForm
	m.form = newImportForm()
	m.fresh, m.pending, m.keep = nil, nil, nil
	m.status, m.err = "", nil

	return m, m.form.Init()
}

func (m ImportModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case " ":
			if i := m.review.Cursor(); i >= 0 && i < len(m.keep) {
				m.keep[i] = !m.keep[i]
				m.refreshReview()
			}

			return m, nil
		case "a":
			for i := range m.keep {
				m.keep[i] = true
			}

			m.refreshReview()

			return m, nil
		case "enter":
			m.step = importStepRunning
			m.status = "Saving..."

			return m, m.confirmCmd()
		}
	}

	var cmd tea.Cmd
	m.review, cmd = m.review.Update(msg)

	return m, cmd
}

func (m *ImportModel) refreshReview() {
	rows := make([]table.Row, len(m.pending))

	for i, c := range m.pending {
		mark := "[ ]"
		if m.keep[i] {
			mark = "[x]"
		}

		rows[i] = table.Row{
			mark,
			FormatDate(c.Incoming.Date),
			FormatAmount(c.Incoming.Amount),
			c.Incoming.Description,
			c.Existing.Description,
		}
	}

	m.review.SetRows(rows)
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1, 2)

	switch m.step {
	case importStepForm:
		return pad.Render(formPanel("Import statement", m.form.View()))
	case importStepRunning:
		return pad.Render(m.status)
	case importStepReview:
		header := fmt.Sprintf("%d new lines ready. %d look like existing transactions; mark the ones to keep.",
			len(m.fresh), len(m.pending))

		return pad.Render(header + "\n\n" + boxed(m.review.View()))
	}

	style := successStyle
	if m.err != nil {
		style = errorStyle
	}

	return pad.Render(style.Render(m.status))
}

type importedMsg struct {
	result *transaction.ImportResult
	err    error
}

type confirmedMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(format, path string) tea.Cmd {
	svc := m.importer

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := svc.Import(ctx, format, f)

		return importedMsg{result: result, err: err}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	svc := m.importer
	params := append([]transaction.CreateParams(nil), m.fresh...)

	for i, c := range m.pending {
		if m.keep[i] {
			params = append(params, c.Incoming)
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := svc.Confirm(ctx, params)

		return confirmedMsg{count: len(txs), err: err}
	}
}

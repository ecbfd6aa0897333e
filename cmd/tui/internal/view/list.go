package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billed/internal/listing"
	"github.com/MrJamesThe3rd/billed/internal/route"
)

// ListModel shows the employee's bills.
type ListModel struct {
	CommonModel
	svc      *listing.Service
	navigate route.Navigator

	table   table.Model
	bills   []listing.DisplayBill
	loading bool
	err     error
}

func NewListModel(svc *listing.Service, navigate route.Navigator) ListModel {
	return ListModel{
		svc:      svc,
		navigate: navigate,
		table:    newBillTable(),
		loading:  true,
	}
}

func newBillTable() table.Model {
	columns := []table.Column{
		{Title: "Type", Width: 22},
		{Title: "Nom", Width: 24},
		{Title: "Date", Width: 12},
		{Title: "Montant", Width: 10},
		{Title: "Statut", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func billRows(bills []listing.DisplayBill) []table.Row {
	rows := make([]table.Row, 0, len(bills))
	for _, b := range bills {
		rows = append(rows, table.Row{
			b.Type,
			b.Name,
			b.DisplayDate,
			b.DisplayAmount,
			b.DisplayStatus,
		})
	}

	return rows
}

func (m ListModel) Title() string { return "Mes notes de frais" }
func (m ListModel) ShortHelp() string {
	return "n: nouvelle note de frais | r: rafraîchir | ctrl+l: déconnexion | ctrl+c: quitter"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadBillsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBillsMsg:
		m.loading = false
		m.err = msg.err
		m.bills = msg.bills
		m.table.SetRows(billRows(m.bills))

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "n":
			m.navigate(route.NewBill)
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadBillsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) View() string {
	if m.loading {
		return paddedStyle.Render("Chargement des notes de frais...")
	}

	if m.err != nil {
		return paddedStyle.Render(errorStyle.Render(fmt.Sprintf("Erreur: %v", m.err)) + "\n\n" + faintStyle.Render(m.ShortHelp()))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.Title()),
		"",
		tableView,
		faintStyle.Render(m.ShortHelp()),
	)

	if idx := m.table.Cursor(); idx >= 0 && idx < len(m.bills) {
		if b := m.bills[idx]; b.FileURL != "" {
			content += "\n" + fmt.Sprintf("Justificatif: %s", activeStyle(b.FileURL))
		}
	}

	return paddedStyle.Render(content)
}

func (m ListModel) loadBillsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		bills, err := m.svc.GetBills(ctx)

		return loadBillsMsg{bills: bills, err: err}
	}
}

type loadBillsMsg struct {
	bills []listing.DisplayBill
	err   error
}

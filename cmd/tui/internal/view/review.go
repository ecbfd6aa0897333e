package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/listing"
	"github.com/MrJamesThe3rd/billed/internal/review"
)

type reviewState int

const (
	reviewStateBrowse reviewState = iota
	reviewStateComment
)

// ReviewModel is the administrator dashboard of pending bills.
type ReviewModel struct {
	CommonModel
	svc *review.Service

	state   reviewState
	table   table.Model
	queue   []listing.DisplayBill
	form    *huh.Form
	comment *string

	decision bill.Status
	loading  bool
	status   string
	err      error
}

func NewReviewModel(svc *review.Service) ReviewModel {
	return ReviewModel{
		svc:     svc,
		table:   newBillTable(),
		comment: new(string),
		loading: true,
	}
}

func (m ReviewModel) Title() string { return "Validations" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateComment {
		return "Enter: valider | Esc: annuler"
	}

	return "a: accepter | x: refuser | r: rafraîchir | ctrl+l: déconnexion | ctrl+c: quitter"
}

func (m ReviewModel) Init() tea.Cmd {
	return m.loadPendingCmd()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadPendingMsg:
		m.loading = false
		m.err = msg.err
		m.queue = msg.bills
		m.table.SetRows(billRows(m.queue))

		return m, nil

	case decisionMsg:
		m.state = reviewStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Erreur: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Note %s: %s", msg.bill.ID, msg.bill.Status)

		return m, m.loadPendingCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == reviewStateComment {
		return m.updateComment(msg)
	}

	return m.updateBrowse(msg)
}

func (m ReviewModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "r":
			m.loading = true
			return m, m.loadPendingCmd()
		case "a":
			return m.enterComment(bill.StatusAccepted)
		case "x":
			return m.enterComment(bill.StatusRefused)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ReviewModel) enterComment(decision bill.Status) (tea.Model, tea.Cmd) {
	if idx := m.table.Cursor(); idx < 0 || idx >= len(m.queue) {
		return m, nil
	}

	*m.comment = ""
	m.decision = decision
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("comment").
				Title("Commentaire").
				Value(m.comment),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = reviewStateComment
	m.table.Blur()

	return m, m.form.Init()
}

func (m ReviewModel) updateComment(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = reviewStateBrowse
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

	return m, m.decideCmd(m.queue[m.table.Cursor()].ID, m.decision, *m.comment)
}

func (m ReviewModel) View() string {
	if m.loading {
		return paddedStyle.Render("Chargement...")
	}

	if m.err != nil {
		return paddedStyle.Render(errorStyle.Render(fmt.Sprintf("Erreur: %v", m.err)))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("%s (%d en attente)", m.Title(), len(m.queue))),
		"",
		tableView,
		faintStyle.Render(m.ShortHelp()),
	)

	if m.state == reviewStateComment && m.form != nil {
		b := m.queue[m.table.Cursor()]

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s, %s\n%s\n\n%s",
				activeStyle(string(m.decision)), b.Email, b.DisplayAmount, b.Commentary, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return paddedStyle.Render(content)
}

func (m ReviewModel) loadPendingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		bills, err := m.svc.Pending(ctx)

		return loadPendingMsg{bills: bills, err: err}
	}
}

func (m ReviewModel) decideCmd(id string, decision bill.Status, comment string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		var (
			b   *bill.Bill
			err error
		)

		if decision == bill.StatusAccepted {
			b, err = m.svc.Accept(ctx, id, comment)
		} else {
			b, err = m.svc.Refuse(ctx, id, comment)
		}

		return decisionMsg{bill: b, err: err}
	}
}

type loadPendingMsg struct {
	bills []listing.DisplayBill
	err   error
}

type decisionMsg struct {
	bill *bill.Bill
	err  error
}

package view

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/gateway"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/submission"
)

type newBillState int

const (
	newBillStateFilePick newBillState = iota
	newBillStateForm
	newBillStateSubmitting
)

type newBillValues struct {
	expenseType string
	name        string
	date        string
	amount      string
	vat         string
	pct         string
	commentary  string
}

func (v *newBillValues) form() submission.Form {
	return submission.ParseForm(map[string]string{
		submission.FieldType:       v.expenseType,
		submission.FieldName:       v.name,
		submission.FieldDate:       v.date,
		submission.FieldAmount:     v.amount,
		submission.FieldVAT:        v.vat,
		submission.FieldPct:        v.pct,
		submission.FieldCommentary: v.commentary,
	})
}

// NewBillModel uploads a proof picked from disk, then collects the bill
// fields. The form is usable while the upload is still running.
type NewBillModel struct {
	CommonModel
	svc      *submission.Service
	navigate route.Navigator

	state      newBillState
	filePicker filepicker.Model
	form       *huh.Form
	values     *newBillValues

	status string
	err    error
}

func NewNewBillModel(svc *submission.Service, navigate route.Navigator) NewBillModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := NewBillModel{
		svc:        svc,
		navigate:   navigate,
		filePicker: fp,
		values:     &newBillValues{expenseType: bill.Categories[0], pct: "20"},
	}
	m.form = m.buildForm()

	return m
}

func (m NewBillModel) Title() string { return "Envoyer une note de frais" }

func (m NewBillModel) ShortHelp() string {
	if m.state == newBillStateFilePick {
		return "Enter: choisir le justificatif (jpg, jpeg, png) | Esc: retour"
	}

	return "Tab: champ suivant | ctrl+f: autre justificatif | Esc: retour"
}

func (m NewBillModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m NewBillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadResultMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("Justificatif envoyé: %s", m.svc.Snapshot().FileName)
		} else {
			m.status = ""
		}

		return m, nil

	case submitResultMsg:
		m.state = newBillStateForm
		m.err = msg.err
		m.form = m.buildForm()

		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == newBillStateFilePick && m.svc.Snapshot().State != submission.Empty {
				m.state = newBillStateForm
				return m, nil
			}

			m.navigate(route.Bills)

			return m, nil
		}
	}

	switch m.state {
	case newBillStateFilePick:
		return m.updateFilePick(msg)
	case newBillStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m NewBillModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = newBillStateForm
		m.err = nil
		m.status = fmt.Sprintf("Envoi de %s...", filepath.Base(path))

		return m, tea.Batch(m.uploadCmd(path), m.form.Init())
	}

	return m, cmd
}

func (m NewBillModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+f" {
		m.state = newBillStateFilePick
		return m, m.filePicker.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = newBillStateSubmitting

	return m, m.submitCmd()
}

func (m NewBillModel) View() string {
	var body string

	switch m.state {
	case newBillStateFilePick:
		body = fmt.Sprintf("Justificatif:\n\n%s", m.filePicker.View())
	case newBillStateForm:
		body = m.form.View()
	case newBillStateSubmitting:
		body = "Envoi de la note de frais..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.Title()),
		"",
		body,
	)

	if m.status != "" {
		content += "\n" + faintStyle.Render(m.status)
	}

	if m.err != nil {
		content += "\n" + errorStyle.Render(describeSubmitError(m.err))
	}

	return paddedStyle.Render(content + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

func describeSubmitError(err error) string {
	var ve *submission.ValidationError

	switch {
	case errors.As(err, &ve):
		return fmt.Sprintf("Champ %s invalide: %s", ve.Field, ve.Reason)
	case errors.Is(err, submission.ErrUploadPending):
		return "Le justificatif est en cours d'envoi, réessayez dans un instant."
	case errors.Is(err, gateway.ErrNoStore):
		return "Hors ligne: aucun serveur configuré (API_URL), le justificatif n'a pas été envoyé."
	case errors.Is(err, submission.ErrNoFile):
		return "Choisissez d'abord un justificatif (ctrl+f)."
	}

	return fmt.Sprintf("Erreur: %v", err)
}

func (m NewBillModel) buildForm() *huh.Form {
	v := m.values

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key(submission.FieldType).
				Title("Type de dépense").
				Options(huh.NewOptions(bill.Categories...)...).
				Value(&v.expenseType),

			huh.NewInput().
				Key(submission.FieldName).
				Title("Nom de la dépense").
				Placeholder("Vol Paris Londres").
				Value(&v.name),

			huh.NewInput().
				Key(submission.FieldDate).
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&v.date),

			huh.NewInput().
				Key(submission.FieldAmount).
				Title("Montant TTC").
				Placeholder("348").
				Value(&v.amount),

			huh.NewInput().
				Key(submission.FieldVAT).
				Title("TVA").
				Placeholder("70").
				Value(&v.vat),

			huh.NewInput().
				Key(submission.FieldPct).
				Title("TVA %").
				Placeholder("20").
				Value(&v.pct),

			huh.NewText().
				Key(submission.FieldCommentary).
				Title("Commentaire").
				Value(&v.commentary),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m NewBillModel) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return uploadResultMsg{err: fmt.Errorf("reading %s: %w", path, err)}
		}

		ctx, cancel := RequestCtx()
		defer cancel()

		err = m.svc.HandleFileSelection(ctx, submission.File{
			Name:    filepath.Base(path),
			Content: content,
		})

		return uploadResultMsg{err: err}
	}
}

func (m NewBillModel) submitCmd() tea.Cmd {
	form := m.values.form()

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		return submitResultMsg{err: m.svc.HandleSubmit(ctx, form)}
	}
}

type uploadResultMsg struct {
	err error
}

type submitResultMsg struct {
	err error
}

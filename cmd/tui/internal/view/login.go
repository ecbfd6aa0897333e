package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/billed/internal/login"
)

type loginValues struct {
	email    string
	password string
}

type LoginModel struct {
	CommonModel
	svc *login.Service

	form    *huh.Form
	values  *loginValues
	loading bool
	err     error
}

func NewLoginModel(svc *login.Service) LoginModel {
	m := LoginModel{svc: svc, values: &loginValues{}}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string     { return "Billed" }
func (m LoginModel) ShortHelp() string { return "Enter: next | ctrl+c: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(loginResultMsg); ok {
		m.loading = false
		m.err = msg.err
		m.values.password = ""
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if m.loading {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.loading = true

	return m, m.loginCmd()
}

func (m LoginModel) View() string {
	body := m.form.View()
	if m.loading {
		body = "Connexion..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Billed"),
		"",
		body,
	)

	if m.err != nil {
		content += "\n" + errorStyle.Render(fmt.Sprintf("Erreur: %v", m.err))
	}

	return paddedStyle.Render(content)
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("E-mail").
				Placeholder("johndoe@email.com").
				Value(&m.values.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("adresse e-mail invalide")
					}
					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Mot de passe").
				EchoMode(huh.EchoModePassword).
				Value(&m.values.password),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) loginCmd() tea.Cmd {
	email, password := m.values.email, m.values.password

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		_, err := m.svc.Login(ctx, email, password)

		return loginResultMsg{err: err}
	}
}

type loginResultMsg struct {
	err error
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/billed/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/billed/internal/config"
	"github.com/MrJamesThe3rd/billed/internal/gateway"
	"github.com/MrJamesThe3rd/billed/internal/listing"
	"github.com/MrJamesThe3rd/billed/internal/login"
	"github.com/MrJamesThe3rd/billed/internal/logout"
	"github.com/MrJamesThe3rd/billed/internal/review"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
	"github.com/MrJamesThe3rd/billed/internal/submission"
)

type model struct {
	session *session.Context
	nav     *view.Navigation
	bills   gateway.Gateway

	loginService *login.Service
	listService  *listing.Service
	reviewSvc    *review.Service
	terminator   *logout.Terminator

	current     route.Path
	currentView tea.Model
}

func newModel(sess *session.Context, bills gateway.Gateway, auth login.Authenticator) model {
	nav := view.NewNavigation()

	return model{
		session:      sess,
		nav:          nav,
		bills:        bills,
		loginService: login.NewService(auth, sess, nav.Navigate),
		listService:  listing.NewService(bills),
		reviewSvc:    review.NewService(bills, sess, nav.Navigate),
		terminator:   logout.NewTerminator(sess, nav.Navigate),
	}
}

// start picks the first route from the stored session.
func (m model) start(ctx context.Context) model {
	m.current = route.Login

	if u, err := m.session.User(ctx); err == nil {
		m.current = login.Home(u.Type)
	} else if !errors.Is(err, session.ErrNoSession) {
		slog.Error("failed to read session", "error", err)
	}

	m.currentView = m.viewFor(m.current)

	return m
}

func (m model) viewFor(p route.Path) tea.Model {
	switch p {
	case route.Bills:
		return view.NewListModel(m.listService, m.nav.Navigate)
	case route.NewBill:
		svc := submission.NewService(m.bills, m.session, m.nav.Navigate)
		return view.NewNewBillModel(svc, m.nav.Navigate)
	case route.Dashboard:
		return view.NewReviewModel(m.reviewSvc)
	}

	return view.NewLoginModel(m.loginService)
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.currentView.Init(), m.nav.Wait())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			if m.current != route.Login {
				return m, m.logoutCmd()
			}
		}

	case view.NavigateMsg:
		m.current = msg.Path
		m.currentView = m.viewFor(msg.Path)

		return m, tea.Batch(m.currentView.Init(), m.nav.Wait())
	}

	var cmd tea.Cmd
	m.currentView, cmd = m.currentView.Update(msg)

	return m, cmd
}

func (m model) View() string {
	return m.currentView.View()
}

func (m model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := view.RequestCtx()
		defer cancel()

		// The terminator navigates to the login route even on failure.
		_ = m.terminator.HandleClick(ctx)

		return nil
	}
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		if cfg.Session.RedisAddr == "" {
			return nil, errors.New("SESSION_REDIS_ADDR is required for the redis session backend")
		}

		client := redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})

		return session.NewRedisStore(client, cfg.Session.RedisKey), nil
	case "file", "":
		path := cfg.Session.File
		if path == "" {
			p, err := session.DefaultFilePath()
			if err != nil {
				return nil, err
			}

			path = p
		}

		return session.NewFileStore(path), nil
	}

	return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the program; logs go to a file.
	if f, err := tea.LogToFile("billed.log", "billed"); err == nil {
		defer f.Close()
	}

	slog.SetLogLoggerLevel(cfg.LogLevel())

	store, err := newSessionStore(cfg)
	if err != nil {
		slog.Error("failed to open session", "error", err)
		os.Exit(1)
	}

	sess := session.New(store)

	var (
		bills gateway.Gateway     = gateway.None{}
		auth  login.Authenticator = gateway.None{}
	)

	if cfg.Client.APIURL != "" {
		client := gateway.NewClient(cfg.Client.APIURL, cfg.Client.Timeout, sess)
		bills, auth = client.Bills(), client
	} else {
		slog.Info("no API_URL configured, running without a remote store")
	}

	m := newModel(sess, bills, auth).start(context.Background())

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

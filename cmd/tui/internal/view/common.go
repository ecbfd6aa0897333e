package view

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/billed/internal/route"
)

type CommonModel struct {
	Width  int
	Height int
}

// NavigateMsg asks the root model to render the view for Path.
type NavigateMsg struct {
	Path route.Path
}

// Navigation turns route.Navigator calls made by services into NavigateMsg
// values for the bubbletea program.
type Navigation struct {
	ch chan route.Path
}

func NewNavigation() *Navigation {
	return &Navigation{ch: make(chan route.Path, 8)}
}

func (n *Navigation) Navigate(p route.Path) {
	select {
	case n.ch <- p:
	default:
		slog.Warn("dropped navigation request", "path", p)
	}
}

// Wait returns a command delivering the next navigation request. The root
// model issues it again after each NavigateMsg.
func (n *Navigation) Wait() tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: <-n.ch}
	}
}

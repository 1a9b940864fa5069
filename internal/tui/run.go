package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"negachess/internal/server/game"
)

func Run(games *game.Manager, players game.Players, fen string) error {
	m, err := NewModel(games, players, fen)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

package app

import (
	"github.com/llehouerou/reel/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	view := m.Browse.View()
	if m.ErrorMsg != "" {
		view += "\n" + styles.T().S().Error.Render(m.ErrorMsg)
	}
	return view
}

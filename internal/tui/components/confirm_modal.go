package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/hoard/internal/download"
	"github.com/mmcdole/hoard/internal/tui/styles"
)

// ConfirmModal asks before a bulk delete
type ConfirmModal struct {
	visible bool
	request download.DeleteRequest
}

// NewConfirmModal creates a hidden confirm modal
func NewConfirmModal() ConfirmModal {
	return ConfirmModal{}
}

// Show opens the modal for req
func (m *ConfirmModal) Show(req download.DeleteRequest) {
	m.visible = true
	m.request = req
}

// Hide closes the modal
func (m *ConfirmModal) Hide() {
	m.visible = false
	m.request = download.DeleteRequest{}
}

func (m ConfirmModal) IsVisible() bool {
	return m.visible
}

// Request returns the pending delete request
func (m ConfirmModal) Request() download.DeleteRequest {
	return m.request
}

// View renders the confirmation
func (m ConfirmModal) View() string {
	if !m.visible {
		return ""
	}

	title := styles.ModalTitleStyle.Render("Delete downloads?")
	body := lipgloss.NewStyle().Foreground(styles.LightGray).Render(m.request.Message)
	hint := styles.AccentStyle.Render("[Y]") + styles.DimStyle.Render(" Yes      ") +
		styles.AccentStyle.Render("[N]") + styles.DimStyle.Render(" No")

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		body,
		"",
		hint,
	))
}

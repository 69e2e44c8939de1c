package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/hoard/internal/pin"
	"github.com/mmcdole/hoard/internal/tui/styles"
)

// PinPurpose tells the caller what a PIN result is for
type PinPurpose int

const (
	PinPurposeUnlock PinPurpose = iota // Unlock the app at startup
	PinPurposeVerify                   // Confirm the current PIN before changing it
	PinPurposeSet                      // Choose a new PIN
)

// PinResult is returned once when the PIN modal closes
type PinResult struct {
	Purpose PinPurpose
	Pin     string
	OK      bool // false when cancelled
}

// PinModal is a masked 4-digit input driven by a pin.Dialog
type PinModal struct {
	visible bool
	purpose PinPurpose
	input   textinput.Model
	dialog  *pin.Dialog
	result  *PinResult // Written by the dialog callback
}

// NewPinModal creates a new PIN modal
func NewPinModal() PinModal {
	ti := textinput.New()
	ti.Placeholder = "••••"
	ti.CharLimit = pin.Length
	ti.Width = pin.Length + 1
	ti.Prompt = ""
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return PinModal{input: ti}
}

// Show opens the modal. secret is nil when no PIN exists; edit selects the
// account-editing flow.
func (m *PinModal) Show(purpose PinPurpose, secret pin.Secret, edit bool) {
	result := &PinResult{Purpose: purpose}
	m.visible = true
	m.purpose = purpose
	m.dialog = pin.NewDialog(secret, edit, func(value string, ok bool) {
		result.Pin = value
		result.OK = ok
	})
	m.result = result
	m.input.SetValue("")
	m.input.Focus()
}

// Hide dismisses the modal without reporting a result
func (m *PinModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m PinModal) IsVisible() bool {
	return m.visible
}

// Purpose returns what the open modal was shown for
func (m PinModal) Purpose() PinPurpose {
	return m.purpose
}

// Error returns the inline error currently shown
func (m PinModal) Error() string {
	if m.dialog == nil {
		return ""
	}
	return m.dialog.Error()
}

// Update handles input events. The returned result is non-nil exactly once,
// when the dialog resolves (accepted or cancelled).
func (m PinModal) Update(msg tea.Msg) (PinModal, tea.Cmd, *PinResult) {
	if !m.visible || m.dialog == nil {
		return m, nil, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PinModalKeys.Cancel):
			m.dialog.Cancel()
			return m.close()
		case key.Matches(keyMsg, PinModalKeys.Submit):
			if m.dialog.Submit() {
				return m.close()
			}
			return m, nil, nil
		case keyMsg.Type == tea.KeyRunes && !allDigits(keyMsg.Runes):
			return m, nil, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd, nil
	}

	if m.dialog.Change(m.input.Value()) == pin.EventIncorrect {
		m.input.SetValue("")
	}
	if m.dialog.Done() {
		var res *PinResult
		m, _, res = m.close()
		return m, cmd, res
	}
	return m, cmd, nil
}

func (m PinModal) close() (PinModal, tea.Cmd, *PinResult) {
	m.Hide()
	res := m.result
	m.result = nil
	return m, nil, res
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// View renders the PIN modal
func (m PinModal) View() string {
	if !m.visible || m.dialog == nil {
		return ""
	}

	const modalWidth = 28

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	errLine := ""
	if msg := m.dialog.Error(); msg != "" {
		errLine = styles.ErrorStyle.Render(msg)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.dialog.Title()),
		lineStyle.Render(""),
		lineStyle.Render(m.input.View()),
		lineStyle.Render(errLine),
		lineStyle.Render(styles.DimStyle.Render("enter done · esc cancel")),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Amber).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(content)
}

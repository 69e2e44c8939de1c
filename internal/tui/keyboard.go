package tui

import (
	"errors"
	"maps"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hoard/internal/domain"
	"github.com/mmcdole/hoard/internal/tui/components"
)

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// PIN modal takes every key while open, including the startup lock
	if m.PinModal.IsVisible() {
		var cmd tea.Cmd
		var res *components.PinResult
		m.PinModal, cmd, res = m.PinModal.Update(msg)
		if res == nil {
			return m, cmd
		}
		next, resCmd := m.handlePinResult(*res)
		if cmd == nil {
			return next, resCmd
		}
		return next, tea.Batch(cmd, resCmd)
	}

	if m.State == StateLocked {
		if key.Matches(msg, Keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.ConfirmModal.IsVisible() {
		switch {
		case key.Matches(msg, Keys.Confirm):
			req := m.ConfirmModal.Request()
			m.ConfirmModal.Hide()
			spin := m.startLoading()
			return m, tea.Batch(DeleteCmd(m.VM, req), spin)
		case key.Matches(msg, Keys.Deny):
			m.ConfirmModal.Hide()
		}
		return m, nil
	}

	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	// Filter input owns the keyboard while typing
	if m.List.IsFiltering() {
		return m, m.List.Update(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.List.HasActiveFilter() {
			return m, m.List.Update(msg)
		}
		m.VM.ClearSelected()
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		spin := m.startLoading()
		return m, tea.Batch(UpdateListCmd(m.VM), spin)

	case key.Matches(msg, Keys.Toggle):
		if cur := m.List.Current(); cur != nil {
			if m.VM.IsSelected(cur.Show.ID) {
				m.VM.RemoveSelected(cur.Show.ID)
			} else {
				m.VM.AddSelected(cur.Show.ID, cur.Show.Name)
			}
		}
		return m, nil

	case key.Matches(msg, Keys.SelectAll):
		sel := maps.Clone(m.Selected)
		if sel == nil {
			sel = make(map[int]string)
		}
		for _, item := range m.List.Items() {
			sel[item.Show.ID] = item.Show.Name
		}
		m.VM.SetSelected(sel)
		return m, nil

	case key.Matches(msg, Keys.Delete):
		req, err := m.VM.RequestDelete()
		if errors.Is(err, domain.ErrNothingSelected) {
			m.logger.Debug("delete requested with empty selection")
			cmd := m.setStatus("Nothing selected", false)
			return m, cmd
		}
		m.ConfirmModal.Show(req)
		return m, nil

	case key.Matches(msg, Keys.SetPin):
		if m.Account.HasPin() {
			m.PinModal.Show(components.PinPurposeVerify, m.Accounts.Secret(m.Account), true)
		} else {
			m.PinModal.Show(components.PinPurposeSet, nil, true)
		}
		return m, nil
	}

	return m, m.List.Update(msg)
}

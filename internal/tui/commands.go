package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hoard/internal/account"
	"github.com/mmcdole/hoard/internal/download"
)

// Command factories for async operations

// UpdateListCmd rebuilds the download list in the background. The list itself
// arrives through the Headers subscription.
func UpdateListCmd(vm *download.ViewModel) tea.Cmd {
	return func() tea.Msg {
		visual := <-vm.UpdateListAsync()
		return ListUpdatedMsg{Count: len(visual)}
	}
}

// DeleteCmd deletes everything in req
func DeleteCmd(vm *download.ViewModel, req download.DeleteRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := vm.ConfirmDelete(ctx, req); err != nil {
			return ErrMsg{Err: err, Context: "deleting downloads"}
		}
		return DeletedMsg{Names: req.Names}
	}
}

// SavePinCmd stores a new PIN for the account
func SavePinCmd(svc *account.Service, accountID, value string) tea.Cmd {
	return func() tea.Msg {
		acc, err := svc.SetPin(accountID, value)
		if err != nil {
			return ErrMsg{Err: err, Context: "saving pin"}
		}
		return PinSavedMsg{Account: acc}
	}
}

// RefreshTickCmd schedules the next periodic refresh. A non-positive
// interval disables it.
func RefreshTickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return RefreshTickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

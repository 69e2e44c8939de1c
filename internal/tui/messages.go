package tui

import (
	"github.com/mmcdole/hoard/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// HeadersMsg carries a newly published download list
type HeadersMsg struct {
	Headers []domain.SummaryRecord
}

// SelectionMsg carries a newly published selection (header id -> name)
type SelectionMsg struct {
	Selected map[int]string
}

// StorageCounter names one of the storage footer values
type StorageCounter int

const (
	CounterUsed StorageCounter = iota
	CounterAvailable
	CounterDownloads
)

// StorageMsg carries one updated storage counter
type StorageMsg struct {
	Counter StorageCounter
	Bytes   int64
}

// ListUpdatedMsg signals that a list refresh finished
type ListUpdatedMsg struct {
	Count int
}

// DeletedMsg signals that a confirmed delete finished
type DeletedMsg struct {
	Names []string
}

// PinSavedMsg signals that the account PIN was stored
type PinSavedMsg struct {
	Account domain.Account
}

// RefreshTickMsg triggers a periodic list refresh
type RefreshTickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// TickMsg advances the loading spinner
type TickMsg struct{}

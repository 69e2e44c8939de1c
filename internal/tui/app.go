package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hoard/internal/account"
	"github.com/mmcdole/hoard/internal/domain"
	"github.com/mmcdole/hoard/internal/download"
	"github.com/mmcdole/hoard/internal/observe"
	"github.com/mmcdole/hoard/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateLocked ApplicationState = iota // Waiting for the startup PIN
	StateBrowsing
	StateHelp
)

// Vertical layout: header line, blank line, two footer lines
const ChromeHeight = 4

const (
	spinnerInterval = 100 * time.Millisecond
	statusTimeout   = 3 * time.Second
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	VM       *download.ViewModel
	Accounts *account.Service
	Account  domain.Account

	// UI Components
	List         *components.DownloadList
	PinModal     components.PinModal
	ConfirmModal components.ConfirmModal

	// Observed state
	Selected map[int]string
	Counters [3]int64 // Indexed by StorageCounter

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	Loading      bool
	SpinnerFrame int

	refreshInterval time.Duration
	logger          *slog.Logger

	// Subscriptions
	headers   <-chan []domain.SummaryRecord
	selection <-chan map[int]string
	counters  [3]<-chan int64
	cancels   []func()
}

// NewModel creates a new application model. The model starts locked when the
// account has a PIN.
func NewModel(
	vm *download.ViewModel,
	accounts *account.Service,
	acc domain.Account,
	refreshInterval time.Duration,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}

	m := Model{
		State:           StateBrowsing,
		VM:              vm,
		Accounts:        accounts,
		Account:         acc,
		List:            components.NewDownloadList(),
		PinModal:        components.NewPinModal(),
		ConfirmModal:    components.NewConfirmModal(),
		Selected:        map[int]string{},
		Loading:         true,
		refreshInterval: refreshInterval,
		logger:          logger,
	}

	var cancel func()
	m.headers, cancel = vm.Headers.Subscribe(1)
	m.cancels = append(m.cancels, cancel)
	m.selection, cancel = vm.Selected.Subscribe(1)
	m.cancels = append(m.cancels, cancel)
	for i, v := range []*observe.Value[int64]{vm.UsedBytes, vm.AvailableBytes, vm.DownloadBytes} {
		m.counters[i], cancel = v.Subscribe(1)
		m.cancels = append(m.cancels, cancel)
	}

	if acc.HasPin() {
		m.State = StateLocked
		m.PinModal.Show(components.PinPurposeUnlock, accounts.Secret(acc), false)
	}
	return m
}

// Close releases the view model subscriptions
func (m Model) Close() {
	for _, cancel := range m.cancels {
		cancel()
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.observeHeaders(),
		m.observeSelection(),
		UpdateListCmd(m.VM),
		RefreshTickCmd(m.refreshInterval),
		TickCmd(spinnerInterval),
	}
	for c := range m.counters {
		cmds = append(cmds, m.observeCounter(StorageCounter(c)))
	}
	return tea.Batch(cmds...)
}

func (m Model) observeHeaders() tea.Cmd {
	return ObserveCmd(m.headers, func(h []domain.SummaryRecord) tea.Msg {
		return HeadersMsg{Headers: h}
	})
}

func (m Model) observeSelection() tea.Cmd {
	return ObserveCmd(m.selection, func(sel map[int]string) tea.Msg {
		return SelectionMsg{Selected: sel}
	})
}

func (m Model) observeCounter(c StorageCounter) tea.Cmd {
	return ObserveCmd(m.counters[c], func(b int64) tea.Msg {
		return StorageMsg{Counter: c, Bytes: b}
	})
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.List.SetSize(m.Width, m.Height-ChromeHeight)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		if !m.Loading {
			return m, nil
		}
		m.SpinnerFrame++
		return m, TickCmd(spinnerInterval)

	case HeadersMsg:
		m.List.SetItems(msg.Headers)
		return m, m.observeHeaders()

	case SelectionMsg:
		m.Selected = msg.Selected
		return m, m.observeSelection()

	case StorageMsg:
		m.Counters[msg.Counter] = msg.Bytes
		return m, m.observeCounter(msg.Counter)

	case ListUpdatedMsg:
		m.Loading = false
		return m, nil

	case RefreshTickMsg:
		return m, tea.Batch(UpdateListCmd(m.VM), RefreshTickCmd(m.refreshInterval))

	case DeletedMsg:
		m.Loading = false
		cmd := m.setStatus(deletedStatus(msg.Names), false)
		return m, cmd

	case PinSavedMsg:
		m.Account = msg.Account
		cmd := m.setStatus("PIN updated", false)
		return m, cmd

	case ErrMsg:
		m.Loading = false
		m.logger.Error(msg.Context, "error", msg.Err)
		cmd := m.setStatus(msg.Error(), true)
		return m, cmd

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Forward everything else (cursor blink) to whatever has focus
	if m.PinModal.IsVisible() {
		var cmd tea.Cmd
		m.PinModal, cmd, _ = m.PinModal.Update(msg)
		return m, cmd
	}
	return m, m.List.Update(msg)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

func (m *Model) startLoading() tea.Cmd {
	if m.Loading {
		return nil
	}
	m.Loading = true
	return TickCmd(spinnerInterval)
}

// handlePinResult acts on a closed PIN modal
func (m Model) handlePinResult(res components.PinResult) (tea.Model, tea.Cmd) {
	switch res.Purpose {
	case components.PinPurposeUnlock:
		if !res.OK {
			return m, tea.Quit
		}
		m.State = StateBrowsing
		return m, nil

	case components.PinPurposeVerify:
		if res.OK {
			m.PinModal.Show(components.PinPurposeSet, nil, true)
		}
		return m, nil

	case components.PinPurposeSet:
		if res.OK {
			return m, SavePinCmd(m.Accounts, m.Account.ID, res.Pin)
		}
		return m, nil
	}
	return m, nil
}

package tui

import tea "github.com/charmbracelet/bubbletea"

// ObserveCmd waits for the next value on ch and wraps it as a message.
// The receiver must re-issue the command to keep listening. Returns nil
// once ch is closed.
func ObserveCmd[T any](ch <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(v)
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mmcdole/hoard/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.PinModal.IsVisible() {
		return lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.PinModal.View())
	}

	if m.State == StateLocked {
		return ""
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	if m.ConfirmModal.IsVisible() {
		return lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.ConfirmModal.View())
	}

	content := m.List.View(func(id int) bool {
		_, ok := m.Selected[id]
		return ok
	})
	content = lipgloss.NewStyle().Height(m.Height - ChromeHeight + 1).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderStorageBar(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("Downloads")
	count := styles.DimStyle.Render(fmt.Sprintf("  %d items", m.List.ItemCount()))
	if n := len(m.Selected); n > 0 {
		count += styles.AccentStyle.Render(fmt.Sprintf("  %d selected", n))
	}
	return " " + title + count
}

// renderStorageBar renders the used/downloads/free split of the filesystem
func (m Model) renderStorageBar() string {
	// Downloads may live on another filesystem, so used can go negative
	used := max(0, m.Counters[CounterUsed])
	available := max(0, m.Counters[CounterAvailable])
	downloads := max(0, m.Counters[CounterDownloads])

	labels := styles.StorageUsedStyle.Render("Used "+humanize.IBytes(uint64(used))) +
		styles.DimStyle.Render(" · ") +
		styles.StorageDownloadStyle.Render("Downloads "+humanize.IBytes(uint64(downloads))) +
		styles.DimStyle.Render(" · ") +
		styles.StorageFreeStyle.Render("Free "+humanize.IBytes(uint64(available)))

	barWidth := m.Width - lipgloss.Width(labels) - 4
	total := used + downloads + available
	if barWidth < 10 || total <= 0 {
		return " " + labels
	}

	usedCells := int(int64(barWidth) * used / total)
	downloadCells := int(int64(barWidth) * downloads / total)
	freeCells := max(0, barWidth-usedCells-downloadCells)

	bar := styles.StorageUsedStyle.Render(strings.Repeat("█", usedCells)) +
		styles.StorageDownloadStyle.Render(strings.Repeat("█", downloadCells)) +
		styles.StorageFreeStyle.Render(strings.Repeat("░", freeCells))

	return " " + bar + "  " + labels
}

func (m Model) renderFooter() string {
	// Left side: spinner when loading, otherwise status message
	var left string
	switch {
	case m.Loading:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	}

	// Center: selection hints
	var center string
	if len(m.Selected) > 0 {
		center = styles.AccentStyle.Render("d") + styles.DimStyle.Render(" Delete  ") +
			styles.AccentStyle.Render("esc") + styles.DimStyle.Render(" Clear")
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(0, m.Width-leftWidth-rightWidth)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      SELECTION
  j/k        Up/down               Space  Toggle item
  g/Home     First item            a      Select all
  G/End      Last item             Esc    Clear selection
  PgUp/PgDn  Scroll page           d      Delete selected
  /          Filter

OTHER
  r          Refresh
  p          Set PIN
  q          Quit
  ?          This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// RenderSpinner renders a spinner frame
func RenderSpinner(frame int) string {
	return styles.AccentStyle.Render(styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])
}

func deletedStatus(names []string) string {
	if len(names) == 1 {
		return "Deleted " + names[0]
	}
	return fmt.Sprintf("Deleted %d items", len(names))
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mmcdole/hoard/internal/domain"
	"github.com/mmcdole/hoard/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Scroll indicators ("↑ more" and "↓ more") each take 1 line
const scrollIndicatorLines = 2

// DownloadList is a scrollable, filterable list of download summaries
type DownloadList struct {
	items []domain.SummaryRecord

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width  int
	height int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filteredIdx  []int // indices into items
}

// NewDownloadList creates an empty list
func NewDownloadList() *DownloadList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.AccentStyle

	return &DownloadList{filterInput: ti}
}

// SetItems replaces the list contents, keeping the cursor on the same show when possible
func (l *DownloadList) SetItems(items []domain.SummaryRecord) {
	var currentID int
	cur := l.Current()
	if cur != nil {
		currentID = cur.Show.ID
	}

	l.items = items
	if l.filterActive {
		l.applyFilter()
	}

	l.cursor = 0
	if cur != nil {
		for i := 0; i < l.ItemCount(); i++ {
			if l.items[l.mapIndex(i)].Show.ID == currentID {
				l.cursor = i
				break
			}
		}
	}
	l.ensureVisible()
}

// Items returns the visible items (after filtering)
func (l *DownloadList) Items() []domain.SummaryRecord {
	out := make([]domain.SummaryRecord, l.ItemCount())
	for i := range out {
		out[i] = l.items[l.mapIndex(i)]
	}
	return out
}

// Current returns the item under the cursor, or nil
func (l *DownloadList) Current() *domain.SummaryRecord {
	if l.cursor >= l.ItemCount() {
		return nil
	}
	item := l.items[l.mapIndex(l.cursor)]
	return &item
}

// ItemCount returns the number of visible items
func (l *DownloadList) ItemCount() int {
	if l.filteredIdx != nil {
		return len(l.filteredIdx)
	}
	return len(l.items)
}

// IsFiltering returns true while the filter input has focus
func (l *DownloadList) IsFiltering() bool {
	return l.filterActive && l.filterInput.Focused()
}

func (l *DownloadList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.maxVisible = max(1, height-scrollIndicatorLines-1)
	l.ensureVisible()
}

// Update handles navigation and filter keys
func (l *DownloadList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	// Typing mode
	if l.IsFiltering() {
		switch {
		case key.Matches(keyMsg, DownloadListKeys.Escape):
			l.clearFilter()
			return nil
		case key.Matches(keyMsg, DownloadListKeys.Enter):
			l.filterInput.Blur()
			return nil
		case keyMsg.Type == tea.KeyBackspace && l.filterInput.Value() == "":
			l.clearFilter()
			return nil
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return cmd
	}

	switch {
	case key.Matches(keyMsg, DownloadListKeys.Filter):
		l.filterActive = true
		l.filterInput.Focus()
		return textinput.Blink
	case l.filterActive && key.Matches(keyMsg, DownloadListKeys.Escape):
		l.clearFilter()
		return nil
	}

	count := l.ItemCount()
	if count == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, DownloadListKeys.Down):
		if l.cursor < count-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, DownloadListKeys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(keyMsg, DownloadListKeys.Home):
		l.cursor = 0
	case key.Matches(keyMsg, DownloadListKeys.End):
		l.cursor = count - 1
	case key.Matches(keyMsg, DownloadListKeys.PageDown):
		l.cursor = min(count-1, l.cursor+max(1, l.maxVisible/2))
	case key.Matches(keyMsg, DownloadListKeys.PageUp):
		l.cursor = max(0, l.cursor-max(1, l.maxVisible/2))
	}
	l.ensureVisible()
	return nil
}

// HasActiveFilter returns true when a filter narrows the list
func (l *DownloadList) HasActiveFilter() bool {
	return l.filterActive
}

func (l *DownloadList) clearFilter() {
	l.filterActive = false
	l.filteredIdx = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.cursor = 0
	l.offset = 0
}

func (l *DownloadList) applyFilter() {
	query := l.filterInput.Value()
	if query == "" {
		l.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(l.items))
	for i, item := range l.items {
		lowerTitles[i] = strings.ToLower(item.Show.Name)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	l.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		l.filteredIdx[i] = match.Index
	}

	l.cursor = 0
	l.offset = 0
}

func (l *DownloadList) mapIndex(i int) int {
	if l.filteredIdx != nil {
		return l.filteredIdx[i]
	}
	return i
}

func (l *DownloadList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// Describe returns the secondary text for a summary
func Describe(s domain.SummaryRecord) string {
	switch s.Show.Type.Kind() {
	case domain.KindMovie:
		return "movie"
	case domain.KindSeries:
		if s.DownloadCount == 1 {
			return "1 episode"
		}
		return fmt.Sprintf("%d episodes", s.DownloadCount)
	}
	return ""
}

// FormatBytes renders current/total, or just the total once complete
func FormatBytes(s domain.SummaryRecord) string {
	if s.CurrentBytes >= s.TotalBytes {
		return humanize.IBytes(uint64(s.TotalBytes))
	}
	return humanize.IBytes(uint64(max(0, s.CurrentBytes))) + " / " + humanize.IBytes(uint64(s.TotalBytes))
}

// View renders the list. isSelected reports whether a show id is marked.
func (l *DownloadList) View(isSelected func(id int) bool) string {
	var b strings.Builder

	if l.filterActive {
		b.WriteString(l.filterInput.View())
	}
	b.WriteString("\n")

	count := l.ItemCount()
	if count == 0 {
		msg := "No downloads"
		if l.filterActive {
			msg = "No matches"
		}
		b.WriteString(styles.DimStyle.Render("  " + msg))
		return b.String()
	}

	if l.offset > 0 {
		b.WriteString(styles.DimStyle.Render("  ↑ more"))
	}
	b.WriteString("\n")

	end := min(count, l.offset+l.maxVisible)
	for i := l.offset; i < end; i++ {
		b.WriteString(l.renderRow(l.items[l.mapIndex(i)], i == l.cursor, isSelected))
		b.WriteString("\n")
	}

	if end < count {
		b.WriteString(styles.DimStyle.Render("  ↓ more"))
	}
	return b.String()
}

func (l *DownloadList) renderRow(s domain.SummaryRecord, focused bool, isSelected func(id int) bool) string {
	mark := styles.UncheckedChar
	markColor := styles.DimGray
	if isSelected != nil && isSelected(s.Show.ID) {
		mark = styles.CheckedChar
		markColor = styles.Amber
	}

	const barWidth = 12
	desc := Describe(s)
	size := FormatBytes(s)
	nameWidth := l.width - barWidth - len(desc) - len(size) - 12
	name := styles.Truncate(s.Show.Name, max(nameWidth, 8))
	gap := max(1, nameWidth-len([]rune(name)))

	dim := styles.DimGray
	parts := []styles.RowPart{
		{Text: mark + " ", Foreground: &markColor},
		{Text: name + strings.Repeat(" ", gap)},
		{Text: desc + "  ", Foreground: &dim},
		{Text: size + "  "},
	}
	row := styles.RenderListRow(parts, focused, l.width-barWidth)
	return row + styles.RenderProgressBar(s.Progress(), barWidth)
}

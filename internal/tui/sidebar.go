package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/tutorchat/internal/history"
)

// maxSwitcherItems is the number of conversations shown at once in the switcher
const maxSwitcherItems = 10

// renderSidebar renders the conversation list, newest first, with the
// active conversation highlighted
func (m Model) renderSidebar(width, height int) string {
	conversations := m.store.List()
	activeID := m.store.ActiveID()
	now := time.Now()
	inner := width - 2

	lines := []string{sidebarHeaderStyle.Render(fmt.Sprintf("会話 (%d)", len(conversations))), ""}
	for i, conv := range conversations {
		// Each entry takes two lines
		if len(lines)+2 > height {
			lines = append(lines, hintStyle.Render(fmt.Sprintf("… +%d", len(conversations)-i)))
			break
		}

		title := truncate(conv.DisplayTitle(), inner-2)
		if conv.ID == activeID {
			lines = append(lines, sidebarActiveStyle.Render("▸ "+title))
		} else {
			lines = append(lines, sidebarItemStyle.Render("  "+title))
		}
		lines = append(lines, sidebarTimeStyle.Render("  "+history.FormatRelativeTime(conv.UpdatedAt, now)))
	}

	return sidebarStyle.
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

// openSwitcher shows the conversation switcher with the cursor on the
// active conversation
func (m *Model) openSwitcher() {
	m.switching = true
	m.switchCursor = 0
	activeID := m.store.ActiveID()
	for i, conv := range m.store.List() {
		if conv.ID == activeID {
			m.switchCursor = i
			break
		}
	}
}

// updateSwitcher handles keys while the switcher is open
func (m Model) updateSwitcher(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	conversations := m.store.List()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "tab", "ctrl+s":
		m.switching = false

	case "up", "k":
		m.switchCursor--
		if m.switchCursor < 0 {
			m.switchCursor = len(conversations) - 1
		}

	case "down", "j":
		m.switchCursor++
		if m.switchCursor >= len(conversations) {
			m.switchCursor = 0
		}

	case "n", "ctrl+n":
		m.switching = false
		m.newConversation()

	case "enter":
		if m.switchCursor >= 0 && m.switchCursor < len(conversations) {
			m.store.SetActive(conversations[m.switchCursor].ID)
		}
		m.switching = false
		m.syncViewport(true)
	}

	return m, nil
}

// renderSwitcher renders the conversation switcher overlay
func (m Model) renderSwitcher() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	conversations := m.store.List()
	activeID := m.store.ActiveID()
	now := time.Now()

	var content strings.Builder
	content.WriteString(titleStyle.Render("会話を選択"))
	content.WriteString("\n\n")

	startIdx := 0
	if m.switchCursor >= maxSwitcherItems {
		startIdx = m.switchCursor - maxSwitcherItems + 1
	}
	endIdx := startIdx + maxSwitcherItems
	if endIdx > len(conversations) {
		endIdx = len(conversations)
	}

	if startIdx > 0 {
		content.WriteString(hintStyle.Render("  ↑ more above"))
		content.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		conv := conversations[i]

		cursor := "  "
		nameStyle := sidebarItemStyle
		if i == m.switchCursor {
			cursor = switcherCursorStyle.Render("▸ ")
			nameStyle = sidebarActiveStyle
		}

		marker := ""
		if conv.ID == activeID {
			marker = hintStyle.Render(" (表示中)")
		}

		line := fmt.Sprintf("%s%s %s%s",
			cursor,
			hintStyle.Render(fmt.Sprintf("%2d.", i+1)),
			nameStyle.Render(truncate(conv.DisplayTitle(), width-30)),
			marker,
		)
		line += sidebarTimeStyle.Render("  " + history.FormatRelativeTime(conv.UpdatedAt, now))

		content.WriteString(line)
		content.WriteString("\n")
	}

	if endIdx < len(conversations) {
		content.WriteString(hintStyle.Render("  ↓ more below"))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" 移動"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" 開く"),
		statusKeyStyle.Render("n") + statusDescStyle.Render(" 新規"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" 閉じる"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	return switcherStyle.Width(width).Render(content.String())
}

// truncate shortens s to at most max display cells, ending with an ellipsis
func truncate(s string, max int) string {
	if max <= 1 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}

	var b strings.Builder
	width := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if width+w > max-1 {
			break
		}
		b.WriteRune(r)
		width += w
	}
	return b.String() + "…"
}

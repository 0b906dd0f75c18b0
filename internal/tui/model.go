package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/tutorchat/internal/api"
	"github.com/diogo/tutorchat/internal/history"
	"github.com/diogo/tutorchat/internal/models"
	"github.com/diogo/tutorchat/internal/render"
	"github.com/diogo/tutorchat/internal/tutor"
)

// refreshInterval paces re-rendering while a reply is being revealed
const refreshInterval = 50 * time.Millisecond

// sidebarWidth is the width of the conversation list, borders included
const sidebarWidth = 28

// minWidthForSidebar hides the sidebar on narrow terminals
const minWidthForSidebar = 90

// Message types for the TUI
type (
	// refreshMsg re-renders the active conversation from the store
	refreshMsg time.Time

	// submitDoneMsg is sent when a submission has been fully revealed
	submitDoneMsg struct {
		result *tutor.Result
		err    error
	}
)

// Model represents the TUI state
type Model struct {
	tutor      *tutor.Tutor
	store      *history.Store
	resolver   *history.Resolver
	modelName  string
	renderOpts render.Options

	// Side effects, replaceable in tests
	copyText  func(string) error
	loadImage func(path string) (string, error)
	writeFile func(path string, data []byte) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	submitting     bool
	pendingImage   string // data URL attached to the next submission
	pendingName    string
	showSidebar    bool
	switching      bool
	switchCursor   int
	notice         string
	err            error
	ready          bool
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a chat model over t. The active conversation of
// t's store is shown first.
func NewChatModel(t *tutor.Tutor, modelName string, renderOpts render.Options) Model {
	ta := textarea.New()
	ta.Placeholder = "質問を入力してください (/help でコマンド一覧)"
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		tutor:       t,
		store:       t.Store(),
		resolver:    history.NewResolver(t.Store()),
		modelName:   modelName,
		renderOpts:  renderOpts,
		copyText:    clipboard.WriteAll,
		loadImage:   api.LoadImageFile,
		writeFile:   func(path string, data []byte) error { return os.WriteFile(path, data, 0o644) },
		textarea:    ta,
		spinner:     s,
		showSidebar: true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.switching {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.updateSwitcher(key)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.syncViewport(true)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.submitting {
				m.tutor.SkipReveal()
				return m, nil
			}
			return m, tea.Quit

		case "ctrl+n":
			m.newConversation()
			return m, nil

		case "ctrl+s", "tab":
			m.openSwitcher()
			return m, nil

		case "ctrl+b":
			m.showSidebar = !m.showSidebar
			m.resize()
			m.syncViewport(false)
			return m, nil

		case "enter":
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" && m.pendingImage == "" {
				return m, nil
			}
			if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
				return m, tea.Quit
			}
			m.textarea.Reset()
			m.err = nil
			m.notice = ""

			if strings.HasPrefix(input, "/") {
				return m, m.runSlash(parseSlash(input))
			}
			if m.submitting {
				m.notice = "応答を生成中です。完了までお待ちください"
				return m, nil
			}

			image := m.pendingImage
			m.pendingImage = ""
			m.pendingName = ""
			m.submitting = true
			m.animationFrame = 0

			return m, tea.Batch(
				m.submitCmd(input, image),
				m.spinner.Tick,
				refreshTick(),
			)
		}

	case refreshMsg:
		m.animationFrame++
		m.syncViewport(false)
		if m.submitting {
			cmds = append(cmds, refreshTick())
		}

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
		}
		m.syncViewport(true)

	case spinner.TickMsg:
		if m.submitting {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only key messages reach the textarea to prevent escape sequence leaks
	if _, ok := msg.(tea.KeyMsg); ok {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	if key, ok := msg.(tea.KeyMsg); !ok || isScrollKey(key.String()) {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// isScrollKey reports keys that scroll the messages instead of editing input
func isScrollKey(key string) bool {
	return key == "pgup" || key == "pgdown"
}

// submitCmd runs one submission; the reveal writes into the store while it
// blocks, and refresh ticks pick the writes up
func (m Model) submitCmd(text, image string) tea.Cmd {
	t := m.tutor
	return func() tea.Msg {
		result, err := t.Submit(context.Background(), text, image)
		return submitDoneMsg{result: result, err: err}
	}
}

func (m *Model) newConversation() {
	m.store.CreateConversation()
	m.notice = ""
	m.syncViewport(true)
}

func (m *Model) resize() {
	if m.width == 0 {
		return
	}

	headerHeight := 3
	inputHeight := 5
	statusHeight := 2

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	vpWidth := m.messagesWidth() - 4

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(m.width - 8)
}

func (m Model) sidebarVisible() bool {
	return m.showSidebar && m.width >= minWidthForSidebar
}

func (m Model) messagesWidth() int {
	if m.sidebarVisible() {
		return m.width - sidebarWidth
	}
	return m.width
}

// syncViewport re-renders the active conversation into the viewport
func (m *Model) syncViewport(follow bool) {
	if !m.ready {
		return
	}
	conv, ok := m.store.Active()
	if !ok {
		m.viewport.SetContent("")
		return
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages(conv))
	if follow || atBottom {
		m.viewport.GotoBottom()
	}
}

// renderMessages renders the messages of conv as bubbles
func (m Model) renderMessages(conv *history.Conversation) string {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	for i, msg := range conv.Messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			body := msg.Content
			if msg.Image != "" {
				body = attachmentStyle.Render("[画像]") + "\n" + body
			}
			content.WriteString(userLabelStyle.Render("⬤ You"))
			content.WriteString("\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(body))
		} else {
			content.WriteString(assistantLabelStyle.Render("✦ セキスペくん"))
			content.WriteString("\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(m.renderReply(msg, bubbleWidth-4)))
		}
		content.WriteString("\n")
	}

	return content.String()
}

// renderReply renders finalized replies as markdown. Partial replies are
// shown raw with a cursor so half-open markdown does not flicker.
func (m Model) renderReply(msg history.Message, width int) string {
	if !msg.Final {
		return msg.Content + "▌"
	}
	return render.Reply(msg.Content, m.renderOpts.WithWidth(width))
}

// lastReply returns the newest finalized assistant text of the active conversation
func (m Model) lastReply() (string, bool) {
	conv, ok := m.store.Active()
	if !ok {
		return "", false
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		msg := conv.Messages[i]
		if msg.Role == models.RoleAssistant && msg.Final && msg.Content != "" {
			return msg.Content, true
		}
	}
	return "", false
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.switching {
		return m.renderSwitcher()
	}

	var sections []string

	sections = append(sections, m.renderHeader(m.width-2))

	messagesPanel := messagesAreaStyle.
		Width(m.messagesWidth() - 2).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	if m.sidebarVisible() {
		sidebar := m.renderSidebar(sidebarWidth-2, m.viewport.Height)
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, sidebar, messagesPanel))
	} else {
		sections = append(sections, messagesPanel)
	}

	sections = append(sections, m.renderInput(m.width-2))
	sections = append(sections, m.renderStatusBar(m.width-2))

	switch {
	case m.err != nil:
		sections = append(sections, FormatError(m.err))
	case m.notice != "":
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	title := models.DefaultTitle
	if conv, ok := m.store.Active(); ok {
		title = conv.DisplayTitle()
	}

	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ AI Tutor"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(title),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.modelName),
	)
	return headerStyle.Width(width).Render(headerContent)
}

func (m Model) renderInput(width int) string {
	var inputContent string
	switch {
	case m.tutor.Thinking():
		inputContent = m.renderThinking()
	case m.submitting:
		inputContent = loadingStyle.Render(m.spinner.View()+" 回答を表示しています") +
			hintStyle.Render("  (Esc で全文を表示)")
	default:
		label := inputLabelStyle.Render("You")
		if m.pendingName != "" {
			label += attachmentStyle.Render("📎 " + m.pendingName)
		}
		inputContent = lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	}
	return inputPanelStyle.Width(width).Render(inputContent)
}

// renderThinking renders the animated indicator shown while the model works
func (m Model) renderThinking() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	frame := m.animationFrame

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" 考えています ")
	return fmt.Sprintf("%s%s%s", spin, text, dots.String())
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "送信"},
		{"Ctrl+N", "新しいチャット"},
		{"Tab", "切替"},
		{"Ctrl+B", "一覧"},
		{"Esc", "終了/スキップ"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI
func RunChat(t *tutor.Tutor, modelName string, renderOpts render.Options) error {
	p := tea.NewProgram(
		NewChatModel(t, modelName, renderOpts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

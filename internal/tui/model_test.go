package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/tutorchat/internal/api"
	"github.com/diogo/tutorchat/internal/history"
	"github.com/diogo/tutorchat/internal/models"
	"github.com/diogo/tutorchat/internal/render"
	"github.com/diogo/tutorchat/internal/reveal"
	"github.com/diogo/tutorchat/internal/tutor"
)

func newTestModel(t *testing.T, gen api.Generator) Model {
	t.Helper()

	n := 0
	store := history.NewStore(history.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("conv-%04d-tui", n)
	}))
	scheduler := reveal.NewScheduler(store, reveal.WithInterval(time.Millisecond))
	tu := tutor.New(store, gen, tutor.WithScheduler(scheduler))

	m := NewChatModel(tu, models.DefaultModel, render.DefaultOptions().WithStyle(render.ThemeNoTTY))
	m.copyText = func(string) error { return nil }
	m.writeFile = func(string, []byte) error { return nil }

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func typeAndEnter(t *testing.T, m Model, input string) (Model, tea.Cmd) {
	t.Helper()
	m.textarea.SetValue(input)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func TestNewChatModel_NotReadyUntilSized(t *testing.T) {
	store := history.NewStore()
	m := NewChatModel(tutor.New(store, &api.MockGenerator{}), models.DefaultModel, render.DefaultOptions())

	if m.ready {
		t.Error("model should not be ready before the first WindowSizeMsg")
	}
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("expected initializing view")
	}
	if m.Init() == nil {
		t.Error("Init should return a command")
	}
}

func TestModel_ShowsGreeting(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})

	if !m.ready {
		t.Fatal("model should be ready after WindowSizeMsg")
	}
	view := m.View()
	if !strings.Contains(view, "AIチューター") {
		t.Error("greeting should be visible")
	}
	if !strings.Contains(view, models.DefaultTitle) {
		t.Error("header should show the placeholder title")
	}
}

func TestModel_SubmitFlow(t *testing.T) {
	gen := &api.MockGenerator{Text: "【結論（最短要約）】暗号化が必要です。\n通信路を守ります。"}
	m := newTestModel(t, gen)

	m, cmd := typeAndEnter(t, m, "TLSとは？")
	if cmd == nil {
		t.Fatal("expected a command after enter")
	}
	if !m.submitting {
		t.Error("model should be submitting")
	}
	if m.textarea.Value() != "" {
		t.Error("textarea should be cleared")
	}

	// Run the submission synchronously instead of through the batch
	msg := m.submitCmd("TLSとは？", "")()
	done, ok := msg.(submitDoneMsg)
	if !ok {
		t.Fatalf("expected submitDoneMsg, got %T", msg)
	}
	if done.err != nil {
		t.Fatalf("Submit() error: %v", done.err)
	}

	updated, _ := m.Update(done)
	m = updated.(Model)
	if m.submitting {
		t.Error("submitting should be cleared")
	}

	conv, _ := m.store.Active()
	if conv.Title != "暗号化が必要です。" {
		t.Errorf("title = %q", conv.Title)
	}
	if !strings.Contains(m.viewport.View(), "暗号化が必要です") {
		t.Error("reply should be rendered in the viewport")
	}
}

func TestModel_SubmitWhileSubmitting(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{Text: "x"})
	m.submitting = true

	m, cmd := typeAndEnter(t, m, "もう一つ")
	if cmd != nil {
		t.Error("no submission should start while one is running")
	}
	if m.notice == "" {
		t.Error("expected a notice")
	}
}

func TestModel_SubmitBusyError(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})

	updated, _ := m.Update(submitDoneMsg{err: errors.New("boom")})
	m = updated.(Model)
	if m.err == nil || !strings.Contains(m.View(), "boom") {
		t.Error("submission errors should be displayed")
	}
}

func TestModel_EmptyEnterIgnored(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})

	m, cmd := typeAndEnter(t, m, "   ")
	if cmd != nil || m.submitting {
		t.Error("blank input should be ignored")
	}
}

func TestModel_QuitCommands(t *testing.T) {
	for _, input := range []string{"exit", "quit", "/exit", "/quit"} {
		m := newTestModel(t, &api.MockGenerator{})
		_, cmd := typeAndEnter(t, m, input)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", input)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", input)
		}
	}
}

func TestModel_NewConversationKey(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})
	first := m.store.ActiveID()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = updated.(Model)

	if m.store.Len() != 2 {
		t.Fatalf("expected 2 conversations, got %d", m.store.Len())
	}
	if m.store.ActiveID() == first {
		t.Error("new conversation should become active")
	}
}

func TestModel_Switcher(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})
	first := m.store.ActiveID()
	m.store.CreateConversation()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if !m.switching {
		t.Fatal("tab should open the switcher")
	}
	if m.switchCursor != 0 {
		t.Errorf("cursor should start on the active conversation, got %d", m.switchCursor)
	}
	if !strings.Contains(m.View(), "会話を選択") {
		t.Error("switcher should be rendered")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.switching {
		t.Error("enter should close the switcher")
	}
	if m.store.ActiveID() != first {
		t.Errorf("active = %s, want %s", m.store.ActiveID(), first)
	}
}

func TestModel_SwitcherEscape(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})
	m.openSwitcher()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.switching {
		t.Error("esc should close the switcher")
	}
	if cmd != nil {
		t.Error("esc in the switcher should not quit")
	}
}

func TestModel_RefreshFollowsReveal(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})
	convID := m.store.ActiveID()
	msg, _ := m.store.AppendMessage(convID, models.RoleAssistant, "", "")
	m.store.UpdateMessageText(convID, msg.ID, "途中まで")
	m.submitting = true

	updated, cmd := m.Update(refreshMsg(time.Now()))
	m = updated.(Model)
	if cmd == nil {
		t.Error("refresh should keep ticking while submitting")
	}
	if !strings.Contains(m.viewport.View(), "途中まで▌") {
		t.Error("partial reply should be shown with a cursor")
	}
}

func TestModel_SidebarToggle(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})
	if !m.sidebarVisible() {
		t.Fatal("sidebar should be visible on wide terminals")
	}
	if !strings.Contains(m.View(), "会話 (1)") {
		t.Error("sidebar header should be rendered")
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	m = updated.(Model)
	if m.sidebarVisible() {
		t.Error("ctrl+b should hide the sidebar")
	}

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m = updated.(Model)
	m.showSidebar = true
	if m.sidebarVisible() {
		t.Error("sidebar should be hidden on narrow terminals")
	}
}

func TestParseSlash(t *testing.T) {
	tests := []struct {
		input string
		want  slashCommand
	}{
		{"/new", slashCommand{name: "new"}},
		{"/Switch  2 ", slashCommand{name: "switch", arg: "2"}},
		{"/export notes/chat.md", slashCommand{name: "export", arg: "notes/chat.md"}},
		{"/search TLS ハンドシェイク", slashCommand{name: "search", arg: "TLS ハンドシェイク"}},
	}

	for _, tt := range tests {
		if got := parseSlash(tt.input); got != tt.want {
			t.Errorf("parseSlash(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestSlash_NewAndSwitch(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})
	first := m.store.ActiveID()

	m, _ = typeAndEnter(t, m, "/new")
	if m.store.Len() != 2 {
		t.Fatalf("expected 2 conversations, got %d", m.store.Len())
	}

	m, _ = typeAndEnter(t, m, "/switch @first")
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if m.store.ActiveID() != first {
		t.Error("/switch @first should activate the oldest conversation")
	}

	m, _ = typeAndEnter(t, m, "/switch 9")
	if m.err == nil {
		t.Error("out-of-range switch should report an error")
	}
}

func TestSlash_List(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})
	m, _ = typeAndEnter(t, m, "/list")
	if !m.switching {
		t.Error("/list should open the switcher")
	}
}

func TestSlash_Image(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{Text: "ok"})

	path := filepath.Join(t.TempDir(), "figure.png")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o600); err != nil {
		t.Fatal(err)
	}

	m, _ = typeAndEnter(t, m, "/image "+path)
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if !strings.HasPrefix(m.pendingImage, "data:image/png;base64,") {
		t.Errorf("pending image = %q", m.pendingImage)
	}
	if !strings.Contains(m.View(), "figure.png") {
		t.Error("attachment should be shown in the input panel")
	}

	// An attachment alone can be submitted
	m, cmd := typeAndEnter(t, m, "")
	if cmd == nil || !m.submitting {
		t.Fatal("image-only submission should start")
	}
	if m.pendingImage != "" {
		t.Error("attachment should be consumed by the submission")
	}

	m = newTestModel(t, &api.MockGenerator{})
	m, _ = typeAndEnter(t, m, "/image "+filepath.Join(t.TempDir(), "missing.png"))
	if m.err == nil {
		t.Error("missing file should report an error")
	}
}

func TestSlash_ImageClear(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})
	m.pendingImage = "data:image/png;base64,AAAA"
	m.pendingName = "a.png"

	m, _ = typeAndEnter(t, m, "/image")
	if m.pendingImage != "" || m.pendingName != "" {
		t.Error("/image without argument should clear the attachment")
	}
}

func TestSlash_Export(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})

	var gotPath string
	var gotData []byte
	m.writeFile = func(path string, data []byte) error {
		gotPath, gotData = path, data
		return nil
	}

	m, _ = typeAndEnter(t, m, "/export chat.json")
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if gotPath != "chat.json" || !strings.HasPrefix(strings.TrimSpace(string(gotData)), "{") {
		t.Errorf("export wrote %q: %s", gotPath, gotData)
	}

	m.writeFile = func(string, []byte) error { return errors.New("disk full") }
	m, _ = typeAndEnter(t, m, "/export chat.md")
	if m.err == nil || !strings.Contains(m.err.Error(), "disk full") {
		t.Errorf("expected write error, got %v", m.err)
	}

	m, _ = typeAndEnter(t, m, "/export")
	if m.err == nil {
		t.Error("missing file name should report usage")
	}
}

func TestSlash_Copy(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})

	var copied string
	m.copyText = func(s string) error {
		copied = s
		return nil
	}

	m, _ = typeAndEnter(t, m, "/copy")
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if copied != models.Greeting {
		t.Errorf("copied %q, want the greeting", copied)
	}

	m.store.CreateConversation()
	convID := m.store.ActiveID()
	m.store.ReplaceMessages(convID, []history.Message{{Role: models.RoleUser, Content: "q"}})
	m, _ = typeAndEnter(t, m, "/copy")
	if m.err == nil {
		t.Error("expected error when there is no reply")
	}
}

func TestSlash_Search(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})
	m.store.SetTitle(m.store.ActiveID(), "公開鍵暗号")

	m, _ = typeAndEnter(t, m, "/search 公開鍵")
	if !strings.Contains(m.notice, "1 件") || !strings.Contains(m.notice, "公開鍵暗号") {
		t.Errorf("notice = %q", m.notice)
	}

	m, _ = typeAndEnter(t, m, "/search 存在しない")
	if !strings.Contains(m.notice, "一致する会話はありません") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestSlash_Theme(t *testing.T) {
	defer UpdateTheme(render.TokyoNightTheme)

	m := newTestModel(t, &api.MockGenerator{})
	m, _ = typeAndEnter(t, m, "/theme classroom")
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if colorPrimary != render.ClassroomTheme.Primary {
		t.Error("theme colors should be applied")
	}

	m, _ = typeAndEnter(t, m, "/theme neon")
	if m.err == nil {
		t.Error("unknown theme should report an error")
	}
}

func TestSlash_UnknownAndHelp(t *testing.T) {
	m := newTestModel(t, &api.MockGenerator{})

	m, _ = typeAndEnter(t, m, "/frobnicate")
	if m.err == nil {
		t.Error("unknown command should report an error")
	}

	m, _ = typeAndEnter(t, m, "/help")
	if m.err != nil || !strings.Contains(m.notice, "/export") {
		t.Errorf("help notice = %q, err = %v", m.notice, m.err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 5, "abcd…"},
		{"日本語のタイトル", 7, "日本語…"},
		{"x", 1, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

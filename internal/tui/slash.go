package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/tutorchat/internal/history"
	"github.com/diogo/tutorchat/internal/render"
)

// slashCommand is a parsed "/name argument" line
type slashCommand struct {
	name string
	arg  string
}

// parseSlash splits "/name rest of line" into its name and argument
func parseSlash(input string) slashCommand {
	input = strings.TrimPrefix(strings.TrimSpace(input), "/")
	name, arg, _ := strings.Cut(input, " ")
	return slashCommand{
		name: strings.ToLower(name),
		arg:  strings.TrimSpace(arg),
	}
}

const slashHelp = `/new              新しいチャットを開始
/list             会話の一覧を開く
/switch <ref>     会話を切り替え (番号, @last, @first, ID, タイトル)
/image <path>     次の質問に画像を添付 (引数なしで解除)
/export <file>    表示中の会話を .md / .json に書き出し
/copy             最後の回答をクリップボードにコピー
/search <query>   会話を検索
/theme <name>     配色を変更
/quit             終了`

// runSlash executes a slash command. Results are reported through notice
// and err; no command blocks on the network.
func (m *Model) runSlash(cmd slashCommand) tea.Cmd {
	switch cmd.name {
	case "help", "?":
		m.notice = slashHelp

	case "new":
		m.newConversation()

	case "list":
		m.openSwitcher()

	case "switch":
		id, err := m.resolver.Resolve(cmd.arg)
		if err != nil {
			m.err = err
			return nil
		}
		m.store.SetActive(id)
		m.syncViewport(true)

	case "image":
		if cmd.arg == "" {
			m.pendingImage = ""
			m.pendingName = ""
			m.notice = "添付を解除しました"
			return nil
		}
		dataURL, err := m.loadImage(cmd.arg)
		if err != nil {
			m.err = err
			return nil
		}
		m.pendingImage = dataURL
		m.pendingName = filepath.Base(cmd.arg)
		m.notice = fmt.Sprintf("%s を添付しました", m.pendingName)

	case "export":
		if cmd.arg == "" {
			m.err = fmt.Errorf("usage: /export <file.md|file.json>")
			return nil
		}
		opts := history.DefaultExportOptions()
		opts.Format = history.ExportFormatFromPath(cmd.arg)
		data, err := m.store.Export(m.store.ActiveID(), opts)
		if err != nil {
			m.err = err
			return nil
		}
		if err := m.writeFile(cmd.arg, data); err != nil {
			m.err = fmt.Errorf("failed to write export: %w", err)
			return nil
		}
		m.notice = fmt.Sprintf("%s に書き出しました", cmd.arg)

	case "copy":
		text, ok := m.lastReply()
		if !ok {
			m.err = fmt.Errorf("コピーできる回答がありません")
			return nil
		}
		if err := m.copyText(text); err != nil {
			m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
			return nil
		}
		m.notice = "回答をコピーしました"

	case "search":
		if cmd.arg == "" {
			m.err = fmt.Errorf("usage: /search <query>")
			return nil
		}
		m.notice = formatSearchResults(m.store.SearchConversations(cmd.arg), cmd.arg)

	case "theme":
		theme, ok := render.TUIThemeByName(cmd.arg)
		if !ok {
			m.err = fmt.Errorf("unknown theme %q (available: %s)", cmd.arg, strings.Join(render.TUIThemeNames(), ", "))
			return nil
		}
		UpdateTheme(theme)
		m.syncViewport(false)
		m.notice = fmt.Sprintf("テーマを %s に変更しました", theme.Name)

	default:
		m.err = fmt.Errorf("unknown command /%s (see /help)", cmd.name)
	}

	return nil
}

// formatSearchResults lists matches with their list position so they can
// be opened with /switch
func formatSearchResults(results []*history.SearchResult, query string) string {
	if len(results) == 0 {
		return fmt.Sprintf("%q に一致する会話はありません", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d 件見つかりました (/switch <ID> で開く)", len(results))
	for _, r := range results {
		id := r.Conversation.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(&sb, "\n  %s  %s", id, r.Conversation.DisplayTitle())
		if r.MatchField == "content" {
			fmt.Fprintf(&sb, "  %s", r.MatchSnippet)
		}
	}
	return sb.String()
}

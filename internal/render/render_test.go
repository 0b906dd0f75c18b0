package render

import (
	"strings"
	"testing"

	"github.com/diogo/tutorchat/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.PreserveNewLines {
		t.Error("expected PreserveNewLines=true")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv(StyleEnv, "")

	md := config.DefaultMarkdownConfig()
	md.Style = "light"
	md.EnableEmoji = false

	opts := OptionsFromConfig(md, 120)
	if opts.Style != "light" {
		t.Errorf("expected Style='light', got %s", opts.Style)
	}
	if opts.EnableEmoji {
		t.Error("expected EnableEmoji=false")
	}
	if opts.Width != 120 {
		t.Errorf("expected Width=120, got %d", opts.Width)
	}

	if got := OptionsFromConfig(md, 0).Width; got != 80 {
		t.Errorf("zero width should keep the default, got %d", got)
	}
}

func TestOptionsFromConfig_EnvOverride(t *testing.T) {
	t.Setenv(StyleEnv, "notty")

	opts := OptionsFromConfig(config.DefaultMarkdownConfig(), 0)
	if opts.Style != "notty" {
		t.Errorf("expected Style='notty' from env, got %s", opts.Style)
	}
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("# 結論\n\n**重要**なポイント", DefaultOptions().WithStyle(ThemeNoTTY))
	if err != nil {
		t.Fatalf("Markdown() returned error: %v", err)
	}
	if !strings.Contains(out, "結論") || !strings.Contains(out, "重要") {
		t.Errorf("rendered output lost content: %q", out)
	}
}

func TestMarkdownWithWidth(t *testing.T) {
	out, err := MarkdownWithWidth("hello world", 40)
	if err != nil {
		t.Fatalf("MarkdownWithWidth() returned error: %v", err)
	}
	if !strings.Contains(out, "hello world") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestReply(t *testing.T) {
	if got := Reply("  ", DefaultOptions()); got != "  " {
		t.Errorf("blank reply should pass through, got %q", got)
	}

	got := Reply("一行目\n\n二行目", DefaultOptions().WithStyle(ThemeNoTTY))
	if strings.HasSuffix(got, "\n") {
		t.Error("trailing newlines should be trimmed")
	}
	if !strings.Contains(got, "二行目") {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestReply_BadStyleFallsBack(t *testing.T) {
	text := "raw **text**"
	got := Reply(text, DefaultOptions().WithStyle("/nonexistent/style.json"))
	if got != text {
		t.Errorf("expected raw text on renderer failure, got %q", got)
	}
}

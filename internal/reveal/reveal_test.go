package reveal

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/diogo/tutorchat/internal/models"
)

func TestReveal_Next(t *testing.T) {
	r := New("c", 1, "こんにちは世界", 3)

	steps := []struct {
		text string
		done bool
	}{
		{"こんに", false},
		{"こんにちは世", false},
		{"こんにちは世界", true},
		{"こんにちは世界", true},
	}

	for i, want := range steps {
		text, done := r.Next()
		if text != want.text || done != want.done {
			t.Errorf("step %d: Next() = (%q, %v), want (%q, %v)", i, text, done, want.text, want.done)
		}
	}
}

func TestReveal_FinalTextMatchesForAnyChunk(t *testing.T) {
	texts := []string{
		"",
		"a",
		"回答です",
		"【結論（最短要約）】残存リスクは低い\n詳細は以下の通り。",
		strings.Repeat("絵文字😀と結合文字が́混在", 7),
	}

	for _, text := range texts {
		for chunk := 1; chunk <= 10; chunk++ {
			r := New("c", 1, text, chunk)

			var last string
			steps := 0
			for !r.Done() {
				var done bool
				last, done = r.Next()
				steps++
				if !strings.HasPrefix(text, last) {
					t.Fatalf("chunk %d: %q is not a prefix of the full text", chunk, last)
				}
				if done != r.Done() {
					t.Fatalf("chunk %d: done flag disagrees with Done()", chunk)
				}
			}

			if text != "" && last != text {
				t.Errorf("chunk %d: final text %q, want %q", chunk, last, text)
			}
			runes := utf8.RuneCountInString(text)
			if want := (runes + chunk - 1) / chunk; steps != want {
				t.Errorf("chunk %d: %d steps, want %d", chunk, steps, want)
			}
		}
	}
}

func TestReveal_DefaultChunk(t *testing.T) {
	r := New("c", 1, "abcdefgh", 0)

	text, _ := r.Next()
	if len(text) != models.DefaultRevealChunk {
		t.Errorf("first step = %q, want %d runes", text, models.DefaultRevealChunk)
	}
}

func TestReveal_Resume(t *testing.T) {
	r := New("c", 1, "abcdefgh", 3)

	r.Resume("abcd")
	if r.Visible() != "abcd" {
		t.Errorf("Visible() = %q, want abcd", r.Visible())
	}
	if text, _ := r.Next(); text != "abcdefg" {
		t.Errorf("Next() after resume = %q, want abcdefg", text)
	}

	r.Resume("xyz")
	if r.Visible() != "" {
		t.Errorf("non-prefix resume should restart, got %q", r.Visible())
	}

	r.Resume("abcdefgh")
	if !r.Done() {
		t.Error("resuming with the full text should be done")
	}
}

func TestReveal_Finish(t *testing.T) {
	r := New("c", 1, "full text", 2)
	r.Next()

	if got := r.Finish(); got != "full text" {
		t.Errorf("Finish() = %q", got)
	}
	if !r.Done() || r.Visible() != r.Text() {
		t.Error("Finish should make the whole text visible")
	}
}

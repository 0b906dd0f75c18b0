// Package reveal paces a fully received reply into a conversation message
// a few runes at a time.
package reveal

import (
	"strings"

	"github.com/diogo/tutorchat/internal/models"
)

// Reveal is the stepping state of one paced reveal. It knows nothing about
// timers; callers decide when to call Next.
type Reveal struct {
	ConversationID string
	MessageID      int64

	full   []rune
	offset int
	chunk  int
}

// New creates a reveal of text into the given message. A chunk size below
// one falls back to the default.
func New(convID string, msgID int64, text string, chunk int) *Reveal {
	if chunk < 1 {
		chunk = models.DefaultRevealChunk
	}
	return &Reveal{
		ConversationID: convID,
		MessageID:      msgID,
		full:           []rune(text),
		chunk:          chunk,
	}
}

// Next advances by one chunk and returns the visible prefix.
// done is true once the prefix equals the full text.
func (r *Reveal) Next() (text string, done bool) {
	r.offset += r.chunk
	if r.offset >= len(r.full) {
		r.offset = len(r.full)
	}
	return string(r.full[:r.offset]), r.offset == len(r.full)
}

// Resume continues from an already visible prefix, e.g. after the view was
// rebuilt mid-reveal. Text that is not a prefix of the full text restarts
// the reveal from the beginning.
func (r *Reveal) Resume(current string) {
	if strings.HasPrefix(string(r.full), current) {
		r.offset = len([]rune(current))
		return
	}
	r.offset = 0
}

// Finish jumps to the end and returns the full text
func (r *Reveal) Finish() string {
	r.offset = len(r.full)
	return string(r.full)
}

// Done reports whether the full text is visible
func (r *Reveal) Done() bool {
	return r.offset >= len(r.full)
}

// Text returns the full text being revealed
func (r *Reveal) Text() string {
	return string(r.full)
}

// Visible returns the currently visible prefix
func (r *Reveal) Visible() string {
	return string(r.full[:r.offset])
}

// Package tutor runs one chat submission end to end: store the user turn,
// ask the model, title the conversation and reveal the reply.
package tutor

import (
	"context"
	"strings"
	"sync"

	"github.com/diogo/tutorchat/internal/api"
	apierrors "github.com/diogo/tutorchat/internal/errors"
	"github.com/diogo/tutorchat/internal/history"
	"github.com/diogo/tutorchat/internal/models"
	"github.com/diogo/tutorchat/internal/reveal"
)

// Result describes the outcome of a submission
type Result struct {
	ConversationID string
	UserMessage    history.Message
	ReplyID        int64
	Reply          string // full assistant text, or the rendered error
	Title          string
	Err            error // generation error, already rendered into the conversation
}

// Tutor owns the submission pipeline for one chat surface. Only one
// submission is in flight at a time.
type Tutor struct {
	store     *history.Store
	generator api.Generator
	scheduler *reveal.Scheduler
	logf      func(format string, args ...any)

	mu       sync.Mutex
	loading  bool
	thinking bool
	job      *reveal.Job
}

// Option configures a Tutor
type Option func(*Tutor)

// WithScheduler sets the reveal scheduler
func WithScheduler(s *reveal.Scheduler) Option {
	return func(t *Tutor) {
		t.scheduler = s
	}
}

// WithLogger sets a printf-style hook for diagnostics
func WithLogger(logf func(format string, args ...any)) Option {
	return func(t *Tutor) {
		t.logf = logf
	}
}

// New creates a Tutor over store using generator for replies
func New(store *history.Store, generator api.Generator, opts ...Option) *Tutor {
	t := &Tutor{
		store:     store,
		generator: generator,
		logf:      func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.scheduler == nil {
		t.scheduler = reveal.NewScheduler(store)
	}
	return t
}

// Store returns the conversation store
func (t *Tutor) Store() *history.Store {
	return t.store
}

// Loading reports whether a submission is in progress, reveal included
func (t *Tutor) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Thinking reports whether a submission is waiting for the model
func (t *Tutor) Thinking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.thinking
}

// SkipReveal shows the rest of the current reply immediately
func (t *Tutor) SkipReveal() {
	t.mu.Lock()
	job := t.job
	t.mu.Unlock()

	if job != nil {
		job.Cancel()
	}
}

// Submit sends text and an optional image data URL as the next user turn of
// the active conversation and blocks until the reply is fully revealed.
//
// It returns ErrBusy while another submission runs and ErrEmptyRequest when
// there is neither text nor image. Generation failures are not returned as
// errors: they become an assistant message and are reported in Result.Err.
func (t *Tutor) Submit(ctx context.Context, text, imageDataURL string) (*Result, error) {
	if strings.TrimSpace(text) == "" && imageDataURL == "" {
		return nil, apierrors.ErrEmptyRequest
	}

	t.mu.Lock()
	if t.loading {
		t.mu.Unlock()
		return nil, apierrors.ErrBusy
	}
	t.loading = true
	t.thinking = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.loading = false
		t.thinking = false
		t.job = nil
		t.mu.Unlock()
	}()

	convID := t.store.ActiveID()
	conv, ok := t.store.Get(convID)
	if !ok {
		return nil, apierrors.NewConfigError("no active conversation")
	}

	// prior turns, excluding the message being submitted
	prior := make([]models.HistoryEntry, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		prior = append(prior, models.HistoryEntry{Role: m.Role.WireRole(), Content: m.Content})
	}

	content := text
	if content == "" {
		content = models.ImageOnlyText
	}

	userMsg, _ := t.store.AppendMessage(convID, models.RoleUser, content, imageDataURL)
	result := &Result{ConversationID: convID, UserMessage: userMsg}

	reply, err := t.generator.Generate(ctx, api.Prompt{
		History:      prior,
		Message:      content,
		ImageDataURL: imageDataURL,
	})
	if err != nil {
		t.setThinking(false)
		t.logf("[verbose] generate failed: %v\n", err)

		msg, _ := t.store.AppendMessage(convID, models.RoleAssistant, models.ErrorPrefix+errorText(err), "")
		t.store.FinalizeMessage(convID, msg.ID)

		result.ReplyID = msg.ID
		result.Reply = msg.Content
		result.Err = err
		return result, nil
	}

	if reply == "" {
		reply = models.EmptyReplyText
	}

	result.Title = history.DeriveTitle(reply, content)
	t.store.SetTitle(convID, result.Title)

	aiMsg, _ := t.store.AppendMessage(convID, models.RoleAssistant, "", "")
	result.ReplyID = aiMsg.ID
	result.Reply = reply

	job := t.scheduler.Start(ctx, convID, aiMsg.ID, reply)
	t.mu.Lock()
	t.thinking = false
	t.job = job
	t.mu.Unlock()

	job.Wait()
	return result, nil
}

func (t *Tutor) setThinking(v bool) {
	t.mu.Lock()
	t.thinking = v
	t.mu.Unlock()
}

// errorText renders a generation error for the conversation
func errorText(err error) string {
	if apierrors.IsAuthError(err) {
		return models.SignInRequiredText
	}
	if msg := apierrors.UserMessage(err); msg != "" {
		return msg
	}
	return models.UnknownErrorText
}

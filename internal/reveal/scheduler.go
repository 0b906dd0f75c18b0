package reveal

import (
	"context"
	"sync"
	"time"

	"github.com/diogo/tutorchat/internal/models"
)

// Target receives the revealed text. history.Store satisfies it.
type Target interface {
	UpdateMessageText(convID string, msgID int64, text string) bool
	FinalizeMessage(convID string, msgID int64) bool
}

// Scheduler runs reveals on a fixed interval
type Scheduler struct {
	target   Target
	chunk    int
	interval time.Duration
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithChunkSize sets how many runes are revealed per tick
func WithChunkSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.chunk = n
		}
	}
}

// WithInterval sets the tick interval
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewScheduler creates a scheduler writing into target
func NewScheduler(target Target, opts ...Option) *Scheduler {
	s := &Scheduler{
		target:   target,
		chunk:    models.DefaultRevealChunk,
		interval: time.Duration(models.DefaultRevealIntervalMs) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Job is a running reveal
type Job struct {
	reveal *Reveal
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Wait blocks until the reveal has written the full text
func (j *Job) Wait() {
	<-j.done
}

// Done is closed when the reveal is complete
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Cancel stops pacing and writes the full text immediately
func (j *Job) Cancel() {
	j.once.Do(j.cancel)
}

// Start begins revealing text into the message. The message is targeted by
// id, so switching the active conversation does not stop or redirect it.
// When the context ends early the full text is still written.
func (s *Scheduler) Start(ctx context.Context, convID string, msgID int64, text string) *Job {
	ctx, cancel := context.WithCancel(ctx)
	job := &Job{
		reveal: New(convID, msgID, text, s.chunk),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go s.run(ctx, job)
	return job
}

func (s *Scheduler) run(ctx context.Context, job *Job) {
	r := job.reveal
	defer close(job.done)
	defer job.cancel()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for !r.Done() {
		select {
		case <-ctx.Done():
			s.finish(r)
			return
		case <-ticker.C:
			text, _ := r.Next()
			if !s.target.UpdateMessageText(r.ConversationID, r.MessageID, text) {
				// message vanished or was frozen elsewhere
				return
			}
		}
	}

	s.finish(r)
}

// finish writes the full text and freezes the message
func (s *Scheduler) finish(r *Reveal) {
	s.target.UpdateMessageText(r.ConversationID, r.MessageID, r.Finish())
	s.target.FinalizeMessage(r.ConversationID, r.MessageID)
}

package reveal

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diogo/tutorchat/internal/history"
	"github.com/diogo/tutorchat/internal/models"
)

// recordingTarget records every write
type recordingTarget struct {
	mu        sync.Mutex
	writes    []string
	finalized bool
	reject    bool
}

func (r *recordingTarget) UpdateMessageText(convID string, msgID int64, text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reject {
		return false
	}
	r.writes = append(r.writes, text)
	return true
}

func (r *recordingTarget) FinalizeMessage(convID string, msgID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finalized = true
	return !r.reject
}

func waitJob(t *testing.T, job *Job) {
	t.Helper()
	select {
	case <-job.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("reveal did not finish")
	}
}

func TestScheduler_WritesIncrementalPrefixes(t *testing.T) {
	target := &recordingTarget{}
	s := NewScheduler(target, WithChunkSize(2), WithInterval(time.Millisecond))

	job := s.Start(context.Background(), "c", 1, "abcde")
	waitJob(t, job)

	target.mu.Lock()
	defer target.mu.Unlock()

	want := []string{"ab", "abcd", "abcde", "abcde"}
	if strings.Join(target.writes, "|") != strings.Join(want, "|") {
		t.Errorf("writes = %v, want %v", target.writes, want)
	}
	if !target.finalized {
		t.Error("message should be finalized")
	}
}

func TestScheduler_CancelWritesFullText(t *testing.T) {
	target := &recordingTarget{}
	s := NewScheduler(target, WithChunkSize(1), WithInterval(time.Hour))

	job := s.Start(context.Background(), "c", 1, "long reply")
	job.Cancel()
	job.Cancel() // idempotent
	waitJob(t, job)

	target.mu.Lock()
	defer target.mu.Unlock()

	if len(target.writes) == 0 || target.writes[len(target.writes)-1] != "long reply" {
		t.Errorf("last write = %v, want the full text", target.writes)
	}
	if !target.finalized {
		t.Error("cancelled reveal should still finalize")
	}
}

func TestScheduler_ContextCancelWritesFullText(t *testing.T) {
	target := &recordingTarget{}
	s := NewScheduler(target, WithInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	job := s.Start(ctx, "c", 1, "text")
	cancel()
	waitJob(t, job)

	target.mu.Lock()
	defer target.mu.Unlock()
	if target.writes[len(target.writes)-1] != "text" {
		t.Errorf("writes = %v", target.writes)
	}
}

func TestScheduler_StopsWhenTargetVanishes(t *testing.T) {
	target := &recordingTarget{reject: true}
	s := NewScheduler(target, WithInterval(time.Millisecond))

	job := s.Start(context.Background(), "c", 1, "abcdefghij")
	waitJob(t, job)

	target.mu.Lock()
	defer target.mu.Unlock()
	if len(target.writes) != 0 {
		t.Errorf("expected no writes, got %v", target.writes)
	}
}

func TestScheduler_EmptyText(t *testing.T) {
	target := &recordingTarget{}
	job := NewScheduler(target, WithInterval(time.Millisecond)).Start(context.Background(), "c", 1, "")
	waitJob(t, job)

	target.mu.Lock()
	defer target.mu.Unlock()
	if len(target.writes) != 1 || target.writes[0] != "" || !target.finalized {
		t.Errorf("writes = %v finalized = %v", target.writes, target.finalized)
	}
}

func TestScheduler_Defaults(t *testing.T) {
	s := NewScheduler(&recordingTarget{}, WithChunkSize(0), WithInterval(0))

	if s.chunk != models.DefaultRevealChunk {
		t.Errorf("chunk = %d", s.chunk)
	}
	if s.interval != time.Duration(models.DefaultRevealIntervalMs)*time.Millisecond {
		t.Errorf("interval = %v", s.interval)
	}
}

func TestScheduler_IntoStore(t *testing.T) {
	store := history.NewStore()
	convID := store.ActiveID()
	msg, _ := store.AppendMessage(convID, models.RoleAssistant, "", "")

	full := "【結論（最短要約）】残存リスクは低い\n対策は二段階で行います。"
	s := NewScheduler(store, WithChunkSize(3), WithInterval(time.Millisecond))

	// switching away does not stop the reveal
	other := store.CreateConversation()

	job := s.Start(context.Background(), convID, msg.ID, full)
	waitJob(t, job)

	if text, _ := store.MessageText(convID, msg.ID); text != full {
		t.Errorf("final text = %q, want %q", text, full)
	}
	if store.UpdateMessageText(convID, msg.ID, "late") {
		t.Error("message should be final after the reveal")
	}
	if store.ActiveID() != other {
		t.Error("reveal must not change the active conversation")
	}
}

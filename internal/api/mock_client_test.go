package api

import (
	"context"
	"errors"
	"testing"
)

func TestMockGenerator(t *testing.T) {
	mock := &MockGenerator{Text: "ok"}

	text, err := mock.Generate(context.Background(), Prompt{Message: "hello"})
	if err != nil || text != "ok" {
		t.Errorf("Generate() = %q, %v", text, err)
	}
	if mock.CallCount() != 1 || mock.LastPrompt.Message != "hello" {
		t.Errorf("call not recorded: %d %+v", mock.CallCount(), mock.LastPrompt)
	}

	mock.GenerateFunc = func(ctx context.Context, p Prompt) (string, error) {
		return "", errors.New("boom")
	}
	if _, err := mock.Generate(context.Background(), Prompt{}); err == nil {
		t.Error("expected GenerateFunc error")
	}
	if mock.CallCount() != 2 {
		t.Errorf("CallCount() = %d, want 2", mock.CallCount())
	}
}

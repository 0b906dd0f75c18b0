package models

import (
	"encoding/json"
	"testing"
)

func TestAllModels(t *testing.T) {
	models := AllModels()

	if len(models) == 0 {
		t.Fatal("Expected at least one model")
	}

	found := false
	for _, m := range models {
		if m == "" {
			t.Error("Model name should not be empty")
		}
		if m == DefaultModel {
			found = true
		}
	}
	if !found {
		t.Errorf("AllModels() should contain the default model %s", DefaultModel)
	}
}

func TestDefaultGenerationConfig(t *testing.T) {
	cfg := DefaultGenerationConfig()

	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Temperature)
	}
	if cfg.TopP != 0.95 {
		t.Errorf("TopP = %v, want 0.95", cfg.TopP)
	}
	if cfg.TopK != 40 {
		t.Errorf("TopK = %d, want 40", cfg.TopK)
	}
	if cfg.MaxOutputTokens != 8192 {
		t.Errorf("MaxOutputTokens = %d, want 8192", cfg.MaxOutputTokens)
	}
}

func TestRole_WireRole(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "user"},
		{RoleAssistant, "model"},
		{Role("anything"), "model"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.WireRole(); got != tt.want {
				t.Errorf("WireRole() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPart_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		part Part
		want string
	}{
		{"text", Part{Text: "hello"}, `{"text":"hello"}`},
		{"empty text is kept", Part{}, `{"text":""}`},
		{
			"inline data wins over text",
			Part{Text: "ignored", InlineData: &InlineData{MIMEType: "image/png", Data: "AAAA"}},
			`{"inline_data":{"mime_type":"image/png","data":"AAAA"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.part)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestPart_IsText(t *testing.T) {
	if !(Part{Text: "x"}).IsText() {
		t.Error("text part should report IsText")
	}
	if (Part{InlineData: &InlineData{}}).IsText() {
		t.Error("media part should not report IsText")
	}
}

func TestChatRequest_WireNames(t *testing.T) {
	var req ChatRequest
	body := `{"message":"q","imageDataUrl":"data:image/png;base64,AA","history":[{"role":"model","content":"hi"}]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if req.Message != "q" || req.ImageDataURL != "data:image/png;base64,AA" {
		t.Errorf("unexpected request: %+v", req)
	}
	if len(req.History) != 1 || req.History[0].Role != WireRoleModel || req.History[0].Content != "hi" {
		t.Errorf("unexpected history: %+v", req.History)
	}
}

func TestSupportedImageTypes(t *testing.T) {
	types := SupportedImageTypes()
	want := map[string]bool{"image/jpeg": true, "image/png": true, "image/webp": true}

	for _, typ := range types {
		delete(want, typ)
	}
	if len(want) != 0 {
		t.Errorf("missing image types: %v", want)
	}
}

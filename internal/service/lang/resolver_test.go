package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/mocks"
)

func TestDetectLanguage_EmptyInputSkipsBackend(t *testing.T) {
	// Arrange
	llm := &mocks.MockLLM{Response: "de"}
	r := NewResolver(llm, "en", zap.NewNop())

	// Act
	got := r.DetectLanguage(context.Background(), "   \n\t")

	// Assert
	if got != "en" {
		t.Errorf("expected default 'en', got '%s'", got)
	}
	if llm.CallCount() != 0 {
		t.Errorf("expected no backend call, got %d", llm.CallCount())
	}
}

func TestDetectLanguage_UsesDeterministicTemperature(t *testing.T) {
	// Arrange
	llm := &mocks.MockLLM{Response: "ru"}
	r := NewResolver(llm, "en", zap.NewNop())

	// Act
	got := r.DetectLanguage(context.Background(), "привет")

	// Assert
	if got != "ru" {
		t.Errorf("expected 'ru', got '%s'", got)
	}
	if llm.Calls[0].Temperature != 0 {
		t.Errorf("expected temperature 0, got %v", llm.Calls[0].Temperature)
	}
}

func TestDetectLanguage_BackendErrorFallsBack(t *testing.T) {
	// Arrange
	llm := &mocks.MockLLM{Err: errors.New("rate limited")}
	r := NewResolver(llm, "de", zap.NewNop())

	// Act
	got := r.DetectLanguage(context.Background(), "hello")

	// Assert
	if got != "de" {
		t.Errorf("expected configured default 'de', got '%s'", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"ru", "ru"},
		{" DE\n", "de"},
		{`"en".`, "en"},
		{"Russian", "ru"},
		{"русский", "ru"},
		{"Deutsch", "de"},
		{"немецкий", "de"},
		{"zh-CN", "zh"},
		{"french", "fr"},
		{"xx", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.raw, "en"); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestTranslate_ReturnsBackendOutput(t *testing.T) {
	// Arrange
	llm := &mocks.MockLLM{Response: "  Hallo  "}
	r := NewResolver(llm, "en", zap.NewNop())

	// Act
	got := r.Translate(context.Background(), "hello", "de", "en")

	// Assert
	if got != "Hallo" {
		t.Errorf("expected 'Hallo', got '%s'", got)
	}
	call := llm.Calls[0]
	if call.Temperature > 0.3 {
		t.Errorf("expected temperature <= 0.3, got %v", call.Temperature)
	}
	if !strings.Contains(call.Prompt, "German") || !strings.Contains(call.Prompt, "from English") {
		t.Errorf("expected prompt to name target and source language, got %q", call.Prompt)
	}
}

func TestTranslate_FailureReturnsOriginal(t *testing.T) {
	// Arrange
	llm := &mocks.MockLLM{Err: errors.New("timeout")}
	r := NewResolver(llm, "en", zap.NewNop())

	// Act
	got := r.Translate(context.Background(), "hello", "de", "")

	// Assert
	if got != "hello" {
		t.Errorf("expected original text, got '%s'", got)
	}
}

func TestTranslate_EmptyInput(t *testing.T) {
	llm := &mocks.MockLLM{Response: "x"}
	r := NewResolver(llm, "en", zap.NewNop())

	if got := r.Translate(context.Background(), " ", "de", ""); got != "" {
		t.Errorf("expected empty result, got '%s'", got)
	}
	if llm.CallCount() != 0 {
		t.Error("expected no backend call for empty input")
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName("de"); got != "German" {
		t.Errorf("expected 'German', got '%s'", got)
	}
	if got := LanguageName("nl"); got != "NL" {
		t.Errorf("expected 'NL', got '%s'", got)
	}
}

func TestCodeForName(t *testing.T) {
	for name, want := range map[string]string{"German": "de", "немецкий": "de", "Deutsche": "de", "es": "es", "中文": "zh"} {
		got, ok := CodeForName(name)
		if !ok || got != want {
			t.Errorf("CodeForName(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}
	if _, ok := CodeForName("klingon"); ok {
		t.Error("expected unknown language to be rejected")
	}
}

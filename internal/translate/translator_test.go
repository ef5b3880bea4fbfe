package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"deskrag/internal/llm"
)

func TestTranslate_ReturnsTrimmedTranslation(t *testing.T) {
	mock := llm.NewMockLLM("  What is the minimum deposit?  ")
	tr := NewTranslator(mock)

	got := tr.Translate(context.Background(), "حداقل واریز چقدره؟")
	if got != "What is the minimum deposit?" {
		t.Errorf("Translate = %q", got)
	}
	if !strings.Contains(mock.LastPrompt(), "حداقل واریز چقدره؟") {
		t.Error("prompt does not embed the native question")
	}
	if !strings.Contains(mock.LastPrompt(), "English:") {
		t.Error("prompt is missing the few-shot scaffold")
	}
}

func TestTranslate_FallsBackOnFailure(t *testing.T) {
	tr := NewTranslator(llm.NewMockLLMWithError(errors.New("timeout")))

	native := "موضوع: واریز\nمتن: حداقل چقدره؟"
	if got := tr.Translate(context.Background(), native); got != native {
		t.Errorf("fallback = %q, want the untranslated text", got)
	}
}

func TestTranslate_FallsBackOnEmptyOutput(t *testing.T) {
	tr := NewTranslator(llm.NewMockLLM("   "))
	if got := tr.Translate(context.Background(), "native"); got != "native" {
		t.Errorf("fallback = %q, want %q", got, "native")
	}
}

// Package translate normalizes a user's native-language question into a
// retrieval-optimized query in the embedding model's primary language.
package translate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"deskrag/internal/llm"
)

// fewShot primes the model with question-rewrite pairs in the corpus domain.
const fewShot = "Persian: حداقل پولی که میتونم باهاش سرمایه گذاری کنم چقدره؟\n" +
	"English: What is the minimum capital required to start investing?\n\n" +
	"Persian: تو این شرایط بازار چه نوع استراتژی پیشنهاد میدی؟\n" +
	"English: What kind of strategy do you recommend in this market condition?"

// Translator rewrites native-language questions into English retrieval
// queries via a few-shot prompt.
type Translator struct {
	llm llm.LLM
}

// NewTranslator creates a translator backed by the given LLM.
func NewTranslator(generator llm.LLM) *Translator {
	return &Translator{llm: generator}
}

// Translate returns the retrieval-optimized form of nativeText. If the
// generation call fails, the failure is logged and the untranslated text is
// returned so retrieval can proceed degraded instead of failing the whole
// answer.
func (t *Translator) Translate(ctx context.Context, nativeText string) string {
	prompt := fmt.Sprintf("%s\nPersian: %s\nEnglish:", fewShot, nativeText)

	translated, err := t.llm.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[translate] falling back to untranslated query: %v", err)
		return nativeText
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		log.Printf("[translate] empty translation, falling back to untranslated query")
		return nativeText
	}
	return translated
}

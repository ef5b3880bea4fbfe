package responder

import (
	"fmt"
	"strings"
)

// composePrompt builds the single generation request for answer synthesis.
// The output-language constraint and the context-over-open-domain rule are
// enforced only through this text; nothing checks the model's compliance
// programmatically.
func composePrompt(nativeQuestion, translatedQuestion, summary, generalContext, expertContext, language string) string {
	var b strings.Builder

	upper := strings.ToUpper(language)
	fmt.Fprintf(&b, "Answer in %s only — both written and spoken. Do not mix in any other language or script.\n", upper)
	b.WriteString("Do NOT mention that you are an AI or that you are reading from a source. ")
	b.WriteString("Keep answers SHORT, CLEAR, and ACCURATE. You are acting as sales support for a trading academy. ")
	b.WriteString("Use ONLY the provided internal context as your main source.\n")
	b.WriteString("Only if the context is clearly insufficient, use general financial knowledge — and clearly state that you're doing so.\n\n")

	b.WriteString("### GENERAL KNOWLEDGE CONTEXT:\n")
	b.WriteString(generalContext)
	b.WriteString("\n\n### EXPERT STRATEGY CONTEXT:\n")
	b.WriteString(expertContext)
	b.WriteString("\n\n### CONVERSATION SUMMARY:\n")
	b.WriteString(summary)
	fmt.Fprintf(&b, "\n\n### %s QUESTION:\n", upper)
	b.WriteString(nativeQuestion)
	b.WriteString("\n\n### ENGLISH TRANSLATION:\n")
	b.WriteString(translatedQuestion)
	b.WriteString("\n\n### FINAL ANSWER:")

	return b.String()
}

// condensePrompt asks for a short, friendly rewrite of an answer without new
// content, in the configured output language.
func condensePrompt(answer, language string) string {
	return fmt.Sprintf(
		"Rewrite the following assistant reply in %s, keeping it short (3-5 sentences), FRIENDLY, and based only on the original answer. "+
			"Do not add any new content.\n\nOriginal answer:\n%s", language, answer)
}

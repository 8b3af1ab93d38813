package rag

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are a helpful assistant. Use the provided context to answer the question.
If the answer isn't in the context, say you don't know.

Context:
%s

Question: %s

Answer:`

// BuildPrompt assembles the generation prompt from the question and the
// retrieved chunk texts. Contexts must already be ordered by descending
// relevance; they are joined with blank lines.
func BuildPrompt(question string, contexts []string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(contexts, "\n\n"), question)
}

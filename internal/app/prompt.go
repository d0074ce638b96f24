package app

import "fmt"

// promptTemplate carries a real line break after "include" and the "don;t" spelling.
const promptTemplate = "Give me proper text based response based on the following document and do not do any formatting and don;t include \n or enter in the response, answer this question: \"%s\" Document content : %s"

// BuildPrompt embeds the question and the document text into the fixed instruction.
// maxDocumentChars <= 0 keeps the whole document; otherwise the text is cut to that many runes.
// The question is never truncated.
func BuildPrompt(question, content string, maxDocumentChars int) string {
	return fmt.Sprintf(promptTemplate, question, truncateRunes(content, maxDocumentChars))
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

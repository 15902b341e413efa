// Package rag implements the question-answering pipeline: keyword extraction,
// context retrieval from the knowledge and observation stores, prompt
// construction, and the call to the hosted generation model.
package rag

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

var stopWords = map[string]struct{}{
	"what": {}, "when": {}, "where": {}, "which": {}, "does": {},
	"how": {}, "many": {}, "much": {}, "with": {}, "that": {},
	"this": {}, "have": {}, "from": {},
}

// ExtractKeywords turns a question into search keywords: lower-cased,
// punctuation stripped, tokens longer than 3 characters, stop words removed.
// Order follows first occurrence in the question; duplicates are kept.
func ExtractKeywords(question string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(question), "")

	var keywords []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

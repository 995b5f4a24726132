package service

import "strings"

// ResponseKind is the outcome of parsing a combined-mode answer.
type ResponseKind int

const (
	ResponseParsed ResponseKind = iota
	ResponseNotFound
	ResponseUnstructured
)

type ParsedResponse struct {
	Kind         ResponseKind
	ChapterTitle string
	Summary      string
	Notes        string
}

// ParseStructuredResponse splits raw on the chapter, summary and notes sentinels.
// Output missing a sentinel is returned whole as the summary; it is never an error.
func ParseStructuredResponse(raw string) ParsedResponse {
	if strings.Contains(raw, ChapterNotFound) {
		return ParsedResponse{Kind: ResponseNotFound}
	}

	_, rest, ok := strings.Cut(raw, SentinelChapter)
	if !ok {
		return unstructured(raw)
	}
	title, rest, ok := strings.Cut(rest, SentinelSummary)
	if !ok {
		return unstructured(raw)
	}
	summary, notes, ok := strings.Cut(rest, SentinelNotes)
	if !ok {
		return unstructured(raw)
	}
	return ParsedResponse{
		Kind:         ResponseParsed,
		ChapterTitle: strings.TrimSpace(title),
		Summary:      strings.TrimSpace(summary),
		Notes:        strings.TrimSpace(notes),
	}
}

func unstructured(raw string) ParsedResponse {
	return ParsedResponse{Kind: ResponseUnstructured, Summary: raw}
}

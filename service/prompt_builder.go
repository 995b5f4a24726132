package service

import (
	"fmt"

	"github.com/tieubaoca/docsum-be/types"
)

// PromptMode selects the instruction template.
type PromptMode int

const (
	ModeSummary PromptMode = iota
	ModeNotes
	ModeCombined
	// ModeBriefSummary and ModeBriefNotes are the shorter prompts used when summary
	// and notes are requested as two independent upstream calls.
	ModeBriefSummary
	ModeBriefNotes
)

const (
	SentinelChapter  = "---CHAPTER---"
	SentinelSummary  = "---SUMMARY---"
	SentinelNotes    = "---NOTES---"
	ChapterNotFound  = "Chapter not found in the document."
	summaryMaxTokens = 2000
	notesMaxTokens   = 3000
)

// Prompt is a ready-to-send chat exchange.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

// PromptBuilder renders the instruction sent upstream. The text is embedded as given;
// callers decide how much of the document to send.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (b *PromptBuilder) Build(mode PromptMode, req types.GenerationRequest) Prompt {
	switch mode {
	case ModeNotes:
		return Prompt{
			System:    "You are an expert at creating organized, topic-wise educational notes. Make them clear, structured, and easy to study from.",
			User:      notesPrompt(req),
			MaxTokens: notesMaxTokens,
		}
	case ModeCombined:
		return Prompt{
			System:    "You are an expert academic assistant.",
			User:      combinedPrompt(req),
			MaxTokens: notesMaxTokens,
		}
	case ModeBriefSummary:
		return Prompt{
			System:    "You are an expert summarizer.",
			User:      briefSummaryPrompt(req),
			MaxTokens: summaryMaxTokens,
		}
	case ModeBriefNotes:
		return Prompt{
			System:    "You are an expert note-maker.",
			User:      briefNotesPrompt(req),
			MaxTokens: notesMaxTokens,
		}
	default:
		return Prompt{
			System:    "You are an expert educational content summarizer. Create clear, concise summaries that capture key information.",
			User:      summaryPrompt(req),
			MaxTokens: summaryMaxTokens,
		}
	}
}

func summaryPrompt(req types.GenerationRequest) string {
	if req.HasChapter() {
		return fmt.Sprintf(`You are an expert at creating educational summaries.

Text from document:
%[1]s

Task: Create a summary focusing on "%[2]s"

Instructions:
- Read through the entire text carefully
- Look for sections, headings, or content related to "%[2]s"
- Write a clear, concise summary in approximately %[3]d words
- If "%[2]s" content is found, summarize ONLY that section
- If "%[2]s" is not found, state that clearly and suggest what content is available
- Cover key concepts, main ideas, and important points
- Use simple, easy-to-understand language

Generate the summary now:`, req.Text, req.Chapter, req.WordCount)
	}
	return fmt.Sprintf(`You are an expert at creating educational summaries.

Text to summarize:
%s

Task: Create a comprehensive summary

Requirements:
- Write a clear, concise summary in approximately %d words
- Cover all key concepts and main ideas
- Use simple, easy-to-understand language
- Structure: Introduction → Main Points → Conclusion

Generate the summary now:`, req.Text, req.WordCount)
}

func notesPrompt(req types.GenerationRequest) string {
	if req.HasChapter() {
		return fmt.Sprintf(`You are an expert note-maker for students.

Text from document:
%[1]s

Task: Create detailed, topic-wise notes focusing on "%[2]s"

Instructions:
- Read through the text carefully
- Look for sections, headings, or content related to "%[2]s"
- If "%[2]s" content is found, create notes ONLY for that section
- If "%[2]s" is not found, state that clearly
- For each topic, provide:
   - Clear heading
   - Key points (bullet points)
   - Important definitions
   - Examples if available
- Format as structured notes using markdown
- Make it student-friendly

Generate topic-wise notes now:`, req.Text, req.Chapter)
	}
	return fmt.Sprintf(`You are an expert note-maker for students.

Text:
%s

Task: Create detailed, topic-wise notes from this content

Requirements:
1. Identify all major topics/concepts
2. For each topic, provide:
   - Clear heading
   - Key points (bullet points)
   - Important definitions
   - Examples if available
3. Format as structured notes
4. Use markdown formatting
5. Make it student-friendly

Generate topic-wise notes now:`, req.Text)
}

func combinedPrompt(req types.GenerationRequest) string {
	return fmt.Sprintf(`You are an academic assistant. You are given a textbook content.

TASK:
1. Search the text and extract ONLY the content for chapter "%[1]s".
2. If the chapter is not found, reply exactly: "%[3]s"
3. For the chapter found, provide:
   - The chapter title
   - A concise summary (%[2]d words)
   - Structured topic-wise notes using headings and bullet points

OUTPUT FORMAT:
%[4]s
<chapter title or number>
%[5]s
<summary here>
%[6]s
<notes here>

Text:
%[7]s
`, req.Chapter, req.WordCount, ChapterNotFound, SentinelChapter, SentinelSummary, SentinelNotes, req.Text)
}

func briefSummaryPrompt(req types.GenerationRequest) string {
	if req.HasChapter() {
		return fmt.Sprintf(`Text from document: %[1]s

Create a %[2]d-word summary focusing on "%[3]s".
Read the text and identify content related to "%[3]s", then summarize the key concepts clearly.`, req.Text, req.WordCount, req.Chapter)
	}
	return fmt.Sprintf(`Text: %s

Create a %d-word summary covering all key concepts clearly and concisely.`, req.Text, req.WordCount)
}

func briefNotesPrompt(req types.GenerationRequest) string {
	if req.HasChapter() {
		return fmt.Sprintf(`Text from document: %[1]s

Create detailed topic-wise notes focusing on "%[2]s".
Identify content related to "%[2]s" and format as topics with bullet points, definitions, and key concepts.`, req.Text, req.Chapter)
	}
	return fmt.Sprintf(`Text: %s

Create detailed topic-wise notes.
Format: Topics with bullet points, definitions, and key concepts.`, req.Text)
}

// FormatStructuredResponse renders a combined-mode answer the way the model is asked to.
func FormatStructuredResponse(title, summary, notes string) string {
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s\n", SentinelChapter, title, SentinelSummary, summary, SentinelNotes, notes)
}

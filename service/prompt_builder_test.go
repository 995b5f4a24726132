package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tieubaoca/docsum-be/types"
)

func TestPromptBuilder(t *testing.T) {
	b := NewPromptBuilder()
	full := types.GenerationRequest{Text: "DOCUMENT BODY", WordCount: 150}
	chapter := types.GenerationRequest{Text: "DOCUMENT BODY", Chapter: "Chapter 2", WordCount: 150}

	t.Run("summary without chapter", func(t *testing.T) {
		p := b.Build(ModeSummary, full)
		assert.Contains(t, p.User, "DOCUMENT BODY")
		assert.Contains(t, p.User, "approximately 150 words")
		assert.NotContains(t, p.User, "Chapter 2")
		assert.Equal(t, summaryMaxTokens, p.MaxTokens)
		assert.NotEmpty(t, p.System)
	})

	t.Run("summary with chapter", func(t *testing.T) {
		p := b.Build(ModeSummary, chapter)
		assert.Contains(t, p.User, `focusing on "Chapter 2"`)
		assert.Contains(t, p.User, "approximately 150 words")
	})

	t.Run("notes", func(t *testing.T) {
		p := b.Build(ModeNotes, chapter)
		assert.Contains(t, p.User, `"Chapter 2"`)
		assert.Contains(t, p.User, "markdown")
		assert.Equal(t, notesMaxTokens, p.MaxTokens)

		p = b.Build(ModeNotes, full)
		assert.Contains(t, p.User, "topic-wise notes")
	})

	t.Run("combined carries sentinels", func(t *testing.T) {
		p := b.Build(ModeCombined, chapter)
		assert.Contains(t, p.User, SentinelChapter)
		assert.Contains(t, p.User, SentinelSummary)
		assert.Contains(t, p.User, SentinelNotes)
		assert.Contains(t, p.User, ChapterNotFound)
		assert.Contains(t, p.User, `chapter "Chapter 2"`)
		assert.Contains(t, p.User, "(150 words)")
	})

	t.Run("brief prompts", func(t *testing.T) {
		assert.Contains(t, b.Build(ModeBriefSummary, full).User, "150-word summary")
		assert.Contains(t, b.Build(ModeBriefSummary, chapter).User, `"Chapter 2"`)
		assert.Contains(t, b.Build(ModeBriefNotes, chapter).User, `"Chapter 2"`)
		assert.Equal(t, notesMaxTokens, b.Build(ModeBriefNotes, full).MaxTokens)
	})
}

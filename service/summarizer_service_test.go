package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/docsum-be/config"
	"github.com/tieubaoca/docsum-be/types"
	"go.uber.org/zap"
)

type gatewayCall struct {
	System    string
	User      string
	MaxTokens int
}

// fakeGateway returns queued replies in order and records every prompt.
type fakeGateway struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   []gatewayCall
}

func (g *fakeGateway) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{System: systemPrompt, User: userPrompt, MaxTokens: maxTokens})
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "ok", nil
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) ExtractText(ctx context.Context, doc types.UploadedDocument) (string, error) {
	return e.text, e.err
}

var testSummarizerConfig = config.SummarizerConfig{
	MaxChars:         8000,
	ChapterMaxChars:  20000,
	DefaultWordCount: 300,
	CombinedStrategy: config.StrategyCombined,
}

func newTestSummarizer(extractor TextExtractor, gateway LLMGateway) *SummarizerService {
	return NewSummarizerService(extractor, gateway, NewPromptBuilder(), testSummarizerConfig, zap.NewNop())
}

func TestSummarizerService_Summarize(t *testing.T) {
	ctx := context.Background()

	t.Run("single upstream call", func(t *testing.T) {
		gw := &fakeGateway{replies: []string{"A short summary."}}
		s := newTestSummarizer(&fakeExtractor{}, gw)

		got, err := s.Summarize(ctx, types.GenerationInput{Text: "Hello World", WordCount: 5})
		require.NoError(t, err)
		assert.Equal(t, "A short summary.", got.Summary)
		require.Len(t, gw.calls, 1)
		assert.Contains(t, gw.calls[0].User, "Hello World")
		assert.Contains(t, gw.calls[0].User, "approximately 5 words")
	})

	t.Run("default word count", func(t *testing.T) {
		gw := &fakeGateway{}
		s := newTestSummarizer(&fakeExtractor{}, gw)

		_, err := s.Summarize(ctx, types.GenerationInput{Text: "body"})
		require.NoError(t, err)
		require.Len(t, gw.calls, 1)
		assert.Contains(t, gw.calls[0].User, "approximately 300 words")
	})

	t.Run("document is extracted", func(t *testing.T) {
		gw := &fakeGateway{}
		s := newTestSummarizer(&fakeExtractor{text: "EXTRACTED"}, gw)

		_, err := s.Summarize(ctx, types.GenerationInput{
			Document: &types.UploadedDocument{Filename: "a.txt", Content: strings.NewReader("")},
			Text:     "ignored",
		})
		require.NoError(t, err)
		assert.Contains(t, gw.calls[0].User, "EXTRACTED")
		assert.NotContains(t, gw.calls[0].User, "ignored")
	})

	t.Run("extraction failure skips upstream", func(t *testing.T) {
		gw := &fakeGateway{}
		s := newTestSummarizer(&fakeExtractor{err: types.ErrUnsupportedFormat}, gw)

		_, err := s.Summarize(ctx, types.GenerationInput{
			Document: &types.UploadedDocument{Filename: "a.xyz", Content: strings.NewReader("")},
		})
		assert.True(t, types.IsKind(err, types.KindUnsupportedFormat))
		assert.Empty(t, gw.calls)
	})

	t.Run("blank text", func(t *testing.T) {
		gw := &fakeGateway{}
		s := newTestSummarizer(&fakeExtractor{}, gw)

		_, err := s.Summarize(ctx, types.GenerationInput{Text: "   "})
		assert.True(t, types.IsKind(err, types.KindEmptyContent))
		assert.Empty(t, gw.calls)
	})

	t.Run("missing api key", func(t *testing.T) {
		s := newTestSummarizer(&fakeExtractor{}, nil)
		assert.False(t, s.Available())

		_, err := s.Summarize(ctx, types.GenerationInput{Text: "body"})
		require.Error(t, err)
		assert.Equal(t, "API key not configured", types.AsAppError(err).Message)
		assert.Equal(t, 500, types.AsAppError(err).Status)
	})

	t.Run("upstream failure", func(t *testing.T) {
		gw := &fakeGateway{err: errors.New("429 rate limited")}
		s := newTestSummarizer(&fakeExtractor{}, gw)

		_, err := s.Summarize(ctx, types.GenerationInput{Text: "body"})
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.KindUpstreamFailure))
		assert.Contains(t, err.Error(), "429 rate limited")
	})
}

func TestSummarizerService_Truncation(t *testing.T) {
	ctx := context.Background()
	long := strings.Repeat("é", 25000)

	tests := []struct {
		name    string
		chapter string
		run     func(s *SummarizerService, in types.GenerationInput) error
		limit   int
	}{
		{"summary without chapter", "", func(s *SummarizerService, in types.GenerationInput) error {
			_, err := s.Summarize(ctx, in)
			return err
		}, 8000},
		{"summary with chapter", "Chapter 1", func(s *SummarizerService, in types.GenerationInput) error {
			_, err := s.Summarize(ctx, in)
			return err
		}, 20000},
		{"notes with chapter", "Chapter 1", func(s *SummarizerService, in types.GenerationInput) error {
			_, err := s.CreateNotes(ctx, in)
			return err
		}, 20000},
		{"combined", "Chapter 1", func(s *SummarizerService, in types.GenerationInput) error {
			_, err := s.SummarizeAndNotes(ctx, in, StrategyCombined)
			return err
		}, 8000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{replies: []string{FormatStructuredResponse("c", "s", "n")}}
			s := newTestSummarizer(&fakeExtractor{}, gw)

			require.NoError(t, tt.run(s, types.GenerationInput{Text: long, Chapter: tt.chapter}))
			require.Len(t, gw.calls, 1)
			assert.Contains(t, gw.calls[0].User, strings.Repeat("é", tt.limit))
			assert.NotContains(t, gw.calls[0].User, strings.Repeat("é", tt.limit+1))
		})
	}
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", TruncateText("abcdef", 3))
	assert.Equal(t, "abc", TruncateText("abc", 10))
	assert.Equal(t, "日本", TruncateText("日本語", 2))
	assert.Equal(t, "", TruncateText("abc", 0))

	in := strings.Repeat("x", 9000)
	out := TruncateText(in, 8000)
	assert.Len(t, out, 8000)
	assert.True(t, strings.HasPrefix(in, out))
}

func TestSummarizerService_SummarizeAndNotes(t *testing.T) {
	ctx := context.Background()
	in := types.GenerationInput{Text: "Chapter 1: Atoms. Atoms are small.", Chapter: "Chapter 1", WordCount: 50}

	t.Run("combined parses sentinels", func(t *testing.T) {
		gw := &fakeGateway{replies: []string{FormatStructuredResponse("Chapter 1: Atoms", "Atoms are small.", "- atoms")}}
		s := newTestSummarizer(&fakeExtractor{}, gw)

		got, err := s.SummarizeAndNotes(ctx, in, StrategyCombined)
		require.NoError(t, err)
		assert.Len(t, gw.calls, 1)
		assert.Equal(t, "Chapter 1: Atoms", got.ChapterTitle)
		assert.Equal(t, "Atoms are small.", got.Summary)
		assert.Equal(t, "- atoms", got.Notes)
	})

	t.Run("combined chapter not found", func(t *testing.T) {
		gw := &fakeGateway{replies: []string{"Chapter not found in the document."}}
		s := newTestSummarizer(&fakeExtractor{}, gw)

		_, err := s.SummarizeAndNotes(ctx, in, StrategyCombined)
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.KindChapterNotFound))
		assert.Equal(t, 404, types.AsAppError(err).Status)
	})

	t.Run("combined unstructured reply", func(t *testing.T) {
		gw := &fakeGateway{replies: []string{"free form answer"}}
		s := newTestSummarizer(&fakeExtractor{}, gw)

		got, err := s.SummarizeAndNotes(ctx, in, StrategyCombined)
		require.NoError(t, err)
		assert.Equal(t, "free form answer", got.Summary)
		assert.Empty(t, got.Notes)
	})

	t.Run("combined requires chapter", func(t *testing.T) {
		gw := &fakeGateway{}
		s := newTestSummarizer(&fakeExtractor{}, gw)

		_, err := s.SummarizeAndNotes(ctx, types.GenerationInput{Text: "body"}, StrategyCombined)
		require.Error(t, err)
		assert.True(t, types.IsKind(err, types.KindChapterRequired))
		assert.Empty(t, gw.calls)
	})

	t.Run("two call", func(t *testing.T) {
		gw := &fakeGateway{replies: []string{"the summary", "the notes"}}
		s := newTestSummarizer(&fakeExtractor{}, gw)

		got, err := s.SummarizeAndNotes(ctx, in, StrategyTwoCall)
		require.NoError(t, err)
		require.Len(t, gw.calls, 2)
		assert.Equal(t, "the summary", got.Summary)
		assert.Equal(t, "the notes", got.Notes)
		assert.Equal(t, "Chapter 1", got.ChapterTitle)
		assert.Contains(t, gw.calls[0].User, "50-word summary")
		assert.Contains(t, gw.calls[1].User, "topic-wise notes")
	})

	t.Run("two call without chapter", func(t *testing.T) {
		gw := &fakeGateway{}
		s := newTestSummarizer(&fakeExtractor{}, gw)

		got, err := s.SummarizeAndNotes(ctx, types.GenerationInput{Text: "body"}, StrategyTwoCall)
		require.NoError(t, err)
		assert.Len(t, gw.calls, 2)
		assert.Equal(t, "Full document", got.ChapterTitle)
	})
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"combined", " Combined "} {
		got, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, StrategyCombined, got)
	}
	for _, name := range []string{"two-call", "two_call", "TwoCall"} {
		got, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, StrategyTwoCall, got)
	}
	_, err := ParseStrategy("parallel")
	assert.True(t, types.IsKind(err, types.KindInvalidParam))
}

func TestSummarizerService_DefaultStrategy(t *testing.T) {
	assert.Equal(t, StrategyCombined, newTestSummarizer(nil, nil).DefaultStrategy())

	cfg := testSummarizerConfig
	cfg.CombinedStrategy = config.StrategyTwoCall
	s := NewSummarizerService(nil, nil, NewPromptBuilder(), cfg, zap.NewNop())
	assert.Equal(t, StrategyTwoCall, s.DefaultStrategy())
}

func TestSummarizerService_OCRTextReachesGateway(t *testing.T) {
	logger := zap.NewNop()
	ocr := &fakeOCR{text: "\n--- Page 1 ---\nScanned chapter about volcanoes\n"}
	extractor := NewFileService(
		NewPDFService(config.OCRConfig{Enabled: true, MinChars: 200}, ocr, t.TempDir(), logger),
		NewDocxService(),
		NewTextService(),
		logger,
	)
	gw := &fakeGateway{}
	s := newTestSummarizer(extractor, gw)

	pdf := blankPDF()
	_, err := s.Summarize(context.Background(), types.GenerationInput{
		Document: &types.UploadedDocument{Filename: "scan.pdf", Size: int64(len(pdf)), Content: bytes.NewReader(pdf)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ocr.calls)
	require.Len(t, gw.calls, 1)
	assert.Contains(t, gw.calls[0].User, "Scanned chapter about volcanoes")
}

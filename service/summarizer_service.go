package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tieubaoca/docsum-be/config"
	"github.com/tieubaoca/docsum-be/types"
	"go.uber.org/zap"
)

// Strategy selects how /summarize-and-notes reaches the upstream model.
type Strategy string

const (
	// StrategyCombined asks for chapter, summary and notes in a single call and
	// splits the answer on sentinels.
	StrategyCombined Strategy = config.StrategyCombined
	// StrategyTwoCall issues independent summary and notes calls. The two answers
	// are not reconciled and may disagree about the chapter.
	StrategyTwoCall Strategy = config.StrategyTwoCall
)

// ParseStrategy maps a client supplied name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case StrategyCombined:
		return StrategyCombined, nil
	case StrategyTwoCall, "twocall", "two_call":
		return StrategyTwoCall, nil
	default:
		return "", types.NewAppError(types.KindInvalidParam, fmt.Sprintf("Invalid strategy %q", name)).
			WithDetail("Use combined or two-call")
	}
}

type stage string

const (
	stageReceived         stage = "received"
	stageExtracting       stage = "extracting"
	stageExtracted        stage = "extracted"
	stagePrompting        stage = "prompting"
	stageAwaitingUpstream stage = "awaiting_upstream"
	stageResponding       stage = "responding"
	stageCompleted        stage = "completed"
	stageFailed           stage = "failed"
)

// run tracks one request through the pipeline so failures are logged with the
// stage they happened in.
type run struct {
	op     string
	stage  stage
	start  time.Time
	logger *zap.Logger
}

func (r *run) advance(next stage) {
	r.stage = next
	r.logger.Debug("Stage", zap.String("op", r.op), zap.String("stage", string(next)))
}

func (r *run) fail(err error) error {
	r.logger.Warn("Request failed",
		zap.String("op", r.op),
		zap.String("stage", string(r.stage)),
		zap.Duration("elapsed", time.Since(r.start)),
		zap.Error(err))
	r.stage = stageFailed
	return err
}

func (r *run) complete() {
	r.stage = stageCompleted
	r.logger.Info("Request completed", zap.String("op", r.op), zap.Duration("elapsed", time.Since(r.start)))
}

// SummarizerService composes extraction, prompting, the upstream call and
// response parsing for every generation endpoint.
type SummarizerService struct {
	extractor TextExtractor
	gateway   LLMGateway
	prompts   *PromptBuilder
	cfg       config.SummarizerConfig
	logger    *zap.Logger
}

// NewSummarizerService wires the orchestrator. gateway may be nil when no API key
// is configured; every generation call then fails with "API key not configured".
func NewSummarizerService(
	extractor TextExtractor,
	gateway LLMGateway,
	prompts *PromptBuilder,
	cfg config.SummarizerConfig,
	logger *zap.Logger,
) *SummarizerService {
	return &SummarizerService{
		extractor: extractor,
		gateway:   gateway,
		prompts:   prompts,
		cfg:       cfg,
		logger:    logger,
	}
}

// Available reports whether an upstream gateway is configured.
func (s *SummarizerService) Available() bool {
	return s.gateway != nil
}

// DefaultStrategy is the configured strategy for /summarize-and-notes.
func (s *SummarizerService) DefaultStrategy() Strategy {
	if s.cfg.CombinedStrategy == config.StrategyTwoCall {
		return StrategyTwoCall
	}
	return StrategyCombined
}

// Summarize produces a summary of about WordCount words, scoped to Chapter if set.
func (s *SummarizerService) Summarize(ctx context.Context, in types.GenerationInput) (types.GenerationResult, error) {
	r := s.newRun(ctx, "summarize", in)
	req, err := s.prepare(ctx, r, in, s.limitFor(in.Chapter))
	if err != nil {
		return types.GenerationResult{}, r.fail(err)
	}
	summary, err := s.generate(ctx, r, ModeSummary, req)
	if err != nil {
		return types.GenerationResult{}, r.fail(err)
	}
	r.advance(stageResponding)
	r.complete()
	return types.GenerationResult{Summary: summary}, nil
}

// CreateNotes produces topic-structured notes, scoped to Chapter if set.
func (s *SummarizerService) CreateNotes(ctx context.Context, in types.GenerationInput) (types.GenerationResult, error) {
	r := s.newRun(ctx, "create_notes", in)
	req, err := s.prepare(ctx, r, in, s.limitFor(in.Chapter))
	if err != nil {
		return types.GenerationResult{}, r.fail(err)
	}
	notes, err := s.generate(ctx, r, ModeNotes, req)
	if err != nil {
		return types.GenerationResult{}, r.fail(err)
	}
	r.advance(stageResponding)
	r.complete()
	return types.GenerationResult{Notes: notes}, nil
}

// SummarizeAndNotes returns both a summary and notes using the given strategy.
func (s *SummarizerService) SummarizeAndNotes(ctx context.Context, in types.GenerationInput, strategy Strategy) (types.GenerationResult, error) {
	if strategy == StrategyTwoCall {
		return s.summarizeAndNotesTwoCall(ctx, in)
	}
	return s.summarizeAndNotesCombined(ctx, in)
}

func (s *SummarizerService) summarizeAndNotesCombined(ctx context.Context, in types.GenerationInput) (types.GenerationResult, error) {
	r := s.newRun(ctx, "summarize_and_notes", in)
	if s.gateway == nil {
		return types.GenerationResult{}, r.fail(types.ErrAPIKeyMissing)
	}
	if strings.TrimSpace(in.Chapter) == "" {
		return types.GenerationResult{}, r.fail(types.ErrChapterRequired)
	}
	req, err := s.prepare(ctx, r, in, s.cfg.MaxChars)
	if err != nil {
		return types.GenerationResult{}, r.fail(err)
	}
	raw, err := s.generate(ctx, r, ModeCombined, req)
	if err != nil {
		return types.GenerationResult{}, r.fail(err)
	}

	r.advance(stageResponding)
	parsed := ParseStructuredResponse(raw)
	switch parsed.Kind {
	case ResponseNotFound:
		return types.GenerationResult{}, r.fail(types.ErrChapterNotFound)
	case ResponseUnstructured:
		r.logger.Warn("Upstream answer missing sentinels, returning it as summary", zap.Int("chars", len(raw)))
	}
	r.complete()
	return types.GenerationResult{
		ChapterTitle: parsed.ChapterTitle,
		Summary:      parsed.Summary,
		Notes:        parsed.Notes,
	}, nil
}

func (s *SummarizerService) summarizeAndNotesTwoCall(ctx context.Context, in types.GenerationInput) (types.GenerationResult, error) {
	r := s.newRun(ctx, "summarize_and_notes_two_call", in)
	req, err := s.prepare(ctx, r, in, s.limitFor(in.Chapter))
	if err != nil {
		return types.GenerationResult{}, r.fail(err)
	}
	summary, err := s.generate(ctx, r, ModeBriefSummary, req)
	if err != nil {
		return types.GenerationResult{}, r.fail(err)
	}
	notes, err := s.generate(ctx, r, ModeBriefNotes, req)
	if err != nil {
		return types.GenerationResult{}, r.fail(err)
	}
	r.advance(stageResponding)
	r.complete()
	return types.GenerationResult{
		ChapterTitle: req.ChapterLabel(),
		Summary:      summary,
		Notes:        notes,
	}, nil
}

func (s *SummarizerService) newRun(ctx context.Context, op string, in types.GenerationInput) *run {
	logger := s.logger
	if id, ok := ctx.Value(types.RequestIDKey).(string); ok && id != "" {
		logger = logger.With(zap.String("request_id", id))
	}
	r := &run{op: op, stage: stageReceived, start: time.Now(), logger: logger}
	r.logger.Info("Generation requested",
		zap.String("op", op),
		zap.String("chapter", types.GenerationRequest{Chapter: in.Chapter}.ChapterLabel()),
		zap.Int("word_count", in.WordCount),
		zap.Bool("file", in.Document != nil))
	return r
}

// prepare resolves the input text and truncates it to limit characters.
func (s *SummarizerService) prepare(ctx context.Context, r *run, in types.GenerationInput, limit int) (types.GenerationRequest, error) {
	if s.gateway == nil {
		return types.GenerationRequest{}, types.ErrAPIKeyMissing
	}

	r.advance(stageExtracting)
	text := in.Text
	if in.Document != nil {
		var err error
		text, err = s.extractor.ExtractText(ctx, *in.Document)
		if err != nil {
			return types.GenerationRequest{}, err
		}
	}
	if strings.TrimSpace(text) == "" {
		return types.GenerationRequest{}, types.ErrEmptyContent
	}
	r.advance(stageExtracted)

	wordCount := in.WordCount
	if wordCount <= 0 {
		wordCount = s.cfg.DefaultWordCount
	}
	return types.GenerationRequest{
		Text:      TruncateText(text, limit),
		Chapter:   strings.TrimSpace(in.Chapter),
		WordCount: wordCount,
	}, nil
}

func (s *SummarizerService) generate(ctx context.Context, r *run, mode PromptMode, req types.GenerationRequest) (string, error) {
	r.advance(stagePrompting)
	prompt := s.prompts.Build(mode, req)

	r.advance(stageAwaitingUpstream)
	out, err := s.gateway.Generate(ctx, prompt.System, prompt.User, prompt.MaxTokens)
	if err != nil {
		return "", types.WrapAppError(err, types.KindUpstreamFailure, fmt.Sprintf("LLM request failed: %v", err))
	}
	return out, nil
}

// limitFor is the input cap for single-task prompts; locating a chapter needs more context.
func (s *SummarizerService) limitFor(chapter string) int {
	if strings.TrimSpace(chapter) != "" {
		return s.cfg.ChapterMaxChars
	}
	return s.cfg.MaxChars
}

// TruncateText returns the first limit characters (runes) of text.
func TruncateText(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}

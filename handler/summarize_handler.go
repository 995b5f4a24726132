package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docsum-be/service"
	"github.com/tieubaoca/docsum-be/types"
	"go.uber.org/zap"
)

type SummarizeHandler struct {
	summarizer     *service.SummarizerService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewSummarizeHandler(summarizer *service.SummarizerService, maxUploadBytes int64, logger *zap.Logger) *SummarizeHandler {
	return &SummarizeHandler{
		summarizer:     summarizer,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (h *SummarizeHandler) HandleSummarize(c *gin.Context) {
	form, ok := h.readInput(c, true)
	if !ok {
		return
	}
	defer form.closer()

	result, err := h.summarizer.Summarize(c.Request.Context(), form.input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.SummaryResponse{
		Success:   true,
		Summary:   result.Summary,
		Chapter:   chapterLabel(form.input.Chapter),
		WordCount: len(strings.Fields(result.Summary)),
	})
}

func (h *SummarizeHandler) HandleCreateNotes(c *gin.Context) {
	form, ok := h.readInput(c, false)
	if !ok {
		return
	}
	defer form.closer()

	result, err := h.summarizer.CreateNotes(c.Request.Context(), form.input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NotesResponse{
		Success: true,
		Notes:   result.Notes,
		Chapter: chapterLabel(form.input.Chapter),
	})
}

func (h *SummarizeHandler) HandleSummarizeAndNotes(c *gin.Context) {
	form, ok := h.readInput(c, true)
	if !ok {
		return
	}
	defer form.closer()

	strategy := h.summarizer.DefaultStrategy()
	if raw := c.PostForm("strategy"); strings.TrimSpace(raw) != "" {
		parsed, err := service.ParseStrategy(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		strategy = parsed
	}

	result, err := h.summarizer.SummarizeAndNotes(c.Request.Context(), form.input, strategy)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.SummaryAndNotesResponse{
		Success:          true,
		Chapter:          result.ChapterTitle,
		Summary:          result.Summary,
		Notes:            result.Notes,
		SummaryWordCount: len(strings.Fields(result.Summary)),
	})
}

// readInput checks the upstream credential before touching the form so a
// misconfigured server fails fast.
func (h *SummarizeHandler) readInput(c *gin.Context, withWordCount bool) (formInput, bool) {
	if !h.summarizer.Available() {
		writeError(c, types.ErrAPIKeyMissing)
		return formInput{}, false
	}
	form, err := parseForm(c, h.maxUploadBytes, withWordCount)
	if err != nil {
		h.logger.Debug("Rejected request input", zap.String("path", c.FullPath()), zap.Error(err))
		writeError(c, err)
		return formInput{}, false
	}
	return form, true
}

func chapterLabel(chapter string) string {
	return types.GenerationRequest{Chapter: chapter}.ChapterLabel()
}

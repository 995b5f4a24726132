package types

// GenerationRequest is the input shared by every generation operation.
type GenerationRequest struct {
	Text      string
	Chapter   string
	WordCount int
}

// HasChapter reports whether generation is scoped to a chapter.
func (r GenerationRequest) HasChapter() bool {
	return r.Chapter != ""
}

// ChapterLabel is the chapter echoed back to clients.
func (r GenerationRequest) ChapterLabel() string {
	if r.Chapter == "" {
		return "Full document"
	}
	return r.Chapter
}

// GenerationInput is what a client submitted: an uploaded document or raw text,
// plus generation options.
type GenerationInput struct {
	Document  *UploadedDocument
	Text      string
	Chapter   string
	WordCount int
}

type contextKey string

// RequestIDKey carries the request id in a request context.
const RequestIDKey contextKey = "request_id"

package types

// GenerationResult holds whatever the upstream model produced for a request.
type GenerationResult struct {
	Summary      string
	Notes        string
	ChapterTitle string
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
	Version string `json:"version,omitempty"`
}

type SummaryResponse struct {
	Success   bool   `json:"success"`
	Summary   string `json:"summary"`
	Chapter   string `json:"chapter"`
	WordCount int    `json:"word_count"`
}

type NotesResponse struct {
	Success bool   `json:"success"`
	Notes   string `json:"notes"`
	Chapter string `json:"chapter"`
}

type SummaryAndNotesResponse struct {
	Success          bool   `json:"success"`
	Chapter          string `json:"chapter"`
	Summary          string `json:"summary"`
	Notes            string `json:"notes"`
	SummaryWordCount int    `json:"summary_word_count"`
}

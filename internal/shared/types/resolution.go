package types

// ResolutionStatus classifies the terminal outcome of a single resolution.
type ResolutionStatus string

const (
	// StatusOK means a qualifying candidate was selected.
	StatusOK ResolutionStatus = "ok"
	// StatusFailed means navigation worked but no candidate qualified.
	// Retrying the same query is unlikely to help.
	StatusFailed ResolutionStatus = "failed"
	// StatusTimeout means navigation or scanning exceeded the bound.
	// Retryable.
	StatusTimeout ResolutionStatus = "timeout"
)

// SelectionReason records why a candidate won.
type SelectionReason string

const (
	ReasonTextMatch SelectionReason = "text_match"
	ReasonPosition  SelectionReason = "position"
	ReasonAriaLabel SelectionReason = "aria_label"
)

// FallbackStage identifies a strategy in the fallback chain.
type FallbackStage string

const (
	StageResolution FallbackStage = "resolution"
	StageSearch     FallbackStage = "search"
	StageHomepage   FallbackStage = "homepage"
	StageNone       FallbackStage = "none"
)

// FallbackStatus classifies the chain outcome.
type FallbackStatus string

const (
	FallbackOK        FallbackStatus = "ok"
	FallbackAllFailed FallbackStatus = "all_failed"
)

// LinkCandidate is a scanned hyperlink under consideration. Candidates live
// only for the duration of one resolution.
type LinkCandidate struct {
	URL           string  `json:"url"`
	Text          string  `json:"link_text"`
	PositionScore float64 `json:"position_score"`
	AriaLabel     string  `json:"aria_label,omitempty"`
}

// ResolutionResult is the canonical unit of resolver output. Treat as
// immutable once produced; cached copies are replayed verbatim apart from
// the FromCache flag.
type ResolutionResult struct {
	Status          ResolutionStatus `json:"status"`
	ResolvedURL     string           `json:"resolved_url,omitempty"`
	Query           string           `json:"query"`
	CandidatesFound int              `json:"candidates_found"`
	SelectedReason  SelectionReason  `json:"selected_reason,omitempty"`
	ElapsedMS       int64            `json:"elapsed_ms"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	FromCache       bool             `json:"from_cache"`
}

// OK reports whether the resolution produced a usable URL.
func (r ResolutionResult) OK() bool {
	return r.Status == StatusOK && r.ResolvedURL != ""
}

// FallbackResult is the type that crosses the subsystem boundary to the
// caller.
type FallbackResult struct {
	Status            FallbackStatus    `json:"status"`
	FinalURL          string            `json:"final_url,omitempty"`
	FallbackUsed      FallbackStage     `json:"fallback_used"`
	AttemptsMade      []string          `json:"attempts_made"`
	ResolutionDetails *ResolutionResult `json:"resolution_details,omitempty"`
	ElapsedMS         int64             `json:"elapsed_ms"`
	ErrorMessage      string            `json:"error_message,omitempty"`
}

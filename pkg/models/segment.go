package models

// Segment is a transcribed span of speech in the original spoken language.
// Start and End are offsets in seconds from the beginning of the audio.
// Segments produced by the transcription engine are time-ordered and
// non-overlapping; downstream stages rely on that without re-checking.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranslatedSegment is a Segment whose text has been mapped to the target
// language. Timing fields are copied verbatim from the source segment;
// translation never alters timing.
type TranslatedSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranslationStatus constants describe what happened to a transcript on its
// way through the translation stage.
const (
	TranslationSkipped  = "skipped" // source and target language match
	TranslationApplied  = "translated"
	TranslationDegraded = "degraded" // model unavailable, original text kept
)

// PipelineResult is the outcome of one pipeline run: the final segment
// sequence plus how (or whether) translation happened.
type PipelineResult struct {
	Segments          []TranslatedSegment `json:"segments"`
	SourceLanguage    string              `json:"source_language"`
	TargetLanguage    string              `json:"target_language"`
	TranslationStatus string              `json:"translation_status"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceType identifies one of the ingestable document sources. Each source
// owns its own namespace in the vector index.
type SourceType string

const (
	SourceFAQ SourceType = "faq"
	SourcePDF SourceType = "pdf"
	SourceDoc SourceType = "doc"
)

// AllSources lists every configured source in priority order.
func AllSources() []SourceType {
	return []SourceType{SourceFAQ, SourcePDF, SourceDoc}
}

// ValidSource reports whether s names a configured source type.
func ValidSource(s SourceType) bool {
	switch s {
	case SourceFAQ, SourcePDF, SourceDoc:
		return true
	}
	return false
}

// Chunk is one contiguous slice of a document's text, paired with its
// embedding. Chunks are immutable after ingestion.
type Chunk struct {
	ID        uuid.UUID      `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	Embedding []float32      `json:"embedding"`
}

// Metadata keys shared across sources. Sources add their own on top
// (FAQ: category; PDF: pages; DOC: paragraphs).
const (
	MetaFilename     = "filename"
	MetaFilesize     = "filesize"
	MetaFiletype     = "filetype"
	MetaLastModified = "last_modified"
	MetaChunkID      = "chunk_id"
	MetaCharStart    = "char_start"
	MetaCharEnd      = "char_end"
	MetaCategory     = "category"
	MetaPages        = "pages"
	MetaParagraphs   = "paragraphs"
	MetaCreatedAt    = "created_at"
)

// SearchResult is one retrieved chunk with its similarity distance
// (lower = more similar) and the source it came from.
type SearchResult struct {
	ID       uuid.UUID      `json:"id"`
	Content  string         `json:"content"`
	Distance float64        `json:"distance"`
	Source   SourceType     `json:"source"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ResultSet is an ordered sequence of search results, ascending by distance,
// with no duplicate ids.
type ResultSet []SearchResult

// SynthesizedResponse is the structured object the completion capability
// returns. EnoughContext comes from the model and is surfaced unmodified.
type SynthesizedResponse struct {
	Answer         string   `json:"answer"`
	ThoughtProcess []string `json:"thought_process"`
	EnoughContext  bool     `json:"enough_context"`
}

// Settings controls one retrieval session. The zero SourceType means
// "all sources". When SaveResults is set, each executed query's record is
// written to OutputFile; the two fields target the save operation itself and
// are never persisted with the rest.
type Settings struct {
	SourceType     SourceType     `json:"source_type,omitempty"`
	Limit          int            `json:"limit"`
	MetadataFilter map[string]any `json:"metadata_filter,omitempty"`
	Temperature    float64        `json:"temperature"`
	Model          string         `json:"model"`
	Provider       string         `json:"provider"`
	SystemPrompt   string         `json:"system_prompt,omitempty"`

	SaveResults bool   `json:"-"`
	OutputFile  string `json:"-"`
}

// DefaultSettings mirrors the defaults a fresh session starts with.
func DefaultSettings() Settings {
	return Settings{
		Limit:       5,
		Temperature: 0.0,
		Model:       "gpt-4o",
		Provider:    "openai",
	}
}

// QueryRecord is one logged interaction, appended to session history whether
// the query succeeded or failed.
type QueryRecord struct {
	Query     string               `json:"query"`
	Timestamp time.Time            `json:"timestamp"`
	Settings  Settings             `json:"settings"`
	Results   ResultSet            `json:"results,omitempty"`
	Response  *SynthesizedResponse `json:"response,omitempty"`
	Error     string               `json:"error,omitempty"`
}

package content

import (
	"time"

	"github.com/google/uuid"

	"artfolio-backend/pkg/pathutil"
)

// Update value types accepted by the patch API.
const (
	TypeText     = "text"
	TypeHTML     = "html"
	TypeImageURL = "imageUrl"
)

// ContentState is the persistent per-artist record of survey answers and
// editable content. Created on first access, mutated by survey submission
// and content patches; never hard-deleted.
//
// Version increases by exactly 1 per accepted write and is the optimistic
// concurrency token. It only resets on an explicit start-over.
type ContentState struct {
	ArtistID uuid.UUID `json:"artistId"`

	// SurveyData holds the wizard answers: medium, per-page toggles and
	// layout choices, works organization, about-section toggles, logo and
	// style overrides, artwork selections. Replaced whole-object by the
	// survey endpoint; never patched path-by-path.
	SurveyData map[string]any `json:"surveyData"`

	// HomeContent and AboutContent persist user edits independent of
	// survey-driven placeholders. Only whitelisted leaf paths inside them
	// are patchable.
	HomeContent  map[string]any `json:"homeContent"`
	AboutContent map[string]any `json:"aboutContent"`

	IsPublished  bool    `json:"isPublished"`
	PublishedURL *string `json:"publishedUrl"`

	CompiledJSONPath *string    `json:"compiledJsonPath"`
	CompiledAt       *time.Time `json:"compiledAt"`
	SurveyCompleted  bool       `json:"surveyCompleted"`

	Version int64 `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewContentState returns the default document created on first access.
func NewContentState(artistID uuid.UUID) *ContentState {
	return &ContentState{
		ArtistID:     artistID,
		SurveyData:   map[string]any{},
		HomeContent:  map[string]any{},
		AboutContent: map[string]any{},
		Version:      1,
	}
}

// Medium returns the chosen medium, empty when unset.
func (s *ContentState) Medium() string {
	return pathutil.GetString(s.SurveyData, "medium")
}

// HomepageLayout returns the chosen homepage layout, empty when unset.
func (s *ContentState) HomepageLayout() string {
	return pathutil.GetString(s.SurveyData, "layouts.homepage")
}

// PageLayout returns the chosen layout for a page, empty when unset.
func (s *ContentState) PageLayout(page string) string {
	return pathutil.GetString(s.SurveyData, "layouts."+page)
}

// AboutSections returns the about-page section toggles.
func (s *ContentState) AboutSections() map[string]bool {
	v, ok := pathutil.Get(s.SurveyData, "aboutSections")
	if !ok {
		return nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	sections := make(map[string]bool, len(raw))
	for k, val := range raw {
		if enabled, ok := val.(bool); ok {
			sections[k] = enabled
		}
	}
	return sections
}

// CompiledSite is the derived, disposable artifact the renderer consumes.
// It merges placeholder defaults, survey data and persisted edits; it is
// fully replaced on every recompile and read-only everywhere else.
type CompiledSite struct {
	SurveyData   map[string]any `json:"surveyData"`
	HomeContent  map[string]any `json:"homeContent"`
	AboutContent map[string]any `json:"aboutContent"`
	GeneratedAt  time.Time      `json:"generatedAt"`
	Version      int64          `json:"version"`
}

// Root exposes the compiled document as one nested object graph for
// path-based binding.
func (c *CompiledSite) Root() map[string]any {
	return map[string]any{
		"surveyData":   c.SurveyData,
		"homeContent":  c.HomeContent,
		"aboutContent": c.AboutContent,
	}
}

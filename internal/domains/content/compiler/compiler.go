// Package compiler turns a ContentState into the denormalized CompiledSite
// artifact: medium placeholders, layout-shaped home content and enabled
// about sections, with persisted edits overlaid field by field.
package compiler

import (
	"fmt"
	"time"

	"github.com/tiendc/go-deepcopy"

	"artfolio-backend/internal/domains/content"
)

// Homepage layout keys from the survey.
const (
	LayoutHero  = "hero"
	LayoutSplit = "split"
	LayoutGrid  = "grid"
)

// Compile is a pure transform; it never mutates state and has no partial
// failure. Version is stamped by the caller via version (the version the
// document will hold once the compile is recorded).
func Compile(state *content.ContentState, version int64, now time.Time) (*content.CompiledSite, error) {
	var surveyCopy map[string]any
	if err := deepcopy.Copy(&surveyCopy, state.SurveyData); err != nil {
		return nil, fmt.Errorf("failed to copy survey data: %w", err)
	}
	if surveyCopy == nil {
		surveyCopy = map[string]any{}
	}

	return &content.CompiledSite{
		SurveyData:   surveyCopy,
		HomeContent:  compileHome(state),
		AboutContent: compileAbout(state),
		GeneratedAt:  now,
		Version:      version,
	}, nil
}

// compileHome selects the placeholder shape for the chosen homepage layout
// and overlays persisted edits. Persisted values win field by field.
func compileHome(state *content.ContentState) map[string]any {
	bundle := bundleFor(state.Medium())

	home := map[string]any{}
	switch state.HomepageLayout() {
	case LayoutSplit:
		home["title"] = bundle.Title
		home["description"] = bundle.Description
		home["exploreText"] = bundle.ExploreText
	case LayoutGrid:
		// grid is artwork-selection driven; no prose placeholders
	default:
		// hero, also the default when the survey has no layout yet
		home["title"] = bundle.Title
		home["subtitle"] = bundle.Subtitle
		home["description"] = bundle.Description
	}

	overlay(home, state.HomeContent)
	return home
}

// compileAbout starts from the generic base, adds one example block per
// enabled section, then overlays persisted edits.
func compileAbout(state *content.ContentState) map[string]any {
	about := map[string]any{
		"title": aboutPlaceholderTitle,
		"bio":   aboutPlaceholderBio,
	}

	for section, enabled := range state.AboutSections() {
		if !enabled {
			continue
		}
		if example, ok := aboutSectionExamples[section]; ok {
			about[section] = example
		}
	}

	overlay(about, state.AboutContent)
	return about
}

// overlay copies non-empty persisted fields over the placeholder-derived
// base, one field at a time.
func overlay(base map[string]any, persisted map[string]any) {
	for k, v := range persisted {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		base[k] = v
	}
}

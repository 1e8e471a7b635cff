package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tiendc/go-deepcopy"

	"artfolio-backend/internal/domains/content"
	"artfolio-backend/internal/domains/content/compiler"
	"artfolio-backend/internal/shared/utils"
	"artfolio-backend/pkg/cache"
	"artfolio-backend/pkg/pathutil"
)

const compiledCacheTTL = 15 * time.Minute

// artifactKey is the deterministic, stable per-artist location of the
// compiled site JSON. Overwritten in place on every compile.
func artifactKey(artistID uuid.UUID) string {
	return fmt.Sprintf("sites/%s/site.json", artistID)
}

func compiledCacheKey(artistID uuid.UUID) string {
	return "compiled-site:" + artistID.String()
}

type contentService struct {
	repo      content.Repository
	artifacts content.ArtifactStore
	cache     cache.Cache
}

func NewContentService(repo content.Repository, artifacts content.ArtifactStore, c cache.Cache) content.Service {
	return &contentService{
		repo:      repo,
		artifacts: artifacts,
		cache:     c,
	}
}

func (s *contentService) GetOrCreate(ctx context.Context, artistID uuid.UUID) (*content.ContentState, error) {
	state, err := s.repo.GetByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}

	created, err := s.repo.Create(ctx, content.NewContentState(artistID))
	if err != nil {
		return nil, err
	}

	log.Info().Str("artist_id", artistID.String()).Msg("content state created")
	return created, nil
}

func (s *contentService) ReplaceSurvey(ctx context.Context, artistID uuid.UUID, survey map[string]any) (*content.ContentState, error) {
	if survey == nil {
		return nil, content.NewValidationError("survey must not be null")
	}

	state, err := s.GetOrCreate(ctx, artistID)
	if err != nil {
		return nil, err
	}

	state.SurveyData = survey
	return s.repo.UpdateWithVersion(ctx, state, state.Version)
}

func (s *contentService) Compile(ctx context.Context, artistID uuid.UUID) (*content.CompiledSite, *content.ContentState, error) {
	state, err := s.repo.GetByArtist(ctx, artistID)
	if err != nil {
		return nil, nil, err
	}
	if state == nil {
		return nil, nil, content.NewNotFound()
	}

	site, err := s.compileAndStore(ctx, state)
	if err != nil {
		return nil, nil, err
	}

	updated, err := s.repo.UpdateWithVersion(ctx, state, state.Version)
	if err != nil {
		return nil, nil, err
	}

	s.cacheCompiled(ctx, artistID, site)
	return site, updated, nil
}

// compileAndStore runs the pure compile and writes the artifact, then
// records path/timestamp/surveyCompleted onto state for the caller to
// persist. A failed artifact write returns before state is touched, so the
// stored document stays consistent and the operation can be retried.
func (s *contentService) compileAndStore(ctx context.Context, state *content.ContentState) (*content.CompiledSite, error) {
	now := time.Now().UTC()
	site, err := compiler.Compile(state, state.Version+1, now)
	if err != nil {
		return nil, content.NewValidationError(err.Error())
	}

	data, err := json.Marshal(site)
	if err != nil {
		return nil, content.NewStorageError(err)
	}

	key := artifactKey(state.ArtistID)
	if _, err := s.artifacts.Put(ctx, key, data, "application/json"); err != nil {
		return nil, content.NewStorageError(err)
	}

	state.CompiledJSONPath = &key
	state.CompiledAt = &now
	state.SurveyCompleted = true
	return site, nil
}

func (s *contentService) ApplyPatch(ctx context.Context, artistID uuid.UUID, req *content.PatchRequest, compile bool) (*content.PatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, content.NewValidationError(err.Error())
	}

	state, err := s.GetOrCreate(ctx, artistID)
	if err != nil {
		return nil, err
	}

	if req.Version != nil && *req.Version != state.Version {
		return nil, content.NewVersionConflict(state.Version)
	}

	// Validate the whole batch before applying anything; a batch is
	// all-or-nothing.
	for _, u := range req.Updates {
		if err := u.Validate(); err != nil {
			return nil, content.NewValidationError(err.Error())
		}
		if err := content.ValidateUpdate(u); err != nil {
			return nil, err
		}
	}

	root, err := s.editableRoot(state)
	if err != nil {
		return nil, err
	}

	for _, u := range req.Updates {
		value := u.Value
		if u.Type == content.TypeHTML {
			value = content.SanitizeHTML(value)
		}
		if err := pathutil.Set(root, u.Path, value); err != nil {
			return nil, content.NewValidationError(err.Error())
		}
	}

	state.HomeContent = root["homeContent"].(map[string]any)
	state.AboutContent = root["aboutContent"].(map[string]any)

	result := &content.PatchResult{}
	var site *content.CompiledSite

	if compile {
		// Synchronous recompile against the just-patched state, still one
		// logical write: artifact first, then a single version bump below.
		site, err = s.compileAndStore(ctx, state)
		if err != nil {
			return nil, err
		}
		result.Compiled = site
		result.CompiledJSONPath = *state.CompiledJSONPath
	}

	updated, err := s.repo.UpdateWithVersion(ctx, state, state.Version)
	if err != nil {
		return nil, err
	}
	result.Version = updated.Version

	if site != nil {
		s.cacheCompiled(ctx, artistID, site)
	}

	return result, nil
}

// editableRoot deep-copies the editable documents into one object graph so
// a failed batch never leaves half-applied edits on the in-memory state.
func (s *contentService) editableRoot(state *content.ContentState) (map[string]any, error) {
	var home, about map[string]any
	if err := deepcopy.Copy(&home, state.HomeContent); err != nil {
		return nil, content.NewRepositoryError(err)
	}
	if err := deepcopy.Copy(&about, state.AboutContent); err != nil {
		return nil, content.NewRepositoryError(err)
	}
	if home == nil {
		home = map[string]any{}
	}
	if about == nil {
		about = map[string]any{}
	}
	return map[string]any{"homeContent": home, "aboutContent": about}, nil
}

func (s *contentService) Publish(ctx context.Context, artistID uuid.UUID, customURL string) (*content.ContentState, error) {
	if !utils.ValidSlug(customURL) {
		return nil, content.NewInvalidSlug(customURL)
	}

	state, err := s.GetOrCreate(ctx, artistID)
	if err != nil {
		return nil, err
	}

	// Re-publishing the same slug is a no-op for the owning artist.
	if state.IsPublished && state.PublishedURL != nil && *state.PublishedURL == customURL {
		return state, nil
	}

	if state.CompiledJSONPath == nil {
		log.Warn().Str("artist_id", artistID.String()).Msg("publishing with no compiled artifact")
	}

	state.IsPublished = true
	state.PublishedURL = &customURL

	return s.repo.UpdateWithVersion(ctx, state, state.Version)
}

func (s *contentService) StartOver(ctx context.Context, artistID uuid.UUID) (*content.ContentState, error) {
	state, err := s.repo.GetByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, content.NewNotFound()
	}

	if state.CompiledJSONPath != nil {
		if err := s.artifacts.Delete(ctx, *state.CompiledJSONPath); err != nil {
			return nil, content.NewStorageError(err)
		}
	}

	state.CompiledJSONPath = nil
	state.CompiledAt = nil
	state.SurveyCompleted = false

	if err := s.cache.Delete(ctx, compiledCacheKey(artistID)); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate compiled-site cache")
	}

	return s.repo.ResetVersion(ctx, state)
}

func (s *contentService) GetCompiled(ctx context.Context, artistID uuid.UUID) (*content.CompiledSite, error) {
	var cached content.CompiledSite
	found, err := s.cache.Get(ctx, compiledCacheKey(artistID), &cached)
	if err != nil {
		log.Warn().Err(err).Msg("compiled-site cache read failed")
	}
	if found {
		return &cached, nil
	}

	state, err := s.repo.GetByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, content.NewNotFound()
	}
	if state.CompiledJSONPath == nil {
		return nil, content.NewNoCompiledSite()
	}

	data, err := s.artifacts.Get(ctx, *state.CompiledJSONPath)
	if err != nil {
		return nil, content.NewStorageError(err)
	}

	var site content.CompiledSite
	if err := json.Unmarshal(data, &site); err != nil {
		return nil, content.NewStorageError(err)
	}

	s.cacheCompiled(ctx, artistID, &site)
	return &site, nil
}

// cacheCompiled is best effort; the artifact store stays authoritative.
func (s *contentService) cacheCompiled(ctx context.Context, artistID uuid.UUID, site *content.CompiledSite) {
	if err := s.cache.Set(ctx, compiledCacheKey(artistID), site, compiledCacheTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache compiled site")
	}
}

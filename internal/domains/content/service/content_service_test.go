package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artfolio-backend/internal/domains/content"
)

type fixture struct {
	repo      *memoryRepository
	artifacts *memoryArtifacts
	cache     *memoryCache
	svc       content.Service
}

func newFixture() *fixture {
	repo := newMemoryRepository()
	artifacts := newMemoryArtifacts()
	c := newMemoryCache()
	return &fixture{
		repo:      repo,
		artifacts: artifacts,
		cache:     c,
		svc:       NewContentService(repo, artifacts, c),
	}
}

func ptr[T any](v T) *T { return &v }

func patch(path, typ, value string) content.ContentUpdate {
	return content.ContentUpdate{Path: path, Type: typ, Value: value}
}

func TestGetOrCreateFirstAccess(t *testing.T) {
	f := newFixture()
	artist := uuid.New()

	state, err := f.svc.GetOrCreate(context.Background(), artist)
	require.NoError(t, err)

	assert.Equal(t, int64(1), state.Version)
	assert.False(t, state.SurveyCompleted)
	assert.Nil(t, state.CompiledJSONPath)
	assert.False(t, state.IsPublished)

	// second access returns the same document, no new create
	again, err := f.svc.GetOrCreate(context.Background(), artist)
	require.NoError(t, err)
	assert.Equal(t, state.Version, again.Version)
}

func TestSurveyThenCompilePoetryScenario(t *testing.T) {
	f := newFixture()
	artist := uuid.New()
	ctx := context.Background()

	_, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)

	_, err = f.svc.ReplaceSurvey(ctx, artist, map[string]any{
		"medium":  "poetry",
		"layouts": map[string]any{"homepage": "hero"},
	})
	require.NoError(t, err)

	site, state, err := f.svc.Compile(ctx, artist)
	require.NoError(t, err)

	assert.Equal(t, "Words & Verses", site.HomeContent["title"])
	assert.Equal(t, "Poetry that speaks to the soul", site.HomeContent["subtitle"])
	require.NotNil(t, state.CompiledJSONPath)
	assert.Equal(t, "sites/"+artist.String()+"/site.json", *state.CompiledJSONPath)
	assert.True(t, state.SurveyCompleted)
	assert.NotNil(t, state.CompiledAt)

	// artifact on storage matches the returned site
	data, err := f.artifacts.Get(ctx, *state.CompiledJSONPath)
	require.NoError(t, err)
	var stored content.CompiledSite
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, site.HomeContent["title"], stored.HomeContent["title"])
}

func TestCompileWithoutStateIsNotFound(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.Compile(context.Background(), uuid.New())
	assert.True(t, content.IsNotFound(err))
}

func TestCompileStorageFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture()
	artist := uuid.New()
	ctx := context.Background()

	_, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)

	f.artifacts.failPut = true
	_, _, err = f.svc.Compile(ctx, artist)
	require.Error(t, err)

	state, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)
	assert.Nil(t, state.CompiledJSONPath)
	assert.False(t, state.SurveyCompleted)
	assert.Equal(t, int64(1), state.Version)
}

func TestVersionMonotonicityAcrossBatches(t *testing.T) {
	f := newFixture()
	artist := uuid.New()
	ctx := context.Background()

	initial, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)

	batches := [][]content.ContentUpdate{
		{patch("homeContent.title", content.TypeText, "one")},
		{
			patch("homeContent.subtitle", content.TypeText, "two"),
			patch("aboutContent.title", content.TypeText, "three"),
			patch("aboutContent.subtitle", content.TypeText, "four"),
		},
		{patch("homeContent.description", content.TypeText, "five")},
	}

	for _, updates := range batches {
		_, err := f.svc.ApplyPatch(ctx, artist, &content.PatchRequest{Updates: updates}, false)
		require.NoError(t, err)
	}

	state, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)
	// one increment per batch, regardless of batch size
	assert.Equal(t, initial.Version+int64(len(batches)), state.Version)
}

func TestStaleVersionRejectsWholeBatch(t *testing.T) {
	f := newFixture()
	artist := uuid.New()
	ctx := context.Background()

	_, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)

	_, err = f.svc.ApplyPatch(ctx, artist, &content.PatchRequest{
		Updates: []content.ContentUpdate{patch("homeContent.title", content.TypeText, "first")},
	}, false)
	require.NoError(t, err)

	// expectedVersion 1 is now stale (server is at 2)
	_, err = f.svc.ApplyPatch(ctx, artist, &content.PatchRequest{
		Version: ptr(int64(1)),
		Updates: []content.ContentUpdate{
			patch("homeContent.title", content.TypeText, "stale write"),
			patch("aboutContent.title", content.TypeText, "stale write"),
		},
	}, false)
	require.True(t, content.IsVersionConflict(err))

	var ce *content.ContentError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, int64(2), ce.ServerVersion)

	state, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)
	assert.Equal(t, "first", state.HomeContent["title"])
	assert.NotContains(t, state.AboutContent, "title")
	assert.Equal(t, int64(2), state.Version)
}

func TestWhitelistEnforcement(t *testing.T) {
	f := newFixture()
	artist := uuid.New()
	ctx := context.Background()

	before, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)

	cases := []struct {
		name   string
		update content.ContentUpdate
		code   string
	}{
		{"survey path", patch("surveyData.medium", content.TypeText, "poetry"), content.CodePathNotAllowed},
		{"unknown leaf", patch("homeContent.banner", content.TypeText, "x"), content.CodePathNotAllowed},
		{"array index", patch("aboutContent.workExperience[0]", content.TypeText, "x"), content.CodeArrayPath},
		{"type mismatch", patch("aboutContent.bio", content.TypeText, "x"), content.CodeTypeMismatch},
		{"html on text field", patch("homeContent.title", content.TypeHTML, "<b>x</b>"), content.CodeTypeMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ApplyPatch(ctx, artist, &content.PatchRequest{
				Updates: []content.ContentUpdate{tc.update},
			}, false)
			var ce *content.ContentError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.code, ce.Code)
		})
	}

	// a batch with one bad entry applies nothing
	_, err = f.svc.ApplyPatch(ctx, artist, &content.PatchRequest{
		Updates: []content.ContentUpdate{
			patch("homeContent.title", content.TypeText, "good"),
			patch("surveyData.medium", content.TypeText, "bad"),
		},
	}, false)
	require.Error(t, err)

	state, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)
	assert.Equal(t, before.Version, state.Version)
	assert.NotContains(t, state.HomeContent, "title")
}

func TestHTMLValuesAreSanitized(t *testing.T) {
	f := newFixture()
	artist := uuid.New()
	ctx := context.Background()

	_, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)

	_, err = f.svc.ApplyPatch(ctx, artist, &content.PatchRequest{
		Updates: []content.ContentUpdate{
			patch("aboutContent.bio", content.TypeHTML,
				`<p onclick="steal()">hi</p><script>alert(1)</script><em>there</em>`),
		},
	}, false)
	require.NoError(t, err)

	state, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)
	bio := state.AboutContent["bio"].(string)
	assert.Equal(t, "<p>hi</p><em>there</em>", bio)
}

func TestPatchWithCompileReturnsFreshArtifact(t *testing.T) {
	f := newFixture()
	artist := uuid.New()
	ctx := context.Background()

	_, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)
	_, err = f.svc.ReplaceSurvey(ctx, artist, map[string]any{
		"medium":  "poetry",
		"layouts": map[string]any{"homepage": "hero"},
	})
	require.NoError(t, err)

	result, err := f.svc.ApplyPatch(ctx, artist, &content.PatchRequest{
		Updates: []content.ContentUpdate{patch("homeContent.title", content.TypeText, "My Custom Title")},
	}, true)
	require.NoError(t, err)

	require.NotNil(t, result.Compiled)
	assert.Equal(t, "My Custom Title", result.Compiled.HomeContent["title"])
	assert.Equal(t, result.Version, result.Compiled.Version)

	// stored artifact matches the response
	data, err := f.artifacts.Get(ctx, result.CompiledJSONPath)
	require.NoError(t, err)
	var stored content.CompiledSite
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "My Custom Title", stored.HomeContent["title"])

	// patch + compile is one logical write: one version bump
	state, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)
	assert.Equal(t, result.Version, state.Version)
}

func TestEditPrecedenceSurvivesRecompile(t *testing.T) {
	f := newFixture()
	artist := uuid.New()
	ctx := context.Background()

	_, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)
	_, err = f.svc.ReplaceSurvey(ctx, artist, map[string]any{
		"medium":  "poetry",
		"layouts": map[string]any{"homepage": "hero"},
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyPatch(ctx, artist, &content.PatchRequest{
		Updates: []content.ContentUpdate{patch("homeContent.title", content.TypeText, "Override")},
	}, false)
	require.NoError(t, err)

	site, _, err := f.svc.Compile(ctx, artist)
	require.NoError(t, err)
	assert.Equal(t, "Override", site.HomeContent["title"])
	assert.Equal(t, "Poetry that speaks to the soul", site.HomeContent["subtitle"])

	// recompiling again still honors the override
	site, _, err = f.svc.Compile(ctx, artist)
	require.NoError(t, err)
	assert.Equal(t, "Override", site.HomeContent["title"])
}

func TestPublishSlugValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, slug := range []string{"ab", "Art-Show", "-art", "art--show"} {
		_, err := f.svc.Publish(ctx, uuid.New(), slug)
		var ce *content.ContentError
		require.ErrorAs(t, err, &ce, slug)
		assert.Equal(t, content.CodeInvalidSlug, ce.Code, slug)
	}

	state, err := f.svc.Publish(ctx, uuid.New(), "art-show-2024")
	require.NoError(t, err)
	assert.True(t, state.IsPublished)
	assert.Equal(t, "art-show-2024", *state.PublishedURL)
}

func TestPublishRaceExactlyOneWinner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first := uuid.New()
	second := uuid.New()

	_, err := f.svc.Publish(ctx, first, "jane-doe")
	require.NoError(t, err)

	_, err = f.svc.Publish(ctx, second, "jane-doe")
	require.True(t, content.IsSlugTaken(err))

	// same artist re-publishing the same slug is idempotent
	state, err := f.svc.Publish(ctx, first, "jane-doe")
	require.NoError(t, err)
	assert.True(t, state.IsPublished)
}

func TestPublishWithoutCompileIsAllowed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	artist := uuid.New()

	state, err := f.svc.Publish(ctx, artist, "no-compile-yet")
	require.NoError(t, err)
	assert.True(t, state.IsPublished)
	assert.Nil(t, state.CompiledJSONPath)
}

func TestStartOverClearsCompileBookkeeping(t *testing.T) {
	f := newFixture()
	artist := uuid.New()
	ctx := context.Background()

	_, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)
	_, err = f.svc.ReplaceSurvey(ctx, artist, map[string]any{"medium": "poetry"})
	require.NoError(t, err)
	_, state, err := f.svc.Compile(ctx, artist)
	require.NoError(t, err)
	key := *state.CompiledJSONPath

	reset, err := f.svc.StartOver(ctx, artist)
	require.NoError(t, err)

	assert.Nil(t, reset.CompiledJSONPath)
	assert.Nil(t, reset.CompiledAt)
	assert.False(t, reset.SurveyCompleted)
	assert.Equal(t, int64(1), reset.Version)

	// artifact is gone and the compiled endpoint reports it
	_, err = f.artifacts.Get(ctx, key)
	assert.Error(t, err)
	_, err = f.svc.GetCompiled(ctx, artist)
	assert.True(t, content.IsNotFound(err))
}

func TestGetCompiledReadsThroughCache(t *testing.T) {
	f := newFixture()
	artist := uuid.New()
	ctx := context.Background()

	_, err := f.svc.GetOrCreate(ctx, artist)
	require.NoError(t, err)
	_, err = f.svc.ReplaceSurvey(ctx, artist, map[string]any{"medium": "digital"})
	require.NoError(t, err)
	compiled, _, err := f.svc.Compile(ctx, artist)
	require.NoError(t, err)

	got, err := f.svc.GetCompiled(ctx, artist)
	require.NoError(t, err)
	assert.Equal(t, compiled.HomeContent["title"], got.HomeContent["title"])

	// served from cache even if the object vanishes from storage
	require.NoError(t, f.artifacts.Delete(ctx, "sites/"+artist.String()+"/site.json"))
	got, err = f.svc.GetCompiled(ctx, artist)
	require.NoError(t, err)
	assert.Equal(t, compiled.HomeContent["title"], got.HomeContent["title"])
}

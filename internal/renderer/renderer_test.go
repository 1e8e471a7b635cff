package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"artfolio-backend/internal/domains/content"
)

func testSite() *content.CompiledSite {
	return &content.CompiledSite{
		SurveyData: map[string]any{"medium": "poetry"},
		HomeContent: map[string]any{
			"title":        "Words & Verses",
			"subtitle":     "Poetry that speaks to the soul",
			"heroImageUrl": "https://cdn.example.com/hero.jpg",
		},
		AboutContent: map[string]any{
			"title": "About the Artist",
			"bio":   "<p>I write <em>poems</em>.</p>",
		},
		GeneratedAt: time.Now(),
		Version:     3,
	}
}

func parse(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func render(t *testing.T, doc *html.Node) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, html.Render(&sb, doc))
	return sb.String()
}

func TestRenderTokens(t *testing.T) {
	tpl := `<h1>{{ homeContent.title }}</h1><p>{{homeContent.subtitle}}</p><span>{{ missing.token }}</span>`
	out := RenderTokens(tpl, map[string]string{
		"homeContent.title":    "My Title",
		"homeContent.subtitle": "My Subtitle",
	})

	assert.Contains(t, out, "<h1>My Title</h1>")
	assert.Contains(t, out, "<p>My Subtitle</p>")
	// unmatched tokens stay verbatim
	assert.Contains(t, out, "{{ missing.token }}")
}

func TestRenderTokensEmptyValue(t *testing.T) {
	out := RenderTokens(`<p>{{ a }}</p>`, map[string]string{"a": ""})
	assert.Equal(t, "<p></p>", out)
}

func TestFlatten(t *testing.T) {
	values := Flatten(testSite())

	assert.Equal(t, "Words & Verses", values["homeContent.title"])
	assert.Equal(t, "About the Artist", values["aboutContent.title"])
	assert.Equal(t, "poetry", values["surveyData.medium"])
}

func TestHydrateStylesIsIdempotent(t *testing.T) {
	doc := parse(t, `<div id="x" style="color:red" data-style="font-size:18px">hi</div>`)

	HydrateStyles(doc)
	first := render(t, doc)
	assert.Contains(t, first, `style="color:red; font-size:18px"`)
	assert.NotContains(t, first, "data-style")

	// second pass finds no staging attribute, output unchanged
	HydrateStyles(doc)
	assert.Equal(t, first, render(t, doc))
}

func TestHydrateStylesWithoutExistingStyle(t *testing.T) {
	doc := parse(t, `<div data-style="color:blue">x</div>`)
	HydrateStyles(doc)

	out := render(t, doc)
	assert.Contains(t, out, `style="color:blue"`)
}

func TestBindContentText(t *testing.T) {
	doc := parse(t, `<h1 data-content-path="homeContent.title" data-content-type="text">stale</h1>`)
	require.NoError(t, BindContent(doc, testSite()))

	out := render(t, doc)
	assert.Contains(t, out, "Words &amp; Verses")
	assert.NotContains(t, out, "stale")
}

func TestBindContentHTML(t *testing.T) {
	doc := parse(t, `<div data-content-path="aboutContent.bio" data-content-type="html">old</div>`)
	require.NoError(t, BindContent(doc, testSite()))

	out := render(t, doc)
	assert.Contains(t, out, "<p>I write <em>poems</em>.</p>")
	assert.NotContains(t, out, "old")
}

func TestBindContentImageURL(t *testing.T) {
	doc := parse(t, `<section style="height:400px" data-content-path="homeContent.heroImageUrl" data-content-type="imageUrl"></section>`)
	require.NoError(t, BindContent(doc, testSite()))

	out := render(t, doc)
	assert.Contains(t, out, "background-image: url('https://cdn.example.com/hero.jpg')")
	assert.Contains(t, out, "height:400px")
}

func TestBindContentMissingValueClears(t *testing.T) {
	site := testSite()

	doc := parse(t, `<h1 data-content-path="homeContent.nothing" data-content-type="text">stale</h1>`)
	require.NoError(t, BindContent(doc, site))
	assert.NotContains(t, render(t, doc), "stale")

	doc = parse(t, `<div style="background-image: url('old.jpg'); color:red" data-content-path="homeContent.missingImage" data-content-type="imageUrl"></div>`)
	require.NoError(t, BindContent(doc, site))
	out := render(t, doc)
	assert.NotContains(t, out, "old.jpg")
	assert.Contains(t, out, "color:red")
}

func TestRenderPageEndToEnd(t *testing.T) {
	tpl := `<html><body>
<h1>{{ homeContent.title }}</h1>
<div data-style="margin:0" data-content-path="aboutContent.bio" data-content-type="html"></div>
</body></html>`

	out, err := RenderPage(tpl, testSite())
	require.NoError(t, err)

	assert.Contains(t, out, "Words &amp; Verses")
	assert.Contains(t, out, "<em>poems</em>")
	assert.Contains(t, out, `style="margin:0"`)
	assert.NotContains(t, out, "data-style")
}

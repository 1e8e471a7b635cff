package compiler

// placeholderBundle is the medium-keyed example prose used to pre-fill
// compiled content before any user edits exist.
type placeholderBundle struct {
	Title       string
	Subtitle    string
	Description string
	ExploreText string
}

const (
	MediumPainting    = "painting"
	MediumPhotography = "photography"
	MediumSculpture   = "sculpture"
	MediumPoetry      = "poetry"
	MediumDigital     = "digital"
	MediumMixed       = "mixed"
)

var placeholderBundles = map[string]placeholderBundle{
	MediumPainting: {
		Title:       "Color & Canvas",
		Subtitle:    "Paintings that capture light and feeling",
		Description: "A collection of original paintings exploring color, texture and emotion.",
		ExploreText: "Explore the paintings",
	},
	MediumPhotography: {
		Title:       "Through the Lens",
		Subtitle:    "Moments held still",
		Description: "Photographs of people, places and the quiet in between.",
		ExploreText: "Browse the photographs",
	},
	MediumSculpture: {
		Title:       "Form & Material",
		Subtitle:    "Sculpture in dialogue with space",
		Description: "Three-dimensional work in stone, metal and found material.",
		ExploreText: "See the sculptures",
	},
	MediumPoetry: {
		Title:       "Words & Verses",
		Subtitle:    "Poetry that speaks to the soul",
		Description: "Poems and spoken pieces collected over the years.",
		ExploreText: "Read the poems",
	},
	MediumDigital: {
		Title:       "Pixels & Light",
		Subtitle:    "Digital art for a connected world",
		Description: "Digital illustration, generative work and screen-native pieces.",
		ExploreText: "View the digital work",
	},
}

// genericBundle is the multi-medium fallback used when the medium is unset
// or unrecognized.
var genericBundle = placeholderBundle{
	Title:       "My Portfolio",
	Subtitle:    "A collection of my work",
	Description: "Welcome to my portfolio. Here you will find a selection of my work across mediums.",
	ExploreText: "Explore my work",
}

func bundleFor(medium string) placeholderBundle {
	if b, ok := placeholderBundles[medium]; ok {
		return b
	}
	return genericBundle
}

const (
	aboutPlaceholderTitle = "About the Artist"
	aboutPlaceholderBio   = "<p>I am an artist exploring the world through my work. " +
		"This is a short introduction; replace it with your own story.</p>"
)

// aboutSectionExamples maps an enabled about-page section to its canned
// example paragraph.
var aboutSectionExamples = map[string]string{
	"education":       "Studied fine arts and continues to learn through practice, workshops and collaboration.",
	"exhibitions":     "Work has been shown in group and solo exhibitions, both locally and abroad.",
	"awards":          "Recipient of several grants and awards recognizing ongoing artistic practice.",
	"press":           "Featured in publications and interviews discussing the work and its themes.",
	"artistStatement": "My practice is driven by curiosity about material, memory and place.",
	"contact":         "For commissions, studio visits or questions, please get in touch.",
}

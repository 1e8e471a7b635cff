package content

import (
	"artfolio-backend/pkg/pathutil"
)

// patchWhitelist maps each editable leaf path to the update types it
// accepts. Patches may only target homeContent.* and aboutContent.* leaves;
// survey data goes through the whole-object survey endpoint instead.
var patchWhitelist = map[string][]string{
	"homeContent.title":       {TypeText},
	"homeContent.subtitle":    {TypeText},
	"homeContent.description": {TypeText},
	"homeContent.exploreText": {TypeText},
	// image fields also accept plain text so a client can clear them
	"homeContent.heroImageUrl": {TypeImageURL, TypeText},

	"aboutContent.title":           {TypeText},
	"aboutContent.subtitle":        {TypeText},
	"aboutContent.bio":             {TypeHTML},
	"aboutContent.artistStatement": {TypeHTML},
	"aboutContent.imageUrl":        {TypeImageURL, TypeText},
}

// AllowedPaths returns the editable paths, useful for client discovery.
func AllowedPaths() []string {
	paths := make([]string, 0, len(patchWhitelist))
	for p := range patchWhitelist {
		paths = append(paths, p)
	}
	return paths
}

// ValidateUpdate checks one patch entry against the path and type rules.
// Checks run in order: path shape, array rejection, whitelist membership,
// type match.
func ValidateUpdate(u ContentUpdate) error {
	if u.Path == "" {
		return NewValidationError("update path must not be empty")
	}
	if pathutil.HasIndex(u.Path) {
		return NewArrayPathNotSupported(u.Path)
	}

	allowed, ok := patchWhitelist[u.Path]
	if !ok {
		return NewPathNotAllowed(u.Path)
	}

	for _, t := range allowed {
		if u.Type == t {
			return nil
		}
	}
	return NewTypeMismatch(u.Path, u.Type)
}

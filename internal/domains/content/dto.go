package content

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ContentUpdate is one (path, type, value) edit inside a patch batch.
type ContentUpdate struct {
	Path  string `json:"path"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (u ContentUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Path,
			validation.Required.Error("path is required"),
		),
		validation.Field(&u.Type,
			validation.Required.Error("type is required"),
			validation.In(TypeText, TypeHTML, TypeImageURL).Error("type must be text, html or imageUrl"),
		),
	)
}

// PatchRequest is the body of the batched content update endpoint. Version,
// when present, is the expected server version; a mismatch rejects the
// whole batch.
type PatchRequest struct {
	Version *int64          `json:"version,omitempty"`
	Updates []ContentUpdate `json:"updates"`
}

func (r PatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Updates,
			validation.Required.Error("updates must not be empty"),
			validation.Length(1, 100),
		),
	)
}

// PatchResult is the outcome of an accepted patch batch.
type PatchResult struct {
	Version          int64         `json:"version"`
	Compiled         *CompiledSite `json:"compiled,omitempty"`
	CompiledJSONPath string        `json:"compiledJsonPath,omitempty"`
}

// PublishRequest carries the slug the artist wants for the published site.
type PublishRequest struct {
	CustomURL string `json:"customUrl"`
}

func (r PublishRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CustomURL,
			validation.Required.Error("customUrl is required"),
			validation.Length(3, 30),
		),
	)
}

// SurveyRequest replaces the stored survey answers whole-object. Survey
// data is structured configuration, not user-authored markup, so it skips
// path validation.
type SurveyRequest struct {
	Survey map[string]any `json:"survey"`
}

func (r SurveyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Survey, validation.NotNil.Error("survey is required")),
	)
}

// CompileResult is returned by the standalone compile endpoint.
type CompileResult struct {
	CompiledJSONPath string `json:"compiledJsonPath"`
	Version          int64  `json:"version"`
}

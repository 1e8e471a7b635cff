package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"artfolio-backend/internal/domains/content"
	"artfolio-backend/internal/infrastructure/templates"
	"artfolio-backend/internal/renderer"
	"artfolio-backend/internal/shared/middleware"
	"artfolio-backend/internal/shared/response"
)

type ContentHandler struct {
	service   content.Service
	templates *templates.Store
}

func NewContentHandler(service content.Service, tpl *templates.Store) *ContentHandler {
	return &ContentHandler{service: service, templates: tpl}
}

func (h *ContentHandler) respondError(c *gin.Context, err error) {
	status, code, message := content.MapErrorToHTTP(err)

	if content.IsVersionConflict(err) {
		var ce *content.ContentError
		errors.As(err, &ce)
		response.ErrorWithDetails(c, status, code, message, gin.H{"serverVersion": ce.ServerVersion})
		return
	}

	response.ErrorResponse(c, status, code, message)
}

// GetState handles GET /content-state. A missing document is created with
// defaults, so first access always succeeds.
func (h *ContentHandler) GetState(c *gin.Context) {
	artistID, ok := middleware.ArtistID(c)
	if !ok {
		response.Unauthorized(c, "missing artist identity")
		return
	}

	state, err := h.service.GetOrCreate(c.Request.Context(), artistID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// ReplaceSurvey handles PATCH /content-state/survey. The survey is replaced
// whole-object; no per-path validation applies here.
func (h *ContentHandler) ReplaceSurvey(c *gin.Context) {
	artistID, ok := middleware.ArtistID(c)
	if !ok {
		response.Unauthorized(c, "missing artist identity")
		return
	}

	var req content.SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	state, err := h.service.ReplaceSurvey(c.Request.Context(), artistID, req.Survey)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// Compile handles POST /content-state/compile.
func (h *ContentHandler) Compile(c *gin.Context) {
	artistID, ok := middleware.ArtistID(c)
	if !ok {
		response.Unauthorized(c, "missing artist identity")
		return
	}

	_, state, err := h.service.Compile(c.Request.Context(), artistID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, content.CompileResult{
		CompiledJSONPath: *state.CompiledJSONPath,
		Version:          state.Version,
	})
}

// UpdateContentBatch handles POST /content-state/update-content-batch.
// ?compile=true recompiles synchronously within the same logical write.
func (h *ContentHandler) UpdateContentBatch(c *gin.Context) {
	artistID, ok := middleware.ArtistID(c)
	if !ok {
		response.Unauthorized(c, "missing artist identity")
		return
	}

	var req content.PatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	compile, _ := strconv.ParseBool(c.DefaultQuery("compile", "false"))

	result, err := h.service.ApplyPatch(c.Request.Context(), artistID, &req, compile)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Publish handles POST /content-state/publish.
func (h *ContentHandler) Publish(c *gin.Context) {
	artistID, ok := middleware.ArtistID(c)
	if !ok {
		response.Unauthorized(c, "missing artist identity")
		return
	}

	var req content.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	state, err := h.service.Publish(c.Request.Context(), artistID, req.CustomURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// StartOver handles POST /content-state/start-over.
func (h *ContentHandler) StartOver(c *gin.Context) {
	artistID, ok := middleware.ArtistID(c)
	if !ok {
		response.Unauthorized(c, "missing artist identity")
		return
	}

	state, err := h.service.StartOver(c.Request.Context(), artistID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// GetCompiled handles GET /content-state/compiled, serving the latest
// compiled artifact for the renderer.
func (h *ContentHandler) GetCompiled(c *gin.Context) {
	artistID, ok := middleware.ArtistID(c)
	if !ok {
		response.Unauthorized(c, "missing artist identity")
		return
	}

	site, err := h.service.GetCompiled(c.Request.Context(), artistID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, site)
}

// Preview handles GET /content-state/preview/:page, rendering the page
// template against the compiled site server-side.
func (h *ContentHandler) Preview(c *gin.Context) {
	artistID, ok := middleware.ArtistID(c)
	if !ok {
		response.Unauthorized(c, "missing artist identity")
		return
	}

	page := c.Param("page")
	layout := c.Query("layout")

	site, err := h.service.GetCompiled(c.Request.Context(), artistID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if layout == "" {
		if l, ok := site.SurveyData["layouts"].(map[string]any); ok {
			if v, ok := l[page].(string); ok {
				layout = v
			}
		}
		if page == "home" && layout == "" {
			if l, ok := site.SurveyData["layouts"].(map[string]any); ok {
				if v, ok := l["homepage"].(string); ok {
					layout = v
				}
			}
		}
	}

	tpl, err := h.templates.Get(page, layout)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	markup, err := renderer.RenderPage(tpl, site)
	if err != nil {
		response.InternalServerError(c, "failed to render preview")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}

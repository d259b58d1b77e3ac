package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/mjagro/content-engine/internal/generate"
)

// requireGenerator reports whether LLM-backed generation is available,
// writing a 503 when the server was started without an API key.
func (s *Server) requireGenerator(w http.ResponseWriter) bool {
	if s.generator == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Content generation is not configured (missing API key)")
		return false
	}
	return true
}

// parseProjectID parses the {id} path value, writing a 400 on failure.
func (s *Server) parseProjectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid project ID")
		return uuid.Nil, false
	}
	return projectID, true
}

// handleGenerateHooks generates a batch of hook variants for a project
func (s *Server) handleGenerateHooks(w http.ResponseWriter, r *http.Request) {
	if !s.requireGenerator(w) {
		return
	}
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	hooks, err := s.generator.GenerateHooks(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"hooks": hooks,
		"count": len(hooks),
	})
}

// handleListHooks lists a project's generated hooks
func (s *Server) handleListHooks(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	hooks, err := s.db.ListHooks(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"hooks": hooks,
		"count": len(hooks),
	})
}

// handleSelectHook marks one hook as the project's selected hook
func (s *Server) handleSelectHook(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}
	hookID, err := uuid.Parse(r.PathValue("hook_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid hook ID")
		return
	}

	if err := s.db.SelectHook(r.Context(), projectID, hookID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "selected"})
}

// handleGenerateScripts generates one script per target platform
func (s *Server) handleGenerateScripts(w http.ResponseWriter, r *http.Request) {
	if !s.requireGenerator(w) {
		return
	}
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	scripts, err := s.generator.GenerateScripts(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"scripts": scripts,
		"count":   len(scripts),
	})
}

// handleListScripts lists a project's generated scripts
func (s *Server) handleListScripts(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	scripts, err := s.db.ListScripts(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"scripts": scripts,
		"count":   len(scripts),
	})
}

// handleSelectScript marks one script as the project's selected script
func (s *Server) handleSelectScript(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}
	scriptID, err := uuid.Parse(r.PathValue("script_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid script ID")
		return
	}

	if err := s.db.SelectScript(r.Context(), projectID, scriptID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "selected"})
}

// handleGenerateCaptions generates per-platform captions from the selected
// script
func (s *Server) handleGenerateCaptions(w http.ResponseWriter, r *http.Request) {
	if !s.requireGenerator(w) {
		return
	}
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	captions, err := s.generator.GenerateCaptions(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"captions": captions,
		"count":    len(captions),
	})
}

// handleListCaptions lists a project's generated captions
func (s *Server) handleListCaptions(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	captions, err := s.db.ListCaptions(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"captions": captions,
		"count":    len(captions),
	})
}

// handleGenerateStoryboard generates a shot-by-shot storyboard for a script
func (s *Server) handleGenerateStoryboard(w http.ResponseWriter, r *http.Request) {
	if !s.requireGenerator(w) {
		return
	}
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	var req struct {
		ScriptID uuid.UUID `json:"script_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ScriptID == uuid.Nil {
		s.errorResponse(w, http.StatusBadRequest, "script_id is required")
		return
	}

	storyboard, err := s.generator.GenerateStoryboard(r.Context(), projectID, req.ScriptID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, storyboard)
}

// handleGetStoryboard retrieves a project's storyboard
func (s *Server) handleGetStoryboard(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	storyboard, err := s.db.GetStoryboard(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if storyboard == nil {
		s.errorResponse(w, http.StatusNotFound, "Storyboard not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, storyboard)
}

// handleGenerateField regenerates one free-form text field. The result is
// returned for operator review, never persisted directly.
func (s *Server) handleGenerateField(w http.ResponseWriter, r *http.Request) {
	if !s.requireGenerator(w) {
		return
	}

	var req generate.FieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProjectID == uuid.Nil || req.FieldName == "" {
		s.errorResponse(w, http.StatusBadRequest, "project_id and field_name are required")
		return
	}

	text, err := s.generator.GenerateField(r.Context(), req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"field_name": req.FieldName,
		"text":       text,
	})
}

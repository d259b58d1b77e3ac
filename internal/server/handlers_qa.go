package server

import (
	"net/http"
)

// handleRunQA executes one QA pass: evaluate every rule against the project's
// content, persist the check set, and transition the project status.
func (s *Server) handleRunQA(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	report, err := s.engine.Run(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleListChecks lists the persisted checks from the project's latest QA run
func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	checks, err := s.db.ListChecks(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"checks": checks,
		"count":  len(checks),
	})
}

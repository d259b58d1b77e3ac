package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mjagro/content-engine/internal/server/middleware"
	"github.com/mjagro/content-engine/internal/types"
)

// handleApprove moves a project from pending_approval to approved. Approver
// role required; the transition is recorded in the approval history.
func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}
	profileID, err := middleware.GetProfileID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := s.authService.RequireApprover(r.Context(), profileID, "approve a project"); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	record, err := s.db.TransitionStatus(r.Context(), projectID, profileID,
		types.StatusApproved, nil, types.StatusPendingApproval)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleReject sends a project back to draft with a rejection reason.
// Approver role required.
func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}
	profileID, err := middleware.GetProfileID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := s.authService.RequireApprover(r.Context(), profileID, "reject a project"); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		s.errorResponse(w, http.StatusBadRequest, "Rejection reason is required")
		return
	}

	record, err := s.db.TransitionStatus(r.Context(), projectID, profileID,
		types.StatusDraft, &req.Reason, types.StatusPendingApproval, types.StatusApproved)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleExport marks an approved project as exported. Approver role required.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}
	profileID, err := middleware.GetProfileID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := s.authService.RequireApprover(r.Context(), profileID, "export a project"); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	record, err := s.db.TransitionStatus(r.Context(), projectID, profileID,
		types.StatusExported, nil, types.StatusApproved)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleListApprovals lists a project's approval history, newest first
func (s *Server) handleListApprovals(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.parseProjectID(w, r)
	if !ok {
		return
	}

	records, err := s.db.ListApprovalHistory(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"approvals": records,
		"count":     len(records),
	})
}

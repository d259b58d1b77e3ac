package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/mjagro/content-engine/internal/qa"
	"github.com/mjagro/content-engine/internal/types"
)

// handleCreateProduct registers a catalog product
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input types.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := input.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	product, err := s.db.CreateProduct(r.Context(), &input)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, product)
}

// handleListProducts lists active catalog products
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.db.ListProducts(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"products": products,
		"count":    len(products),
	})
}

// handleGetProduct retrieves a product by ID
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := s.db.GetProduct(r.Context(), productID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if product == nil {
		s.errorResponse(w, http.StatusNotFound, "Product not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, product)
}

// handleDeactivateProduct soft-deletes a product so existing projects keep
// their reference
func (s *Server) handleDeactivateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := s.db.DeactivateProduct(r.Context(), productID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// handleScanProduct audits the product's landing page for allergen disclosure
func (s *Server) handleScanProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := s.db.GetProduct(r.Context(), productID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if product == nil {
		s.errorResponse(w, http.StatusNotFound, "Product not found")
		return
	}

	scan, err := s.scanner.ScanProduct(r.Context(), product, qa.DefaultRuleSet().AllergenTerms)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Scan failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, scan)
}

package handlers

import (
	"net/http"

	"github.com/benvon/tle-advisor/internal/curated"
	"github.com/benvon/tle-advisor/internal/models"
	"github.com/gorilla/mux"
)

// CuratedTagsResponse lists the tags that have curated problems
type CuratedTagsResponse struct {
	Tags []string `json:"tags"`
}

// CuratedProblemsResponse is the curated list of one tag
type CuratedProblemsResponse struct {
	Tag      string                  `json:"tag"`
	Problems []models.CuratedProblem `json:"problems"`
}

// CuratedHandler serves the curated catalog
type CuratedHandler struct {
	catalog *curated.Catalog
}

// NewCuratedHandler creates a curated catalog handler
func NewCuratedHandler(catalog *curated.Catalog) *CuratedHandler {
	return &CuratedHandler{catalog: catalog}
}

// RegisterRoutes registers curated routes on the /api router
func (h *CuratedHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/curated", h.ListTags).Methods(http.MethodGet)
	r.HandleFunc("/curated/{tag}", h.GetTag).Methods(http.MethodGet)
}

// ListTags returns the curated tags in sorted order
func (h *CuratedHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CuratedTagsResponse{Tags: h.catalog.Tags()})
}

// GetTag returns every curated problem of a tag
func (h *CuratedHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag"]
	problems, ok := h.catalog.Problems(tag)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "No curated problems for tag "+tag)
		return
	}
	respondJSON(w, http.StatusOK, CuratedProblemsResponse{Tag: tag, Problems: problems})
}

package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/ayush/study-search-analyzer/internal/middleware"
	"github.com/ayush/study-search-analyzer/internal/models"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Handler holds the analyze-search HTTP handler.
type Handler struct {
	extractor Extractor
}

func NewHandler(extractor Extractor) *Handler {
	return &Handler{extractor: extractor}
}

// AnalyzeSearch extracts study-environment keywords from a search query.
// Invalid bodies get 422 without reaching the provider; provider errors get 500.
func (h *Handler) AnalyzeSearch(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSearchRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Detail: err.Error()})
		return
	}

	reqID := middleware.GetRequestID(r.Context())
	log.Printf("[%s] Analyzing query: %s", reqID, req.Query)

	prefs, err := h.extractor.Extract(r.Context(), req.Query)
	if err != nil {
		log.Printf("[%s] analyze-search error: %v", reqID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Detail: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

func decodeSearchRequest(w http.ResponseWriter, r *http.Request) (*models.SearchRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body struct {
		Query *string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "query" {
			return nil, errors.New("query must be a string")
		}
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if body.Query == nil {
		return nil, errors.New("query is required")
	}
	if strings.TrimSpace(*body.Query) == "" {
		return nil, errors.New("query must not be blank")
	}
	return &models.SearchRequest{Query: *body.Query}, nil
}

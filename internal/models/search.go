package models

// SearchRequest is the JSON body for POST /analyze-search.
type SearchRequest struct {
	Query string `json:"query"`
}

// StudyPreferences is the structured output requested from the provider and
// returned to the caller unchanged.
type StudyPreferences struct {
	Keywords []string `json:"keywords"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

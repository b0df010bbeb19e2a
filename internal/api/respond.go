package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"knowledge_hub/internal/service"
	"knowledge_hub/internal/validate"
)

type errorResponse struct {
	Message string          `json:"message"`
	Errors  validate.Errors `json:"errors,omitempty"`
}

// resource names the entity a handler serves, for client-facing messages.
type resource struct {
	notFound string
	invalid  string
}

var (
	domainResource  = resource{notFound: "Domain not found", invalid: "Invalid domain data"}
	articleResource = resource{notFound: "Article not found", invalid: "Invalid article data"}
	projectResource = resource{notFound: "Project not found", invalid: "Invalid project data"}
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondError maps service errors onto status codes. Anything unrecognised is
// logged and hidden behind a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, res resource, err error) {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: res.invalid, Errors: verrs})
	case errors.Is(err, service.ErrNotFound):
		respondMessage(w, http.StatusNotFound, res.notFound)
	case errors.Is(err, service.ErrDomainInUse):
		respondMessage(w, http.StatusConflict, "Domain has articles or projects")
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

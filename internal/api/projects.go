package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"knowledge_hub/internal/service"
	"knowledge_hub/internal/validate"
)

type projectHandler struct {
	service *service.KnowledgeService
	logger  *slog.Logger
}

// List honours optional domainId and featured=true query parameters, together or
// alone.
func (h *projectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projects, err := h.service.ListProjects(r.Context(), service.ProjectFilter{
		DomainID:     q.Get("domainId"),
		FeaturedOnly: q.Get("featured") == "true",
	})
	if err != nil {
		respondError(w, r, h.logger, projectResource, err)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

func (h *projectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.logger, projectResource, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *projectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := validate.Decode(r.Body, &req); err != nil {
		respondError(w, r, h.logger, projectResource, err)
		return
	}

	p, err := h.service.CreateProject(r.Context(), req.toProject())
	if err != nil {
		respondError(w, r, h.logger, projectResource, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *projectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req patchProjectRequest
	if err := validate.Decode(r.Body, &req); err != nil {
		respondError(w, r, h.logger, projectResource, err)
		return
	}

	p, err := h.service.UpdateProject(r.Context(), chi.URLParam(r, "id"), req.toPatch())
	if err != nil {
		respondError(w, r, h.logger, projectResource, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *projectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.logger, projectResource, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

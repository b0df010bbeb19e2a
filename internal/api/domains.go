package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"knowledge_hub/internal/service"
	"knowledge_hub/internal/validate"
)

type domainHandler struct {
	service *service.KnowledgeService
	logger  *slog.Logger
}

func (h *domainHandler) List(w http.ResponseWriter, r *http.Request) {
	domains, err := h.service.ListDomains(r.Context())
	if err != nil {
		respondError(w, r, h.logger, domainResource, err)
		return
	}
	respondJSON(w, http.StatusOK, domains)
}

func (h *domainHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetDomain(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.logger, domainResource, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *domainHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDomainRequest
	if err := validate.Decode(r.Body, &req); err != nil {
		respondError(w, r, h.logger, domainResource, err)
		return
	}

	d, err := h.service.CreateDomain(r.Context(), req.toDomain())
	if err != nil {
		respondError(w, r, h.logger, domainResource, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

func (h *domainHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req patchDomainRequest
	if err := validate.Decode(r.Body, &req); err != nil {
		respondError(w, r, h.logger, domainResource, err)
		return
	}

	d, err := h.service.UpdateDomain(r.Context(), chi.URLParam(r, "id"), req.toPatch())
	if err != nil {
		respondError(w, r, h.logger, domainResource, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (h *domainHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDomain(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.logger, domainResource, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

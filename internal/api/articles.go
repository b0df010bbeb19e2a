package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"knowledge_hub/internal/domain"
	"knowledge_hub/internal/service"
	"knowledge_hub/internal/validate"
)

type articleHandler struct {
	service *service.KnowledgeService
	logger  *slog.Logger
}

type searchResponse struct {
	Articles []domain.Article `json:"articles"`
}

// List honours an optional domainId query parameter.
func (h *articleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.service.ListArticles(r.Context(), r.URL.Query().Get("domainId"))
	if err != nil {
		respondError(w, r, h.logger, articleResource, err)
		return
	}
	respondJSON(w, http.StatusOK, articles)
}

func (h *articleHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.logger, articleResource, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (h *articleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := validate.Decode(r.Body, &req); err != nil {
		respondError(w, r, h.logger, articleResource, err)
		return
	}

	a, err := h.service.CreateArticle(r.Context(), req.toArticle())
	if err != nil {
		respondError(w, r, h.logger, articleResource, err)
		return
	}
	respondJSON(w, http.StatusCreated, a)
}

func (h *articleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req patchArticleRequest
	if err := validate.Decode(r.Body, &req); err != nil {
		respondError(w, r, h.logger, articleResource, err)
		return
	}

	a, err := h.service.UpdateArticle(r.Context(), chi.URLParam(r, "id"), req.toPatch())
	if err != nil {
		respondError(w, r, h.logger, articleResource, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (h *articleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteArticle(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.logger, articleResource, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *articleHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondMessage(w, http.StatusBadRequest, "Search query is required")
		return
	}

	articles, err := h.service.Search(r.Context(), query)
	if err != nil {
		respondError(w, r, h.logger, articleResource, err)
		return
	}
	respondJSON(w, http.StatusOK, searchResponse{Articles: articles})
}

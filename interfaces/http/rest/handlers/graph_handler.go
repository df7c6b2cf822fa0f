// Package handlers contains the REST handlers for the read-only graph API.
package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dhammakb/application/ports"
	"dhammakb/domain/graph"
	"dhammakb/pkg/apperrors"
	"dhammakb/pkg/common"
)

// GraphHandler serves list and dhamma detail endpoints plus search.
type GraphHandler struct {
	store  ports.GraphStore
	logger *zap.Logger
}

// NewGraphHandler creates a GraphHandler.
func NewGraphHandler(store ports.GraphStore, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{store: store, logger: logger}
}

// listSummary is the index entry returned by GET /api/lists.
type listSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PaliName  string `json:"pali_name"`
	Slug      string `json:"slug"`
	ItemCount int    `json:"item_count"`
}

// ListLists handles GET /api/lists
func (h *GraphHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.store.AllLists(r.Context())
	if err != nil {
		h.logger.Error("Failed to load lists", zap.Error(err))
		appErr := apperrors.NewInternalError("failed to load lists", err)
		common.RespondError(w, appErr.HTTPStatus, appErr.Code, appErr.Message)
		return
	}

	summaries := make([]listSummary, 0, len(lists))
	for _, l := range lists {
		summaries = append(summaries, listSummary{
			ID:        l.ID,
			Name:      l.Name,
			PaliName:  l.PaliName,
			Slug:      l.Slug,
			ItemCount: l.ItemCount,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"lists": summaries,
		"count": len(summaries),
	})
}

// GetList handles GET /api/lists/{listID}
func (h *GraphHandler) GetList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listID")
	list, err := h.store.GetList(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, "list", id)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

// GetDhamma handles GET /api/dhammas/{dhammaID}
func (h *GraphHandler) GetDhamma(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "dhammaID")
	dhamma, err := h.store.GetDhamma(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, "dhamma", id)
		return
	}
	common.RespondJSON(w, http.StatusOK, dhamma)
}

// Search handles GET /api/search?q=
func (h *GraphHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		common.RespondError(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter q is required")
		return
	}

	// Single-character queries match half the corpus; treat them as empty.
	results := []graph.SearchResult{}
	if len(strings.TrimSpace(q)) >= 2 {
		var err error
		results, err = h.store.Search(r.Context(), q)
		if err != nil {
			h.logger.Error("Search failed", zap.String("query", q), zap.Error(err))
			appErr := apperrors.NewInternalError("search failed", err)
			common.RespondError(w, appErr.HTTPStatus, appErr.Code, appErr.Message)
			return
		}
		sort.Slice(results, func(i, j int) bool {
			return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
		})
	}
	if results == nil {
		results = []graph.SearchResult{}
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

func (h *GraphHandler) respondStoreError(w http.ResponseWriter, err error, kind, id string) {
	if apperrors.HTTPStatusOf(err) == http.StatusNotFound {
		appErr := apperrors.NewNotFoundError(kind)
		common.RespondError(w, appErr.HTTPStatus, appErr.Code, appErr.Message)
		return
	}
	h.logger.Error("Store lookup failed",
		zap.String("kind", kind),
		zap.String("id", id),
		zap.Error(err),
	)
	appErr := apperrors.NewInternalError("lookup failed", err)
	common.RespondError(w, appErr.HTTPStatus, appErr.Code, appErr.Message)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dhammakb/application/navigation"
	"dhammakb/pkg/apperrors"
	"dhammakb/pkg/common"
)

// NavigationHandler serves the directional navigation endpoint.
type NavigationHandler struct {
	engine *navigation.Engine
	logger *zap.Logger
}

// NewNavigationHandler creates a NavigationHandler.
func NewNavigationHandler(engine *navigation.Engine, logger *zap.Logger) *NavigationHandler {
	return &NavigationHandler{engine: engine, logger: logger}
}

// Navigate handles GET /api/navigate/{nodeID}
func (h *NavigationHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	view, err := h.engine.Navigate(r.Context(), nodeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidID) || errors.Is(err, apperrors.ErrNodeNotFound) {
			common.RespondError(w, apperrors.HTTPStatusOf(err), apperrors.CodeOf(err), "node not found")
			return
		}
		h.logger.Error("Navigation failed", zap.String("nodeID", nodeID), zap.Error(err))
		common.RespondError(w, apperrors.HTTPStatusOf(err), apperrors.CodeOf(err), "navigation failed")
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

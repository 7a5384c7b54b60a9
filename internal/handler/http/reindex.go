package http

import (
	"log/slog"
	"net/http"

	"github.com/souqly/marketplace/internal/index"
	"github.com/souqly/marketplace/pkg/httputil"
)

type reindexResponse struct {
	Indexed int `json:"indexed"`
}

// ReindexHandler exposes the full index rebuild as an admin operation.
type ReindexHandler struct {
	reindexer *index.Reindexer
	logger    *slog.Logger
}

// NewReindexHandler creates a new reindex handler.
func NewReindexHandler(reindexer *index.Reindexer, logger *slog.Logger) *ReindexHandler {
	return &ReindexHandler{reindexer: reindexer, logger: logger}
}

// Reindex handles POST /api/v1/admin/reindex. The rebuild runs synchronously
// within the request; partial progress on failure is reported in the error
// log, and the operation is safe to retry.
func (h *ReindexHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	count, err := h.reindexer.ReindexAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "reindex failed",
			slog.Int("submitted", count),
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "SEARCH_UNAVAILABLE",
				Message: "reindex failed, partial progress has been kept",
			},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reindexResponse{Indexed: count}})
}

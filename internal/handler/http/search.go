package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/internal/service"
	"github.com/souqly/marketplace/pkg/httputil"
)

type searchResponse struct {
	Products []domain.ProductSummary `json:"products"`
	Message  string                  `json:"message,omitempty"`
}

// SearchHandler handles full-text product search requests.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{service: service, logger: logger}
}

// Search handles GET /api/v1/search?q=...&limit=...
// Zero hits is a successful response with an empty product list; only an
// unreachable search backend produces a 503.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_PARAMETER",
					Message: "limit must be an integer",
				},
			})
			return
		}
		limit = parsed
	}

	products, err := h.service.Search(r.Context(), query, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := searchResponse{Products: products}
	if len(products) == 0 {
		resp.Message = "no products found"
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

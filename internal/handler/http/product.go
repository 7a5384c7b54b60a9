package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/souqly/marketplace/internal/repository"
	"github.com/souqly/marketplace/internal/service"
	"github.com/souqly/marketplace/pkg/httputil"
	"github.com/souqly/marketplace/pkg/middleware"
	"github.com/souqly/marketplace/pkg/validator"
)

type createProductRequest struct {
	Title         string         `json:"title" validate:"required,min=3,max=200"`
	Description   string         `json:"description" validate:"max=5000"`
	CategoryID    *string        `json:"category_id" validate:"omitempty,uuid"`
	Brand         string         `json:"brand" validate:"max=100"`
	Images        []string       `json:"images" validate:"omitempty,dive,url"`
	Quantity      int            `json:"quantity" validate:"gte=0"`
	MRP           float64        `json:"mrp" validate:"gte=0"`
	SellingPrice  float64        `json:"selling_price" validate:"required,gt=0"`
	IsAd          bool           `json:"is_ad"`
	ExtraFeatures map[string]any `json:"extra_features"`
}

type updateProductRequest struct {
	Title         *string        `json:"title" validate:"omitempty,min=3,max=200"`
	Description   *string        `json:"description" validate:"omitempty,max=5000"`
	CategoryID    *string        `json:"category_id" validate:"omitempty,uuid"`
	Brand         *string        `json:"brand" validate:"omitempty,max=100"`
	Images        []string       `json:"images" validate:"omitempty,dive,url"`
	Quantity      *int           `json:"quantity" validate:"omitempty,gte=0"`
	MRP           *float64       `json:"mrp" validate:"omitempty,gte=0"`
	SellingPrice  *float64       `json:"selling_price" validate:"omitempty,gt=0"`
	IsAd          *bool          `json:"is_ad"`
	IsSold        *bool          `json:"is_sold"`
	IsActive      *bool          `json:"is_active"`
	ExtraFeatures map[string]any `json:"extra_features"`
}

// ProductHandler handles product CRUD requests.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: service, logger: logger}
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), service.CreateProductInput{
		Title:         req.Title,
		Description:   req.Description,
		OwnerID:       middleware.UserIDFromContext(r.Context()),
		CategoryID:    req.CategoryID,
		Brand:         req.Brand,
		Images:        req.Images,
		Quantity:      req.Quantity,
		MRP:           req.MRP,
		SellingPrice:  req.SellingPrice,
		IsAd:          req.IsAd,
		ExtraFeatures: req.ExtraFeatures,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetByID(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 20),
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	q := r.URL.Query()
	if v := q.Get("owner_id"); v != "" {
		filter.OwnerID = &v
	}
	if v := q.Get("category_id"); v != "" {
		filter.CategoryID = &v
	}
	if v := q.Get("brand"); v != "" {
		filter.Brand = &v
	}
	if v := q.Get("is_sold"); v != "" {
		sold := v == "true"
		filter.IsSold = &sold
	}
	if v := q.Get("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	products, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse(products, total, filter.Page, filter.PerPage),
	})
}

// Update handles PATCH /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req updateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.Update(
		r.Context(),
		id.String(),
		middleware.UserIDFromContext(r.Context()),
		middleware.RoleFromContext(r.Context()),
		service.UpdateProductInput{
			Title:         req.Title,
			Description:   req.Description,
			CategoryID:    req.CategoryID,
			Brand:         req.Brand,
			Images:        req.Images,
			Quantity:      req.Quantity,
			MRP:           req.MRP,
			SellingPrice:  req.SellingPrice,
			IsAd:          req.IsAd,
			IsSold:        req.IsSold,
			IsActive:      req.IsActive,
			ExtraFeatures: req.ExtraFeatures,
		},
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// Delete handles DELETE /api/v1/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	err := h.service.Delete(
		r.Context(),
		id.String(),
		middleware.UserIDFromContext(r.Context()),
		middleware.RoleFromContext(r.Context()),
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

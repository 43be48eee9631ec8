package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fjod/watchhaven/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxPageSize = 100

type ProductHandler struct {
	catalog  Catalog
	pageSize int
}

func NewProductHandler(catalog Catalog, pageSize int) *ProductHandler {
	return &ProductHandler{catalog: catalog, pageSize: pageSize}
}

// GET /api/products/categories/
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	out := make([]*CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryDTO(c))
	}
	respondJSON(w, r, http.StatusOK, out)
}

// GET /api/products/?category=&is_featured=&search=&ordering=&page=&page_size=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, fields := h.parseFilter(r.URL.Query())
	if len(fields) > 0 {
		respondValidation(w, r, fields)
		return
	}

	page, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if filter.Page > 1 && filter.Offset() >= page.Count {
		respondError(w, r, http.StatusNotFound, "not_found", "Invalid page.")
		return
	}

	results := make([]ProductListDTO, 0, len(page.Products))
	for _, p := range page.Products {
		results = append(results, toProductListDTO(p))
	}
	out := ProductPageDTO{Count: page.Count, Results: results}
	if page.HasNext() {
		out.Next = pageURL(r, page.Page+1)
	}
	if page.HasPrevious() {
		out.Previous = pageURL(r, page.Page-1)
	}
	respondJSON(w, r, http.StatusOK, out)
}

func (h *ProductHandler) parseFilter(q url.Values) (domain.ProductFilter, map[string]string) {
	fields := make(map[string]string)
	filter := domain.ProductFilter{
		CategorySlug: strings.TrimSpace(q.Get("category")),
		Search:       strings.TrimSpace(q.Get("search")),
		Ordering:     strings.TrimSpace(q.Get("ordering")),
		Page:         1,
		PageSize:     h.pageSize,
	}
	if filter.CategorySlug == "" {
		filter.CategorySlug = strings.TrimSpace(q.Get("category__slug"))
	}

	if raw := q.Get("is_featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			fields["is_featured"] = "Select a valid choice."
		} else {
			filter.IsFeatured = &featured
		}
	}
	if filter.Ordering != "" && !domain.IsSupportedOrdering(filter.Ordering) {
		fields["ordering"] = "Select a valid ordering."
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			fields["page"] = "Invalid page."
		} else {
			filter.Page = page
		}
	}
	if raw := q.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			fields["page_size"] = "Invalid page size."
		} else {
			filter.PageSize = min(size, maxPageSize)
		}
	}
	return filter, fields
}

func pageURL(r *http.Request, page int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	q := r.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	s := u.String()
	return &s
}

// GET /api/products/{id}/
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusNotFound, "not_found", "Product not found")
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toProductDetailDTO(product))
}

// GET /api/products/by-slug/{slug}/
func (h *ProductHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toProductDetailDTO(product))
}

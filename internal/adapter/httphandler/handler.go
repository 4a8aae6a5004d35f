package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
)

// GET v1/products?category=&club=&price= (200 OK, 400 Bad request)
// GET v1/products/{id} (200 OK, 404 Not found)
// GET v1/products/{id}/popularity (200 OK, 404 Not found)
// GET v1/filter/options (200 OK)
// GET v1/news (200 OK)

type CatalogHandler struct {
	products   port.ProductsLister
	filter     port.FilterKeeper
	news       port.NewsLister
	popularity port.PopularityReader
}

// RegisterCatalog registers the catalog routes.
// The popularity route is only served with a non-nil popularity.
func RegisterCatalog(
	mux *http.ServeMux,
	products port.ProductsLister,
	filter port.FilterKeeper,
	news port.NewsLister,
	popularity port.PopularityReader,
) {
	h := CatalogHandler{products, filter, news, popularity}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/filter/options", h.GetFilterOptions)
	mux.HandleFunc("GET /v1/news", h.GetNews)
	if popularity != nil {
		mux.HandleFunc("GET /v1/products/{id}/popularity", h.GetPopularity)
	}
}

// GetProducts lists the products matching the query criteria,
// falling back to the saved filter when the query has none.
func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	criteria, err := h.criteria(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("invalid filter", "err", err)
		return
	}

	ps, err := h.products.ListProducts(r.Context(), criteria)
	if err != nil {
		internalError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, ProductList{
		Filter:   fromDomainCriteria(criteria),
		Total:    len(ps),
		Products: fromDomainProducts(ps),
	})
}

func (h CatalogHandler) criteria(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()
	if !q.Has("category") && !q.Has("club") && !q.Has("price") {
		return h.filter.SavedFilter(r.Context()), nil
	}
	return FilterCriteria{
		Category: q.Get("category"),
		Club:     q.Get("club"),
		Price:    q.Get("price"),
	}.toDomain()
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.products.Product(r.Context(), r.PathValue("id"))
	if err != nil {
		serviceError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromDomainProduct(p))
}

func (h CatalogHandler) GetPopularity(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetPopularity"
	log := slog.With("op", op)

	id := r.PathValue("id")
	if _, err := h.products.Product(r.Context(), id); err != nil {
		serviceError(w, log, err)
		return
	}

	n, err := h.popularity.AddedToCart(r.Context(), id)
	if err != nil {
		http.Error(w, "popularity is unavailable", http.StatusServiceUnavailable)
		log.Error("failed to read popularity", "err", err)
		return
	}
	writeJSON(w, log, http.StatusOK, Popularity{ProductID: id, AddedToCart: n})
}

func (h CatalogHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetFilterOptions"
	log := slog.With("op", op)

	writeJSON(w, log, http.StatusOK,
		fromDomainOptions(h.products.FilterOptions(r.Context())),
	)
}

func (h CatalogHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetNews"
	log := slog.With("op", op)

	ns, err := h.news.News(r.Context())
	if err != nil {
		internalError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromDomainNews(ns))
}

// GET v1/filter (200 OK)
// PUT v1/filter JSON {"category", "club", "price"} (200 OK, 400 Bad request)
// DELETE v1/filter (200 OK)

type FilterHandler struct {
	filter port.FilterKeeper
}

func RegisterFilter(mux *http.ServeMux, filter port.FilterKeeper) {
	h := FilterHandler{filter}
	mux.HandleFunc("GET /v1/filter", h.GetFilter)
	mux.HandleFunc("PUT /v1/filter", h.PutFilter)
	mux.HandleFunc("DELETE /v1/filter", h.DeleteFilter)
}

func (h FilterHandler) GetFilter(w http.ResponseWriter, r *http.Request) {
	const op = "FilterHandler.GetFilter"
	log := slog.With("op", op)

	writeJSON(w, log, http.StatusOK,
		fromDomainCriteria(h.filter.SavedFilter(r.Context())),
	)
}

func (h FilterHandler) PutFilter(w http.ResponseWriter, r *http.Request) {
	const op = "FilterHandler.PutFilter"
	log := slog.With("op", op)

	var v FilterCriteria
	if err := decodeJSON(r, &v); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	criteria, err := v.toDomain()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("invalid filter", "err", err)
		return
	}

	h.filter.SaveFilter(r.Context(), criteria)
	writeJSON(w, log, http.StatusOK, fromDomainCriteria(criteria))
}

func (h FilterHandler) DeleteFilter(w http.ResponseWriter, r *http.Request) {
	const op = "FilterHandler.DeleteFilter"
	log := slog.With("op", op)

	h.filter.ResetFilter(r.Context())
	writeJSON(w, log, http.StatusOK,
		fromDomainCriteria(h.filter.SavedFilter(r.Context())),
	)
}

// GET v1/cart (200 OK)
// POST v1/cart/items JSON {"product_id", "size", "color"} (200 OK, 400 Bad request, 404 Not found)
// PATCH v1/cart/items/{productID}?size=&color= JSON {"quantity"} (200 OK, 400 Bad request)
// DELETE v1/cart/items/{productID}?size=&color= (200 OK, 400 Bad request)
// DELETE v1/cart (200 OK)

type CartHandler struct {
	cart port.CartManager
}

func RegisterCart(mux *http.ServeMux, cart port.CartManager) {
	h := CartHandler{cart}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PATCH /v1/cart/items/{productID}", h.PatchItem)
	mux.HandleFunc("DELETE /v1/cart/items/{productID}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/cart", h.DeleteCart)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	writeJSON(w, log, http.StatusOK, fromDomainCart(h.cart.Cart(r.Context())))
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var v AddItemRequest
	if err := decodeJSON(r, &v); err != nil || v.ProductID == "" {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	summary, err := h.cart.AddToCart(r.Context(), v.ProductID, v.Size, v.Color)
	if err != nil {
		serviceError(w, log, err)
		return
	}

	log.Info("added to cart", "productID", v.ProductID)
	writeJSON(w, log, http.StatusOK, fromDomainCart(summary))
}

func (h CartHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PatchItem"
	log := slog.With("op", op)

	sel, ok := lineSelector(r)
	if !ok {
		http.Error(w, "size and color go together", http.StatusBadRequest)
		return
	}

	var v UpdateQuantityRequest
	if err := decodeJSON(r, &v); err != nil || v.Quantity == nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	summary, err := h.cart.UpdateQuantity(r.Context(), sel, *v.Quantity)
	if err != nil {
		serviceError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, fromDomainCart(summary))
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	log := slog.With("op", op)

	sel, ok := lineSelector(r)
	if !ok {
		http.Error(w, "size and color go together", http.StatusBadRequest)
		return
	}

	summary := h.cart.RemoveFromCart(r.Context(), sel)
	writeJSON(w, log, http.StatusOK, fromDomainCart(summary))
}

func (h CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCart"
	log := slog.With("op", op)

	writeJSON(w, log, http.StatusOK, fromDomainCart(h.cart.ClearCart(r.Context())))
}

// lineSelector reads the product path value and the optional variant
// query. Size and color are either both set or both absent.
func lineSelector(r *http.Request) (port.LineSelector, bool) {
	sel := port.LineSelector{
		ProductID: r.PathValue("productID"),
		Size:      r.URL.Query().Get("size"),
		Color:     r.URL.Query().Get("color"),
	}
	if (sel.Size == "") != (sel.Color == "") {
		return port.LineSelector{}, false
	}
	return sel, true
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func serviceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		http.Error(w, "product not found", http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidVariant):
		http.Error(w, "size or color is not offered", http.StatusBadRequest)
	case errors.Is(err, domain.ErrTotalOverflow):
		http.Error(w, "quantity is too large", http.StatusBadRequest)
	default:
		internalError(w, log, err)
		return
	}
	log.Warn("rejected", "err", err)
}

func internalError(w http.ResponseWriter, log *slog.Logger, err error) {
	http.Error(w, "internal error", http.StatusInternalServerError)
	log.Error("request failed", "err", err)
}

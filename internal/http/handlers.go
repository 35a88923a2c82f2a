package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gadgetry/storefront/internal/catalog"
	"github.com/gadgetry/storefront/internal/checkout"
	"github.com/gadgetry/storefront/internal/pricing"
)

func init() {
	// The API emits currency amounts as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Catalog is the product read surface the handlers need.
type Catalog interface {
	List(ctx context.Context) ([]catalog.Product, error)
	Get(ctx context.Context, id int64) (catalog.Product, error)
}

// Checkouter runs the checkout transaction.
type Checkouter interface {
	Checkout(ctx context.Context, req checkout.Request) (checkout.Result, error)
}

// DBStatus reports whether the durable store is in use.
type DBStatus interface {
	Connected(ctx context.Context) bool
}

type Handler struct {
	catalog  Catalog
	checkout Checkouter
	dbstatus DBStatus
}

func NewHandler(c Catalog, svc Checkouter, status DBStatus) *Handler {
	return &Handler{catalog: c, checkout: svc, dbstatus: status}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"dbConnected": h.dbstatus.Connected(ctx),
	})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := h.catalog.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get product")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

type checkoutCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type checkoutItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type checkoutRequest struct {
	Customer *checkoutCustomer `json:"customer"`
	Items    []checkoutItem    `json:"items"`
}

type checkoutResponse struct {
	OrderID int64           `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcReq := checkout.Request{}
	if req.Customer != nil {
		svcReq.Customer = &checkout.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Address: req.Customer.Address,
		}
	}
	for _, it := range req.Items {
		svcReq.Items = append(svcReq.Items, checkout.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.checkout.Checkout(ctx, svcReq)
	if err != nil {
		var unknown pricing.UnknownProductError
		switch {
		case errors.Is(err, checkout.ErrMissingCustomerOrItems):
			writeError(w, http.StatusBadRequest, "Missing customer or items")
		case errors.Is(err, checkout.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "Invalid quantity")
		case errors.As(err, &unknown):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Product %d not found", unknown.ID))
		default:
			writeError(w, http.StatusInternalServerError, "Checkout failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{OrderID: res.OrderID, Total: res.Total})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

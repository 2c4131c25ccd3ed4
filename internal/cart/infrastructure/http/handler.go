package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/quickhatch/storefront/internal/cart/application"
	"github.com/quickhatch/storefront/internal/cart/domain"
	"github.com/quickhatch/storefront/pkg/auth"
	"github.com/quickhatch/storefront/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("cart-http"),
	}
}

// Routes is mounted under /cart.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.getCart)
	r.Post("/items", h.addItem)
	r.Patch("/items/{itemID}", h.updateItem)
	r.Delete("/items/{itemID}", h.removeItem)
	return r
}

type addItemReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

type cartView struct {
	ID        string         `json:"id"`
	Items     []cartItemView `json:"items"`
	Subtotal  string         `json:"subtotal"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type cartItemView struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	ProductSKU  string `json:"productSku"`
	UnitPrice   string `json:"unitPrice"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"lineTotal"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCart")
	defer span.End()

	cart, err := h.service.GetCart(ctx, auth.UserID(ctx))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCartView(cart))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddCartItem")
	defer span.End()

	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	cart, err := h.service.AddItem(ctx, auth.UserID(ctx), req.ProductID, req.Quantity)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCartView(cart))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateCartItem")
	defer span.End()

	var req updateItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	cart, err := h.service.UpdateItem(ctx, auth.UserID(ctx), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCartView(cart))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveCartItem")
	defer span.End()

	cart, err := h.service.RemoveItem(ctx, auth.UserID(ctx), chi.URLParam(r, "itemID"))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCartView(cart))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidQuantity),
		errors.Is(err, application.ErrProductInactive),
		errors.Is(err, application.ErrNotEnoughStock):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrProductNotFound),
		errors.Is(err, application.ErrItemNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	default:
		h.log.ErrorContext(ctx, "cart request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func toCartView(cart *domain.Cart) cartView {
	view := cartView{
		ID:        cart.ID,
		Items:     make([]cartItemView, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}
	subtotal := decimal.Zero
	for _, it := range cart.Items {
		line := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
		view.Items = append(view.Items, cartItemView{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Quantity:    it.Quantity,
			LineTotal:   line.StringFixed(2),
		})
	}
	view.Subtotal = subtotal.StringFixed(2)
	return view
}

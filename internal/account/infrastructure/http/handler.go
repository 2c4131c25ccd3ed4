package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/quickhatch/storefront/internal/account/application"
	"github.com/quickhatch/storefront/internal/account/domain"
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
		tracer:  otel.Tracer("account-http"),
	}
}

// AddressRoutes is mounted under /addresses.
func (h *Handler) AddressRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listAddresses)
	r.Post("/", h.createAddress)
	r.Patch("/{addressID}", h.updateAddress)
	r.Delete("/{addressID}", h.deleteAddress)
	return r
}

// WishlistRoutes is mounted under /wishlist.
func (h *Handler) WishlistRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listWishlist)
	r.Delete("/{itemID}", h.removeWishlistItem)
	return r
}

type addressReq struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

type addressPatchReq struct {
	FullName   *string `json:"fullName"`
	Phone      *string `json:"phone"`
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
	IsDefault  *bool   `json:"isDefault"`
}

type addressView struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}

type wishlistItemView struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListAddresses")
	defer span.End()

	addrs, err := h.service.ListAddresses(ctx, auth.UserID(ctx))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	views := make([]addressView, 0, len(addrs))
	for _, a := range addrs {
		views = append(views, toAddressView(a))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) createAddress(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateAddress")
	defer span.End()

	var req addressReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	created, err := h.service.CreateAddress(ctx, auth.UserID(ctx), domain.Address{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAddressView(created))
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateAddress")
	defer span.End()

	var req addressPatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	updated, err := h.service.UpdateAddress(ctx, auth.UserID(ctx), chi.URLParam(r, "addressID"), domain.AddressPatch{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAddressView(updated))
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteAddress")
	defer span.End()

	if err := h.service.DeleteAddress(ctx, auth.UserID(ctx), chi.URLParam(r, "addressID")); err != nil {
		h.fail(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListWishlist")
	defer span.End()

	items, err := h.service.ListWishlist(ctx, auth.UserID(ctx))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	views := make([]wishlistItemView, 0, len(items))
	for _, it := range items {
		views = append(views, wishlistItemView{ID: it.ID, ProductID: it.ProductID, CreatedAt: it.CreatedAt})
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) removeWishlistItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveWishlistItem")
	defer span.End()

	if err := h.service.RemoveWishlistItem(ctx, auth.UserID(ctx), chi.URLParam(r, "itemID")); err != nil {
		h.fail(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrMissingAddressFields):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, domain.ErrWishlistItemNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	default:
		h.log.ErrorContext(ctx, "account request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func toAddressView(a domain.Address) addressView {
	return addressView{
		ID:         a.ID,
		FullName:   a.FullName,
		Phone:      a.Phone,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
	}
}

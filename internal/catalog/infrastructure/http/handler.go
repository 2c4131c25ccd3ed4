package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/quickhatch/storefront/internal/catalog/application"
	"github.com/quickhatch/storefront/internal/catalog/domain"
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
		tracer:  otel.Tracer("catalog-http"),
	}
}

// Routes is mounted under /products.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listProducts)
	r.Get("/{productID}", h.getProduct)
	return r
}

// ReviewRoutes is mounted under /admin/reviews behind the admin guard.
func (h *Handler) ReviewRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listReviews)
	return r
}

type productView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Slug     string `json:"slug"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	IsActive bool   `json:"isActive"`
}

type reviewView struct {
	ID         string    `json:"id"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Comment    string    `json:"comment"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	User       struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Product struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"product"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListProducts")
	defer span.End()

	products, err := h.service.ListProducts(ctx)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	p, err := h.service.Product(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductView(p))
}

// listReviews supports ?status=verified|unverified and ?rating=1..5.
func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListReviews")
	defer span.End()

	var filter domain.ReviewFilter
	switch r.URL.Query().Get("status") {
	case "verified":
		v := true
		filter.Verified = &v
	case "unverified":
		v := false
		filter.Verified = &v
	}
	if raw := r.URL.Query().Get("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 1 || rating > 5 {
			httpx.WriteError(w, http.StatusBadRequest, "rating must be between 1 and 5")
			return
		}
		filter.Rating = rating
	}

	reviews, err := h.service.ListReviews(ctx, filter)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	views := make([]reviewView, 0, len(reviews))
	for _, rv := range reviews {
		views = append(views, toReviewView(rv))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	default:
		h.log.ErrorContext(ctx, "catalog request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:       p.ID,
		Name:     p.Name,
		SKU:      p.SKU,
		Slug:     p.Slug,
		Price:    p.Price.StringFixed(2),
		Quantity: p.Quantity,
		IsActive: p.IsActive,
	}
}

func toReviewView(rv domain.Review) reviewView {
	view := reviewView{
		ID:         rv.ID,
		Rating:     rv.Rating,
		Title:      rv.Title,
		Comment:    rv.Comment,
		IsVerified: rv.IsVerified,
		CreatedAt:  rv.CreatedAt,
	}
	view.User.ID = rv.User.ID
	view.User.Name = rv.User.Name
	view.User.Email = rv.User.Email
	view.Product.ID = rv.Product.ID
	view.Product.Name = rv.Product.Name
	view.Product.Slug = rv.Product.Slug
	return view
}

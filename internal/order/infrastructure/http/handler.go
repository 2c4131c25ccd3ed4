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

	"github.com/quickhatch/storefront/internal/order/application"
	"github.com/quickhatch/storefront/internal/order/domain"
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
		tracer:  otel.Tracer("order-http"),
	}
}

// Routes is mounted under /orders. placeMW wraps only the checkout
// route, so an Idempotency-Key on a read is a no-op.
func (h *Handler) Routes(placeMW ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.listOrders)
	r.With(placeMW...).Post("/", h.placeOrder)
	r.Get("/{orderID}", h.getOrder)
	r.Patch("/{orderID}", h.patchOrder)
	return r
}

type placeOrderReq struct {
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
}

type patchOrderReq struct {
	Action string `json:"action"`
}

type orderView struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	Status        statusView      `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
	Subtotal      string          `json:"subtotal"`
	Tax           string          `json:"tax"`
	ShippingCost  string          `json:"shippingCost"`
	Discount      string          `json:"discount"`
	Total         string          `json:"total"`
	Notes         string          `json:"notes,omitempty"`
	ShipTo        shipToView      `json:"shipTo"`
	Items         []orderItemView `json:"items"`
	Shipment      *shipmentView   `json:"shipment,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// statusView carries the presentation metadata alongside the code so
// clients never hardcode the status table.
type statusView struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Progress int    `json:"progress"`
}

type shipToView struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type orderItemView struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Total     string `json:"total"`
}

type shipmentView struct {
	Carrier        string     `json:"carrier,omitempty"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	Status         string     `json:"status"`
	ShippedAt      *time.Time `json:"shippedAt,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrder")
	defer span.End()

	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	o, err := h.service.PlaceOrder(ctx, auth.UserID(ctx), application.PlaceOrderInput{
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toOrderView(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	orders, err := h.service.ListOrders(ctx, auth.UserID(ctx))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.service.GetOrder(ctx, auth.UserID(ctx), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderView(o))
}

// patchOrder accepts {"action":"cancel"}; other actions are rejected so
// the surface can grow without breaking clients.
func (h *Handler) patchOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PatchOrder")
	defer span.End()

	var req patchOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Action != "cancel" {
		httpx.WriteError(w, http.StatusBadRequest, "unsupported action")
		return
	}

	o, err := h.service.CancelOrder(ctx, auth.UserID(ctx), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrderView(o))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	var stockErr *application.StockError
	switch {
	case errors.Is(err, application.ErrMissingFields),
		errors.Is(err, application.ErrInvalidPaymentMethod),
		errors.Is(err, application.ErrEmptyCart),
		errors.Is(err, application.ErrInvalidAddress),
		errors.As(err, &stockErr):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrOrderNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, application.ErrNotCancellable):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	default:
		h.log.ErrorContext(ctx, "order request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func toOrderView(o domain.Order) orderView {
	view := orderView{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status: statusView{
			Code:     string(o.Status),
			Label:    o.Status.Label(),
			Color:    o.Status.Color(),
			Progress: o.Status.Progress(),
		},
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		Subtotal:      o.Subtotal.StringFixed(2),
		Tax:           o.Tax.StringFixed(2),
		ShippingCost:  o.ShippingCost.StringFixed(2),
		Discount:      o.Discount.StringFixed(2),
		Total:         o.Total.StringFixed(2),
		Notes:         o.Notes,
		ShipTo: shipToView{
			FullName:   o.ShipTo.FullName,
			Phone:      o.ShipTo.Phone,
			Street:     o.ShipTo.Street,
			City:       o.ShipTo.City,
			State:      o.ShipTo.State,
			PostalCode: o.ShipTo.PostalCode,
			Country:    o.ShipTo.Country,
		},
		Items:     make([]orderItemView, 0, len(o.Items)),
		CreatedAt: o.CreatedAt,
	}
	for _, it := range o.Items {
		view.Items = append(view.Items, orderItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
			Total:     it.Total.StringFixed(2),
		})
	}
	if o.Shipment != nil {
		view.Shipment = &shipmentView{
			Carrier:        o.Shipment.Carrier,
			TrackingNumber: o.Shipment.TrackingNumber,
			Status:         string(o.Shipment.Status),
			ShippedAt:      o.Shipment.ShippedAt,
			DeliveredAt:    o.Shipment.DeliveredAt,
		}
	}
	return view
}

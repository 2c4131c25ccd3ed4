package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/quickhatch/storefront/internal/analytics/application"
	"github.com/quickhatch/storefront/internal/analytics/domain"
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
		tracer:  otel.Tracer("analytics-http"),
	}
}

// Routes is mounted under /admin/analytics behind the admin guard.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.summary)
	return r
}

type summaryView struct {
	WindowDays          int              `json:"windowDays"`
	Revenue             string           `json:"revenue"`
	OrderCount          int              `json:"orderCount"`
	AvgOrderValue       string           `json:"avgOrderValue"`
	RevenueChangePct    *string          `json:"revenueChangePct"`
	OrderCountChangePct *string          `json:"orderCountChangePct"`
	DailySales          []dailyPointView `json:"dailySales"`
	TopProducts         []topProductView `json:"topProducts"`
}

type dailyPointView struct {
	Date    string `json:"date"`
	Revenue string `json:"revenue"`
	Orders  int    `json:"orders"`
}

type topProductView struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitsSold int    `json:"unitsSold"`
	Revenue   string `json:"revenue"`
}

const defaultWindowDays = 30

// summary answers ?days=N, defaulting to a 30 day window.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AnalyticsSummary")
	defer span.End()

	days := defaultWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}

	sum, err := h.service.Summary(ctx, days)
	if err != nil {
		if errors.Is(err, application.ErrInvalidWindow) {
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.ErrorContext(ctx, "analytics summary failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSummaryView(sum))
}

func toSummaryView(sum domain.Summary) summaryView {
	view := summaryView{
		WindowDays:    sum.WindowDays,
		Revenue:       sum.Revenue.StringFixed(2),
		OrderCount:    sum.OrderCount,
		AvgOrderValue: sum.AvgOrderValue.StringFixed(2),
		DailySales:    make([]dailyPointView, 0, len(sum.DailySales)),
		TopProducts:   make([]topProductView, 0, len(sum.TopProducts)),
	}
	if sum.RevenueChangePct != nil {
		s := sum.RevenueChangePct.String()
		view.RevenueChangePct = &s
	}
	if sum.OrderCountChangePct != nil {
		s := sum.OrderCountChangePct.String()
		view.OrderCountChangePct = &s
	}
	for _, p := range sum.DailySales {
		view.DailySales = append(view.DailySales, dailyPointView{
			Date:    p.Date.Format(time.DateOnly),
			Revenue: p.Revenue.StringFixed(2),
			Orders:  p.Orders,
		})
	}
	for _, tp := range sum.TopProducts {
		view.TopProducts = append(view.TopProducts, topProductView{
			ProductID: tp.ProductID,
			Name:      tp.Name,
			UnitsSold: tp.UnitsSold,
			Revenue:   tp.Revenue.StringFixed(2),
		})
	}
	return view
}

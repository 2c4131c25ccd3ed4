package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/quickhatch/storefront/internal/analytics/domain"
)

var ErrInvalidWindow = errors.New("window must be between 1 and 365 days")

// Reader supplies the raw aggregates; the service derives ratios and
// period-over-period changes.
type Reader interface {
	RevenueAndCount(ctx context.Context, daysAgoStart, daysAgoEnd int) (decimal.Decimal, int, error)
	DailySales(ctx context.Context, days int) ([]domain.DailyPoint, error)
	TopProducts(ctx context.Context, days, limit int) ([]domain.TopProduct, error)
}

type Service struct {
	log    *slog.Logger
	reader Reader
}

func NewService(log *slog.Logger, reader Reader) *Service {
	return &Service{log: log, reader: reader}
}

const topProductLimit = 10

// Summary builds the dashboard for the trailing window of the given
// length, comparing revenue and order count against the window before.
func (s *Service) Summary(ctx context.Context, days int) (domain.Summary, error) {
	if days < 1 || days > 365 {
		return domain.Summary{}, ErrInvalidWindow
	}

	revenue, count, err := s.reader.RevenueAndCount(ctx, days, 0)
	if err != nil {
		return domain.Summary{}, err
	}
	prevRevenue, prevCount, err := s.reader.RevenueAndCount(ctx, 2*days, days)
	if err != nil {
		return domain.Summary{}, err
	}

	sum := domain.Summary{
		WindowDays: days,
		Revenue:    revenue,
		OrderCount: count,
	}
	if count > 0 {
		sum.AvgOrderValue = revenue.Div(decimal.NewFromInt(int64(count))).Round(2)
	}
	if prevRevenue.IsPositive() {
		pct := revenue.Sub(prevRevenue).Div(prevRevenue).Mul(decimal.NewFromInt(100)).Round(1)
		sum.RevenueChangePct = &pct
	}
	if prevCount > 0 {
		pct := decimal.NewFromInt(int64(count - prevCount)).
			Div(decimal.NewFromInt(int64(prevCount))).Mul(decimal.NewFromInt(100)).Round(1)
		sum.OrderCountChangePct = &pct
	}

	if sum.DailySales, err = s.reader.DailySales(ctx, days); err != nil {
		return domain.Summary{}, err
	}
	if sum.TopProducts, err = s.reader.TopProducts(ctx, days, topProductLimit); err != nil {
		return domain.Summary{}, err
	}
	return sum, nil
}

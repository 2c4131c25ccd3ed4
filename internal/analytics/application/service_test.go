package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickhatch/storefront/internal/analytics/domain"
)

type window struct {
	revenue decimal.Decimal
	count   int
}

type fakeReader struct {
	current  window
	previous window
	daily    []domain.DailyPoint
	top      []domain.TopProduct

	topLimit int
}

func (f *fakeReader) RevenueAndCount(_ context.Context, daysAgoStart, daysAgoEnd int) (decimal.Decimal, int, error) {
	if daysAgoEnd == 0 {
		return f.current.revenue, f.current.count, nil
	}
	return f.previous.revenue, f.previous.count, nil
}

func (f *fakeReader) DailySales(_ context.Context, _ int) ([]domain.DailyPoint, error) {
	return f.daily, nil
}

func (f *fakeReader) TopProducts(_ context.Context, _ int, limit int) ([]domain.TopProduct, error) {
	f.topLimit = limit
	return f.top, nil
}

func newService(r *fakeReader) *Service {
	return NewService(slog.New(slog.DiscardHandler), r)
}

func TestSummaryRejectsBadWindow(t *testing.T) {
	svc := newService(&fakeReader{})

	_, err := svc.Summary(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = svc.Summary(context.Background(), 366)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestSummaryComputesAverageAndChanges(t *testing.T) {
	reader := &fakeReader{
		current:  window{revenue: decimal.NewFromInt(300), count: 4},
		previous: window{revenue: decimal.NewFromInt(200), count: 2},
	}
	svc := newService(reader)

	sum, err := svc.Summary(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, "75", sum.AvgOrderValue.String())
	require.NotNil(t, sum.RevenueChangePct)
	assert.Equal(t, "50", sum.RevenueChangePct.String())
	require.NotNil(t, sum.OrderCountChangePct)
	assert.Equal(t, "100", sum.OrderCountChangePct.String())
	assert.Equal(t, 10, reader.topLimit)
}

func TestSummaryOmitsChangesWithoutBaseline(t *testing.T) {
	svc := newService(&fakeReader{
		current: window{revenue: decimal.NewFromInt(100), count: 1},
	})

	sum, err := svc.Summary(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, sum.RevenueChangePct)
	assert.Nil(t, sum.OrderCountChangePct)
}

func TestSummaryZeroOrders(t *testing.T) {
	svc := newService(&fakeReader{})

	sum, err := svc.Summary(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, sum.AvgOrderValue.IsZero())
	assert.Equal(t, 0, sum.OrderCount)
}

package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahan201/basic-inventory-management-system/internal/core/apperror"
	"github.com/sahan201/basic-inventory-management-system/internal/core/types"
	"github.com/sahan201/basic-inventory-management-system/internal/domain/reports"
)

// fakeRepo records the filters passed through so tests can assert on
// validation and defaulting without a database.
type fakeRepo struct {
	reports.Repository

	lastRange      reports.DateRange
	lastPeriod     reports.PeriodSalesFilter
	lastTopSelling reports.TopSellingFilter
}

func (r *fakeRepo) GetSalesSummary(ctx context.Context, rng reports.DateRange) (*reports.SalesSummary, error) {
	r.lastRange = rng
	return &reports.SalesSummary{
		TotalRevenue: types.MustMoney("250.00"),
		TotalProfit:  types.MustMoney("90.00"),
		UnitsSold:    25,
		SaleCount:    4,
	}, nil
}

func (r *fakeRepo) GetPeriodSales(ctx context.Context, filter reports.PeriodSalesFilter) ([]reports.PeriodSalesItem, error) {
	r.lastPeriod = filter
	return []reports.PeriodSalesItem{}, nil
}

func (r *fakeRepo) GetTopSelling(ctx context.Context, filter reports.TopSellingFilter) ([]reports.TopSellingItem, error) {
	r.lastTopSelling = filter
	return []reports.TopSellingItem{}, nil
}

func TestGetSalesSummary_StampsPeriod(t *testing.T) {
	repo := &fakeRepo{}
	svc := reports.NewService(repo)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	summary, err := svc.GetSalesSummary(context.Background(), reports.DateRange{From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, from, summary.From)
	assert.Equal(t, to, summary.To)
	assert.True(t, summary.TotalRevenue.Equal(types.MustMoney("250.00")))
	assert.Equal(t, reports.DateRange{From: from, To: to}, repo.lastRange)
}

func TestGetSalesSummary_RejectsInvertedRange(t *testing.T) {
	svc := reports.NewService(&fakeRepo{})

	_, err := svc.GetSalesSummary(context.Background(), reports.DateRange{
		From: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
}

func TestGetPeriodSales_ValidatesGranularityAndDefaultsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := reports.NewService(repo)

	_, err := svc.GetPeriodSales(context.Background(), reports.PeriodSalesFilter{
		Granularity: "weekly",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)

	_, err = svc.GetPeriodSales(context.Background(), reports.PeriodSalesFilter{
		Granularity: reports.GranularityDaily,
	})
	require.NoError(t, err)
	assert.Equal(t, 90, repo.lastPeriod.Limit)

	_, err = svc.GetPeriodSales(context.Background(), reports.PeriodSalesFilter{
		Granularity: reports.GranularityMonthly,
		Limit:       5000,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000, repo.lastPeriod.Limit)
}

func TestGetTopSelling_ClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := reports.NewService(repo)

	_, err := svc.GetTopSelling(context.Background(), reports.TopSellingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastTopSelling.Limit)

	_, err = svc.GetTopSelling(context.Background(), reports.TopSellingFilter{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastTopSelling.Limit)
}

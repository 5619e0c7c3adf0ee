package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SalesStats aggregates order amounts over a date window.
type SalesStats struct {
	Total       decimal.Decimal `json:"total"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// ExpenseStats aggregates expense amounts over a date window.
type ExpenseStats struct {
	Total decimal.Decimal `json:"total"`
}

// StatsService computes date-windowed aggregates straight from the ledger.
//
// Returned orders are NOT excluded from sales aggregates. Their inventory
// effect is reversed but their monetary rows remain, so historical reports
// do not shift when an order is returned later.
type StatsService interface {
	GetSalesStats(ctx context.Context, period Period) (*SalesStats, error)
	GetExpenseStats(ctx context.Context, period Period) (*ExpenseStats, error)
	GetSalesCount(ctx context.Context) (int, error)
}

type statsService struct {
	pool *pgxpool.Pool
}

func NewStatsService(pool *pgxpool.Pool) StatsService {
	return &statsService{pool: pool}
}

func (s *statsService) GetSalesStats(ctx context.Context, period Period) (*SalesStats, error) {
	var st SalesStats
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0), COALESCE(SUM(amount_due), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at <= $2
	`, period.From, period.To).Scan(&st.Total, &st.Outstanding)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}
	return &st, nil
}

// GetSalesCount reports the all-time number of orders, returned ones included.
func (s *statsService) GetSalesCount(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (s *statsService) GetExpenseStats(ctx context.Context, period Period) (*ExpenseStats, error) {
	var st ExpenseStats
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE date >= $1 AND date <= $2
	`, period.From, period.To).Scan(&st.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}
	return &st, nil
}

package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ExpenseService records standalone ledger expenses. Expenses never touch
// inventory or orders.
type ExpenseService interface {
	CreateExpense(ctx context.Context, description string, amount decimal.Decimal, date time.Time) (*Expense, error)
	DeleteExpense(ctx context.Context, id int) error
	GetExpenses(ctx context.Context, filter ExpenseFilter, page Page) ([]Expense, int, error)
}

type expenseService struct {
	pool *pgxpool.Pool
}

func NewExpenseService(pool *pgxpool.Pool) ExpenseService {
	return &expenseService{pool: pool}
}

func (s *expenseService) CreateExpense(ctx context.Context, description string, amount decimal.Decimal, date time.Time) (*Expense, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrMissingName
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var e Expense
	err := s.pool.QueryRow(ctx, `
		INSERT INTO expenses (description, amount, date)
		VALUES ($1, $2, $3)
		RETURNING id, description, amount, date, created_at
	`, description, amount, date).Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}
	return &e, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "expense", ID: id}
	}
	return nil
}

func (s *expenseService) GetExpenses(ctx context.Context, filter ExpenseFilter, page Page) ([]Expense, int, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.Period != nil {
		args = append(args, filter.Period.From)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
		args = append(args, filter.Period.To)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	var count int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM expenses"+where, args...,
	).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	q := "SELECT id, description, amount, date, created_at FROM expenses" +
		where + " ORDER BY date DESC, id DESC"
	q, args = applyPage(q, args, page)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, count, rows.Err()
}

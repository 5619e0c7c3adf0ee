package core_test

import (
	"context"
	"testing"
	"time"

	"sales-ledger/internal/core"
)

func TestExpenseService_CRUDAndFilter(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewExpenseService(pool)
	ctx := context.Background()

	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	expense, err := svc.CreateExpense(ctx, "Fuel", dec(150), march)
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if _, err := svc.CreateExpense(ctx, "Rent", dec(900), april); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	if _, err := svc.CreateExpense(ctx, "", dec(10), march); err == nil {
		t.Error("Expected blank description to be rejected")
	}
	if _, err := svc.CreateExpense(ctx, "Free", dec(0), march); err == nil {
		t.Error("Expected zero amount to be rejected")
	}

	window := &core.Period{From: march.AddDate(0, 0, -1), To: march.AddDate(0, 0, 1)}
	expenses, count, err := svc.GetExpenses(ctx, core.ExpenseFilter{Period: window}, core.Page{})
	if err != nil {
		t.Fatalf("GetExpenses failed: %v", err)
	}
	if count != 1 || len(expenses) != 1 || expenses[0].Description != "Fuel" {
		t.Errorf("Expected only Fuel in the March window, got count=%d %+v", count, expenses)
	}

	_, count, err = svc.GetExpenses(ctx, core.ExpenseFilter{}, core.Page{})
	if err != nil {
		t.Fatalf("GetExpenses failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 expenses unfiltered, got %d", count)
	}

	if err := svc.DeleteExpense(ctx, expense.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if err := svc.DeleteExpense(ctx, expense.ID); !core.IsNotFound(err) {
		t.Errorf("Expected not-found on second delete, got %v", err)
	}
}

func TestStatsService_SalesWindow(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	orders := newOrderService(pool)
	stats := core.NewStatsService(pool)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// In window: total 50 due 50, and total 120 due 100.
	if _, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1, CreatedAt: base,
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(5), PricePerUnit: dec(10)}},
	}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: 2, CreatedAt: base.AddDate(0, 0, 3), AmountReceived: dec(20),
		LineItems: []core.LineItemInput{{ProductID: 2, Quantity: dec(10), PricePerUnit: dec(12)}},
	}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	// Out of window.
	if _, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1, CreatedAt: base.AddDate(0, 2, 0),
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(1), PricePerUnit: dec(10)}},
	}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	window := core.Period{From: base.AddDate(0, 0, -1), To: base.AddDate(0, 0, 10)}
	sales, err := stats.GetSalesStats(ctx, window)
	if err != nil {
		t.Fatalf("GetSalesStats failed: %v", err)
	}
	if !sales.Total.Equal(dec(170)) {
		t.Errorf("Expected total 170, got %s", sales.Total)
	}
	if !sales.Outstanding.Equal(dec(150)) {
		t.Errorf("Expected outstanding 150, got %s", sales.Outstanding)
	}

	// The count is all-time, not windowed.
	count, err := stats.GetSalesCount(ctx)
	if err != nil {
		t.Fatalf("GetSalesCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 orders, got %d", count)
	}
}

func TestStatsService_ReturnedOrdersStayInTotals(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	orders := newOrderService(pool)
	stats := core.NewStatsService(pool)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	order, err := orders.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1, CreatedAt: base,
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(5), PricePerUnit: dec(10)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if err := orders.ReturnOrder(ctx, order.ID); err != nil {
		t.Fatalf("ReturnOrder failed: %v", err)
	}

	window := core.Period{From: base.AddDate(0, 0, -1), To: base.AddDate(0, 0, 1)}
	sales, err := stats.GetSalesStats(ctx, window)
	if err != nil {
		t.Fatalf("GetSalesStats failed: %v", err)
	}
	if !sales.Total.Equal(dec(50)) {
		t.Errorf("Returned order must still count toward totals, got %s", sales.Total)
	}
}

func TestStatsService_EmptyWindowIsZero(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	stats := core.NewStatsService(pool)
	ctx := context.Background()

	window := core.Period{
		From: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	sales, err := stats.GetSalesStats(ctx, window)
	if err != nil {
		t.Fatalf("GetSalesStats failed: %v", err)
	}
	if !sales.Total.IsZero() || !sales.Outstanding.IsZero() {
		t.Errorf("Expected zero sums, got total=%s outstanding=%s", sales.Total, sales.Outstanding)
	}

	expenses, err := stats.GetExpenseStats(ctx, window)
	if err != nil {
		t.Fatalf("GetExpenseStats failed: %v", err)
	}
	if !expenses.Total.IsZero() {
		t.Errorf("Expected zero expense sum, got %s", expenses.Total)
	}
}

func TestExpenseStats_Window(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	expenses := core.NewExpenseService(pool)
	stats := core.NewStatsService(pool)
	ctx := context.Background()

	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, err := expenses.CreateExpense(ctx, "Fuel", dec(150), march); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if _, err := expenses.CreateExpense(ctx, "Tea", dec(30), march.AddDate(0, 0, 2)); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if _, err := expenses.CreateExpense(ctx, "Rent", dec(900), march.AddDate(0, 1, 0)); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	window := core.Period{From: march.AddDate(0, 0, -1), To: march.AddDate(0, 0, 5)}
	result, err := stats.GetExpenseStats(ctx, window)
	if err != nil {
		t.Fatalf("GetExpenseStats failed: %v", err)
	}
	if !result.Total.Equal(dec(180)) {
		t.Errorf("Expected 180 in the window, got %s", result.Total)
	}
}

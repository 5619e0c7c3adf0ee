package core_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"sales-ledger/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE order_line_items, orders, inventory_records, products,
		               customers, areas, expenses, users RESTART IDENTITY CASCADE;

		INSERT INTO areas (id, name) VALUES (1, 'Korangi');
		SELECT setval('areas_id_seq', 1);

		INSERT INTO customers (id, name, phone, area_id) VALUES
		(1, 'Khan Gul', '1234567890', 1),
		(2, 'Alice',    '0987654321', NULL);
		SELECT setval('customers_id_seq', 2);

		INSERT INTO products (id, name, price, inventory) VALUES
		(1, 'Apple',  10, 100),
		(2, 'Banana', 12, 100);
		SELECT setval('products_id_seq', 2);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func newOrderService(pool *pgxpool.Pool) core.OrderService {
	return core.NewOrderService(pool, core.NewInventoryService(pool))
}

func productInventory(t *testing.T, pool *pgxpool.Pool, productID int) decimal.Decimal {
	t.Helper()
	var inv decimal.Decimal
	if err := pool.QueryRow(context.Background(),
		"SELECT inventory FROM products WHERE id = $1", productID,
	).Scan(&inv); err != nil {
		t.Fatalf("Failed to read inventory for product %d: %v", productID, err)
	}
	return inv
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestOrderService_CreateOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := newOrderService(pool)
	ctx := context.Background()

	// 5 × Apple @ 10 = 50
	order, err := svc.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1,
		CreatedAt:  time.Now(),
		LineItems: []core.LineItemInput{
			{ProductID: 1, Quantity: dec(5), PricePerUnit: dec(10)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !order.TotalAmount.Equal(dec(50)) {
		t.Errorf("Expected total 50, got %s", order.TotalAmount)
	}
	if !order.AmountDue.Equal(dec(50)) {
		t.Errorf("Expected amount due 50, got %s", order.AmountDue)
	}
	if order.Returned {
		t.Error("New order must not be returned")
	}
	if order.CustomerName != "Khan Gul" {
		t.Errorf("Expected joined customer name, got %q", order.CustomerName)
	}
	if len(order.LineItems) != 1 || order.LineItems[0].ProductName != "Apple" {
		t.Fatalf("Expected one Apple line item, got %+v", order.LineItems)
	}
	if got := productInventory(t, pool, 1); !got.Equal(dec(95)) {
		t.Errorf("Expected inventory 95 after sale, got %s", got)
	}
}

func TestOrderService_CreateOrder_DiscountAndPayment(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := newOrderService(pool)
	ctx := context.Background()

	// total 100, discount 10, received 40 → due 50
	order, err := svc.CreateOrder(ctx, core.OrderInput{
		CustomerID:     1,
		CreatedAt:      time.Now(),
		Discount:       dec(10),
		AmountReceived: dec(40),
		LineItems: []core.LineItemInput{
			{ProductID: 1, Quantity: dec(10), PricePerUnit: dec(10)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !order.AmountDue.Equal(dec(50)) {
		t.Errorf("Expected amount due 50, got %s", order.AmountDue)
	}
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := newOrderService(pool)
	ctx := context.Background()

	cases := []struct {
		name  string
		input core.OrderInput
		want  error
	}{
		{
			name:  "empty line items",
			input: core.OrderInput{CustomerID: 1, CreatedAt: time.Now()},
			want:  core.ErrEmptyLineItems,
		},
		{
			name: "zero quantity",
			input: core.OrderInput{CustomerID: 1, CreatedAt: time.Now(),
				LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(0), PricePerUnit: dec(10)}}},
			want: core.ErrInvalidQuantity,
		},
		{
			name: "negative quantity",
			input: core.OrderInput{CustomerID: 1, CreatedAt: time.Now(),
				LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(-3), PricePerUnit: dec(10)}}},
			want: core.ErrInvalidQuantity,
		},
		{
			name: "zero price",
			input: core.OrderInput{CustomerID: 1, CreatedAt: time.Now(),
				LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(1), PricePerUnit: dec(0)}}},
			want: core.ErrInvalidPrice,
		},
		{
			name: "missing customer",
			input: core.OrderInput{CreatedAt: time.Now(),
				LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(1), PricePerUnit: dec(10)}}},
			want: core.ErrMissingCustomer,
		},
		{
			name: "negative discount",
			input: core.OrderInput{CustomerID: 1, CreatedAt: time.Now(), Discount: dec(-1),
				LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(1), PricePerUnit: dec(10)}}},
			want: core.ErrInvalidDiscount,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tc.input)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
			if !core.IsValidation(err) {
				t.Errorf("Expected a validation error, got %v", err)
			}
		})
	}

	// Nothing above should have moved inventory.
	if got := productInventory(t, pool, 1); !got.Equal(dec(100)) {
		t.Errorf("Inventory must be untouched after rejected input, got %s", got)
	}
}

func TestOrderService_CreateOrder_UnknownRefs(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := newOrderService(pool)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, core.OrderInput{
		CustomerID: 999, CreatedAt: time.Now(),
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(1), PricePerUnit: dec(10)}},
	})
	if !core.IsNotFound(err) {
		t.Errorf("Expected not-found for unknown customer, got %v", err)
	}

	_, err = svc.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1, CreatedAt: time.Now(),
		LineItems: []core.LineItemInput{{ProductID: 999, Quantity: dec(1), PricePerUnit: dec(10)}},
	})
	if !core.IsNotFound(err) {
		t.Errorf("Expected not-found for unknown product, got %v", err)
	}
}

func TestOrderService_UpdateOrder_ReconcilesInventory(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := newOrderService(pool)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1, CreatedAt: time.Now(),
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(5), PricePerUnit: dec(10)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if got := productInventory(t, pool, 1); !got.Equal(dec(95)) {
		t.Fatalf("Expected inventory 95, got %s", got)
	}

	// Replace 5 Apples with 2: credit the old 5, debit the new 2 → 98.
	updated, err := svc.UpdateOrder(ctx, order.ID, core.OrderInput{
		CustomerID: 1, CreatedAt: order.CreatedAt,
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(2), PricePerUnit: dec(10)}},
	})
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if !updated.TotalAmount.Equal(dec(20)) {
		t.Errorf("Expected recomputed total 20, got %s", updated.TotalAmount)
	}
	if got := productInventory(t, pool, 1); !got.Equal(dec(98)) {
		t.Errorf("Expected inventory 98 after update, got %s", got)
	}

	// Switch product entirely: Apple +2, Banana −4.
	updated, err = svc.UpdateOrder(ctx, order.ID, core.OrderInput{
		CustomerID: 2, CreatedAt: order.CreatedAt,
		LineItems: []core.LineItemInput{{ProductID: 2, Quantity: dec(4), PricePerUnit: dec(12)}},
	})
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if updated.CustomerID != 2 {
		t.Errorf("Expected customer reassigned to 2, got %d", updated.CustomerID)
	}
	if got := productInventory(t, pool, 1); !got.Equal(dec(100)) {
		t.Errorf("Expected Apple back to 100, got %s", got)
	}
	if got := productInventory(t, pool, 2); !got.Equal(dec(96)) {
		t.Errorf("Expected Banana at 96, got %s", got)
	}
}

func TestOrderService_UpdateOrder_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := newOrderService(pool)

	_, err := svc.UpdateOrder(context.Background(), 42, core.OrderInput{
		CustomerID: 1, CreatedAt: time.Now(),
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(1), PricePerUnit: dec(10)}},
	})
	if !core.IsNotFound(err) {
		t.Errorf("Expected not-found, got %v", err)
	}
}

func TestOrderService_ReturnAndUnreturn(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := newOrderService(pool)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1, CreatedAt: time.Now(),
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(5), PricePerUnit: dec(10)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := svc.ReturnOrder(ctx, order.ID); err != nil {
		t.Fatalf("ReturnOrder failed: %v", err)
	}
	if got := productInventory(t, pool, 1); !got.Equal(dec(100)) {
		t.Errorf("Expected inventory restored to 100, got %s", got)
	}
	got, err := svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if !got.Returned {
		t.Error("Expected order flagged returned")
	}
	if !got.TotalAmount.Equal(dec(50)) {
		t.Errorf("Return must not change totals, got %s", got.TotalAmount)
	}

	// Second return is a state error and must not credit again.
	err = svc.ReturnOrder(ctx, order.ID)
	if !errors.Is(err, core.ErrAlreadyReturned) {
		t.Errorf("Expected ErrAlreadyReturned, got %v", err)
	}
	if !core.IsStateConflict(err) {
		t.Errorf("Expected a state conflict error, got %v", err)
	}
	if got := productInventory(t, pool, 1); !got.Equal(dec(100)) {
		t.Errorf("Double return must not double-credit, got %s", got)
	}

	if err := svc.UnreturnOrder(ctx, order.ID); err != nil {
		t.Fatalf("UnreturnOrder failed: %v", err)
	}
	if got := productInventory(t, pool, 1); !got.Equal(dec(95)) {
		t.Errorf("Expected inventory back at 95 after un-return, got %s", got)
	}

	err = svc.UnreturnOrder(ctx, order.ID)
	if !errors.Is(err, core.ErrNotReturned) {
		t.Errorf("Expected ErrNotReturned, got %v", err)
	}

	// Round trip leaves inventory exactly where a single sale puts it.
	if err := svc.ReturnOrder(ctx, order.ID); err != nil {
		t.Fatalf("ReturnOrder failed: %v", err)
	}
	if err := svc.UnreturnOrder(ctx, order.ID); err != nil {
		t.Fatalf("UnreturnOrder failed: %v", err)
	}
	if got := productInventory(t, pool, 1); !got.Equal(dec(95)) {
		t.Errorf("Return/un-return round trip must be neutral, got %s", got)
	}
}

func TestOrderService_DeleteOrder_RestoresInventory(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := newOrderService(pool)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1, CreatedAt: time.Now(),
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(5), PricePerUnit: dec(10)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	deleted, err := svc.DeleteOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if deleted.ID != order.ID || len(deleted.LineItems) != 1 {
		t.Errorf("Expected the deleted order back, got %+v", deleted)
	}
	if got := productInventory(t, pool, 1); !got.Equal(dec(100)) {
		t.Errorf("Expected inventory restored to 100 after delete, got %s", got)
	}

	if _, err := svc.GetOrder(ctx, order.ID); !core.IsNotFound(err) {
		t.Errorf("Expected order gone, got %v", err)
	}
	if _, err := svc.DeleteOrder(ctx, order.ID); !core.IsNotFound(err) {
		t.Errorf("Expected not-found on second delete, got %v", err)
	}
}

func TestOrderService_DeleteReturnedOrder_NoDoubleCredit(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := newOrderService(pool)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, core.OrderInput{
		CustomerID: 1, CreatedAt: time.Now(),
		LineItems: []core.LineItemInput{{ProductID: 1, Quantity: dec(5), PricePerUnit: dec(10)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if err := svc.ReturnOrder(ctx, order.ID); err != nil {
		t.Fatalf("ReturnOrder failed: %v", err)
	}

	// The return already credited the stock back.
	if _, err := svc.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if got := productInventory(t, pool, 1); !got.Equal(dec(100)) {
		t.Errorf("Deleting a returned order must not credit again, got %s", got)
	}
}

func TestOrderService_GetOrders_FiltersAndCount(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := newOrderService(pool)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mk := func(customerID int, at time.Time, received int64) *core.Order {
		t.Helper()
		o, err := svc.CreateOrder(ctx, core.OrderInput{
			CustomerID:     customerID,
			CreatedAt:      at,
			AmountReceived: dec(received),
			LineItems:      []core.LineItemInput{{ProductID: 1, Quantity: dec(1), PricePerUnit: dec(10)}},
		})
		if err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
		return o
	}

	o1 := mk(1, base, 0)                     // due
	mk(1, base.AddDate(0, 0, 1), 10)         // paid
	mk(2, base.AddDate(0, 0, 2), 0)          // due
	mk(2, base.AddDate(0, 1, 0), 10)         // paid, next month
	if err := svc.ReturnOrder(ctx, o1.ID); err != nil {
		t.Fatalf("ReturnOrder failed: %v", err)
	}

	all, count, err := svc.GetOrders(ctx, core.OrderFilter{}, core.Page{})
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if count != 4 || len(all) != 4 {
		t.Fatalf("Expected 4 orders, got count=%d len=%d", count, len(all))
	}
	// Newest first.
	if !all[0].CreatedAt.After(all[len(all)-1].CreatedAt) {
		t.Error("Expected descending created_at ordering")
	}
	for _, o := range all {
		if len(o.LineItems) == 0 {
			t.Errorf("Order %d listed without line items", o.ID)
		}
	}

	customerID := 1
	_, count, err = svc.GetOrders(ctx, core.OrderFilter{CustomerID: &customerID}, core.Page{})
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 orders for customer 1, got %d", count)
	}

	due := core.OrderStatusDue
	dueOrders, count, err := svc.GetOrders(ctx, core.OrderFilter{Status: &due}, core.Page{})
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 due orders, got %d", count)
	}
	for _, o := range dueOrders {
		if !o.AmountDue.IsPositive() {
			t.Errorf("Order %d in due listing has amount_due %s", o.ID, o.AmountDue)
		}
	}

	returned := true
	_, count, err = svc.GetOrders(ctx, core.OrderFilter{Returned: &returned}, core.Page{})
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 returned order, got %d", count)
	}

	march := core.Period{From: base, To: base.AddDate(0, 0, 10)}
	_, count, err = svc.GetOrders(ctx, core.OrderFilter{SalesPeriod: &march}, core.Page{})
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 orders in the March window, got %d", count)
	}

	// Composed filters AND together.
	paid := core.OrderStatusPaid
	_, count, err = svc.GetOrders(ctx, core.OrderFilter{
		CustomerID: &customerID, Status: &paid, SalesPeriod: &march,
	}, core.Page{})
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 paid March order for customer 1, got %d", count)
	}

	// Pagination keeps the full count.
	page, count, err := svc.GetOrders(ctx, core.OrderFilter{}, core.Page{Skip: 1, Take: 2})
	if err != nil {
		t.Fatalf("GetOrders failed: %v", err)
	}
	if count != 4 {
		t.Errorf("Count must ignore pagination, got %d", count)
	}
	if len(page) != 2 {
		t.Errorf("Expected 2 orders on the page, got %d", len(page))
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"sales-ledger/internal/app"
	"sales-ledger/internal/core"
	"sales-ledger/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Seeds a development database with areas, customers, products, expenses,
// and a spread of orders across the last few weeks. Wipes existing rows
// first, so never point it at real data.
func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	_, err = pool.Exec(ctx, `
		TRUNCATE orders, order_line_items, inventory_records,
		         customers, products, areas, expenses RESTART IDENTITY CASCADE`)
	if err != nil {
		log.Fatalf("Failed to reset tables: %v", err)
	}

	inventoryService := core.NewInventoryService(pool)
	orderService := core.NewOrderService(pool, inventoryService)
	customerService := core.NewCustomerService(pool)
	productService := core.NewProductService(pool)
	expenseService := core.NewExpenseService(pool)
	statsService := core.NewStatsService(pool)
	userService := core.NewUserService(pool)

	svc := app.NewAppService(orderService, inventoryService, customerService,
		productService, expenseService, statsService, userService)

	now := time.Now()

	for i := 1; i <= 20; i++ {
		_, err := svc.CreateExpense(ctx, app.ExpenseRequest{
			Description: fmt.Sprintf("Expense %d", i),
			Amount:      decimal.NewFromInt(int64(99 + i)),
			Date:        now.AddDate(0, 0, -(14 + i)),
		})
		if err != nil {
			log.Fatalf("Failed to seed expense %d: %v", i, err)
		}
	}

	area, err := svc.CreateArea(ctx, "Korangi")
	if err != nil {
		log.Fatalf("Failed to seed area: %v", err)
	}
	for i := 1; i <= 20; i++ {
		if _, err := svc.CreateArea(ctx, fmt.Sprintf("Area %d", i)); err != nil {
			log.Fatalf("Failed to seed area %d: %v", i, err)
		}
	}

	phone := "1234567890"
	first, err := svc.CreateCustomer(ctx, app.CustomerRequest{
		Name: "Khan Gul", Phone: &phone, AreaID: &area.ID,
	})
	if err != nil {
		log.Fatalf("Failed to seed customer: %v", err)
	}
	second, err := svc.CreateCustomer(ctx, app.CustomerRequest{Name: "Alice", Phone: &phone})
	if err != nil {
		log.Fatalf("Failed to seed customer: %v", err)
	}
	for _, name := range []string{"Bob", "Charlie"} {
		if _, err := svc.CreateCustomer(ctx, app.CustomerRequest{Name: name, Phone: &phone}); err != nil {
			log.Fatalf("Failed to seed customer %s: %v", name, err)
		}
	}
	for i := 1; i <= 20; i++ {
		p := fmt.Sprintf("123456789%d", i%10)
		if _, err := svc.CreateCustomer(ctx, app.CustomerRequest{
			Name: fmt.Sprintf("Customer %d", i), Phone: &p,
		}); err != nil {
			log.Fatalf("Failed to seed customer %d: %v", i, err)
		}
	}

	hundred := decimal.NewFromInt(100)
	apple, err := svc.CreateProduct(ctx, app.ProductRequest{
		Name: "Apple", Price: decimal.NewFromInt(10), OpeningInventory: hundred,
	})
	if err != nil {
		log.Fatalf("Failed to seed product: %v", err)
	}
	banana, err := svc.CreateProduct(ctx, app.ProductRequest{
		Name: "Banana", Price: decimal.NewFromInt(12), OpeningInventory: hundred,
	})
	if err != nil {
		log.Fatalf("Failed to seed product: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, app.ProductRequest{
		Name: "Cherry", Price: decimal.NewFromInt(14), OpeningInventory: hundred,
	}); err != nil {
		log.Fatalf("Failed to seed product: %v", err)
	}
	for i := 1; i <= 20; i++ {
		if _, err := svc.CreateProduct(ctx, app.ProductRequest{
			Name:             fmt.Sprintf("Product %d", i),
			Price:            decimal.NewFromInt(int64(9 + i)),
			OpeningInventory: hundred,
		}); err != nil {
			log.Fatalf("Failed to seed product %d: %v", i, err)
		}
	}

	line := func(p *app.ProductResult, qty int64) app.OrderLineInput {
		return app.OrderLineInput{
			ProductID:    p.Product.ID,
			Quantity:     decimal.NewFromInt(qty),
			PricePerUnit: p.Product.Price,
		}
	}

	recent := []struct {
		customerID int
		daysAgo    int
		qtyA, qtyB int64
	}{
		{first.Customer.ID, 7, 5, 6},
		{first.Customer.ID, 0, 2, 1},
		{first.Customer.ID, 5, 3, 3},
		{second.Customer.ID, 5, 3, 3},
	}
	for i, o := range recent {
		_, err := svc.CreateOrder(ctx, app.OrderRequest{
			CustomerID: o.customerID,
			CreatedAt:  now.AddDate(0, 0, -o.daysAgo),
			Lines:      []app.OrderLineInput{line(apple, o.qtyA), line(banana, o.qtyB)},
		})
		if err != nil {
			log.Fatalf("Failed to seed order %d: %v", i+1, err)
		}
	}

	// Older history for pagination and stats windows.
	for i := 1; i <= 20; i++ {
		customerID := second.Customer.ID
		if i%2 == 1 {
			customerID = first.Customer.ID
		}
		_, err := svc.CreateOrder(ctx, app.OrderRequest{
			CustomerID: customerID,
			CreatedAt:  now.AddDate(0, 0, -(36 + i)),
			Lines:      []app.OrderLineInput{line(apple, 1), line(banana, 2)},
		})
		if err != nil {
			log.Fatalf("Failed to seed historical order %d: %v", i, err)
		}
	}

	fmt.Println("Seeding complete")
}

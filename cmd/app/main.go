package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"sales-ledger/internal/app"
	"sales-ledger/internal/core"
	"sales-ledger/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	inventoryService := core.NewInventoryService(pool)
	orderService := core.NewOrderService(pool, inventoryService)
	customerService := core.NewCustomerService(pool)
	productService := core.NewProductService(pool)
	expenseService := core.NewExpenseService(pool)
	statsService := core.NewStatsService(pool)
	userService := core.NewUserService(pool)

	svc := app.NewAppService(orderService, inventoryService, customerService,
		productService, expenseService, statsService, userService)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "orders":
		result, err := svc.ListOrders(ctx, app.ListOrdersRequest{Take: 50})
		if err != nil {
			log.Fatalf("Failed to list orders: %v", err)
		}
		printJSON(result)

	case "products":
		result, err := svc.ListProducts(ctx, 0, 0)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		printJSON(result)

	case "customers":
		result, err := svc.ListCustomers(ctx, app.ListCustomersRequest{})
		if err != nil {
			log.Fatalf("Failed to list customers: %v", err)
		}
		printJSON(result)

	case "stats":
		if len(os.Args) < 4 {
			log.Fatal("Usage: app stats <from> <to>  (dates as YYYY-MM-DD)")
		}
		from, to := parseDay(os.Args[2]), parseDay(os.Args[3]).Add(24*time.Hour-time.Nanosecond)
		sales, err := svc.GetSalesStats(ctx, from, to)
		if err != nil {
			log.Fatalf("Failed to compute sales stats: %v", err)
		}
		expenses, err := svc.GetExpenseStats(ctx, from, to)
		if err != nil {
			log.Fatalf("Failed to compute expense stats: %v", err)
		}
		count, err := svc.GetSalesCount(ctx)
		if err != nil {
			log.Fatalf("Failed to count orders: %v", err)
		}
		printJSON(map[string]any{"sales": sales, "expenses": expenses, "order_count": count})

	case "create-user":
		if len(os.Args) < 4 {
			log.Fatal("Usage: app create-user <username> <password>")
		}
		user, err := userService.CreateUser(ctx, os.Args[2], os.Args[3])
		if err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		fmt.Printf("Created user %q (id=%d)\n", user.Username, user.ID)

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: app <command>

Commands:
  orders                       list the 50 most recent orders
  products                     list all products
  customers                    list all customers
  stats <from> <to>            sales and expense totals for a date range
  create-user <name> <pass>    create a login for the web UI`)
	os.Exit(2)
}

func parseDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		log.Fatalf("Invalid date %q, expected YYYY-MM-DD", s)
	}
	return t
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

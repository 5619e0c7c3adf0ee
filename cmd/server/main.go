package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "sales-ledger/internal/adapters/web"
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
		log.Fatalf("database: %v", err)
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

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}

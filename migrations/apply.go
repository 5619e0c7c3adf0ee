package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Applies the schema files in order. Run manually: go run ./migrations
func main() {
	_ = godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Printf("Failed to connect to DB: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	files := []string{"migrations/001_init.sql"}
	for _, f := range files {
		sql, err := os.ReadFile(f)
		if err != nil {
			fmt.Printf("Failed to read %s: %v\n", f, err)
			os.Exit(1)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			fmt.Printf("Migration %s failed: %v\n", f, err)
			os.Exit(1)
		}
		fmt.Printf("Applied %s\n", f)
	}
}

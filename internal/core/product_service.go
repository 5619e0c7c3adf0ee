package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductService manages the product catalog. Inventory movements live in
// InventoryService and OrderService; the only inventory write here is the
// opening quantity on create.
type ProductService interface {
	CreateProduct(ctx context.Context, name string, price, openingInventory decimal.Decimal) (*Product, error)
	UpdateProduct(ctx context.Context, id int, name string, price decimal.Decimal) (*Product, error)
	DeleteProduct(ctx context.Context, id int) error
	GetProduct(ctx context.Context, id int) (*Product, error)
	GetProducts(ctx context.Context, page Page) ([]Product, int, error)
}

type productService struct {
	pool *pgxpool.Pool
}

func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

func (s *productService) CreateProduct(ctx context.Context, name string, price, openingInventory decimal.Decimal) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	var p Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, price, inventory)
		VALUES ($1, $2, $3)
		RETURNING id, name, price, inventory, created_at, updated_at
	`, name, price, openingInventory).Scan(
		&p.ID, &p.Name, &p.Price, &p.Inventory, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return &p, nil
}

// UpdateProduct changes name and live price. Existing order line items keep
// the price they were sold at.
func (s *productService) UpdateProduct(ctx context.Context, id int, name string, price decimal.Decimal) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	var p Product
	err := s.pool.QueryRow(ctx, `
		UPDATE products SET name = $1, price = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, price, inventory, created_at, updated_at
	`, name, price, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Inventory, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "product", ID: id}
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return &p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("product %d is referenced by order line items: %w", id, err)
		}
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id int) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, price, inventory, created_at, updated_at
		FROM products WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Inventory, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "product", ID: id}
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return &p, nil
}

func (s *productService) GetProducts(ctx context.Context, page Page) ([]Product, int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	q := `
		SELECT id, name, price, inventory, created_at, updated_at
		FROM products ORDER BY updated_at DESC, id DESC`
	q, args := applyPage(q, nil, page)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Inventory,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, count, rows.Err()
}

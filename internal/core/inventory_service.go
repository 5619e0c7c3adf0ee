package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InventoryService owns products.inventory. Order mutations adjust stock
// through AdjustTx inside their own transaction; explicit stock additions
// go through AddInventory and leave an append-only record behind.
type InventoryService interface {
	// AdjustTx adds delta to the product's on-hand quantity within the
	// caller's transaction. Positive delta increases stock, negative
	// decreases it. No floor is enforced: inventory may go negative.
	AdjustTx(ctx context.Context, tx pgx.Tx, productID int, delta decimal.Decimal) error

	// AddInventory records an explicit stock addition: appends an
	// inventory_record and increments the product's inventory atomically.
	// qty must be positive. Returns the updated product.
	AddInventory(ctx context.Context, productID int, qty decimal.Decimal, date time.Time) (*Product, error)

	// GetInventoryHistory lists a product's stock-addition records, newest
	// first, with the total record count for pagination.
	GetInventoryHistory(ctx context.Context, productID int, page Page) ([]InventoryRecord, int, error)
}

type inventoryService struct {
	pool *pgxpool.Pool
}

// NewInventoryService constructs an InventoryService backed by the given pool.
func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

func (s *inventoryService) AdjustTx(ctx context.Context, tx pgx.Tx, productID int, delta decimal.Decimal) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET inventory = inventory + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, productID)
	if err != nil {
		return fmt.Errorf("failed to adjust inventory for product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "product", ID: productID}
	}
	return nil
}

func (s *inventoryService) AddInventory(ctx context.Context, productID int, qty decimal.Decimal, date time.Time) (*Product, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidStockAmount, qty)
	}
	if date.IsZero() {
		date = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO inventory_records (product_id, quantity, created_at)
		VALUES ($1, $2, $3)
	`, productID, qty, date)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &NotFoundError{Entity: "product", ID: productID}
		}
		return nil, fmt.Errorf("failed to insert inventory record: %w", err)
	}

	if err := s.AdjustTx(ctx, tx, productID, qty); err != nil {
		return nil, err
	}

	var p Product
	err = tx.QueryRow(ctx, `
		SELECT id, name, price, inventory, created_at, updated_at
		FROM products WHERE id = $1
	`, productID).Scan(&p.ID, &p.Name, &p.Price, &p.Inventory, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", productID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit stock addition: %w", err)
	}
	return &p, nil
}

func (s *inventoryService) GetInventoryHistory(ctx context.Context, productID int, page Page) ([]InventoryRecord, int, error) {
	var count int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM inventory_records WHERE product_id = $1", productID,
	).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory records: %w", err)
	}

	q := `
		SELECT id, product_id, quantity, created_at
		FROM inventory_records
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []any{productID}
	q, args = applyPage(q, args, page)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query inventory records: %w", err)
	}
	defer rows.Close()

	var records []InventoryRecord
	for rows.Next() {
		var rec InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan inventory record: %w", err)
		}
		records = append(records, rec)
	}
	return records, count, rows.Err()
}

// applyPage appends LIMIT/OFFSET clauses for a Page. A zero Take means the
// listing is unbounded.
func applyPage(q string, args []any, page Page) (string, []any) {
	if page.Take > 0 {
		args = append(args, page.Take)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if page.Skip > 0 {
		args = append(args, page.Skip)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return q, args
}

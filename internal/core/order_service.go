package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderService is the order/inventory consistency engine. Every mutation
// runs in a single transaction that locks the order row first, so two
// concurrent mutations on the same order serialize instead of double
// applying inventory deltas.
type OrderService interface {
	// CreateOrder computes totals, inserts the order with its line items,
	// and subtracts each line's quantity from the product's inventory.
	CreateOrder(ctx context.Context, input OrderInput) (*Order, error)

	// UpdateOrder replaces the order's line items wholesale: the old items'
	// inventory effect is reversed, the items deleted, totals recomputed
	// from the new input, new items inserted and their effect applied, and
	// the scalar fields updated, all in one transaction. The returned flag
	// is untouched.
	UpdateOrder(ctx context.Context, orderID int, input OrderInput) (*Order, error)

	// DeleteOrder removes the order and its line items. If the order is not
	// returned, its inventory effect is reversed first, so deletion never
	// strands a subtraction. Returns the order as it was before deletion.
	DeleteOrder(ctx context.Context, orderID int) (*Order, error)

	// ReturnOrder transitions Active→Returned, crediting each line item's
	// quantity back to its product. Fails with ErrAlreadyReturned if the
	// order is already returned; inventory is credited exactly once.
	ReturnOrder(ctx context.Context, orderID int) error

	// UnreturnOrder transitions Returned→Active, subtracting each line
	// item's quantity again. Fails with ErrNotReturned if the order is
	// active.
	UnreturnOrder(ctx context.Context, orderID int) error

	// GetOrder returns one order with its line items and customer name.
	GetOrder(ctx context.Context, orderID int) (*Order, error)

	// GetOrders lists orders matching the filter, newest first, along with
	// the total count matching the filter (ignoring pagination).
	GetOrders(ctx context.Context, filter OrderFilter, page Page) ([]Order, int, error)
}

type orderService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
}

// NewOrderService constructs an OrderService. Inventory adjustments are
// delegated to inv within the engine's own transactions.
func NewOrderService(pool *pgxpool.Pool, inv InventoryService) OrderService {
	return &orderService{pool: pool, inventory: inv}
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// query helpers inside and outside transactions.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// validateOrderInput rejects bad input before any transaction is opened.
func validateOrderInput(input OrderInput) error {
	if input.CustomerID == 0 {
		return ErrMissingCustomer
	}
	if len(input.LineItems) == 0 {
		return ErrEmptyLineItems
	}
	for i, li := range input.LineItems {
		if !li.Quantity.IsPositive() {
			return fmt.Errorf("line_items[%d]: %w", i, ErrInvalidQuantity)
		}
		if !li.PricePerUnit.IsPositive() {
			return fmt.Errorf("line_items[%d]: %w", i, ErrInvalidPrice)
		}
	}
	if input.Discount.IsNegative() {
		return ErrInvalidDiscount
	}
	if input.AmountReceived.IsNegative() {
		return ErrInvalidReceived
	}
	return nil
}

// orderTotals derives the two computed fields from input.
//
//	total = Σ qty × price
//	due   = total − discount − received
func orderTotals(input OrderInput) (total, due decimal.Decimal) {
	for _, li := range input.LineItems {
		total = total.Add(li.Quantity.Mul(li.PricePerUnit))
	}
	due = total.Sub(input.Discount).Sub(input.AmountReceived)
	return total, due
}

func (s *orderService) CreateOrder(ctx context.Context, input OrderInput) (*Order, error) {
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	total, due := orderTotals(input)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, created_at, bill_number, discount, amount_received, total_amount, amount_due, returned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		RETURNING id
	`, input.CustomerID, input.CreatedAt, input.BillNumber,
		input.Discount, input.AmountReceived, total, due).Scan(&orderID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &NotFoundError{Entity: "customer", ID: input.CustomerID}
		}
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := s.insertLineItemsTx(ctx, tx, orderID, input.LineItems); err != nil {
		return nil, err
	}

	order, err := fetchOrderQ(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}
	return order, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID int, input OrderInput) (*Order, error) {
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	total, due := orderTotals(input)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := lockOrder(ctx, tx, orderID); err != nil {
		return nil, err
	}

	// Reverse the old line items' inventory effect before replacing them.
	oldItems, err := fetchLineItemsQ(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	for _, li := range oldItems {
		if err := s.inventory.AdjustTx(ctx, tx, li.ProductID, li.Quantity); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM order_line_items WHERE order_id = $1", orderID); err != nil {
		return nil, fmt.Errorf("failed to delete line items for order %d: %w", orderID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET customer_id = $1, created_at = $2, bill_number = $3, discount = $4,
		    amount_received = $5, total_amount = $6, amount_due = $7
		WHERE id = $8
	`, input.CustomerID, input.CreatedAt, input.BillNumber,
		input.Discount, input.AmountReceived, total, due, orderID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &NotFoundError{Entity: "customer", ID: input.CustomerID}
		}
		return nil, fmt.Errorf("failed to update order %d: %w", orderID, err)
	}

	if err := s.insertLineItemsTx(ctx, tx, orderID, input.LineItems); err != nil {
		return nil, err
	}

	order, err := fetchOrderQ(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}
	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID int) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	returned, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	order, err := fetchOrderQ(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	// A returned order's effect is already reversed; adding it back again
	// would double-credit.
	if !returned {
		for _, li := range order.LineItems {
			if err := s.inventory.AdjustTx(ctx, tx, li.ProductID, li.Quantity); err != nil {
				return nil, err
			}
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM orders WHERE id = $1", orderID); err != nil {
		return nil, fmt.Errorf("failed to delete order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order deletion: %w", err)
	}
	return order, nil
}

func (s *orderService) ReturnOrder(ctx context.Context, orderID int) error {
	return s.setReturned(ctx, orderID, true)
}

func (s *orderService) UnreturnOrder(ctx context.Context, orderID int) error {
	return s.setReturned(ctx, orderID, false)
}

// setReturned flips the returned flag and applies the matching inventory
// movement: crediting quantities on return, subtracting them on un-return.
// The FOR UPDATE lock plus the state guard make the credit happen exactly
// once even under concurrent calls.
func (s *orderService) setReturned(ctx context.Context, orderID int, returned bool) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := lockOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if current == returned {
		if returned {
			return fmt.Errorf("order %d: %w", orderID, ErrAlreadyReturned)
		}
		return fmt.Errorf("order %d: %w", orderID, ErrNotReturned)
	}

	items, err := fetchLineItemsQ(ctx, tx, orderID)
	if err != nil {
		return err
	}
	for _, li := range items {
		delta := li.Quantity
		if !returned {
			delta = delta.Neg()
		}
		if err := s.inventory.AdjustTx(ctx, tx, li.ProductID, delta); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx,
		"UPDATE orders SET returned = $1 WHERE id = $2", returned, orderID,
	); err != nil {
		return fmt.Errorf("failed to flag order %d: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit return transition: %w", err)
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	return fetchOrderQ(ctx, s.pool, orderID)
}

func (s *orderService) GetOrders(ctx context.Context, filter OrderFilter, page Page) ([]Order, int, error) {
	where := " WHERE 1=1"
	var args []any

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		where += fmt.Sprintf(" AND o.customer_id = $%d", len(args))
	}
	if filter.SalesPeriod != nil {
		args = append(args, filter.SalesPeriod.From)
		where += fmt.Sprintf(" AND o.created_at >= $%d", len(args))
		args = append(args, filter.SalesPeriod.To)
		where += fmt.Sprintf(" AND o.created_at <= $%d", len(args))
	}
	if filter.Status != nil {
		switch *filter.Status {
		case OrderStatusDue:
			where += " AND o.amount_due > 0"
		case OrderStatusPaid:
			where += " AND o.amount_due = 0"
		}
	}
	if filter.Returned != nil {
		args = append(args, *filter.Returned)
		where += fmt.Sprintf(" AND o.returned = $%d", len(args))
	}

	var count int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM orders o"+where, args...,
	).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	q := `
		SELECT o.id, o.customer_id, c.name, o.created_at, o.bill_number,
		       o.discount, o.amount_received, o.total_amount, o.amount_due, o.returned
		FROM orders o
		JOIN customers c ON c.id = o.customer_id` + where + " ORDER BY o.created_at DESC, o.id DESC"
	q, args = applyPage(q, args, page)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	var ids []int
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.CustomerName, &o.CreatedAt, &o.BillNumber,
			&o.Discount, &o.AmountReceived, &o.TotalAmount, &o.AmountDue, &o.Returned,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("order row iteration error: %w", err)
	}

	if len(ids) > 0 {
		itemsByOrder, err := fetchLineItemsForOrders(ctx, s.pool, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range orders {
			orders[i].LineItems = itemsByOrder[orders[i].ID]
		}
	}
	return orders, count, nil
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// insertLineItemsTx inserts lines and applies their inventory subtraction.
func (s *orderService) insertLineItemsTx(ctx context.Context, tx pgx.Tx, orderID int, items []LineItemInput) error {
	for i, li := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_line_items (order_id, product_id, quantity, price_per_unit)
			VALUES ($1, $2, $3, $4)
		`, orderID, li.ProductID, li.Quantity, li.PricePerUnit)
		if err != nil {
			if isForeignKeyViolation(err) {
				return &NotFoundError{Entity: "product", ID: li.ProductID}
			}
			return fmt.Errorf("failed to insert line item %d: %w", i, err)
		}
		if err := s.inventory.AdjustTx(ctx, tx, li.ProductID, li.Quantity.Neg()); err != nil {
			return err
		}
	}
	return nil
}

// lockOrder takes a row lock on the order and returns its returned flag.
// Serializes concurrent mutations targeting the same order.
func lockOrder(ctx context.Context, tx pgx.Tx, orderID int) (returned bool, err error) {
	err = tx.QueryRow(ctx,
		"SELECT returned FROM orders WHERE id = $1 FOR UPDATE", orderID,
	).Scan(&returned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, &NotFoundError{Entity: "order", ID: orderID}
		}
		return false, fmt.Errorf("failed to lock order %d: %w", orderID, err)
	}
	return returned, nil
}

func fetchOrderQ(ctx context.Context, q pgxQuerier, orderID int) (*Order, error) {
	var o Order
	err := q.QueryRow(ctx, `
		SELECT o.id, o.customer_id, c.name, o.created_at, o.bill_number,
		       o.discount, o.amount_received, o.total_amount, o.amount_due, o.returned
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, orderID).Scan(
		&o.ID, &o.CustomerID, &o.CustomerName, &o.CreatedAt, &o.BillNumber,
		&o.Discount, &o.AmountReceived, &o.TotalAmount, &o.AmountDue, &o.Returned,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "order", ID: orderID}
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	items, err := fetchLineItemsQ(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	o.LineItems = items
	return &o, nil
}

func fetchLineItemsQ(ctx context.Context, q pgxQuerier, orderID int) ([]OrderLineItem, error) {
	rows, err := q.Query(ctx, `
		SELECT li.id, li.order_id, li.product_id, p.name, li.quantity, li.price_per_unit
		FROM order_line_items li
		JOIN products p ON p.id = li.product_id
		WHERE li.order_id = $1
		ORDER BY li.id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	var items []OrderLineItem
	for rows.Next() {
		var li OrderLineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.ProductName,
			&li.Quantity, &li.PricePerUnit); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

// fetchLineItemsForOrders loads line items for a whole page of orders in one
// round trip, keyed by order id.
func fetchLineItemsForOrders(ctx context.Context, q pgxQuerier, orderIDs []int) (map[int][]OrderLineItem, error) {
	rows, err := q.Query(ctx, `
		SELECT li.id, li.order_id, li.product_id, p.name, li.quantity, li.price_per_unit
		FROM order_line_items li
		JOIN products p ON p.id = li.product_id
		WHERE li.order_id = ANY($1)
		ORDER BY li.order_id, li.id
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[int][]OrderLineItem)
	for rows.Next() {
		var li OrderLineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.ProductName,
			&li.Quantity, &li.PricePerUnit); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		byOrder[li.OrderID] = append(byOrder[li.OrderID], li)
	}
	return byOrder, rows.Err()
}

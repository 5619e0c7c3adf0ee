package app

import (
	"context"
	"time"

	"sales-ledger/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// CreateOrder records a new sale. Totals are derived from the line
	// items; each line's quantity is subtracted from product inventory.
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)

	// UpdateOrder replaces an order's content wholesale and reconciles
	// inventory with the difference between old and new line items.
	UpdateOrder(ctx context.Context, orderID int, req OrderRequest) (*OrderResult, error)

	// DeleteOrder removes an order, restoring its inventory effect unless
	// the order was already returned.
	DeleteOrder(ctx context.Context, orderID int) (*OrderResult, error)

	// ReturnOrder marks an active order returned and credits its line
	// quantities back to inventory.
	ReturnOrder(ctx context.Context, orderID int) error

	// UnreturnOrder reverses a return, subtracting the quantities again.
	UnreturnOrder(ctx context.Context, orderID int) error

	// GetOrder returns a single order with line items.
	GetOrder(ctx context.Context, orderID int) (*OrderResult, error)

	// ListOrders returns orders matching the filter, newest first, plus the
	// total count matching the filter regardless of pagination.
	ListOrders(ctx context.Context, req ListOrdersRequest) (*OrderListResult, error)

	// AddInventory records an explicit stock addition for a product.
	AddInventory(ctx context.Context, req AddInventoryRequest) (*ProductResult, error)

	// GetInventoryHistory lists a product's stock addition records.
	GetInventoryHistory(ctx context.Context, productID, skip, take int) (*InventoryHistoryResult, error)

	// CreateCustomer adds a customer, optionally assigned to an area.
	CreateCustomer(ctx context.Context, req CustomerRequest) (*CustomerResult, error)

	// UpdateCustomer edits a customer's name, phone, and area.
	UpdateCustomer(ctx context.Context, customerID int, req CustomerRequest) (*CustomerResult, error)

	// DeleteCustomer removes a customer and, through the store's cascade,
	// all of their orders.
	DeleteCustomer(ctx context.Context, customerID int) error

	// ListCustomers returns customers, optionally filtered by a
	// case-insensitive name substring.
	ListCustomers(ctx context.Context, req ListCustomersRequest) (*CustomerListResult, error)

	// CreateArea adds a delivery area.
	CreateArea(ctx context.Context, name string) (*core.Area, error)

	// DeleteArea removes an area; its customers are detached, not deleted.
	DeleteArea(ctx context.Context, areaID int) error

	// ListAreas returns delivery areas, newest first.
	ListAreas(ctx context.Context, skip, take int) (*AreaListResult, error)

	// CreateProduct adds a product with an opening inventory quantity.
	CreateProduct(ctx context.Context, req ProductRequest) (*ProductResult, error)

	// UpdateProduct edits a product's name and live price. Recorded line
	// items keep their sale-time price.
	UpdateProduct(ctx context.Context, productID int, req ProductRequest) (*ProductResult, error)

	// DeleteProduct removes a product that has no order line items.
	DeleteProduct(ctx context.Context, productID int) error

	// ListProducts returns the product catalog, newest first.
	ListProducts(ctx context.Context, skip, take int) (*ProductListResult, error)

	// CreateExpense records a standalone expense entry.
	CreateExpense(ctx context.Context, req ExpenseRequest) (*ExpenseResult, error)

	// DeleteExpense removes an expense entry.
	DeleteExpense(ctx context.Context, expenseID int) error

	// ListExpenses returns expenses, optionally restricted to a date window.
	ListExpenses(ctx context.Context, req ListExpensesRequest) (*ExpenseListResult, error)

	// GetSalesStats sums order totals and outstanding balances over a
	// date window. Returned orders are included.
	GetSalesStats(ctx context.Context, from, to time.Time) (*core.SalesStats, error)

	// GetExpenseStats sums expense amounts over a date window.
	GetExpenseStats(ctx context.Context, from, to time.Time) (*core.ExpenseStats, error)

	// GetSalesCount reports the all-time number of orders.
	GetSalesCount(ctx context.Context) (int, error)

	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// GetUser returns user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)
}

package app

import "sales-ledger/internal/core"

// OrderResult is returned by order lifecycle operations.
type OrderResult struct {
	Order *core.Order
}

// OrderListResult is returned by ListOrders. Count is the number of orders
// matching the filter, not the page length.
type OrderListResult struct {
	Orders []core.Order
	Count  int
}

// CustomerResult is returned by customer mutations.
type CustomerResult struct {
	Customer *core.Customer
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer
	Count     int
}

// AreaListResult is returned by ListAreas.
type AreaListResult struct {
	Areas []core.Area
	Count int
}

// ProductResult is returned by product mutations and AddInventory.
type ProductResult struct {
	Product *core.Product
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
	Count    int
}

// InventoryHistoryResult is returned by GetInventoryHistory.
type InventoryHistoryResult struct {
	Records []core.InventoryRecord
	Count   int
}

// ExpenseResult is returned by expense mutations.
type ExpenseResult struct {
	Expense *core.Expense
}

// ExpenseListResult is returned by ListExpenses.
type ExpenseListResult struct {
	Expenses []core.Expense
	Count    int
}

// UserSession identifies an authenticated user.
type UserSession struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// UserResult is returned by GetUser.
type UserResult struct {
	User *core.User
}

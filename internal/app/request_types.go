package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest is the input for creating or updating an order. On update the
// line items replace the existing ones wholesale.
type OrderRequest struct {
	CustomerID     int
	CreatedAt      time.Time // zero means "now"
	BillNumber     *string
	Discount       decimal.Decimal
	AmountReceived decimal.Decimal
	Lines          []OrderLineInput
}

// OrderLineInput is a single line within an OrderRequest.
type OrderLineInput struct {
	ProductID    int
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
}

// ListOrdersRequest composes optional order filters. Nil fields are not
// applied.
type ListOrdersRequest struct {
	Skip       int
	Take       int
	CustomerID *int
	From       *time.Time // both From and To must be set to filter by period
	To         *time.Time
	Status     *string // "due" or "paid"
	Returned   *bool
}

// AddInventoryRequest is the input for recording a stock addition.
type AddInventoryRequest struct {
	ProductID int
	Quantity  decimal.Decimal
	Date      time.Time // zero means "now"
}

// CustomerRequest is the input for creating or updating a customer.
type CustomerRequest struct {
	Name   string
	Phone  *string
	AreaID *int
}

// ListCustomersRequest filters the customer listing.
type ListCustomersRequest struct {
	Skip  int
	Take  int
	Query string // case-insensitive name substring; empty matches all
}

// ProductRequest is the input for creating or updating a product.
// OpeningInventory is only honored on create.
type ProductRequest struct {
	Name             string
	Price            decimal.Decimal
	OpeningInventory decimal.Decimal
}

// ExpenseRequest is the input for recording an expense.
type ExpenseRequest struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time // zero means "now"
}

// ListExpensesRequest filters the expense listing.
type ListExpensesRequest struct {
	Skip int
	Take int
	From *time.Time
	To   *time.Time
}

package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Area groups customers by delivery region.
type Area struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Customer is a buyer on the ledger. AreaID is a weak reference: deleting
// the area detaches the customer, deleting the customer removes their orders.
type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	AreaID    *int      `json:"area_id,omitempty"`
	Area      *Area     `json:"area,omitempty"` // joined when listed
	CreatedAt time.Time `json:"created_at"`
}

// Product is a sellable item with a live unit price and an on-hand quantity.
// Inventory may go negative; that is observable state, not an error.
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Inventory decimal.Decimal `json:"inventory"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InventoryRecord is one explicit stock addition. Records are append-only:
// order mutations never touch them.
type InventoryRecord struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

// Order is a sale to one customer. TotalAmount and AmountDue are derived
// on every create/update and never edited independently:
//
//	TotalAmount = Σ line.Quantity × line.PricePerUnit
//	AmountDue   = TotalAmount − Discount − AmountReceived
//
// Returned=false means the order's line quantities are currently subtracted
// from product inventory; Returned=true means that effect has been reversed.
type Order struct {
	ID             int             `json:"id"`
	CustomerID     int             `json:"customer_id"`
	CustomerName   string          `json:"customer_name"` // joined from customers
	CreatedAt      time.Time       `json:"created_at"`
	BillNumber     *string         `json:"bill_number,omitempty"`
	Discount       decimal.Decimal `json:"discount"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AmountDue      decimal.Decimal `json:"amount_due"`
	Returned       bool            `json:"returned"`
	LineItems      []OrderLineItem `json:"line_items"`
}

// OrderLineItem is one product+quantity entry on an order. PricePerUnit is
// the price captured at time of sale; later product price edits do not
// retroactively change it.
type OrderLineItem struct {
	ID           int             `json:"id"`
	OrderID      int             `json:"order_id"`
	ProductID    int             `json:"product_id"`
	ProductName  string          `json:"product_name"` // joined from products
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// LineItemInput is the caller-supplied shape of one order line.
type LineItemInput struct {
	ProductID    int
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
}

// OrderInput carries every caller-editable order field. Line items are
// replaced wholesale on update; there is no per-line patching.
type OrderInput struct {
	CustomerID     int
	CreatedAt      time.Time
	BillNumber     *string
	Discount       decimal.Decimal
	AmountReceived decimal.Decimal
	LineItems      []LineItemInput
}

// Expense is a standalone ledger entry with no inventory interaction.
type Expense struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Period is a closed date window [From, To].
type Period struct {
	From time.Time
	To   time.Time
}

// Page bounds a listing. Zero Take means "no limit".
type Page struct {
	Skip int
	Take int
}

// OrderStatus filters orders by outstanding balance.
type OrderStatus string

const (
	OrderStatusDue  OrderStatus = "due"  // amount_due > 0
	OrderStatusPaid OrderStatus = "paid" // amount_due == 0
)

// OrderFilter composes order listing constraints. All set fields are
// AND-combined; nil fields impose no constraint.
type OrderFilter struct {
	CustomerID  *int
	SalesPeriod *Period
	Status      *OrderStatus
	Returned    *bool
}

// CustomerFilter narrows customer listings. Query is a case-insensitive
// name substring match.
type CustomerFilter struct {
	Query string
}

// ExpenseFilter narrows expense listings by expense date.
type ExpenseFilter struct {
	Period *Period
}

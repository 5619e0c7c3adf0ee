package app

import (
	"context"
	"errors"
	"time"

	"sales-ledger/internal/core"
)

type appService struct {
	orders    core.OrderService
	inventory core.InventoryService
	customers core.CustomerService
	products  core.ProductService
	expenses  core.ExpenseService
	stats     core.StatsService
	users     core.UserService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	orders core.OrderService,
	inventory core.InventoryService,
	customers core.CustomerService,
	products core.ProductService,
	expenses core.ExpenseService,
	stats core.StatsService,
	users core.UserService,
) ApplicationService {
	return &appService{
		orders:    orders,
		inventory: inventory,
		customers: customers,
		products:  products,
		expenses:  expenses,
		stats:     stats,
		users:     users,
	}
}

// ErrInvalidCredentials is returned by AuthenticateUser for a bad username
// or password; adapters must not distinguish the two.
var ErrInvalidCredentials = errors.New("invalid username or password")

func (s *appService) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	order, err := s.orders.CreateOrder(ctx, toOrderInput(req))
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) UpdateOrder(ctx context.Context, orderID int, req OrderRequest) (*OrderResult, error) {
	order, err := s.orders.UpdateOrder(ctx, orderID, toOrderInput(req))
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) DeleteOrder(ctx context.Context, orderID int) (*OrderResult, error) {
	order, err := s.orders.DeleteOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) ReturnOrder(ctx context.Context, orderID int) error {
	return s.orders.ReturnOrder(ctx, orderID)
}

func (s *appService) UnreturnOrder(ctx context.Context, orderID int) error {
	return s.orders.UnreturnOrder(ctx, orderID)
}

func (s *appService) GetOrder(ctx context.Context, orderID int) (*OrderResult, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) ListOrders(ctx context.Context, req ListOrdersRequest) (*OrderListResult, error) {
	filter := core.OrderFilter{
		CustomerID: req.CustomerID,
		Returned:   req.Returned,
	}
	if req.From != nil && req.To != nil {
		filter.SalesPeriod = &core.Period{From: *req.From, To: *req.To}
	}
	if req.Status != nil {
		status := core.OrderStatus(*req.Status)
		filter.Status = &status
	}
	orders, count, err := s.orders.GetOrders(ctx, filter, core.Page{Skip: req.Skip, Take: req.Take})
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders, Count: count}, nil
}

func (s *appService) AddInventory(ctx context.Context, req AddInventoryRequest) (*ProductResult, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	product, err := s.inventory.AddInventory(ctx, req.ProductID, req.Quantity, date)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

func (s *appService) GetInventoryHistory(ctx context.Context, productID, skip, take int) (*InventoryHistoryResult, error) {
	records, count, err := s.inventory.GetInventoryHistory(ctx, productID, core.Page{Skip: skip, Take: take})
	if err != nil {
		return nil, err
	}
	return &InventoryHistoryResult{Records: records, Count: count}, nil
}

func (s *appService) CreateCustomer(ctx context.Context, req CustomerRequest) (*CustomerResult, error) {
	customer, err := s.customers.CreateCustomer(ctx, req.Name, req.Phone, req.AreaID)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) UpdateCustomer(ctx context.Context, customerID int, req CustomerRequest) (*CustomerResult, error) {
	customer, err := s.customers.UpdateCustomer(ctx, customerID, req.Name, req.Phone, req.AreaID)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) DeleteCustomer(ctx context.Context, customerID int) error {
	return s.customers.DeleteCustomer(ctx, customerID)
}

func (s *appService) ListCustomers(ctx context.Context, req ListCustomersRequest) (*CustomerListResult, error) {
	customers, count, err := s.customers.GetCustomers(ctx,
		core.CustomerFilter{Query: req.Query},
		core.Page{Skip: req.Skip, Take: req.Take})
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers, Count: count}, nil
}

func (s *appService) CreateArea(ctx context.Context, name string) (*core.Area, error) {
	return s.customers.CreateArea(ctx, name)
}

func (s *appService) DeleteArea(ctx context.Context, areaID int) error {
	return s.customers.DeleteArea(ctx, areaID)
}

func (s *appService) ListAreas(ctx context.Context, skip, take int) (*AreaListResult, error) {
	areas, count, err := s.customers.GetAreas(ctx, core.Page{Skip: skip, Take: take})
	if err != nil {
		return nil, err
	}
	return &AreaListResult{Areas: areas, Count: count}, nil
}

func (s *appService) CreateProduct(ctx context.Context, req ProductRequest) (*ProductResult, error) {
	product, err := s.products.CreateProduct(ctx, req.Name, req.Price, req.OpeningInventory)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, productID int, req ProductRequest) (*ProductResult, error) {
	product, err := s.products.UpdateProduct(ctx, productID, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

func (s *appService) DeleteProduct(ctx context.Context, productID int) error {
	return s.products.DeleteProduct(ctx, productID)
}

func (s *appService) ListProducts(ctx context.Context, skip, take int) (*ProductListResult, error) {
	products, count, err := s.products.GetProducts(ctx, core.Page{Skip: skip, Take: take})
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products, Count: count}, nil
}

func (s *appService) CreateExpense(ctx context.Context, req ExpenseRequest) (*ExpenseResult, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	expense, err := s.expenses.CreateExpense(ctx, req.Description, req.Amount, date)
	if err != nil {
		return nil, err
	}
	return &ExpenseResult{Expense: expense}, nil
}

func (s *appService) DeleteExpense(ctx context.Context, expenseID int) error {
	return s.expenses.DeleteExpense(ctx, expenseID)
}

func (s *appService) ListExpenses(ctx context.Context, req ListExpensesRequest) (*ExpenseListResult, error) {
	var filter core.ExpenseFilter
	if req.From != nil && req.To != nil {
		filter.Period = &core.Period{From: *req.From, To: *req.To}
	}
	expenses, count, err := s.expenses.GetExpenses(ctx, filter, core.Page{Skip: req.Skip, Take: req.Take})
	if err != nil {
		return nil, err
	}
	return &ExpenseListResult{Expenses: expenses, Count: count}, nil
}

func (s *appService) GetSalesStats(ctx context.Context, from, to time.Time) (*core.SalesStats, error) {
	return s.stats.GetSalesStats(ctx, core.Period{From: from, To: to})
}

func (s *appService) GetExpenseStats(ctx context.Context, from, to time.Time) (*core.ExpenseStats, error) {
	return s.stats.GetExpenseStats(ctx, core.Period{From: from, To: to})
}

func (s *appService) GetSalesCount(ctx context.Context) (int, error) {
	return s.stats.GetSalesCount(ctx)
}

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &UserSession{UserID: user.ID, Username: user.Username}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: user}, nil
}

// toOrderInput maps the request shape to the engine's input, defaulting the
// sale timestamp to now.
func toOrderInput(req OrderRequest) core.OrderInput {
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	items := make([]core.LineItemInput, len(req.Lines))
	for i, l := range req.Lines {
		items[i] = core.LineItemInput{
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			PricePerUnit: l.PricePerUnit,
		}
	}
	return core.OrderInput{
		CustomerID:     req.CustomerID,
		CreatedAt:      createdAt,
		BillNumber:     req.BillNumber,
		Discount:       req.Discount,
		AmountReceived: req.AmountReceived,
		LineItems:      items,
	}
}
